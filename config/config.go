// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	configPath     = pflag.String("config", ".", "Directory to look for config.toml in")
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
)

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(*configPath)

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "port")

	v.BindEnv("db.path", "db_path")

	v.BindEnv("redis.addr", "redis_addr")

	v.BindEnv("storage.folder_path", "folder_path")

	v.BindEnv("session.ttl_hours", "session_ttl_hours")

	v.BindEnv("files.page_size", "files_page_size")

	v.BindEnv("upload.max_size", "upload_max_size")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 5000)

	v.SetDefault("db.path", "database.db")

	v.SetDefault("redis.addr", "localhost:6379")

	v.SetDefault("storage.folder_path", "/tmp/files_manager")

	v.SetDefault("session.ttl_hours", 24)

	v.SetDefault("files.page_size", 20)

	v.SetDefault("upload.max_size", 50)

	// The config file only overrides envs and defaults, running
	// without one is fine
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetString("db.path") == "" {
		return errors.New("db.path can't be empty")
	}

	if v.GetString("redis.addr") == "" {
		return errors.New("redis.addr can't be empty")
	}

	if v.GetString("storage.folder_path") == "" {
		return errors.New("storage.folder_path can't be empty")
	}

	if v.GetInt("session.ttl_hours") <= 0 {
		return errors.New("session.ttl_hours must be bigger than 0")
	}

	if v.GetInt("files.page_size") <= 0 {
		return errors.New("files.page_size must be bigger than 0")
	}

	if v.GetInt("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	// Megabytes in the config, bytes everywhere else
	v.Set("upload.max_size", v.GetInt64("upload.max_size")<<20)

	return nil
}
