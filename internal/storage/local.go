// Package storage is the process-local content area. Records only hold a
// content reference, the bytes themselves live here.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

type Local struct {
	root string
}

func NewLocal(root string) *Local {
	return &Local{root: root}
}

// Path resolves a content reference to a filesystem path.
func (l *Local) Path(ref string) string {
	return filepath.Join(l.root, ref)
}

// ThumbRef derives the deterministic content reference of a thumbnail
// from the original reference and the target width.
func ThumbRef(ref string, width int) string {
	return fmt.Sprintf("%s_%d", ref, width)
}

// Write stores content under ref, creating the content area if absent.
func (l *Local) Write(ref string, data []byte) error {
	if err := os.MkdirAll(l.root, 0o755); err != nil {
		return fmt.Errorf("failed to create content area, %w", err)
	}

	if err := os.WriteFile(l.Path(ref), data, 0o644); err != nil {
		return fmt.Errorf("failed to write content, %w", err)
	}

	return nil
}

func (l *Local) Read(ref string) ([]byte, error) {
	return os.ReadFile(l.Path(ref))
}

func (l *Local) Exists(ref string) bool {
	_, err := os.Stat(l.Path(ref))
	return err == nil
}
