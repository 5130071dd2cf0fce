package model

// RootParent is the sentinel parent reference of top-level records.
const RootParent = "0"

// Valid values for File.Type
const (
	TypeFolder = "folder"
	TypeFile   = "file"
	TypeImage  = "image"
)

type File struct {
	ID       string `gorm:"primaryKey" json:"id"`
	UserID   string `gorm:"index;not null" json:"userId"`
	Name     string `gorm:"not null" json:"name"`
	Type     string `gorm:"not null" json:"type"`
	IsPublic bool   `json:"isPublic"`
	ParentID string `gorm:"index;not null;default:'0'" json:"parentId"`

	// LocalPath is the content reference inside the content area. Folders
	// never have one. Never serialized into responses.
	LocalPath string `json:"-"`

	// MimeType is sniffed from the uploaded bytes at upload time. Serving
	// still derives the Content-Type from the record name's extension.
	MimeType  string `json:"mimeType,omitempty"`
	CreatedAt int64  `gorm:"not null" json:"created_at"`
}

func (f *File) IsFolder() bool {
	return f.Type == TypeFolder
}

// ValidType reports whether t is one of the accepted record types.
func ValidType(t string) bool {
	return t == TypeFolder || t == TypeFile || t == TypeImage
}
