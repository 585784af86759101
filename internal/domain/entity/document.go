package entity

import "strings"

// FileEntry describes one presentation document on disk
type FileEntry struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir"` // Always false for listed documents
}

// IsPresentationName reports whether name looks like a presentation document
func IsPresentationName(name string) bool {
	return strings.HasSuffix(name, PresentationExt)
}
