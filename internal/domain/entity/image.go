package entity

import (
	"path/filepath"
	"strings"
)

// ImageEntry describes one image asset on disk
type ImageEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// IsImageName reports whether name carries an allow-listed image extension.
// The comparison is case-insensitive, so "photo.PNG" matches. Dotfiles such
// as ".png" have no extension.
func IsImageName(name string) bool {
	dotExt := filepath.Ext(name)
	if dotExt == name {
		return false
	}
	ext := strings.TrimPrefix(dotExt, ".")
	if ext == "" {
		return false
	}
	ext = strings.ToLower(ext)
	for _, allowed := range ImageExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
