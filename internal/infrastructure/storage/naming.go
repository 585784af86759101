package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// sourceFileName extracts the final path component of sourcePath.
// Trailing "." components are dropped first, so "photos/." names "photos".
// ok is false for paths with no usable name: "", "/", ".", "..", "dir/..".
func sourceFileName(sourcePath string) (name string, ok bool) {
	if sourcePath == "" {
		return "", false
	}
	sep := string(filepath.Separator)
	trimmed := strings.TrimRight(sourcePath, sep)
	for strings.HasSuffix(trimmed, sep+".") {
		trimmed = strings.TrimRight(strings.TrimSuffix(trimmed, sep+"."), sep)
	}
	if trimmed == "" {
		return "", false
	}
	name = filepath.Base(trimmed)
	switch name {
	case ".", "..", string(filepath.Separator):
		return "", false
	}
	return name, true
}

// splitName splits a file name into stem and extension (without the dot).
// Dotfiles such as ".hidden" have no extension.
func splitName(name string) (stem, ext string) {
	dotExt := filepath.Ext(name)
	stem = strings.TrimSuffix(name, dotExt)
	if stem == "" {
		return name, ""
	}
	return stem, strings.TrimPrefix(dotExt, ".")
}

// candidateName returns stem-n.ext, or stem-n when ext is empty
func candidateName(stem, ext string, n int) string {
	if ext == "" {
		return fmt.Sprintf("%s-%d", stem, n)
	}
	return fmt.Sprintf("%s-%d.%s", stem, n, ext)
}

// uniqueName picks the first name in dir that no existing entry occupies:
// name itself, then stem-1.ext, stem-2.ext, ... counting up from 1 on every call.
// Only names are compared, never contents. The check and the later write are
// not atomic, so concurrent imports of the same name can race.
func uniqueName(afs afero.Fs, dir, name string) (string, error) {
	stem, ext := splitName(name)

	for n := 0; ; n++ {
		candidate := name
		if n > 0 {
			candidate = candidateName(stem, ext, n)
		}
		taken, err := occupied(afs, filepath.Join(dir, candidate))
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}

// occupied reports whether anything, including a dangling symlink, exists at path
func occupied(afs afero.Fs, path string) (bool, error) {
	var err error
	if l, ok := afs.(afero.Lstater); ok {
		_, _, err = l.LstatIfPossible(path)
	} else {
		_, err = afs.Stat(path)
	}
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
