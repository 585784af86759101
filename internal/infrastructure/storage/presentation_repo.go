package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/garyjia/presentor/internal/application/port"
	"github.com/garyjia/presentor/internal/domain/entity"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const filePerm = 0644

// PresentationRepository implements port.PresentationRepository on an afero.Fs
type PresentationRepository struct {
	fs     afero.Fs
	dirs   *Bootstrap
	logger *zap.Logger
}

var _ port.PresentationRepository = (*PresentationRepository)(nil)

// NewPresentationRepository creates a new PresentationRepository
func NewPresentationRepository(fs afero.Fs, logger *zap.Logger) *PresentationRepository {
	return &PresentationRepository{
		fs:     fs,
		dirs:   NewBootstrap(fs, logger),
		logger: logger,
	}
}

// List returns the presentation documents directly inside rootDir,
// creating rootDir first if it does not exist.
func (r *PresentationRepository) List(rootDir string) ([]entity.FileEntry, error) {
	if err := r.dirs.EnsureDirectory(rootDir); err != nil {
		return nil, err
	}

	infos, err := afero.ReadDir(r.fs, rootDir)
	if err != nil {
		r.logger.Error("Failed to read presentation directory",
			zap.String("path", rootDir),
			zap.Error(err))
		return nil, ioError("failed to list presentations", rootDir, err)
	}

	entries := make([]entity.FileEntry, 0, len(infos))
	for _, info := range infos {
		name := info.Name()
		path := filepath.Join(rootDir, name)
		if !entity.IsPresentationName(name) || !isRegularFile(r.fs, path, info) {
			continue
		}
		entries = append(entries, entity.FileEntry{
			Name:  name,
			Path:  path,
			IsDir: false,
		})
	}

	r.logger.Debug("Listed presentations",
		zap.String("path", rootDir),
		zap.Int("count", len(entries)))

	return entries, nil
}

// Read returns the full text content of the document at path
func (r *PresentationRepository) Read(path string) (string, error) {
	content, err := afero.ReadFile(r.fs, path)
	if err != nil {
		r.logger.Error("Failed to read presentation",
			zap.String("path", path),
			zap.Error(err))
		return "", pathError("failed to read file", path, err)
	}

	r.logger.Debug("Presentation read successfully",
		zap.String("path", path),
		zap.Int("size", len(content)))

	return string(content), nil
}

// Save writes content to path, replacing any existing file.
// The parent directory is created if needed. The write is not atomic.
func (r *PresentationRepository) Save(path string, content string) error {
	if err := r.dirs.EnsureDirectory(filepath.Dir(path)); err != nil {
		return err
	}

	if err := afero.WriteFile(r.fs, path, []byte(content), filePerm); err != nil {
		r.logger.Error("Failed to save presentation",
			zap.String("path", path),
			zap.Error(err))
		return ioError("failed to save file", path, err)
	}

	r.logger.Debug("Presentation saved successfully",
		zap.String("path", path),
		zap.Int("size", len(content)))

	return nil
}

// Delete removes the document at path
func (r *PresentationRepository) Delete(path string) error {
	if err := removeFile(r.fs, path); err != nil {
		r.logger.Error("Failed to delete presentation",
			zap.String("path", path),
			zap.Error(err))
		return pathError("failed to delete file", path, err)
	}

	r.logger.Debug("Presentation deleted successfully",
		zap.String("path", path))

	return nil
}

// isRegularFile reports whether a directory entry is a regular file,
// following symlinks the way a plain stat would.
func isRegularFile(fs afero.Fs, path string, info os.FileInfo) bool {
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := fs.Stat(path)
		if err != nil {
			return false
		}
		info = target
	}
	return info.Mode().IsRegular()
}

// removeFile deletes a single file, refusing directories. Symlinks are
// unlinked without following them, dangling or not.
func removeFile(fs afero.Fs, path string) error {
	var info os.FileInfo
	var err error
	if l, ok := fs.(afero.Lstater); ok {
		info, _, err = l.LstatIfPossible(path)
	} else {
		info, err = fs.Stat(path)
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return fs.Remove(path)
}
