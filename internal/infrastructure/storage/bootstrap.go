package storage

import (
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const dirPerm = 0755

// Bootstrap provisions storage directories on demand
type Bootstrap struct {
	fs     afero.Fs
	logger *zap.Logger
}

// NewBootstrap creates a new Bootstrap
func NewBootstrap(fs afero.Fs, logger *zap.Logger) *Bootstrap {
	return &Bootstrap{
		fs:     fs,
		logger: logger,
	}
}

// EnsureDirectory creates path and any missing parents.
// Calling it on an existing directory is a no-op.
func (b *Bootstrap) EnsureDirectory(path string) error {
	if info, err := b.fs.Stat(path); err == nil {
		if !info.IsDir() {
			b.logger.Error("Storage path exists but is not a directory",
				zap.String("path", path))
			return ioError("failed to create directory", path,
				fmt.Errorf("%s exists but is not a directory", path))
		}
		return nil
	}

	if err := b.fs.MkdirAll(path, dirPerm); err != nil {
		b.logger.Error("Failed to create directory",
			zap.String("path", path),
			zap.Error(err))
		return ioError("failed to create directory", path, err)
	}

	b.logger.Debug("Created directory",
		zap.String("path", path))

	return nil
}
