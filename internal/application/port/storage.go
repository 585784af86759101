package port

import (
	"context"
	"io"

	"github.com/garyjia/presentor/internal/domain/entity"
)

// PresentationRepository defines presentation document operations.
// Every call re-reads the filesystem; nothing is cached between calls.
type PresentationRepository interface {
	List(rootDir string) ([]entity.FileEntry, error)
	Read(path string) (string, error)
	Save(path string, content string) error
	Delete(path string) error
}

// ImageRepository defines image asset operations under <storageDir>/images
type ImageRepository interface {
	List(storageDir string) ([]entity.ImageEntry, error)
	Import(storageDir, sourcePath string) (string, error)
	Delete(imagePath string) error
	Open(imagePath string) (io.ReadCloser, string, error)
}

// RootResolver computes the default storage root
type RootResolver interface {
	DefaultRoot() (string, error)
}

// ChangeWatcher streams change events for a storage root
type ChangeWatcher interface {
	Start(ctx context.Context) error
	Subscribe() (<-chan entity.ChangeEvent, func())
	Stop()
}
