package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/garyjia/presentor/internal/application/port"
	"github.com/garyjia/presentor/internal/domain/entity"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ImagesDir returns the image asset directory for a storage root
func ImagesDir(storageDir string) string {
	return filepath.Join(storageDir, entity.ImagesDirName)
}

// ImageRepository implements port.ImageRepository on an afero.Fs
type ImageRepository struct {
	fs     afero.Fs
	dirs   *Bootstrap
	logger *zap.Logger
}

var _ port.ImageRepository = (*ImageRepository)(nil)

// NewImageRepository creates a new ImageRepository
func NewImageRepository(fs afero.Fs, logger *zap.Logger) *ImageRepository {
	return &ImageRepository{
		fs:     fs,
		dirs:   NewBootstrap(fs, logger),
		logger: logger,
	}
}

// List returns the image assets in <storageDir>/images.
// A missing images directory is created and reported as empty.
func (r *ImageRepository) List(storageDir string) ([]entity.ImageEntry, error) {
	imagesDir := ImagesDir(storageDir)
	entries := make([]entity.ImageEntry, 0)

	exists, err := afero.Exists(r.fs, imagesDir)
	if err != nil {
		return nil, ioError("failed to list images", imagesDir, err)
	}
	if !exists {
		if err := r.dirs.EnsureDirectory(imagesDir); err != nil {
			return nil, err
		}
		return entries, nil
	}

	infos, err := afero.ReadDir(r.fs, imagesDir)
	if err != nil {
		r.logger.Error("Failed to read images directory",
			zap.String("path", imagesDir),
			zap.Error(err))
		return nil, ioError("failed to list images", imagesDir, err)
	}

	for _, info := range infos {
		name := info.Name()
		path := filepath.Join(imagesDir, name)
		if !entity.IsImageName(name) || !isRegularFile(r.fs, path, info) {
			continue
		}
		entries = append(entries, entity.ImageEntry{
			Name: name,
			Path: path,
		})
	}

	r.logger.Debug("Listed images",
		zap.String("path", imagesDir),
		zap.Int("count", len(entries)))

	return entries, nil
}

// Import copies sourcePath into <storageDir>/images under a name that does not
// collide with any existing file, and returns that name.
func (r *ImageRepository) Import(storageDir, sourcePath string) (string, error) {
	imagesDir := ImagesDir(storageDir)
	if err := r.dirs.EnsureDirectory(imagesDir); err != nil {
		return "", err
	}

	fileName, ok := sourceFileName(sourcePath)
	if !ok {
		r.logger.Warn("Rejected image import without a file name",
			zap.String("source", sourcePath))
		return "", &Error{Kind: KindInvalidSourcePath, Op: "invalid source path", Path: sourcePath}
	}

	destName, err := uniqueName(r.fs, imagesDir, fileName)
	if err != nil {
		r.logger.Error("Failed to resolve image name",
			zap.String("dir", imagesDir),
			zap.String("name", fileName),
			zap.Error(err))
		return "", ioError("failed to copy image", sourcePath, err)
	}

	destPath := filepath.Join(imagesDir, destName)
	size, err := r.copyFile(sourcePath, destPath)
	if err != nil {
		r.logger.Error("Failed to copy image",
			zap.String("source", sourcePath),
			zap.String("dest", destPath),
			zap.Error(err))
		return "", ioError("failed to copy image", sourcePath, err)
	}

	r.logger.Info("Image imported",
		zap.String("source", sourcePath),
		zap.String("file_name", destName),
		zap.Int64("size", size))

	return destName, nil
}

// Delete removes the image at imagePath
func (r *ImageRepository) Delete(imagePath string) error {
	if err := removeFile(r.fs, imagePath); err != nil {
		r.logger.Error("Failed to delete image",
			zap.String("path", imagePath),
			zap.Error(err))
		return pathError("failed to delete image", imagePath, err)
	}

	r.logger.Debug("Image deleted successfully",
		zap.String("path", imagePath))

	return nil
}

// Open returns a reader over the image at imagePath and its detected content type.
// The caller must close the reader.
func (r *ImageRepository) Open(imagePath string) (io.ReadCloser, string, error) {
	if !entity.IsImageName(filepath.Base(imagePath)) {
		return nil, "", ioError("failed to open image", imagePath,
			fmt.Errorf("%s does not have an image extension", imagePath))
	}

	f, err := r.fs.Open(imagePath)
	if err != nil {
		return nil, "", pathError("failed to open image", imagePath, err)
	}

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		f.Close()
		if err == nil {
			err = fmt.Errorf("%s is not a regular file", imagePath)
		}
		return nil, "", ioError("failed to open image", imagePath, err)
	}

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return nil, "", ioError("failed to open image", imagePath, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, "", ioError("failed to open image", imagePath, err)
	}

	return f, mtype.String(), nil
}

// copyFile copies the regular file at src to dst, truncating dst.
// A failed copy may leave a partial dst behind.
func (r *ImageRepository) copyFile(src, dst string) (int64, error) {
	info, err := r.fs.Stat(src)
	if err != nil {
		return 0, err
	}
	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("%s is not a regular file", src)
	}

	in, err := r.fs.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := r.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return n, err
	}
	return n, out.Close()
}
