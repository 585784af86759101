package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestPresentationRepo(t *testing.T) *PresentationRepository {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	return NewPresentationRepository(afero.NewOsFs(), logger)
}

func TestPresentationRepository_List(t *testing.T) {
	repo := newTestPresentationRepo(t)

	t.Run("provisions a fresh root and stays empty", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "Presentor")

		first, err := repo.List(root)
		require.NoError(t, err)
		second, err := repo.List(root)
		require.NoError(t, err)

		assert.DirExists(t, root)
		assert.Empty(t, first)
		assert.Empty(t, second)
		assert.NotNil(t, first)
	})

	t.Run("keeps only regular json files", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.json"), []byte("{}"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), []byte("b"), 0644))
		require.NoError(t, os.Mkdir(filepath.Join(root, "c"), 0755))
		require.NoError(t, os.Mkdir(filepath.Join(root, "d.json"), 0755))

		entries, err := repo.List(root)

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "a.json", entries[0].Name)
		assert.Equal(t, filepath.Join(root, "a.json"), entries[0].Path)
		assert.False(t, entries[0].IsDir)
	})

	t.Run("follows symlinks to files", func(t *testing.T) {
		root := t.TempDir()
		target := filepath.Join(t.TempDir(), "real.json")
		require.NoError(t, os.WriteFile(target, []byte("{}"), 0644))
		require.NoError(t, os.Symlink(target, filepath.Join(root, "linked.json")))
		require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "dangling.json")))

		entries, err := repo.List(root)

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "linked.json", entries[0].Name)
	})

	t.Run("fails when root is a file", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(root, []byte("x"), 0644))

		_, err := repo.List(root)

		require.Error(t, err)
		assert.Equal(t, KindIO, KindOf(err))
	})
}

func TestPresentationRepository_SaveAndRead(t *testing.T) {
	repo := newTestPresentationRepo(t)
	root := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"plain json", `{"title":"Quarterly review","slides":[]}`},
		{"empty content", ""},
		{"multi-byte content", `{"title":"スライド 🎉 ünïcödé"}`},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(root, "deck"+string(rune('a'+i))+".json")

			require.NoError(t, repo.Save(path, tt.content))
			got, err := repo.Read(path)

			require.NoError(t, err)
			assert.Equal(t, tt.content, got)
		})
	}

	t.Run("overwrites existing file", func(t *testing.T) {
		path := filepath.Join(root, "overwrite.json")

		require.NoError(t, repo.Save(path, `{"version":1,"padding":"xxxxxxxxxxxxxxxx"}`))
		require.NoError(t, repo.Save(path, `{"version":2}`))

		got, err := repo.Read(path)
		require.NoError(t, err)
		assert.Equal(t, `{"version":2}`, got)
	})

	t.Run("creates parent directories", func(t *testing.T) {
		path := filepath.Join(root, "nested", "folder", "deck.json")

		require.NoError(t, repo.Save(path, "{}"))

		assert.FileExists(t, path)
	})
}

func TestPresentationRepository_Read(t *testing.T) {
	repo := newTestPresentationRepo(t)

	t.Run("missing file is not found with cause", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing.json")

		_, err := repo.Read(path)

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.True(t, errors.Is(err, os.ErrNotExist))
		assert.Contains(t, err.Error(), "failed to read file")
		assert.Contains(t, err.Error(), "missing.json")
	})

	t.Run("directory is an io error", func(t *testing.T) {
		_, err := repo.Read(t.TempDir())

		require.Error(t, err)
		assert.Equal(t, KindIO, KindOf(err))
	})
}

func TestPresentationRepository_Delete(t *testing.T) {
	repo := newTestPresentationRepo(t)

	t.Run("deleted file disappears from listing", func(t *testing.T) {
		root := t.TempDir()
		keep := filepath.Join(root, "keep.json")
		gone := filepath.Join(root, "gone.json")
		require.NoError(t, repo.Save(keep, "{}"))
		require.NoError(t, repo.Save(gone, "{}"))

		require.NoError(t, repo.Delete(gone))

		entries, err := repo.List(root)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "keep.json", entries[0].Name)
		assert.NoFileExists(t, gone)
	})

	t.Run("missing file is not found", func(t *testing.T) {
		err := repo.Delete(filepath.Join(t.TempDir(), "nope.json"))

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("unlinks a dangling symlink", func(t *testing.T) {
		root := t.TempDir()
		link := filepath.Join(root, "gone.json")
		require.NoError(t, os.Symlink(filepath.Join(root, "nowhere"), link))

		require.NoError(t, repo.Delete(link))

		_, err := os.Lstat(link)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("unlinks a symlink to a directory", func(t *testing.T) {
		root := t.TempDir()
		target := filepath.Join(root, "folder")
		require.NoError(t, os.Mkdir(target, 0755))
		link := filepath.Join(root, "linked.json")
		require.NoError(t, os.Symlink(target, link))

		require.NoError(t, repo.Delete(link))

		_, err := os.Lstat(link)
		assert.True(t, errors.Is(err, os.ErrNotExist))
		assert.DirExists(t, target)
	})

	t.Run("refuses directories", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "folder.json")
		require.NoError(t, os.Mkdir(dir, 0755))

		err := repo.Delete(dir)

		require.Error(t, err)
		assert.Equal(t, KindIO, KindOf(err))
		assert.DirExists(t, dir)
	})
}
