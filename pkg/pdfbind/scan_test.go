package pdfbind

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testExts = map[string]bool{".png": true, ".jpg": true}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
}

func folderImageNames(f Folder) []string {
	ns := make([]string, 0, len(f.Images))
	for _, img := range f.Images {
		ns = append(ns, img.Name)
	}
	return ns
}

func TestScan(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "shots")

	touch(t, filepath.Join(root, "a-10.png"))
	touch(t, filepath.Join(root, "a-2.png"))
	touch(t, filepath.Join(root, "a-1.png"))
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, "sub", "b-1.jpg"))
	// "empty" has no direct images, but its child does
	touch(t, filepath.Join(root, "empty", "deep", "c-1.png"))

	res, err := Scan(root, testExts)
	require.NoError(t, err)

	// keys are relative to the root's parent; folders without direct
	// images are omitted
	keys := make([]string, 0, len(res.Folders))
	for _, f := range res.Folders {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{
		filepath.Join("shots", "empty", "deep"),
		filepath.Join("shots", "sub"),
		"shots",
	}, keys)

	for _, f := range res.Folders {
		if f.Key == "shots" {
			assert.Equal(t, []string{"a-1.png", "a-2.png", "a-10.png"}, folderImageNames(f))
		}
	}
}

func TestScanEntryFields(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "in")
	touch(t, filepath.Join(root, "Photo.PNG"))

	res, err := Scan(root, testExts)
	require.NoError(t, err)
	require.Len(t, res.Folders, 1)
	require.Len(t, res.Folders[0].Images, 1)

	img := res.Folders[0].Images[0]
	assert.Equal(t, filepath.Join(root, "Photo.PNG"), img.Path)
	assert.Equal(t, "Photo.PNG", img.Name)
	assert.Equal(t, ".png", img.Ext)
}

func TestScanNoImages(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "in")
	touch(t, filepath.Join(root, "readme.md"))

	res, err := Scan(root, testExts)
	require.NoError(t, err)
	assert.Empty(t, res.Folders)
}

func TestScanMissingRoot(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "nope"), testExts)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestScanRootNotADirectory(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "file.png")
	touch(t, file)

	_, err := Scan(file, testExts)
	require.ErrorIs(t, err, ErrNotADirectory)
}
