package files

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sukryu/pSite/pkg/errors"
)

// smallest valid PNG header mimetype recognises
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

func TestStorage_SaveAndCollisions(t *testing.T) {
	s, err := NewStorage(t.TempDir(), 0)
	require.NoError(t, err)

	first, err := s.Save("My Photo.PNG", bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "my-photo.png", first.Name)
	assert.Equal(t, "/assets/my-photo.png", first.Path)
	assert.EqualValues(t, len(pngBytes), first.Size)

	second, err := s.Save("my photo.png", bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "my-photo-copy1.png", second.Name)

	third, err := s.Save("my-photo.png", bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "my-photo-copy2.png", third.Name)

	images, err := s.List()
	require.NoError(t, err)
	assert.Len(t, images, 3)
}

func TestStorage_ExtensionFromContent(t *testing.T) {
	s, err := NewStorage(t.TempDir(), 0)
	require.NoError(t, err)

	img, err := s.Save("noext", bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "noext.png", img.Name)
}

func TestStorage_RejectsNonImages(t *testing.T) {
	s, err := NewStorage(t.TempDir(), 0)
	require.NoError(t, err)

	_, err = s.Save("evil.png", strings.NewReader("#!/bin/sh\necho hi\n"))
	assert.ErrorIs(t, err, errors.ErrUnsupportedMedia)

	_, err = s.Save("empty.png", bytes.NewReader(nil))
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestStorage_MaxSize(t *testing.T) {
	s, err := NewStorage(t.TempDir(), 16)
	require.NoError(t, err)

	_, err = s.Save("big.png", bytes.NewReader(pngBytes))
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestStorage_Path(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStorage(dir, 0)
	require.NoError(t, err)

	img, err := s.Save("a.png", bytes.NewReader(pngBytes))
	require.NoError(t, err)

	p, err := s.Path(img.Name)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.png"), p)

	for _, name := range []string{"", "../secret.txt", "..", ".", "sub/a.png", "missing.png"} {
		_, err := s.Path(name)
		assert.ErrorIs(t, err, errors.ErrNotFound, name)
	}
}
