package files

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/sukryu/pSite/pkg/apis/site/v1alpha1"
	"github.com/sukryu/pSite/pkg/errors"
	"github.com/sukryu/pSite/pkg/utils/slug"
)

const (
	DefaultMaxSize = 10 << 20
	PublicPrefix   = "/assets/"
	maxCopies      = 1000
)

// Storage keeps uploaded images in a single flat directory and hands out
// their public paths.
type Storage struct {
	dir     string
	maxSize int64
}

func NewStorage(dir string, maxSize int64) (*Storage, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Storage{dir: dir, maxSize: maxSize}, nil
}

// Save stores r under a sanitised version of name. An existing file is never
// overwritten: "photo.png" becomes "photo-copy1.png", "photo-copy2.png", ...
func (s *Storage) Save(name string, r io.Reader) (*v1alpha1.Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return nil, errors.ErrFileOperation.WithReason("read upload")
	}
	if int64(len(data)) > s.maxSize {
		return nil, errors.ErrInvalidInput.WithReason(fmt.Sprintf("file exceeds %d bytes", s.maxSize))
	}
	if len(data) == 0 {
		return nil, errors.ErrInvalidInput.WithReason("empty file")
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, errors.ErrUnsupportedMedia.WithReason(mt.String())
	}

	clean := slug.Filename(name)
	ext := filepath.Ext(clean)
	if ext == "" {
		ext = mt.Extension()
	}
	stem := strings.TrimSuffix(clean, filepath.Ext(clean))

	for i := 0; i < maxCopies; i++ {
		candidate := stem + ext
		if i > 0 {
			candidate = fmt.Sprintf("%s-copy%d%s", stem, i, ext)
		}

		f, err := os.OpenFile(filepath.Join(s.dir, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrFileOperation.WithReason("create file"), err)
		}

		if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
			f.Close()
			os.Remove(f.Name())
			return nil, fmt.Errorf("%w: %v", errors.ErrFileOperation.WithReason("write file"), err)
		}
		if err := f.Close(); err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrFileOperation.WithReason("close file"), err)
		}
		return s.stat(candidate)
	}
	return nil, errors.ErrFileOperation.WithReason("too many copies of " + clean)
}

func (s *Storage) List() ([]v1alpha1.Image, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrFileOperation.WithReason("read upload dir"), err)
	}

	images := make([]v1alpha1.Image, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		img, err := s.stat(e.Name())
		if err != nil {
			continue
		}
		images = append(images, *img)
	}
	sort.Slice(images, func(i, j int) bool {
		if images[i].ModTime.Equal(images[j].ModTime) {
			return images[i].Name < images[j].Name
		}
		return images[i].ModTime.After(images[j].ModTime)
	})
	return images, nil
}

// Path returns the on-disk location of a stored file. Names containing path
// separators or dot segments are rejected.
func (s *Storage) Path(name string) (string, error) {
	if name == "" || name != path.Base(name) || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", errors.ErrNotFound.WithReason("images/" + name)
	}
	p := filepath.Join(s.dir, name)
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return "", errors.ErrNotFound.WithReason("images/" + name)
	}
	return p, nil
}

func (s *Storage) stat(name string) (*v1alpha1.Image, error) {
	info, err := os.Stat(filepath.Join(s.dir, name))
	if err != nil {
		return nil, err
	}
	return &v1alpha1.Image{
		Name:    name,
		Path:    PublicPrefix + name,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}
