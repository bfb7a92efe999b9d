// Package diskstorage keeps uploaded images in a local directory
package diskstorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

var ErrBadKey = errors.New("storage key escapes upload directory")

type DiskStorage struct {
	root string
}

// New creates root (and parents) if needed
func New(root string) (*DiskStorage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir %q: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir %q: %w", abs, err)
	}
	return &DiskStorage{root: abs}, nil
}

func (s *DiskStorage) Root() string { return s.root }

// Put пишет во временный файл рядом и переименовывает - читатель не увидит недописанный файл
func (s *DiskStorage) Put(ctx context.Context, key string, size int64, contentType string, r io.Reader) error {
	if r == nil {
		return errors.New("nil reader passed to storage.Put")
	}
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return err
	}
	defer func() {
		// после успешного Rename файла уже нет - ошибку игнорируем
		_ = os.Remove(tmp.Name())
	}()

	n, err := io.Copy(tmp, r)
	if err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if size >= 0 && n != size {
		return fmt.Errorf("write %q: expected %d bytes, got %d", key, size, n)
	}

	return os.Rename(tmp.Name(), path)
}

func (s *DiskStorage) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, "", err
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}

	return f, mime.TypeByExtension(filepath.Ext(path)), nil
}

// Delete is idempotent
func (s *DiskStorage) Delete(_ context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *DiskStorage) resolve(key string) (string, error) {
	if key == "" || filepath.IsAbs(key) || strings.Contains(key, `\`) {
		return "", fmt.Errorf("%w: %q", ErrBadKey, key)
	}
	path := filepath.Join(s.root, filepath.FromSlash(key))
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%w: %q", ErrBadKey, key)
	}
	return path, nil
}
