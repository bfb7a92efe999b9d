package diskstorage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiskStorage_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	s, err := New(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	data := []byte("image-bytes")
	require.NoError(t, s.Put(ctx, "scan/abc.png", int64(len(data)), "image/png", bytes.NewReader(data)))

	rc, ctype, err := s.Get(ctx, "scan/abc.png")
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, data, got)
	require.Equal(t, "image/png", ctype)

	require.NoError(t, s.Delete(ctx, "scan/abc.png"))
	_, err = os.Stat(filepath.Join(s.Root(), "scan", "abc.png"))
	require.ErrorIs(t, err, os.ErrNotExist)

	// повторное удаление - не ошибка
	require.NoError(t, s.Delete(ctx, "scan/abc.png"))

	_, _, err = s.Get(ctx, "scan/abc.png")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDiskStorage_NoTempLeftovers(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "a.jpg", -1, "image/jpeg", bytes.NewReader([]byte("x"))))
	// размер не совпал - файл не должен появиться
	require.Error(t, s.Put(ctx, "b.jpg", 10, "image/jpeg", bytes.NewReader([]byte("x"))))

	entries, err := os.ReadDir(s.Root())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "a.jpg", entries[0].Name())
}

func TestDiskStorage_BadKeys(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	require.NoError(t, err)

	keys := []string{
		"",
		"../escape.jpg",
		"scan/../../escape.jpg",
		"/etc/passwd",
		`..\win.jpg`,
		".",
	}

	for _, k := range keys {
		t.Run(k, func(t *testing.T) {
			err := s.Put(ctx, k, 1, "image/jpeg", bytes.NewReader([]byte("x")))
			require.ErrorIs(t, err, ErrBadKey)

			_, _, err = s.Get(ctx, k)
			require.ErrorIs(t, err, ErrBadKey)

			require.ErrorIs(t, s.Delete(ctx, k), ErrBadKey)
		})
	}
}

func TestDiskStorage_NilReader(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	require.Error(t, s.Put(context.Background(), "a.jpg", 1, "image/jpeg", nil))
}

func TestDiskStorage_CanceledContext(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, s.Put(ctx, "a.jpg", 1, "image/jpeg", bytes.NewReader([]byte("x"))), context.Canceled)
}
