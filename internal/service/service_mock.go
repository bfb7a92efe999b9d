package service

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"io"
	"io/fs"
	"sync"

	"github.com/UnendingLoop/FoodScanner/internal/barcode"
	"github.com/UnendingLoop/FoodScanner/internal/model"
)

type mockStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	ctypes  map[string]string
	deleted []string

	putErr error
	getErr error
}

func newMockStorage() *mockStorage {
	return &mockStorage{objects: map[string][]byte{}, ctypes: map[string]string{}}
}

func (m *mockStorage) Put(ctx context.Context, key string, size int64, ct string, r io.Reader) error {
	if m.putErr != nil {
		return m.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	m.ctypes[key] = ct
	return nil
}

func (m *mockStorage) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if m.getErr != nil {
		return nil, "", m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, "", fs.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), m.ctypes[key], nil
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *mockStorage) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]string, 0, len(m.objects))
	for k := range m.objects {
		res = append(res, k)
	}
	return res
}

//----------------------------------

type mockDetector struct {
	detectFn func(img image.Image) (*barcode.Symbol, error)
}

func (m *mockDetector) Detect(img image.Image) (*barcode.Symbol, error) {
	return m.detectFn(img)
}

type mockLookup struct {
	productFn func(ctx context.Context, code string) (*model.Product, error)
}

func (m *mockLookup) Product(ctx context.Context, code string) (*model.Product, error) {
	return m.productFn(ctx, code)
}

type mockInference struct {
	inferFn func(ctx context.Context, image []byte) (json.RawMessage, error)
}

func (m *mockInference) Infer(ctx context.Context, image []byte) (json.RawMessage, error) {
	return m.inferFn(ctx, image)
}
