package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrEmptyKey is returned when an object key is empty
var ErrEmptyKey = errors.New("storage key is required")

// ErrObjectNotFound is returned when reading a missing object
var ErrObjectNotFound = errors.New("object not found")

// Object is an object held by MemoryObjectStorage
type Object struct {
	Data        []byte
	ContentType string
}

// MemoryObjectStorage keeps objects in process memory.
// It backs development setups without object storage, and tests.
type MemoryObjectStorage struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]Object
}

// NewMemoryObjectStorage creates an empty in-memory store
func NewMemoryObjectStorage(baseURL string) *MemoryObjectStorage {
	if baseURL == "" {
		baseURL = "memory://documents"
	}
	return &MemoryObjectStorage{
		BaseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]Object),
	}
}

func (m *MemoryObjectStorage) Put(_ context.Context, key string, body io.Reader, _ int64, contentType string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", fmt.Errorf("failed to read object body: %w", err)
	}

	m.mu.Lock()
	m.objects[key] = Object{Data: buf.Bytes(), ContentType: contentType}
	m.mu.Unlock()
	return m.ObjectURL(key), nil
}

func (m *MemoryObjectStorage) DownloadURL(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	return m.ObjectURL(key), nil
}

func (m *MemoryObjectStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryObjectStorage) Exists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	return ok, nil
}

// Get returns a stored object
func (m *MemoryObjectStorage) Get(key string) (Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return Object{}, ErrObjectNotFound
	}
	return obj, nil
}

func (m *MemoryObjectStorage) ObjectURL(key string) string {
	return m.BaseURL + "/" + key
}

func (m *MemoryObjectStorage) KeyFromURL(u string) (string, bool) {
	return keyFromURL(m.BaseURL, u)
}
