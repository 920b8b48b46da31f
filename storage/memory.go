package storage

import (
	"context"
	"io"
	"sync"
)

// MemoryStore is an in-memory ObjectStore used in tests in place of GCS.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	// UploadErr, when set, makes every Upload fail with that error.
	UploadErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Upload(ctx context.Context, objectPath string, r io.Reader, contentType string) (string, error) {
	if s.UploadErr != nil {
		return "", s.UploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.objects[objectPath] = data
	s.mu.Unlock()
	return "https://storage.test/" + objectPath, nil
}

// Object returns a stored object's bytes.
func (s *MemoryStore) Object(objectPath string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[objectPath]
	return data, ok
}

// Len reports how many objects have been stored.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
