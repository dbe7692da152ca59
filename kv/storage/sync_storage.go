package storage

import "sync"

type syncStorage struct {
	mu    sync.RWMutex
	inner Storage
}

// Synchronized wraps inner so that it can be used from multiple goroutines.
func Synchronized(inner Storage) Storage {
	return &syncStorage{inner: inner}
}

func (s *syncStorage) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.Set(key, value)
}

func (s *syncStorage) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.Get(key)
}

func (s *syncStorage) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.Delete(key)
}

// Scan holds the read lock for the whole iteration, so fn must not call back into s.
func (s *syncStorage) Scan(fn func(key, value string) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.inner.Scan(fn)
}
