package in_memory

import (
	"context"
	"github.com/iamvkosarev/repair-chat-bot/internal/model"
	"sync"
)

type KVStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewKVStorage() *KVStorage {
	return &KVStorage{
		values: make(map[string]string),
	}
}

func (s *KVStorage) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	if !ok {
		return "", model.ErrKeyNotFound
	}
	return value, nil
}

func (s *KVStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *KVStorage) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
