package key_value

import (
	"context"
	"errors"
	"fmt"
	"github.com/iamvkosarev/repair-chat-bot/internal/model"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "repair_bot"

type KVStorage struct {
	rdb *redis.Client
}

func NewKVStorage(rdb *redis.Client) *KVStorage {
	return &KVStorage{
		rdb: rdb,
	}
}

func (s *KVStorage) Get(ctx context.Context, key string) (string, error) {
	value, err := s.rdb.Get(ctx, getKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", model.ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

func (s *KVStorage) Set(ctx context.Context, key, value string) error {
	if err := s.rdb.Set(ctx, getKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (s *KVStorage) Remove(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, getKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

func getKey(key string) string {
	return fmt.Sprintf("%s:%s", keyPrefix, key)
}
