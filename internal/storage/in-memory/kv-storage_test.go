package in_memory

import (
	"context"
	"errors"
	"github.com/iamvkosarev/repair-chat-bot/internal/model"
	"testing"
)

func TestKVStorage(t *testing.T) {
	ctx := context.Background()
	s := NewKVStorage()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, model.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
	if err := s.Set(ctx, "k", "v"); err != nil {
		t.Fatal(err)
	}
	value, err := s.Get(ctx, "k")
	if err != nil || value != "v" {
		t.Fatalf("expected v, got %q (%v)", value, err)
	}
	if err = s.Remove(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if err = s.Remove(ctx, "k"); err != nil {
		t.Fatalf("removing an absent key must not fail, got %v", err)
	}
	if _, err = s.Get(ctx, "k"); !errors.Is(err, model.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound after remove, got %v", err)
	}
}
