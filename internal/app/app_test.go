package app

import (
	"context"
	"errors"
	"github.com/iamvkosarev/repair-chat-bot/config"
	"github.com/sirupsen/logrus"
	"path/filepath"
	"testing"
)

func TestNewStorage(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Storage
		wantErr error
	}{
		{name: "memory", cfg: config.Storage{Driver: StorageMemory}},
		{name: "redis", cfg: config.Storage{Driver: StorageRedis, Endpoint: "localhost:6379"}},
		{name: "file", cfg: config.Storage{Driver: StorageFile, FilePath: filepath.Join(t.TempDir(), "kv.json")}},
		{name: "unknown", cfg: config.Storage{Driver: "etcd"}, wantErr: ErrUnknownStorageDriver},
	}

	for _, tt := range tests {
		t.Run(
			tt.name, func(t *testing.T) {
				storage, closeStorage, err := NewStorage(tt.cfg)
				if tt.wantErr != nil {
					if !errors.Is(err, tt.wantErr) {
						t.Fatalf("expected %v, got %v", tt.wantErr, err)
					}
					return
				}
				if err != nil {
					t.Fatal(err)
				}
				defer closeStorage()
				if storage == nil {
					t.Fatal("expected a storage")
				}
			},
		)
	}
}

func TestNewStorageFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg := config.Storage{Driver: StorageFile, FilePath: filepath.Join(t.TempDir(), "kv.json")}

	storage, _, err := NewStorage(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err = storage.Set(ctx, "tg_1_selected_vehicle_model", "Macfox X2"); err != nil {
		t.Fatal(err)
	}

	reopened, _, err := NewStorage(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if value, err := reopened.Get(ctx, "tg_1_selected_vehicle_model"); err != nil || value != "Macfox X2" {
		t.Fatalf("expected the value to survive a reopen, got %q (%v)", value, err)
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(config.Log{Level: "debug", Format: "json"})
	if err != nil {
		t.Fatal(err)
	}
	if logger.GetLevel() != logrus.DebugLevel {
		t.Fatalf("unexpected level %s", logger.GetLevel())
	}
	if _, ok := logger.Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatalf("expected a JSON formatter, got %T", logger.Formatter)
	}

	if _, err = NewLogger(config.Log{Level: "loud"}); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

func TestLoadVocabulary(t *testing.T) {
	vocab, err := loadVocabulary(config.Vocabulary{Name: "boat"})
	if err != nil {
		t.Fatal(err)
	}
	if vocab.Name != "boat" {
		t.Fatalf("unexpected vocabulary %q", vocab.Name)
	}
	if _, err = loadVocabulary(config.Vocabulary{Path: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Fatal("expected an error for a missing vocabulary file")
	}
}
