package vocabulary

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadBuiltin(t *testing.T) {
	tests := []struct {
		name    string
		botName string
		code    string
	}{
		{"bike", "BikeBot", "E07"},
		{"boat", "BoatBot", "P0217"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := Load(tc.name)
			if err != nil {
				t.Fatalf("Load(%q) failed: %v", tc.name, err)
			}
			if v.BotName != tc.botName {
				t.Errorf("expected bot name %q, got %q", tc.botName, v.BotName)
			}
			if _, ok := v.ErrorCodes[tc.code]; !ok {
				t.Errorf("expected error code %q in vocabulary", tc.code)
			}
			if !v.HasVehicle(v.GenericVehicle) {
				t.Errorf("expected generic vehicle %q in vehicle list", v.GenericVehicle)
			}
		})
	}
}

func TestLoadUnknown(t *testing.T) {
	if _, err := Load("spaceship"); !errors.Is(err, ErrUnknownVocabulary) {
		t.Fatalf("expected ErrUnknownVocabulary, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scooter.yaml")
	content := "name: scooter\nbot_name: ScootBot\nwelcome: Hi\nsystem_prompt: You fix scooters.\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	v, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if v.GenericVehicle != "Other/Generic" {
		t.Errorf("expected default generic vehicle, got %q", v.GenericVehicle)
	}

	if err = os.WriteFile(path, []byte("name: broken\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err = LoadFile(path); err == nil {
		t.Fatal("expected error for vocabulary without prompt")
	}
}
