package vocabulary

import (
	"embed"
	"errors"
	"fmt"
	"github.com/iamvkosarev/repair-chat-bot/internal/model"
	"gopkg.in/yaml.v3"
	"os"
)

const (
	Bike = "bike"
	Boat = "boat"
)

var ErrUnknownVocabulary = errors.New("unknown vocabulary")

//go:embed data/*.yaml
var builtin embed.FS

// Load returns a built-in vocabulary by name.
func Load(name string) (model.Vocabulary, error) {
	raw, err := builtin.ReadFile(fmt.Sprintf("data/%s.yaml", name))
	if err != nil {
		return model.Vocabulary{}, fmt.Errorf("%w: %s", ErrUnknownVocabulary, name)
	}
	return parse(raw)
}

func LoadFile(path string) (model.Vocabulary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.Vocabulary{}, fmt.Errorf("failed to read vocabulary %s: %w", path, err)
	}
	return parse(raw)
}

func parse(raw []byte) (model.Vocabulary, error) {
	var vocabulary model.Vocabulary
	if err := yaml.Unmarshal(raw, &vocabulary); err != nil {
		return model.Vocabulary{}, fmt.Errorf("failed to unmarshal vocabulary: %w", err)
	}
	if vocabulary.SystemPrompt == "" || vocabulary.Welcome == "" {
		return model.Vocabulary{}, fmt.Errorf("vocabulary %q has no system prompt or welcome text", vocabulary.Name)
	}
	if vocabulary.GenericVehicle == "" {
		vocabulary.GenericVehicle = "Other/Generic"
	}
	return vocabulary, nil
}
