package model

type Difficulty string

const (
	DifficultyEasy   = Difficulty("Easy")
	DifficultyMedium = Difficulty("Medium")
	DifficultyHard   = Difficulty("Hard")
)

type ErrorRecord struct {
	Code        string     `yaml:"code" json:"code"`
	Issue       string     `yaml:"issue" json:"issue"`
	Fix         string     `yaml:"fix" json:"fix"`
	PartsNeeded []string   `yaml:"parts_needed" json:"parts_needed"`
	Difficulty  Difficulty `yaml:"difficulty" json:"difficulty"`
	Caution     string     `yaml:"caution" json:"caution"`
}

// KeywordEntry keeps table order stable, which a map would not.
type KeywordEntry struct {
	Keyword string   `yaml:"keyword"`
	Values  []string `yaml:"values"`
}

// Vocabulary is the swappable domain data of one bot variant.
type Vocabulary struct {
	Name           string                 `yaml:"name"`
	BotName        string                 `yaml:"bot_name"`
	Welcome        string                 `yaml:"welcome"`
	SystemPrompt   string                 `yaml:"system_prompt"`
	VehicleClause  string                 `yaml:"vehicle_clause"`
	GenericVehicle string                 `yaml:"generic_vehicle"`
	Vehicles       []string               `yaml:"vehicles"`
	Tools          []KeywordEntry         `yaml:"tools"`
	KnownIssues    map[string][]string    `yaml:"known_issues"`
	ErrorCodes     map[string]ErrorRecord `yaml:"error_codes"`
	Symptoms       map[string]ErrorRecord `yaml:"symptoms"`
	QuickPrompts   map[string][]string    `yaml:"quick_prompts"`
	Tips           []string               `yaml:"tips"`
	Examples       []string               `yaml:"examples"`
}

func (v Vocabulary) HasVehicle(vehicle string) bool {
	for _, known := range v.Vehicles {
		if known == vehicle {
			return true
		}
	}
	return false
}
