package config

import (
	"errors"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"io/fs"
)

type OpenAI struct {
	OpenAIAPIKey     string  `yaml:"api_key" env:"OPENAI_API_KEY"`
	OpenAIModel      string  `yaml:"openai_model" env:"OPENAI_MODEL" env-default:"gpt-4o"`
	OpenAIBaseURL    string  `yaml:"open_ai_base_url" env:"OPENAI_BASE_URL" env-default:"https://api.openai.com"`
	MaxTokens        int     `yaml:"max_tokens" env:"OPENAI_MAX_TOKENS" env-default:"1000"`
	ModelTemperature float32 `yaml:"model_temperature" env:"MODEL_TEMPERATURE" env-default:"0.7"`
}

type Telegram struct {
	Enabled          bool   `yaml:"enabled" env:"TELEGRAM_ENABLED"`
	TelegramAPIToken string `yaml:"api_token" env:"TELEGRAM_APITOKEN"`
	Workers          int    `yaml:"workers" env:"TELEGRAM_WORKERS" env-default:"8"`
	UpdateTimeout    int    `yaml:"update_timeout_seconds" env-default:"60"`
}

type HTTP struct {
	Enabled bool   `yaml:"enabled" env:"HTTP_ENABLED"`
	Addr    string `yaml:"addr" env:"HTTP_ADDR" env-default:":8080"`
}

type Storage struct {
	Driver   string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`
	Endpoint string `yaml:"redis_endpoint" env:"REDIS_ENDPOINT" env-default:"localhost:6379"`
	FilePath string `yaml:"file_path" env:"STORAGE_FILE_PATH" env-default:"data/storage.json"`
}

type Vocabulary struct {
	Name string `yaml:"name" env:"VOCABULARY" env-default:"bike"`
	Path string `yaml:"path" env:"VOCABULARY_PATH"`
}

type Log struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

type Config struct {
	OpenAI     OpenAI     `yaml:"openai"`
	Telegram   Telegram   `yaml:"telegram"`
	HTTP       HTTP       `yaml:"http"`
	Storage    Storage    `yaml:"storage"`
	Vocabulary Vocabulary `yaml:"vocabulary"`
	Log        Log        `yaml:"log"`
}

var ErrNoTransportEnabled = errors.New("neither telegram nor http transport is enabled")

func LoadConfig(cfgPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	var cfg Config
	if err := cleanenv.ReadConfig(cfgPath, &cfg); err != nil {
		return nil, err
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	if !cfg.Telegram.Enabled && !cfg.HTTP.Enabled {
		return nil, ErrNoTransportEnabled
	}
	return &cfg, nil
}
