package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is built once at process start and passed by parameter into each
// stage. Every value comes from the environment.
type Config struct {
	MastodonURL   string `env:"MASTODON_URL,required,notEmpty"`
	MastodonToken string `env:"MASTODON_TOKEN,required,notEmpty"`

	// OpenAIAPIKey is optional. Without it runs degrade to posting
	// without model-suggested hashtags.
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`

	WikipediaURL string `env:"WIKIPEDIA_URL"          envDefault:"https://be.wikipedia.org/wiki/Галоўная_старонка"`
	PotdHeading  string `env:"WIKIPEDIA_POTD_HEADING" envDefault:"Выява дня"`

	StatusPrefix   string   `env:"STATUS_PREFIX"`
	StatusLanguage string   `env:"STATUS_LANGUAGE" envDefault:"be"`
	ExtraHashtags  []string `env:"EXTRA_HASHTAGS"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}
