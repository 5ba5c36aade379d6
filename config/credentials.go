package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	EnvPracticumToken = "PRACTICUM_TOKEN"
	EnvTelegramToken  = "TELEGRAM_TOKEN"
	EnvTelegramChatID = "TELEGRAM_CHAT_ID"
)

// Credentials are the only secrets the worker needs. They are read once at
// startup and passed down explicitly.
type Credentials struct {
	PracticumToken string
	TelegramToken  string
	TelegramChatID string
}

type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return "missing required credentials: " + strings.Join(e.Missing, ", ")
}

func LoadCredentials(getenv func(string) string) Credentials {
	if getenv == nil {
		getenv = os.Getenv
	}
	return Credentials{
		PracticumToken: strings.TrimSpace(getenv(EnvPracticumToken)),
		TelegramToken:  strings.TrimSpace(getenv(EnvTelegramToken)),
		TelegramChatID: strings.TrimSpace(getenv(EnvTelegramChatID)),
	}
}

// Validate returns *ConfigurationError listing every missing credential.
func (c Credentials) Validate() error {
	var missing []string
	if c.PracticumToken == "" {
		missing = append(missing, EnvPracticumToken)
	}
	if c.TelegramToken == "" {
		missing = append(missing, EnvTelegramToken)
	}
	if c.TelegramChatID == "" {
		missing = append(missing, EnvTelegramChatID)
	}
	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	return nil
}

// LoadDotEnv loads variables from a .env file without overriding ones already
// set in the environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return errors.Wrap(godotenv.Load(path), "load .env")
}
