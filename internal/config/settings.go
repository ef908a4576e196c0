package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Settings holds the runtime configuration read from the environment.
// CLI flags take precedence over these values.
type Settings struct {
	// Language selects month names and placeholders. ENV: DATESELECT_LANGUAGE
	Language string `env:"DATESELECT_LANGUAGE,default=en"`
	// MinDate is the earliest selectable date (YYYY-MM-DD). ENV: DATESELECT_MIN_DATE
	MinDate string `env:"DATESELECT_MIN_DATE"`
	// MaxDate is the latest selectable date (YYYY-MM-DD). ENV: DATESELECT_MAX_DATE
	MaxDate string `env:"DATESELECT_MAX_DATE"`
	// Port publishes the selection over HTTP. ENV: DATESELECT_PORT
	Port string `env:"DATESELECT_PORT,default=18081"`
	// ImportUser authenticates -import URLs. ENV: DATESELECT_IMPORT_USER
	ImportUser string `env:"DATESELECT_IMPORT_USER"`
	// ImportPassword, when set, is saved to the OS keyring for ImportUser. ENV: DATESELECT_IMPORT_PASSWORD
	ImportPassword string `env:"DATESELECT_IMPORT_PASSWORD"`
}

// LoadSettings reads an optional .env file and decodes Settings from the environment.
// A missing .env file is not an error.
func LoadSettings(envFiles ...string) (Settings, error) {
	if len(envFiles) == 0 {
		envFiles = []string{EnvFileName}
	}
	if err := godotenv.Load(envFiles...); err != nil {
		slog.Debug(MsgEnvFileMissed,
			LogKeyComponent, CompConfig,
			LogKeyError, err,
		)
	}

	var s Settings
	if err := envdecode.Decode(&s); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Settings{}, fmt.Errorf("%s: %w", ErrSettings, err)
	}
	if s.Language == "" {
		s.Language = DefaultLanguage
	}
	if s.Port == "" {
		s.Port = DefaultPort
	}
	return s, nil
}

// ParseDate parses a YYYY-MM-DD setting. An empty string yields ok=false.
func ParseDate(value string) (t time.Time, ok bool, err error) {
	if value == "" {
		return time.Time{}, false, nil
	}
	t, err = time.Parse(DateFormatFullDash, value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%s: %w", ErrDateParse, err)
	}
	return t, true, nil
}
