package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Settings holds the user-editable configuration of the assistant.
// Values come from defaults, then the YAML file, then ABOOK_* environment variables.
type Settings struct {
	Language string   `yaml:"language" env:"ABOOK_LANGUAGE"`
	Server   Server   `yaml:"server"`
	Source   Source   `yaml:"source"`
	Reminder Reminder `yaml:"reminder"`
}

// Server holds the feed server settings.
type Server struct {
	Enabled bool   `yaml:"enabled" env:"ABOOK_SERVER_ENABLED"`
	Port    string `yaml:"port" env:"ABOOK_SERVER_PORT"`
}

// Source holds the default CardDAV import location. The password never lives here;
// it is read from the system keyring.
type Source struct {
	URL      string `yaml:"carddav_url" env:"ABOOK_CARDDAV_URL"`
	Username string `yaml:"username" env:"ABOOK_CARDDAV_USER"`
}

// Reminder configures the VALARM attached to calendar events.
type Reminder struct {
	Enabled   bool   `yaml:"enabled" env:"ABOOK_REMINDER_ENABLED"`
	Value     int    `yaml:"value" env:"ABOOK_REMINDER_VALUE"`
	Unit      string `yaml:"unit" env:"ABOOK_REMINDER_UNIT"`           // "d" | "h" | "m"
	Direction string `yaml:"direction" env:"ABOOK_REMINDER_DIRECTION"` // "before" | "after"
}

// DefaultSettings returns Settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Language: DefaultLanguage,
		Server: Server{
			Port: DefaultPort,
		},
		Reminder: Reminder{
			Value:     DefaultReminderValue,
			Unit:      UnitDays,
			Direction: DirBefore,
		},
	}
}

// LoadSettings reads the YAML file at path and applies environment overrides.
// A missing or empty file yields the defaults. Unknown fields are rejected.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("%s %s: %w", ErrSettingsRead, path, err)
		case len(data) > 0:
			dec := yaml.NewDecoder(bytes.NewReader(data))
			dec.KnownFields(true)
			// Comment-only files decode to EOF.
			if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%s %s: %w", ErrSettingsParse, path, err)
			}
		}
	}

	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrSettingsEnv, err)
	}
	return &s, nil
}

// Validate checks that settings values are usable.
func (s *Settings) Validate() error {
	if !slices.Contains(SupportedLanguages, s.Language) {
		return fmt.Errorf("%s: %q", ErrLanguage, s.Language)
	}
	if err := ValidatePort(s.Server.Port); err != nil {
		return err
	}
	if !s.Reminder.Enabled {
		return nil
	}
	if s.Reminder.Value <= 0 {
		return fmt.Errorf("%s: %d", ErrReminderValue, s.Reminder.Value)
	}
	switch s.Reminder.Unit {
	case UnitDays, UnitHours, UnitMinutes:
	default:
		return fmt.Errorf("%s: %q", ErrReminderUnit, s.Reminder.Unit)
	}
	switch s.Reminder.Direction {
	case DirBefore, DirAfter:
	default:
		return fmt.Errorf("%s: %q", ErrReminderDir, s.Reminder.Direction)
	}
	return nil
}

// ValidatePort checks that port is a number in [MinPort, MaxPort].
func ValidatePort(port string) error {
	if port == "" {
		return errors.New(ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("%s: %q", ErrPortNumber, port)
	}
	if n < MinPort || n > MaxPort {
		return fmt.Errorf("%s: %d", ErrPortRange, n)
	}
	return nil
}

// ReminderTrigger returns the ISO 8601 duration for the VALARM TRIGGER property
// (e.g. "-P1D"), or an empty string when reminders are disabled.
func (s *Settings) ReminderTrigger() string {
	r := s.Reminder
	if !r.Enabled {
		return ""
	}
	val := r.Value
	if val <= 0 {
		val = DefaultReminderValue
	}

	sign := ISOPeriodPrefix
	if r.Direction == DirBefore {
		sign = ISONegativePrefix
	}

	switch r.Unit {
	case UnitHours:
		return fmt.Sprintf("%sT%d%s", sign, val, ISOHour)
	case UnitMinutes:
		return fmt.Sprintf("%sT%d%s", sign, val, ISOMinute)
	default:
		return fmt.Sprintf("%s%d%s", sign, val, ISODay)
	}
}
