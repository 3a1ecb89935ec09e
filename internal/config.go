package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// DefaultStatusFile is the conventional status file path used by the
// dictation grammar when no path is configured.
const DefaultStatusFile = ".dictation-grammar-status.txt"

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Status  StatusConfig      `yaml:"status"`
	Journal JournalConfig     `yaml:"journal"`
	Auth    AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Status.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration for the serve command.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// ModeLabel names one status value.
type ModeLabel struct {
	Value int    `yaml:"value"`
	Label string `yaml:"label"`
}

// StatusConfig describes the status file and its rotation range.
type StatusConfig struct {
	File      string      `yaml:"file"`
	MaxStatus int         `yaml:"max_status"`
	Modes     []ModeLabel `yaml:"modes"`
}

// Validate validates the status configuration.
func (c *StatusConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.File, validation.Required),
		validation.Field(&c.MaxStatus, validation.Min(0)),
	); err != nil {
		return err
	}
	for _, m := range c.Modes {
		if m.Value < 0 {
			return fmt.Errorf("status: mode value %d is negative", m.Value)
		}
	}
	return nil
}

// Label returns the configured name for a status value, or "mode <n>" when
// the value has no label.
func (c *StatusConfig) Label(value int) string {
	for _, m := range c.Modes {
		if m.Value == value {
			return m.Label
		}
	}
	return fmt.Sprintf("mode %d", value)
}

// JournalConfig holds the SQLite rotation journal configuration.
// An empty path disables the journal.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// Enabled reports whether rotations should be recorded.
func (c *JournalConfig) Enabled() bool {
	return c.Path != ""
}

// AuthConfig holds authentication configuration for the serve command.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local use.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
// The default modes mirror the dictation grammar this tool was built for.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Status: StatusConfig{
			File:      DefaultStatusFile,
			MaxStatus: 2,
			Modes: []ModeLabel{
				{Value: 0, Label: "command"},
				{Value: 1, Label: "command+dictation"},
				{Value: 2, Label: "dictation-only"},
			},
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
