// Package config provides YAML configuration parsing for the tracker.
//
// Example configuration:
//
//	listen_addr: ":5000"
//	db_path: rollcall.db
//	csv_path: bd_envio.csv
//	send_delay: 2s
//	log_level: info
//
//	whatsapp:
//	  access_token: ${ACCESS_TOKEN}
//	  phone_number_id: ${PHONE_NUMBER_ID}
//	  verify_token: ${VERIFY_TOKEN:-mi_token_secreto_12345}
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	// ListenAddr is the HTTP listen address. Defaults to ":5000".
	ListenAddr string `yaml:"listen_addr"`

	// DBPath is the SQLite database file. Defaults to "rollcall.db".
	DBPath string `yaml:"db_path"`

	// CSVPath is the mirror CSV file. Defaults to "bd_envio.csv".
	CSVPath string `yaml:"csv_path"`

	// TemplatesDir holds CUE message catalog files. Empty means only the
	// built-in confirmation template is available.
	TemplatesDir string `yaml:"templates_dir"`

	// SendDelay is the pause between messages in a batch send.
	// Defaults to 2s.
	SendDelay Duration `yaml:"send_delay"`

	// LogLevel is a zerolog level name. Defaults to "info".
	LogLevel string `yaml:"log_level"`

	WhatsApp WhatsAppConfig `yaml:"whatsapp"`
}

// WhatsAppConfig carries Cloud API credentials. Values support
// ${VAR} and ${VAR:-default} environment substitution so secrets stay
// out of the file.
type WhatsAppConfig struct {
	AccessToken   string `yaml:"access_token"`
	PhoneNumberID string `yaml:"phone_number_id"`
	Version       string `yaml:"version"`
	VerifyToken   string `yaml:"verify_token"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data, expands environment variables in
// the credential fields and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()

	for _, field := range []*string{
		&cfg.WhatsApp.AccessToken,
		&cfg.WhatsApp.PhoneNumberID,
		&cfg.WhatsApp.VerifyToken,
	} {
		*field = expandEnvVars(*field)
	}

	if cfg.SendDelay.Duration() < 0 {
		return nil, fmt.Errorf("send_delay cannot be negative, got %s", cfg.SendDelay.Duration())
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":5000"
	}
	if c.DBPath == "" {
		c.DBPath = "rollcall.db"
	}
	if c.CSVPath == "" {
		c.CSVPath = "bd_envio.csv"
	}
	if c.SendDelay == 0 {
		c.SendDelay = Duration(2 * time.Second)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with
// environment values. A reference without a default to an unset
// variable expands to empty rather than failing, so a config file can
// ship with placeholders before credentials exist.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}
		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return submatches[3]
			}
			return ""
		}
		return value
	})
}
