package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const ENV_PREFIX = "hyperview"

var settingKeys = []string{"client_id", "client_secret", "scope", "auth_url", "token_url", "instance_url"}

type Settings struct {
	ClientID       string        `mapstructure:"client_id"`
	ClientSecret   string        `mapstructure:"client_secret"`
	Scope          string        `mapstructure:"scope"`
	AuthURL        string        `mapstructure:"auth_url"`
	TokenURL       string        `mapstructure:"token_url"`
	InstanceURL    string        `mapstructure:"instance_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

func newViper() *viper.Viper {
	v := viper.New()

	for _, key := range settingKeys {
		v.SetDefault(key, "")
	}
	v.SetDefault("request_timeout", "0s")

	v.SetEnvPrefix(ENV_PREFIX)
	v.AutomaticEnv()

	return v
}

// LoadOrInitializeSettings loads path, first writing an empty template there
// when the file does not exist yet. The bool reports whether it was created.
func LoadOrInitializeSettings(path string) (bool, *Settings, error) {
	created := false

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := writeTemplate(path); err != nil {
			return false, nil, err
		}
		created = true
	}

	settings, err := LoadSettings(path)
	if err != nil {
		return created, nil, err
	}

	return created, settings, nil
}

func LoadSettings(path string) (*Settings, error) {
	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	settings.InstanceURL = strings.TrimSuffix(settings.InstanceURL, "/")

	return &settings, nil
}

func writeTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	for _, key := range settingKeys {
		v.Set(key, "")
	}

	if err := v.SafeWriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config template: %w", err)
	}

	return os.Chmod(path, 0o600)
}

// Validate reports every required setting that is still empty.
func (s *Settings) Validate() error {
	var missing []string

	if s.InstanceURL == "" {
		missing = append(missing, "instance_url")
	}
	if s.TokenURL == "" {
		missing = append(missing, "token_url")
	}
	if s.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if s.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if s.RequestTimeout < 0 {
		return errors.New("config param request_timeout must not be negative")
	}

	if len(missing) > 0 {
		return fmt.Errorf("config params must be set: %s", strings.Join(missing, ", "))
	}

	return nil
}

// Redacted returns a copy that is safe to log.
func (s Settings) Redacted() Settings {
	if s.ClientSecret != "" {
		s.ClientSecret = "*redacted*"
	}

	return s
}
