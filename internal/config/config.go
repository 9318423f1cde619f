package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/RowanDark/cipherkit/internal/env"
)

// KDF names accepted in the kdf setting.
const (
	KDFNative   = "native"
	KDFFallback = "fallback"
)

// Config captures the cipherkit configuration resolved from defaults, optional
// files, and environment overrides.
type Config struct {
	Cipher     string       `yaml:"cipher"`
	RecipesDir string       `yaml:"recipes_dir"`
	AuditLog   string       `yaml:"audit_log"`
	KDF        string       `yaml:"kdf"`
	LogLevel   string       `yaml:"log_level"`
	Simple     SimpleConfig `yaml:"simple"`
	Salts      SaltConfig   `yaml:"salts"`
}

// SimpleConfig controls the legacy simple cipher.
type SimpleConfig struct {
	RoundTrip bool `yaml:"round_trip"`
}

// SaltConfig overrides the key-derivation salts of the generic cipher. Empty
// values keep the built-in salts.
type SaltConfig struct {
	Encryption    string `yaml:"encryption"`
	Authorization string `yaml:"authorization"`
}

// Default returns the built-in configuration.
func Default() Config {
	recipes := ""
	if home, err := os.UserHomeDir(); err == nil {
		recipes = filepath.Join(home, ".cipherkit", "recipes")
	}
	return Config{
		Cipher:     "generic",
		RecipesDir: recipes,
		KDF:        KDFNative,
		LogLevel:   "info",
	}
}

// Load resolves the configuration using defaults, configuration files, and
// environment overrides. Files are applied in order:
//  1. ~/.cipherkit/config.yaml
//  2. ./cipherkit.yml
//
// Environment variables prefixed with CIPHERKIT_ have the highest precedence;
// the legacy CIPHERCTL_ prefix is still honoured.
func Load() (Config, error) {
	cfg := Default()

	if err := loadHomeConfig(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadLocalConfig(&cfg); err != nil {
		return Config{}, err
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects settings no cipher can be built from.
func (c Config) Validate() error {
	switch c.KDF {
	case KDFNative, KDFFallback:
	default:
		return fmt.Errorf("kdf must be %q or %q, got %q", KDFNative, KDFFallback, c.KDF)
	}
	if strings.TrimSpace(c.Cipher) == "" {
		return errors.New("cipher cannot be empty")
	}
	if c.Salts.Encryption != "" && len(c.Salts.Encryption) < 16 {
		return errors.New("salts.encryption must be at least 16 bytes")
	}
	if c.Salts.Authorization != "" && len(c.Salts.Authorization) < 16 {
		return errors.New("salts.authorization must be at least 16 bytes")
	}
	if (c.Salts.Encryption == "") != (c.Salts.Authorization == "") {
		return errors.New("salts.encryption and salts.authorization must be set together")
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func loadHomeConfig(cfg *Config) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return loadFile(cfg, filepath.Join(home, ".cipherkit", "config.yaml"))
}

func loadLocalConfig(cfg *Config) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}
	return loadFile(cfg, filepath.Join(wd, "cipherkit.yml"))
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := applyFileConfig(cfg, data); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

type fileConfig struct {
	Cipher     *string           `yaml:"cipher"`
	RecipesDir *string           `yaml:"recipes_dir"`
	AuditLog   *string           `yaml:"audit_log"`
	KDF        *string           `yaml:"kdf"`
	LogLevel   *string           `yaml:"log_level"`
	Simple     *fileSimpleConfig `yaml:"simple"`
	Salts      *fileSaltConfig   `yaml:"salts"`
}

type fileSimpleConfig struct {
	RoundTrip *bool `yaml:"round_trip"`
}

type fileSaltConfig struct {
	Encryption    *string `yaml:"encryption"`
	Authorization *string `yaml:"authorization"`
}

func applyFileConfig(cfg *Config, data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}

	if fc.Cipher != nil {
		cfg.Cipher = strings.TrimSpace(*fc.Cipher)
	}
	if fc.RecipesDir != nil {
		cfg.RecipesDir = strings.TrimSpace(*fc.RecipesDir)
	}
	if fc.AuditLog != nil {
		cfg.AuditLog = strings.TrimSpace(*fc.AuditLog)
	}
	if fc.KDF != nil {
		cfg.KDF = strings.ToLower(strings.TrimSpace(*fc.KDF))
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = strings.TrimSpace(*fc.LogLevel)
	}
	if fc.Simple != nil && fc.Simple.RoundTrip != nil {
		cfg.Simple.RoundTrip = *fc.Simple.RoundTrip
	}
	if fc.Salts != nil {
		if fc.Salts.Encryption != nil {
			cfg.Salts.Encryption = *fc.Salts.Encryption
		}
		if fc.Salts.Authorization != nil {
			cfg.Salts.Authorization = *fc.Salts.Authorization
		}
	}

	return nil
}

func lookup(name string) (string, bool) {
	val, ok := env.Lookup("CIPHERKIT_"+name, "CIPHERCTL_"+name)
	val = strings.TrimSpace(val)
	return val, ok && val != ""
}

func applyEnvOverrides(cfg *Config) error {
	if val, ok := lookup("CIPHER"); ok {
		cfg.Cipher = val
	}
	if val, ok := lookup("RECIPES_DIR"); ok {
		cfg.RecipesDir = val
	}
	if val, ok := lookup("AUDIT_LOG"); ok {
		cfg.AuditLog = val
	}
	if val, ok := lookup("KDF"); ok {
		cfg.KDF = strings.ToLower(val)
	}
	if val, ok := lookup("LOG_LEVEL"); ok {
		cfg.LogLevel = val
	}
	if val, ok := lookup("SIMPLE_ROUND_TRIP"); ok {
		parsed, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("CIPHERKIT_SIMPLE_ROUND_TRIP: %w", err)
		}
		cfg.Simple.RoundTrip = parsed
	}
	if val, ok := lookup("ENCRYPTION_SALT"); ok {
		cfg.Salts.Encryption = val
	}
	if val, ok := lookup("AUTHORIZATION_SALT"); ok {
		cfg.Salts.Authorization = val
	}
	return nil
}
