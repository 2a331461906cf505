package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/chriserin/stepmatch/internal/logging"
)

const (
	Dir      = ".stepmatch"
	FileName = "config.yaml"
	DBName   = "stepmatch.db"
)

// Environment variables that override the config file.
const (
	EnvFeatures = "STEPMATCH_FEATURES"
	EnvBindings = "STEPMATCH_BINDINGS"
	EnvLocale   = "STEPMATCH_LOCALE"
)

type Config struct {
	Features string `yaml:"features"`
	Bindings string `yaml:"bindings"`
	Locale   string `yaml:"locale"`
	Log      Log    `yaml:"log"`
}

type Log struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

func Default() Config {
	return Config{
		Features: "features/**/*.feature",
		Bindings: "bindings.yaml",
		Locale:   "en-US",
		Log:      Log{Format: logging.Tint, Level: "info"},
	}
}

// Path is the config file location under root.
func Path(root string) string { return filepath.Join(root, Dir, FileName) }

// DBPath is the database location under root.
func DBPath(root string) string { return filepath.Join(root, Dir, DBName) }

// Load reads the config of the project at root. A missing config file yields
// the defaults. Values from a .env file in root and then from the process
// environment override the file.
func Load(root string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path(root))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("parsing %s: %w", Path(root), err)
		}
	}

	env, err := godotenv.Read(filepath.Join(root, ".env"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("reading .env: %w", err)
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := env[key]
		return v, ok
	}
	for key, field := range map[string]*string{
		EnvFeatures: &cfg.Features,
		EnvBindings: &cfg.Bindings,
		EnvLocale:   &cfg.Locale,
	} {
		if v, ok := lookup(key); ok && v != "" {
			*field = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Features == "" {
		return errors.New("config: features pattern is required")
	}
	if c.Bindings == "" {
		return errors.New("config: bindings path is required")
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("config: locale %q: %w", c.Locale, err)
	}
	return nil
}

// LocaleTag is the parsed locale. Validate guarantees it parses.
func (c Config) LocaleTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.AmericanEnglish
	}
	return tag
}

// Write stores cfg as the config file of root.
func Write(root string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(Path(root), data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
