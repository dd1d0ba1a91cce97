package di

import (
	"io"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sectrean/di-context/internal/errors"
)

// Config holds the container settings that can be loaded from a file or the environment.
// Use [WithConfig] to apply it.
type Config struct {
	AllowOverride              bool `yaml:"allow_override"`
	AllowOnlySingleEagerCreate bool `yaml:"allow_only_single_eager_create"`
	EagerCreate                bool `yaml:"eager_create"`
}

// Environment variables read by [ConfigFromEnv].
const (
	EnvAllowOverride              = "DI_ALLOW_OVERRIDE"
	EnvAllowOnlySingleEagerCreate = "DI_ALLOW_ONLY_SINGLE_EAGER_CREATE"
	EnvEagerCreate                = "DI_EAGER_CREATE"
)

// DefaultConfig returns the settings of a container created without options.
func DefaultConfig() Config {
	return Config{
		AllowOnlySingleEagerCreate: true,
	}
}

// LoadConfig decodes YAML from r on top of [DefaultConfig].
// Empty input returns the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	err := yaml.NewDecoder(r).Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return cfg, errors.Wrap(err, "di.LoadConfig")
	}

	return cfg, nil
}

// LoadConfigFile is like [LoadConfig] for the file at path.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return DefaultConfig(), errors.Wrap(err, "di.LoadConfigFile")
	}
	defer f.Close()

	return LoadConfig(f)
}

// ConfigFromEnv reads the settings from the environment on top of [DefaultConfig].
//
// The given .env files (or ".env" if none are given) are loaded first. Missing files
// are ignored, and variables already set in the environment are not overridden.
func ConfigFromEnv(files ...string) (Config, error) {
	_ = godotenv.Load(files...)

	cfg := DefaultConfig()
	var errs errors.MultiError
	errs = errs.Append(boolFromEnv(EnvAllowOverride, &cfg.AllowOverride))
	errs = errs.Append(boolFromEnv(EnvAllowOnlySingleEagerCreate, &cfg.AllowOnlySingleEagerCreate))
	errs = errs.Append(boolFromEnv(EnvEagerCreate, &cfg.EagerCreate))

	return cfg, errs.Wrap("di.ConfigFromEnv")
}

func boolFromEnv(name string, dst *bool) error {
	val, ok := os.LookupEnv(name)
	if !ok || val == "" {
		return nil
	}

	b, err := strconv.ParseBool(val)
	if err != nil {
		return errors.Wrapf(err, "%s", name)
	}

	*dst = b
	return nil
}
