package cmd

import (
	"fmt"
	"strings"

	"github.com/aweris/objtree"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config is the CLI configuration, read from the config file, OBJTREE_*
// environment variables and flags, in increasing precedence.
type Config struct {
	Algorithm   string      `mapstructure:"algorithm" validate:"required,oneof=sha1 shake256-160"`
	Concurrency int         `mapstructure:"concurrency" validate:"gte=1,lte=256"`
	LogLevel    string      `mapstructure:"log_level" validate:"required,oneof=panic fatal error warn warning info debug trace"`
	Exclude     []string    `mapstructure:"exclude"`
	Store       StoreConfig `mapstructure:"store"`
}

// StoreConfig selects the object store backend. Only the section matching
// Type is decoded.
type StoreConfig struct {
	Type      string         `mapstructure:"type" validate:"required,oneof=local badger"`
	Path      string         `mapstructure:"path" validate:"required"`
	CacheSize int            `mapstructure:"cache_size" validate:"gte=1"`
	Local     map[string]any `mapstructure:"local"`
	Badger    map[string]any `mapstructure:"badger"`
}

// LocalStoreConfig is the store.local section.
type LocalStoreConfig struct {
	Compression      string `mapstructure:"compression" validate:"omitempty,oneof=zlib zstd none"`
	CompressionLevel int    `mapstructure:"compression_level" validate:"omitempty,gte=1,lte=3"`
}

// BadgerStoreConfig is the store.badger section.
type BadgerStoreConfig struct {
	Compression      string `mapstructure:"compression" validate:"omitempty,oneof=zlib zstd none"`
	CompressionLevel int    `mapstructure:"compression_level" validate:"omitempty,gte=1,lte=3"`
	SyncWrites       bool   `mapstructure:"sync_writes"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("algorithm", string(objtree.DefaultAlgorithm))
	v.SetDefault("concurrency", objtree.DefaultConcurrency)
	v.SetDefault("log_level", "info")
	v.SetDefault("exclude", []string{})
	v.SetDefault("store.type", objtree.BackendLocal)
	v.SetDefault("store.path", objtree.DefaultStoreDir())
	v.SetDefault("store.cache_size", objtree.DefaultCacheSize)
	v.SetDefault("store.local", map[string]any{})
	v.SetDefault("store.badger", map[string]any{})
}

// loadConfig unmarshals and validates the configuration held by v.
func loadConfig(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// validate is the singleton validator instance
var validate = validator.New()

func validateConfig(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	// backend sections are untyped maps and need a second pass
	switch cfg.Store.Type {
	case objtree.BackendLocal:
		local, err := cfg.Store.local()
		if err != nil {
			return err
		}
		if err := validate.Struct(local); err != nil {
			return formatValidationError(err)
		}
	case objtree.BackendBadger:
		badger, err := cfg.Store.badger()
		if err != nil {
			return err
		}
		if err := validate.Struct(badger); err != nil {
			return formatValidationError(err)
		}
	}
	return nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok && len(validationErrs) > 0 {
		e := validationErrs[0]
		return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
			e.Namespace(), e.Tag(), e.Value())
	}
	return err
}

func (c StoreConfig) local() (*LocalStoreConfig, error) {
	cfg := LocalStoreConfig{Compression: objtree.CompressionZlib, CompressionLevel: objtree.DefaultCompressionLevel}
	if err := mapstructure.Decode(c.Local, &cfg); err != nil {
		return nil, fmt.Errorf("invalid local store config: %w", err)
	}
	return &cfg, nil
}

func (c StoreConfig) badger() (*BadgerStoreConfig, error) {
	cfg := BadgerStoreConfig{Compression: objtree.CompressionZstd, CompressionLevel: objtree.DefaultCompressionLevel}
	if err := mapstructure.Decode(c.Badger, &cfg); err != nil {
		return nil, fmt.Errorf("invalid badger store config: %w", err)
	}
	return &cfg, nil
}

// storeOptions translates the store section into objtree.StoreOption values.
func (c *Config) storeOptions(log logrus.FieldLogger) ([]objtree.StoreOption, error) {
	opts := []objtree.StoreOption{
		objtree.WithBackend(c.Store.Type),
		objtree.WithCacheSize(c.Store.CacheSize),
		objtree.WithStoreAlgorithm(objtree.Algorithm(c.Algorithm)),
		objtree.WithStoreLogger(log),
	}

	switch c.Store.Type {
	case objtree.BackendBadger:
		badger, err := c.Store.badger()
		if err != nil {
			return nil, err
		}
		opts = append(opts,
			objtree.WithCompression(badger.Compression),
			objtree.WithCompressionLevel(badger.CompressionLevel),
			objtree.WithSyncWrites(badger.SyncWrites),
		)
	default:
		local, err := c.Store.local()
		if err != nil {
			return nil, err
		}
		opts = append(opts,
			objtree.WithCompression(local.Compression),
			objtree.WithCompressionLevel(local.CompressionLevel),
		)
	}
	return opts, nil
}

func (c *Config) openStore(log logrus.FieldLogger) (*objtree.Store, error) {
	opts, err := c.storeOptions(log)
	if err != nil {
		return nil, err
	}
	return objtree.OpenStore(c.Store.Path, opts...)
}

func newLogger(level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, err
	}
	log := logrus.New()
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	return log, nil
}
