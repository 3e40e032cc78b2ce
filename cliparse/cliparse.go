// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/danielhkuo/flowhub/db"
)

type Config struct {
	DatabaseType string `env:"DATABASE_TYPE" envDefault:"sqlite"`
	DatabaseURL  string `env:"DATABASE_URL" envDefault:"flowhub.db"`

	GeminiAPIKey string        `env:"GEMINI_API_KEY"`
	GeminiModel  string        `env:"GEMINI_MODEL"`
	LabelTimeout time.Duration `env:"LABEL_TIMEOUT" envDefault:"10s"`

	Locale    string `env:"FLOWHUB_LOCALE" envDefault:"zh-TW"`
	GroupSize int    `env:"GROUP_SIZE" envDefault:"4"`
	Theme     string `env:"GROUP_THEME"`
	Seed      int64  `env:"FLOWHUB_SEED"`

	ExportDir       string `env:"EXPORT_DIR" envDefault:"."`
	ExportBucket    string `env:"EXPORT_S3_BUCKET"`
	ExportPrefix    string `env:"EXPORT_S3_PREFIX"`
	ExportRegion    string `env:"EXPORT_S3_REGION"`
	ExportEndpoint  string `env:"EXPORT_S3_ENDPOINT"`
	ExportPathStyle bool   `env:"EXPORT_S3_PATH_STYLE"`

	// Empty keys use the default AWS credential chain.
	ExportAccessKeyID     string `env:"EXPORT_S3_ACCESS_KEY_ID"`
	ExportSecretAccessKey string `env:"EXPORT_S3_SECRET_ACCESS_KEY"`

	Verbose bool `env:"FLOWHUB_VERBOSE"`
}

var (
	ErrInvalidGroupSize    = errors.New("group size must be at least 1")
	ErrInvalidLabelTimeout = errors.New("label timeout must be positive")
)

// RegisterFlags defines the configuration flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	// Storage
	fs.StringP("db-type", "t", "", "Database type (sqlite or postgres)")
	fs.StringP("db", "d", "", "Database URL or SQLite file path")

	// Behaviour
	fs.String("locale", "", "Message locale (zh-TW, en-US)")
	fs.String("gemini-model", "", "Gemini model for group labels")
	fs.Duration("label-timeout", 0, "How long to wait for group labels")
	fs.Int64("seed", 0, "Random seed (0 picks one)")
	fs.String("export-dir", "", "Directory for exported CSV files")

	fs.BoolP("verbose", "v", false, "Debug logging")
	fs.String("env-file", ".env", "Optional dotenv file")
}

// ParseFlags parses args and resolves the configuration.
func ParseFlags(args []string) (Config, error) {
	fs := pflag.NewFlagSet("flowhub", pflag.ContinueOnError)
	RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return FromFlags(fs)
}

// FromFlags resolves the configuration for an already parsed flag set.
// Precedence: flags that were set, then the environment, then the dotenv
// file, then defaults.
func FromFlags(fs *pflag.FlagSet) (Config, error) {
	envFile, _ := fs.GetString("env-file")
	environ, err := environment(envFile)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	applyFlags(fs, &cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFlags(fs *pflag.FlagSet, cfg *Config) {
	if fs.Changed("db-type") {
		cfg.DatabaseType, _ = fs.GetString("db-type")
	}
	if fs.Changed("db") {
		cfg.DatabaseURL, _ = fs.GetString("db")
	}
	if fs.Changed("locale") {
		cfg.Locale, _ = fs.GetString("locale")
	}
	if fs.Changed("gemini-model") {
		cfg.GeminiModel, _ = fs.GetString("gemini-model")
	}
	if fs.Changed("label-timeout") {
		cfg.LabelTimeout, _ = fs.GetDuration("label-timeout")
	}
	if fs.Changed("seed") {
		cfg.Seed, _ = fs.GetInt64("seed")
	}
	if fs.Changed("export-dir") {
		cfg.ExportDir, _ = fs.GetString("export-dir")
	}
	if fs.Changed("verbose") {
		cfg.Verbose, _ = fs.GetBool("verbose")
	}
}

// environment merges the process environment over the dotenv file. A
// missing file is not an error.
func environment(file string) (map[string]string, error) {
	out := map[string]string{}
	if file != "" {
		vars, err := godotenv.Read(file)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		default:
			for k, v := range vars {
				out[k] = v
			}
		}
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			out[k] = v
		}
	}
	return out, nil
}

// Validate checks values that would otherwise fail later and further away.
func (c Config) Validate() error {
	if err := db.CheckDriver(c.DatabaseType); err != nil {
		return err
	}
	if c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if c.GroupSize < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidGroupSize, c.GroupSize)
	}
	if c.LabelTimeout <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidLabelTimeout, c.LabelTimeout)
	}
	return nil
}
