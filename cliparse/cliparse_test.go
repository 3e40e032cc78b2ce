// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/flowhub/db"
)

// noEnvFile keeps a stray .env in the package directory out of the tests.
var noEnvFile = []string{"--env-file", ""}

func TestParseFlags_Defaults(t *testing.T) {
	cfg, err := ParseFlags(noEnvFile)
	require.NoError(t, err)

	assert.Equal(t, db.DriverSQLite, cfg.DatabaseType)
	assert.Equal(t, "flowhub.db", cfg.DatabaseURL)
	assert.Equal(t, 10*time.Second, cfg.LabelTimeout)
	assert.Equal(t, "zh-TW", cfg.Locale)
	assert.Equal(t, 4, cfg.GroupSize)
	assert.Equal(t, int64(0), cfg.Seed)
	assert.Equal(t, ".", cfg.ExportDir)
	assert.False(t, cfg.Verbose)
}

func TestParseFlags_EnvVars(t *testing.T) {
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("LABEL_TIMEOUT", "3s")
	t.Setenv("FLOWHUB_LOCALE", "en-US")
	t.Setenv("GROUP_SIZE", "6")
	t.Setenv("GROUP_THEME", "Space")
	t.Setenv("FLOWHUB_SEED", "99")
	t.Setenv("EXPORT_S3_BUCKET", "hr-exports")
	t.Setenv("EXPORT_S3_PATH_STYLE", "true")

	cfg, err := ParseFlags(noEnvFile)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DatabaseType)
	assert.Equal(t, "postgres://test", cfg.DatabaseURL)
	assert.Equal(t, "key", cfg.GeminiAPIKey)
	assert.Equal(t, 3*time.Second, cfg.LabelTimeout)
	assert.Equal(t, "en-US", cfg.Locale)
	assert.Equal(t, 6, cfg.GroupSize)
	assert.Equal(t, "Space", cfg.Theme)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, "hr-exports", cfg.ExportBucket)
	assert.True(t, cfg.ExportPathStyle)
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "from-env.db")
	t.Setenv("FLOWHUB_LOCALE", "en-US")

	cfg, err := ParseFlags(append(noEnvFile, "-d", "from-flag.db", "--label-timeout", "2s", "--seed", "7", "-v"))
	require.NoError(t, err)

	// CLI should override env
	assert.Equal(t, "from-flag.db", cfg.DatabaseURL)
	assert.Equal(t, "en-US", cfg.Locale, "unset flags leave env alone")
	assert.Equal(t, 2*time.Second, cfg.LabelTimeout)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.True(t, cfg.Verbose)
}

func TestParseFlags_EnvFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("GROUP_SIZE=5\nGROUP_THEME=Ocean\n"), 0o600))
	t.Setenv("GROUP_THEME", "Forest")

	cfg, err := ParseFlags([]string{"--env-file", file})
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.GroupSize)
	assert.Equal(t, "Forest", cfg.Theme, "environment wins over dotenv")
}

func TestParseFlags_MissingEnvFileIgnored(t *testing.T) {
	_, err := ParseFlags([]string{"--env-file", filepath.Join(t.TempDir(), "absent.env")})
	require.NoError(t, err)
}

func TestParseFlags_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		args    []string
		wantErr error
	}{
		{"unknown database", map[string]string{"DATABASE_TYPE": "mysql"}, nil, db.ErrUnsupportedDriver},
		{"zero group size", map[string]string{"GROUP_SIZE": "0"}, nil, ErrInvalidGroupSize},
		{"zero timeout", nil, []string{"--label-timeout", "0s"}, ErrInvalidLabelTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := ParseFlags(append(append([]string{}, noEnvFile...), tt.args...))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseFlags_BadEnvValue(t *testing.T) {
	t.Setenv("GROUP_SIZE", "many")
	_, err := ParseFlags(noEnvFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse environment")
}

func TestParseFlags_UnknownFlag(t *testing.T) {
	_, err := ParseFlags([]string{"--port", "80"})
	assert.Error(t, err)
}
