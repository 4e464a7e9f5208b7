package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"convert-files-go/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitKeyValue(t *testing.T) {
	tests := []struct {
		line  string
		key   string
		value string
		ok    bool
	}{
		{"A=1", "A", "1", true},
		{"A = spaced ", "A", "spaced", true},
		{`A="quoted\tvalue"`, "A", "quoted\tvalue", true},
		{"A='single'", "A", "single", true},
		{"A=value # comment", "A", "value", true},
		{"A=value#kept", "A", "value#kept", true},
		{"A=", "A", "", true},
		{"=missing", "", "", false},
		{"no separator", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			key, value, ok := splitKeyValue(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.key, key)
			assert.Equal(t, tt.value, value)
		})
	}
}

func TestParseDotEnvSkipsVariablesAlreadySet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nexport CF_TEST_NEW=fresh\nCF_TEST_SET=from-file\n\nbroken line\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CF_TEST_SET", "from-env")
	t.Setenv("CF_TEST_NEW", "")
	require.NoError(t, os.Unsetenv("CF_TEST_NEW"))

	loaded, skipped, err := parseDotEnv(path)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, "fresh", os.Getenv("CF_TEST_NEW"))
	assert.Equal(t, "from-env", os.Getenv("CF_TEST_SET"))
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE", "Memory")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://portal.example.com, ,https://other.example.com")
	t.Setenv("CONVERT_FILE_CACHE_TTL", "not-a-duration")
	t.Setenv("DB_MAX_OPEN_CONNS", "25")

	cfg, err := Load(logger.New(io.Discard, slog.LevelInfo, "text"))
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, []string{"https://portal.example.com", "https://other.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, time.Minute, cfg.ConvertFileCache.TTL)
	assert.Equal(t, 25, cfg.DB.MaxOpenConns)
	assert.Contains(t, cfg.DB.GetDSN(), "dbname=convert_files")
}

func TestLoadRejectsUnknownStorage(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE", "sqlite")

	_, err := Load(logger.New(io.Discard, slog.LevelInfo, "text"))
	assert.Error(t, err)
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE", "memory")
	t.Setenv("HTTP_REQUEST_TIMEOUT", "0s")

	_, err := Load(logger.New(io.Discard, slog.LevelInfo, "text"))
	assert.ErrorContains(t, err, "HTTP_REQUEST_TIMEOUT")
}

func TestLoadReadsAPIToken(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE", "memory")
	t.Setenv("API_TOKEN", "s3cret")

	cfg, err := Load(logger.New(io.Discard, slog.LevelInfo, "text"))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.APIToken)
}

func TestLoadUsesExplicitEnvFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "staging.env")
	require.NoError(t, os.WriteFile(path, []byte("STORAGE=memory\nCF_EXPLICIT_PORT=9090\n"), 0o600))
	t.Setenv("ENV_FILE", path)
	t.Setenv("STORAGE", "")
	t.Setenv("CF_EXPLICIT_PORT", "")
	require.NoError(t, os.Unsetenv("STORAGE"))
	require.NoError(t, os.Unsetenv("CF_EXPLICIT_PORT"))

	cfg, err := Load(logger.New(io.Discard, slog.LevelInfo, "text"))
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, "9090", os.Getenv("CF_EXPLICIT_PORT"))
}

func TestLoadFailsOnMissingEnvFile(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	_, err := Load(logger.New(io.Discard, slog.LevelInfo, "text"))
	assert.ErrorContains(t, err, "ENV_FILE")
}

func TestGetDSNPrefersExplicitDSN(t *testing.T) {
	cfg := DBConfig{DSN: "postgres://u:p@db/x", Host: "ignored"}
	assert.Equal(t, "postgres://u:p@db/x", cfg.GetDSN())
}

// chdir stands in for testing.T.Chdir (Go 1.24+): it switches the working
// directory for the duration of the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
