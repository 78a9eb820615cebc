package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/brainventure/internal/apperr"
)

// isolate points XDG paths and the working directory at a temp dir and
// clears BRAINVENTURE_* variables.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, k := range []string{"DATA_DIR", "CONTENT_DIR", "USER", "TIE_BREAKER", "LOG_MODE", "LOG_FILE", "DEBUG"} {
		// Setenv registers the restore; Unsetenv lets godotenv fill the key.
		t.Setenv(EnvPrefix+k, "")
		os.Unsetenv(EnvPrefix + k)
	}
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(Options{})
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "default_user", cfg.UserID)
	assert.Equal(t, "random", cfg.TieBreaker)
	assert.Equal(t, "dev", cfg.Log.Mode)
	assert.Equal(t, filepath.Join(dir, "data", "brainventure"), cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "data", "brainventure", "logs", "brainventure.log"), cfg.LogFile())
}

func TestLoadLayering(t *testing.T) {
	dir := isolate(t)

	path, err := DefaultPath()
	require.NoError(t, err)
	file := &Config{UserID: "from_file", TieBreaker: "priority", ContentDir: "/content", Log: LogConfig{Mode: "prod"}}
	require.NoError(t, file.SaveToFile(path))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BRAINVENTURE_CONTENT_DIR=/from-dotenv\n"), 0o644))
	t.Setenv(EnvPrefix+"USER", "from_env")

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.UserID, "env beats file")
	assert.Equal(t, "priority", cfg.TieBreaker, "file beats default")
	assert.Equal(t, "/from-dotenv", cfg.ContentDir, ".env fills unset variables")
	assert.Equal(t, "prod", cfg.Log.Mode)

	cfg.Merge(&Config{UserID: "from_flag"})
	assert.Equal(t, "from_flag", cfg.UserID, "flags beat env")
	assert.Equal(t, "priority", cfg.TieBreaker)
}

func TestLoadExplicitPathMustExist(t *testing.T) {
	isolate(t)
	_, err := Load(Options{Path: "/no/such/config.yaml"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConfiguration))
}

func TestLoadBadYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user_id: [unclosed"), 0o644))

	_, err := Load(Options{Path: path})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConfiguration))
	assert.NotContains(t, apperr.UserMessage(err), dir, "user message must not leak paths")
}

func TestLoadBadDebugEnv(t *testing.T) {
	isolate(t)
	t.Setenv(EnvPrefix+"DEBUG", "sometimes")
	_, err := Load(Options{})
	assert.True(t, apperr.IsKind(err, apperr.KindConfiguration))
}

func TestValidate(t *testing.T) {
	isolate(t)
	tests := []struct {
		name   string
		mutate func(*Config)
		kind   apperr.Kind
	}{
		{"bad user id", func(c *Config) { c.UserID = "../x" }, apperr.KindUserData},
		{"bad tie breaker", func(c *Config) { c.TieBreaker = "coin" }, apperr.KindConfiguration},
		{"bad log mode", func(c *Config) { c.Log.Mode = "loud" }, apperr.KindConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
		})
	}
}

func TestMergeKeepsUnsetFields(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/data"
	cfg.Merge(&Config{Log: LogConfig{Debug: true}})
	assert.Equal(t, "/data", cfg.DataDir)
	assert.True(t, cfg.Log.Debug)
	cfg.Merge(nil)
	assert.Equal(t, "default_user", cfg.UserID)
}
