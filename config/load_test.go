package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"librarycatalog/config"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_EnvDisablesSSLOverYAML(t *testing.T) {
	t.Setenv("APP_CONFIG", writeConfig(t, "minioUseSSL: true\n"))
	t.Setenv("DATABASE_URL", "postgres://localhost/library_test")
	t.Setenv("MINIO_USE_SSL", "false")

	cfg := config.Load()
	require.False(t, cfg.MinioUseSSL)
}

func TestLoad_EnvEnablesSSL(t *testing.T) {
	t.Setenv("APP_CONFIG", writeConfig(t, "minioUseSSL: false\n"))
	t.Setenv("DATABASE_URL", "postgres://localhost/library_test")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg := config.Load()
	require.True(t, cfg.MinioUseSSL)
}

func TestLoad_YAMLSSLKeptWithoutEnv(t *testing.T) {
	t.Setenv("APP_CONFIG", writeConfig(t, "minioUseSSL: true\n"))
	t.Setenv("DATABASE_URL", "postgres://localhost/library_test")
	t.Setenv("MINIO_USE_SSL", "")

	cfg := config.Load()
	require.True(t, cfg.MinioUseSSL)
}
