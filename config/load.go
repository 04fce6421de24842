package config

import (
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads config.yaml when present, then overrides from the environment.
func Load() App {
	cfg := App{
		Port:        "8080",
		Env:         "dev",
		JWTSecret:   "local_dev_secret",
		MinioBucket: "library",
	}

	if data, err := os.ReadFile(configPath()); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			slog.Error("config.yaml parse failed", "err", err)
			panic("bad config.yaml")
		}
	}

	cfg.Port = getenv("APP_PORT", cfg.Port)
	cfg.Env = getenv("APP_ENV", cfg.Env)
	cfg.JWTSecret = getenv("JWT_SECRET", cfg.JWTSecret)
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		cfg.MinioEndpoint = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		cfg.MinioAccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		cfg.MinioSecretKey = v
	}
	if v := os.Getenv("MINIO_BUCKET"); v != "" {
		cfg.MinioBucket = v
	}
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		cfg.MinioUseSSL = v == "true"
	}

	if cfg.DatabaseURL == "" {
		slog.Error("required config missing", "key", "DATABASE_URL")
		panic("missing DATABASE_URL")
	}
	return cfg
}

func configPath() string {
	if v := os.Getenv("APP_CONFIG"); v != "" {
		return v
	}
	return "config.yaml"
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
