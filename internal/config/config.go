package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type Config struct {
	Addr                 string
	TokenKey             string
	OperatorLogin        string
	OperatorPasswordHash string
	ChartFile            string
	LogLevel             string
	LogDir               string
	TLSCert              string
	TLSKey               string
	RateLimit            float64
	RateBurst            int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads the environment, first merging in the given .env files if they
// exist. Variables already set in the environment win.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg := Config{
		Addr:                 getenv("ADDR", ":8080"),
		TokenKey:             os.Getenv("TOKEN_KEY"),
		OperatorLogin:        os.Getenv("OPERATOR_LOGIN"),
		OperatorPasswordHash: os.Getenv("OPERATOR_PASSWORD_HASH"),
		ChartFile:            os.Getenv("CHART_FILE"),
		LogLevel:             getenv("LOG_LEVEL", "info"),
		LogDir:               os.Getenv("LOG_DIR"),
		TLSCert:              os.Getenv("TLS_CERT"),
		TLSKey:               os.Getenv("TLS_KEY"),
	}

	var err error
	if cfg.RateLimit, err = cast.ToFloat64E(getenv("RATE_LIMIT", "5")); err != nil {
		return Config{}, fmt.Errorf("RATE_LIMIT: %w", err)
	}
	if cfg.RateBurst, err = cast.ToIntE(getenv("RATE_BURST", "10")); err != nil {
		return Config{}, fmt.Errorf("RATE_BURST: %w", err)
	}

	if cfg.TokenKey == "" {
		return Config{}, errors.New("TOKEN_KEY environment variable is not set")
	}
	if cfg.RateLimit <= 0 || cfg.RateBurst <= 0 {
		return Config{}, errors.New("RATE_LIMIT and RATE_BURST must be positive")
	}
	if (cfg.TLSCert == "") != (cfg.TLSKey == "") {
		return Config{}, errors.New("TLS_CERT and TLS_KEY must be set together")
	}

	return cfg, nil
}

func (c Config) TLS() bool {
	return c.TLSCert != ""
}
