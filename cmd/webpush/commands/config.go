package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds the CLI settings.
type Config struct {
	// KeysFile is where the VAPID keys are stored.
	KeysFile string
	// KeeperURL, when set, seals the keys file with a gocloud.dev keeper.
	KeeperURL string
	// AdminContact is the VAPID sub claim.
	AdminContact string
	// TTL is the push TTL header.
	TTL time.Duration
	// JWTTTL is the VAPID token lifetime.
	JWTTTL time.Duration
	// HTTPTimeout bounds each delivery.
	HTTPTimeout time.Duration
	// LogLevel is one of debug, info, warn or error.
	LogLevel string
}

// LoadConfig reads the configuration from the environment and a .env file.
func LoadConfig() Config {
	loadDotEnv()

	return Config{
		KeysFile:     env.GetString("WEBPUSH_KEYS_FILE", "webpush-keys.json"),
		KeeperURL:    env.GetString("WEBPUSH_KEYS_KEEPER_URL", ""),
		AdminContact: env.GetString("WEBPUSH_ADMIN_CONTACT", ""),
		TTL:          env.GetDuration("WEBPUSH_TTL_SECONDS", 60, time.Second),
		JWTTTL:       env.GetDuration("WEBPUSH_JWT_TTL_SECONDS", 86400, time.Second),
		HTTPTimeout:  env.GetDuration("WEBPUSH_HTTP_TIMEOUT_SECONDS", 30, time.Second),
		LogLevel:     env.GetString("WEBPUSH_LOG_LEVEL", "info"),
	}
}

// Level returns the slog level for LogLevel.
func (c Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
}

// loadDotEnv loads the nearest .env file from the working directory upward.
func loadDotEnv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}

	for {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
