package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultServerURL = "ws://localhost:9990/game"
	defaultOrigin    = "http://localhost/"
)

type AppConfig struct {
	ServerURL string
	Origin    string

	DialTimeout  time.Duration
	PingInterval time.Duration

	SnapshotPath string
	MessagesDir  string
}

// Load reads the environment. Files in envFiles (default ".env") are loaded
// first when present; variables already set in the process win. The result
// is not validated.
func Load(envFiles ...string) (*AppConfig, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if strings.TrimSpace(f) == "" {
			continue
		}
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &AppConfig{
		ServerURL:    defaultServerURL,
		Origin:       defaultOrigin,
		DialTimeout:  10 * time.Second,
		PingInterval: 30 * time.Second,
	}

	if v := strings.TrimSpace(os.Getenv("CHESS_SERVER_URL")); v != "" {
		cfg.ServerURL = v
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_ORIGIN")); v != "" {
		cfg.Origin = v
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_DIAL_TIMEOUT_SEC")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DialTimeout = time.Duration(n) * time.Second
		}
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_PING_INTERVAL_SEC")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PingInterval = time.Duration(n) * time.Second
		}
	}
	cfg.SnapshotPath = strings.TrimSpace(os.Getenv("CHESS_SNAPSHOT_PATH"))
	cfg.MessagesDir = strings.TrimSpace(os.Getenv("CHESS_MESSAGES_DIR"))
	return cfg, nil
}

// Validate checks the server URL. Load does not call it, so callers can
// apply flag overrides first.
func (c *AppConfig) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("CHESS_SERVER_URL: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("CHESS_SERVER_URL must use ws:// or wss://, got %q", c.ServerURL)
	}
	if u.Host == "" {
		return errors.New("CHESS_SERVER_URL has no host")
	}
	return nil
}
