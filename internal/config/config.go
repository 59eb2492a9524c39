package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the process configuration. Every key can be set through the
// environment with the USERDIR_ prefix (USERDIR_PORT, USERDIR_SESSION_TTL,
// ...); unset keys fall back to the defaults below.
type Config struct {
	Port        string
	AuditDBPath string

	// Hasher selects the credential digest: "md5" (default) or "argon2".
	Hasher string

	RateLimitMax    int
	RateLimitWindow time.Duration
	SessionTTL      time.Duration

	// EnforceSessionExpiry turns on rejection of sessions past their
	// deadline. Off by default: expiry is recorded on every session but
	// not checked unless this is set.
	EnforceSessionExpiry bool

	// EnforceOwnerMatch requires the authenticated identity to own the
	// account targeted by update/deactivate. Off by default: any
	// authenticated identity may act on any account.
	EnforceOwnerMatch bool
}

// Load reads configuration from the environment
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("USERDIR")
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("audit_db_path", "./userdir_audit.db")
	v.SetDefault("hasher", "md5")
	v.SetDefault("rate_limit_max", 100)
	v.SetDefault("rate_limit_window", "60s")
	v.SetDefault("session_ttl", "24h")
	v.SetDefault("enforce_session_expiry", false)
	v.SetDefault("enforce_owner_match", false)

	cfg := &Config{
		Port:                 v.GetString("port"),
		AuditDBPath:          v.GetString("audit_db_path"),
		Hasher:               v.GetString("hasher"),
		RateLimitMax:         v.GetInt("rate_limit_max"),
		RateLimitWindow:      v.GetDuration("rate_limit_window"),
		SessionTTL:           v.GetDuration("session_ttl"),
		EnforceSessionExpiry: v.GetBool("enforce_session_expiry"),
		EnforceOwnerMatch:    v.GetBool("enforce_owner_match"),
	}

	if cfg.RateLimitMax <= 0 {
		return nil, fmt.Errorf("rate_limit_max must be positive, got %d", cfg.RateLimitMax)
	}
	if cfg.RateLimitWindow <= 0 {
		return nil, fmt.Errorf("rate_limit_window must be positive, got %s", cfg.RateLimitWindow)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("session_ttl must be positive, got %s", cfg.SessionTTL)
	}

	return cfg, nil
}
