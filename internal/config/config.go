package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress          string
	DatabaseURI         string
	StorageDriver       string
	JWTSecret           string
	GatePassword        string
	BlobDir             string
	BlobPublicPath      string
	MaxUploadBytes      int64
	RequirePaymentProof bool
	RedisAddr           string
	TrackingCacheTTL    time.Duration
	ShutdownTimeout     time.Duration
	LogLevel            slog.Level
}

const (
	defaultRunAddress       = ":8080"
	defaultStorageDriver    = StorageDriverPostgres
	defaultJWTSecret        = "change-me-in-production"
	defaultGatePassword     = "change-me-gate"
	defaultBlobDir          = "./uploads"
	defaultBlobPublicPath   = "/files"
	defaultMaxUploadBytes   = 2 << 20
	defaultTrackingCacheTTL = 30 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultLogLevel         = "info"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:          getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:         getString(lookup, "DATABASE_URI", ""),
		StorageDriver:       getString(lookup, "STORAGE_DRIVER", defaultStorageDriver),
		JWTSecret:           getString(lookup, "JWT_SECRET", defaultJWTSecret),
		GatePassword:        getString(lookup, "GATE_PASSWORD", defaultGatePassword),
		BlobDir:             getString(lookup, "BLOB_DIR", defaultBlobDir),
		BlobPublicPath:      getString(lookup, "BLOB_PUBLIC_PATH", defaultBlobPublicPath),
		MaxUploadBytes:      getInt64(lookup, "MAX_UPLOAD_BYTES", defaultMaxUploadBytes),
		RequirePaymentProof: getBool(lookup, "REQUIRE_PAYMENT_PROOF", true),
		RedisAddr:           getString(lookup, "REDIS_ADDR", ""),
		TrackingCacheTTL:    getDuration(lookup, "TRACKING_CACHE_TTL", defaultTrackingCacheTTL),
		ShutdownTimeout:     getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("danusan", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		trackingTTLStr     = cfg.TrackingCacheTTL.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		logLevelStr        = getString(lookup, "LOG_LEVEL", defaultLogLevel)
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.StorageDriver, "storage", cfg.StorageDriver, "Storage driver: postgres or memory")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&cfg.GatePassword, "gate-password", cfg.GatePassword, "Shared secret guarding login and register")
	fs.StringVar(&cfg.BlobDir, "blob-dir", cfg.BlobDir, "Directory for uploaded images")
	fs.StringVar(&cfg.BlobPublicPath, "blob-path", cfg.BlobPublicPath, "URL prefix uploaded images are served under")
	fs.Int64Var(&cfg.MaxUploadBytes, "max-upload", cfg.MaxUploadBytes, "Maximum uploaded image size in bytes")
	fs.BoolVar(&cfg.RequirePaymentProof, "require-proof", cfg.RequirePaymentProof, "Reject checkouts without payment proof")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address for tracking cache")
	fs.StringVar(&trackingTTLStr, "tracking-ttl", trackingTTLStr, "Tracking cache entry TTL")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&logLevelStr, "log-level", logLevelStr, "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.TrackingCacheTTL, err = time.ParseDuration(trackingTTLStr); err != nil {
		return nil, fmt.Errorf("invalid tracking cache ttl: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(logLevelStr)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}

	if cfg.TrackingCacheTTL <= 0 {
		cfg.TrackingCacheTTL = defaultTrackingCacheTTL
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		if cfg.DatabaseURI == "" {
			return nil, fmt.Errorf("database URI must be provided")
		}
		// Built-in secrets are for the memory driver only.
		if cfg.JWTSecret == defaultJWTSecret {
			return nil, fmt.Errorf("jwt secret must be set for the postgres driver")
		}
		if cfg.GatePassword == defaultGatePassword {
			return nil, fmt.Errorf("gate password must be set for the postgres driver")
		}
	case StorageDriverMemory:
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	if cfg.GatePassword == "" {
		return nil, fmt.Errorf("gate password must not be empty")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt64(lookup envLookup, key string, def int64) int64 {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
