package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAPIURL        = "http://localhost:8080"
	defaultNoticeDelay   = 500 * time.Millisecond
	defaultRedirectDelay = 1500 * time.Millisecond
)

// Storage backends for the credential pair
const (
	StorageKeyring = "keyring"
	StorageFile    = "file"
	StorageMemory  = "memory"
)

// Config holds the client shell configuration
type Config struct {
	// API is the REST backend the request pipeline talks to
	API APIConfig

	// Storage selects where the credential pair is persisted
	Storage StorageConfig

	// Guard holds the blocked-page timings
	Guard GuardConfig

	Logging LoggingConfig
}

// APIConfig holds backend connection settings
type APIConfig struct {
	BaseURL string
}

// StorageConfig holds credential storage settings
type StorageConfig struct {
	Backend  string // keyring, file, memory
	StateDir string // used by the file backend
}

// GuardConfig holds the delays used when a protected page is blocked
type GuardConfig struct {
	NoticeDelay   time.Duration
	RedirectDelay time.Duration
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// ServerConfig holds configuration for the reference backend
type ServerConfig struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	UploadDir   string
	CORSOrigins []string
	Logging     LoggingConfig

	// UploadSweepSchedule is the cron expression for the orphaned upload sweep
	UploadSweepSchedule string
}

func loadDotEnv() {
	// Fails silently if files don't exist
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load loads the client configuration from environment variables
func Load() (*Config, error) {
	loadDotEnv()

	stateDir := os.Getenv("TRIPJOURNAL_STATE_DIR")
	if stateDir == "" {
		dir, err := defaultStateDir()
		if err != nil {
			return nil, err
		}
		stateDir = dir
	}

	backend := strings.ToLower(getEnv("TRIPJOURNAL_STORAGE", StorageKeyring))
	switch backend {
	case StorageKeyring, StorageFile, StorageMemory:
	default:
		return nil, fmt.Errorf("invalid TRIPJOURNAL_STORAGE %q, must be one of: keyring, file, memory", backend)
	}

	noticeDelay, err := getDuration("TRIPJOURNAL_GUARD_NOTICE_DELAY", defaultNoticeDelay)
	if err != nil {
		return nil, err
	}
	redirectDelay, err := getDuration("TRIPJOURNAL_GUARD_REDIRECT_DELAY", defaultRedirectDelay)
	if err != nil {
		return nil, err
	}

	return &Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(getEnv("TRIPJOURNAL_API_URL", defaultAPIURL), "/"),
		},
		Storage: StorageConfig{
			Backend:  backend,
			StateDir: stateDir,
		},
		Guard: GuardConfig{
			NoticeDelay:   noticeDelay,
			RedirectDelay: redirectDelay,
		},
		Logging: LoggingConfig{
			// The shell is interactive, so stay quiet unless asked
			Level:  getEnv("LOG_LEVEL", "warn"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}, nil
}

// Warnings lists settings that load fine but are unlikely to be what the user wants
func (c *Config) Warnings() []string {
	var warnings []string
	if c.Storage.Backend == StorageMemory {
		warnings = append(warnings, "TRIPJOURNAL_STORAGE=memory keeps the credential only for this process; a login will not carry over to the next command")
	}
	return warnings
}

// LoadServer loads the reference backend configuration from environment variables
func LoadServer() (*ServerConfig, error) {
	loadDotEnv()

	var origins []string
	for _, o := range strings.Split(getEnv("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return &ServerConfig{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "file::memory:?cache=shared"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		UploadDir:   getEnv("UPLOAD_DIR", filepath.Join(os.TempDir(), "tripjournal-uploads")),
		CORSOrigins: origins,
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		UploadSweepSchedule: getEnv("UPLOAD_SWEEP_SCHEDULE", "0 * * * *"),
	}, nil
}

func defaultStateDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "tripjournal"), nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}
