package config

import (
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends understood by STORAGE_BACKEND.
const (
	BackendLocal = "local"
	BackendMinio = "minio"
)

// Config stores the application configuration.
// It is built once at startup and handed to the components that need it.
type Config struct {
	Port int
	IP   string

	TracksPath       string // Default track root, used when no user is given
	UserTracksBase   string // Per-user roots live at UserTracksBase/<user>/UserTracksSuffix
	UserTracksSuffix string
	AliasDir         string // Symlink directory for user aliases; empty disables aliases
	ClientDir        string // Static client assets
	IndexFile        string // Page served on "/"

	// Basic auth is only enforced when the server listens on AuthPort.
	AuthPort         int
	AuthUser         string
	AuthPassword     string
	AuthPasswordHash string // bcrypt hash; takes precedence over AuthPassword
	AuthRealm        string

	StorageBackend string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioRegion    string

	LogLevel      string
	LogFile       string
	LogMaxSize    int
	LogMaxBackups int
	LogMaxAge     int
	LogCompress   bool

	ReadTimeout     time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool gets an environment variable as bool or returns a default value.
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration gets an environment variable as a duration or returns a default value.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via the given .env file) or defaults.
// An empty envFile skips the .env lookup.
func Load(envFile string) *Config {
	if envFile != "" {
		// godotenv.Load never overrides variables that are already set.
		if err := godotenv.Load(envFile); err != nil {
			log.Printf("No %s file loaded (%v), relying on existing environment variables and defaults.", envFile, err)
		}
	}

	return &Config{
		Port: getEnvInt("PORT", 3000),
		IP:   getEnv("IP", "0.0.0.0"),

		TracksPath:       getEnv("TRACKS_PATH", "/home/kim/data/abouchereau/files/player-multipiste"),
		UserTracksBase:   getEnv("USER_TRACKS_BASE", "/home/kim/data"),
		UserTracksSuffix: getEnv("USER_TRACKS_SUFFIX", "files/multipiste"),
		AliasDir:         getEnv("ALIAS_DIR", ""),
		ClientDir:        getEnv("CLIENT_DIR", "client"),
		IndexFile:        getEnv("INDEX_FILE", "index.html"),

		AuthPort:         getEnvInt("AUTH_PORT", 8009),
		AuthUser:         getEnv("AUTH_USER", "super"),
		AuthPassword:     getEnv("AUTH_PASSWORD", "secret"),
		AuthPasswordHash: os.Getenv("AUTH_PASSWORD_HASH"),
		AuthRealm:        getEnv("AUTH_REALM", "Super duper secret area"),

		StorageBackend: getEnv("STORAGE_BACKEND", BackendLocal),
		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", "multipiste"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),
		MinioRegion:    getEnv("MINIO_REGION", ""),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       os.Getenv("LOG_FILE"),
		LogMaxSize:    getEnvInt("LOG_MAX_SIZE", 100),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAge:     getEnvInt("LOG_MAX_AGE", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", false),

		ReadTimeout:     getEnvDuration("READ_TIMEOUT", 30*time.Second),
		IdleTimeout:     getEnvDuration("IDLE_TIMEOUT", 120*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
	}
}

// Validate checks value constraints that would otherwise fail at runtime.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be 1-65535, got %d", c.Port)
	}
	if c.TracksPath == "" {
		return fmt.Errorf("TRACKS_PATH is required")
	}
	switch c.StorageBackend {
	case BackendLocal:
	case BackendMinio:
		if c.MinioEndpoint == "" {
			return fmt.Errorf("MINIO_ENDPOINT is required for the minio backend")
		}
		if c.MinioBucket == "" {
			return fmt.Errorf("MINIO_BUCKET is required for the minio backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.IP, strconv.Itoa(c.Port))
}

// AuthEnabled reports whether the basic auth gate applies to this server.
func (c *Config) AuthEnabled() bool {
	return c.Port == c.AuthPort
}
