package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Database    DatabaseConfig
	Server      ServerConfig
	Logging     LoggingConfig
	Auth        AuthConfig
	Pose        PoseConfig
	Feedback    FeedbackConfig
	Analysis    AnalysisConfig
	SportConfig SportConfigConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host              string
	Port              string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	MaxRequestSize    int64
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	// APIKeys are bcrypt hashes of accepted keys. Empty disables auth.
	APIKeys []string
}

// PoseConfig holds pose extraction service configuration
type PoseConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// FeedbackConfig holds feedback generation configuration
type FeedbackConfig struct {
	Mode         string // "openai", "noop"
	APIKey       string
	Model        string
	Timeout      time.Duration
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	PromptFile   string
}

// AnalysisConfig holds motion analysis tunables
type AnalysisConfig struct {
	SmoothWindow        int
	ConfidenceThreshold float64
	MinFrames           int
	MinPhaseFrames      int
	RiseThreshold       float64
	FallThreshold       float64
	DecelThreshold      float64
	TopK                int
	DefaultFPS          float64
	Timeout             time.Duration
}

// SportConfigConfig holds sport profile catalog configuration
type SportConfigConfig struct {
	Dir string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Database: DatabaseConfig{
			Enabled:         getEnv("DB_ENABLED", "false") == "true",
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "motionlab"),
			Password:        getEnv("DB_PASSWORD", "motionlab"),
			Name:            getEnv("DB_NAME", "motionlab"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Server: ServerConfig{
			Host:              getEnv("SERVER_HOST", "0.0.0.0"),
			Port:              getEnv("SERVER_PORT", "8081"),
			ReadTimeout:       getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:      getEnvDuration("SERVER_WRITE_TIMEOUT", 120*time.Second),
			MaxRequestSize:    int64(getEnvInt("SERVER_MAX_REQUEST_SIZE", 10*1024*1024)),
			RateLimitRequests: getEnvInt("SERVER_RATE_LIMIT_REQUESTS", 100),
			RateLimitWindow:   getEnvDuration("SERVER_RATE_LIMIT_WINDOW", time.Minute),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			Output: getEnv("LOG_OUTPUT", "stdout"),
		},
		Auth: AuthConfig{
			APIKeys: getEnvSlice("API_KEY_HASHES", []string{}),
		},
		Pose: PoseConfig{
			BaseURL: getEnv("POSE_SERVICE_URL", "http://localhost:8090"),
			APIKey:  getEnv("POSE_SERVICE_API_KEY", ""),
			Timeout: getEnvDuration("POSE_SERVICE_TIMEOUT", 60*time.Second),
		},
		Feedback: FeedbackConfig{
			Mode:         getEnv("FEEDBACK_MODE", "openai"),
			APIKey:       getEnv("OPENAI_API_KEY", ""),
			Model:        getEnv("FEEDBACK_MODEL", "gpt-4o-mini"),
			Timeout:      getEnvDuration("FEEDBACK_TIMEOUT", 30*time.Second),
			MaxAttempts:  getEnvInt("FEEDBACK_MAX_ATTEMPTS", 3),
			InitialDelay: getEnvDuration("FEEDBACK_INITIAL_DELAY", 1*time.Second),
			MaxDelay:     getEnvDuration("FEEDBACK_MAX_DELAY", 10*time.Second),
			Multiplier:   getEnvFloat("FEEDBACK_DELAY_MULTIPLIER", 2.0),
			PromptFile:   getEnv("FEEDBACK_PROMPT_FILE", "prompts/feedback.yaml"),
		},
		Analysis: AnalysisConfig{
			SmoothWindow:        getEnvInt("ANALYSIS_SMOOTH_WINDOW", 5),
			ConfidenceThreshold: getEnvFloat("ANALYSIS_CONFIDENCE_THRESHOLD", 0.5),
			MinFrames:           getEnvInt("ANALYSIS_MIN_FRAMES", 10),
			MinPhaseFrames:      getEnvInt("ANALYSIS_MIN_PHASE_FRAMES", 3),
			RiseThreshold:       getEnvFloat("ANALYSIS_RISE_THRESHOLD", 5.0),
			FallThreshold:       getEnvFloat("ANALYSIS_FALL_THRESHOLD", 5.0),
			DecelThreshold:      getEnvFloat("ANALYSIS_DECEL_THRESHOLD", 2.0),
			TopK:                getEnvInt("ANALYSIS_TOP_DEVIATIONS", 3),
			DefaultFPS:          getEnvFloat("ANALYSIS_DEFAULT_FPS", 24.0),
			Timeout:             getEnvDuration("ANALYSIS_TIMEOUT", 120*time.Second),
		},
		SportConfig: SportConfigConfig{
			Dir: getEnv("SPORT_CONFIG_DIR", "configs"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		// Simple comma-separated parsing
		parts := []string{}
		for _, part := range splitString(value, ",") {
			parts = append(parts, trimSpace(part))
		}
		if len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}

func splitString(s, sep string) []string {
	parts := []string{}
	current := ""
	for _, char := range s {
		if string(char) == sep {
			if current != "" {
				parts = append(parts, current)
				current = ""
			}
		} else {
			current += string(char)
		}
	}
	if current != "" {
		parts = append(parts, current)
	}
	return parts
}

func trimSpace(s string) string {
	start := 0
	end := len(s)
	for start < end && (s[start] == ' ' || s[start] == '\t') {
		start++
	}
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t') {
		end--
	}
	return s[start:end]
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name)
}
