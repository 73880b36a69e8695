package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// fileConfig holds values read from the optional YAML config file
// (PDFCHECK_CONFIG). Environment variables always win over file values.
type fileConfig struct {
	Port           string   `yaml:"port"`
	Provider       string   `yaml:"provider"`
	Model          string   `yaml:"model"`
	UploadsDir     string   `yaml:"uploads_dir"`
	DBPath         string   `yaml:"db_path"`
	RedisAddr      string   `yaml:"redis_addr"`
	KafkaBrokers   []string `yaml:"kafka_brokers"`
	KafkaTopic     string   `yaml:"kafka_topic"`
	MaxRules       int      `yaml:"max_rules"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

var fileCfg fileConfig

// Load reads the optional YAML config file named by PDFCHECK_CONFIG, then
// .env from the current directory. Safe to call multiple times; existing
// env vars are not overwritten.
func Load() error {
	if path := os.Getenv("PDFCHECK_CONFIG"); path != "" {
		if err := LoadFile(path); err != nil {
			return err
		}
	}
	return godotenv.Load()
}

// LoadFile parses a YAML config file into the file-level defaults.
func LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	fileCfg = cfg
	return nil
}

// Reset clears file-level defaults. Intended for tests.
func Reset() {
	fileCfg = fileConfig{}
}

func envOrFile(env, file, def string) string {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		return v
	}
	if file != "" {
		return file
	}
	return def
}

// Port returns the listen port, without a leading colon.
func Port() string {
	return strings.TrimPrefix(envOrFile("PORT", fileCfg.Port, "8080"), ":")
}

// Provider returns the LLM provider name (gemini or openai).
func Provider() string {
	return strings.ToLower(envOrFile("LLM_PROVIDER", fileCfg.Provider, "gemini"))
}

// Model returns the model name override, or "" for the provider default.
func Model() string {
	return envOrFile("LLM_MODEL", fileCfg.Model, "")
}

// GeminiAPIKey returns the Google Gemini API key.
func GeminiAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

// OpenAIAPIKey returns the key for the OpenAI-compatible provider.
func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

// OpenAIBaseURL returns the base URL for OpenAI-compatible gateways, or ""
// for the provider default.
func OpenAIBaseURL() string {
	return os.Getenv("OPENAI_BASE_URL")
}

// UploadsDir returns the directory for transient uploaded files.
func UploadsDir() string {
	return envOrFile("PDFCHECK_UPLOADS_DIR", fileCfg.UploadsDir, "data/uploads")
}

// DBPath returns the sqlite path for check history, or "" when history is
// disabled (PDFCHECK_DB=off).
func DBPath() string {
	p := envOrFile("PDFCHECK_DB", fileCfg.DBPath, "data/checks.db")
	if strings.EqualFold(p, "off") {
		return ""
	}
	return p
}

// RedisAddr returns the Redis address for the result cache, or "" when the
// cache is disabled.
func RedisAddr() string {
	return envOrFile("REDIS_ADDR", fileCfg.RedisAddr, "")
}

// KafkaBrokers returns the Kafka broker list, or nil when event publishing
// is disabled.
func KafkaBrokers() []string {
	raw := os.Getenv("KAFKA_BROKERS")
	if raw == "" {
		if len(fileCfg.KafkaBrokers) > 0 {
			return fileCfg.KafkaBrokers
		}
		return nil
	}
	parts := strings.Split(raw, ",")
	clean := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			clean = append(clean, trimmed)
		}
	}
	return clean
}

// KafkaTopic returns the topic for check events.
func KafkaTopic() string {
	return envOrFile("PDFCHECK_TOPIC", fileCfg.KafkaTopic, "pdf-checks")
}

// MaxRules returns the maximum number of rules accepted per request.
func MaxRules() int {
	if v := os.Getenv("PDFCHECK_MAX_RULES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	if fileCfg.MaxRules > 0 {
		return fileCfg.MaxRules
	}
	return 3
}

// PdftotextBin returns the pdftotext binary path when command-based
// extraction is requested, or "" to use the built-in extractor.
func PdftotextBin() string {
	return os.Getenv("PDFCHECK_PDFTOTEXT_BIN")
}

// AllowedOrigins returns the CORS allow-list. An empty list means all
// origins are allowed.
func AllowedOrigins() []string {
	raw := os.Getenv("PDFCHECK_ALLOWED_ORIGINS")
	if raw == "" {
		return fileCfg.AllowedOrigins
	}
	parts := strings.Split(raw, ",")
	clean := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			clean = append(clean, trimmed)
		}
	}
	return clean
}
