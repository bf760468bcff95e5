package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults for the Ark (Volcengine) deployment the paper reader talks to.
const (
	DefaultBaseURL        = "https://ark.cn-beijing.volces.com/api/v3"
	DefaultTranslateModel = "ep-20250215140713-kfs9q"
	DefaultExplainModel   = "ep-20250215132839-4dh6l"
)

type Config struct {
	ServerAddr     string
	APIKey         string
	BaseURL        string
	TranslateModel string
	ExplainModel   string
	PromptsFile    string
	LogLevel       string
	MaxUploadMB    int
}

// Load reads .env (if present) and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerAddr:     getenv("SERVER_ADDR", ":5000"),
		APIKey:         getenv("ARK_API_KEY", ""),
		BaseURL:        getenv("ARK_BASE_URL", DefaultBaseURL),
		TranslateModel: getenv("TRANSLATE_MODEL", DefaultTranslateModel),
		ExplainModel:   getenv("EXPLAIN_MODEL", DefaultExplainModel),
		PromptsFile:    getenv("PROMPTS_FILE", ""),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		MaxUploadMB:    getenvInt("MAX_UPLOAD_MB", 32),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
