package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	TextModel     string

	ImageAPIKey         string
	ImageBaseURL        string
	ImageModel          string
	ImageSize           string
	ImagePollAttempts   int
	ImagePollInterval   time.Duration
	ImageRequestTimeout time.Duration
	PlaceholderURL      string
	PlaceholderMarkers  []string

	AssetFetchTimeout time.Duration
	// AssetTLSInsecure disables certificate verification when downloading
	// generated assets. The asset CDN is not assumed to present a verifiable
	// chain; set ASSET_TLS_INSECURE=false to turn verification back on.
	AssetTLSInsecure bool

	FontPath  string
	InputPath string
	OutputDir string

	Port             string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	openAIKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	cfg := &Config{
		AppEnv:              getEnv("APP_ENV", "development"),
		OpenAIAPIKey:        openAIKey,
		OpenAIBaseURL:       getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		TextModel:           getEnv("DEFAULT_MODEL_NAME", "ali/qwen3-max"),
		ImageAPIKey:         getEnv("IMAGE_API_KEY", openAIKey),
		ImageBaseURL:        getEnv("IMAGE_BASE_URL", "https://router.shengsuanyun.com/api/v1"),
		ImageModel:          getEnv("IMAGE_MODEL", "bytedance/doubao-seedream-4.0"),
		ImageSize:           getEnv("IMAGE_SIZE", "1024x1024"),
		ImagePollAttempts:   getEnvInt("IMAGE_POLL_ATTEMPTS", 25),
		ImagePollInterval:   time.Second * time.Duration(getEnvInt("IMAGE_POLL_INTERVAL_SECONDS", 4)),
		ImageRequestTimeout: time.Second * time.Duration(getEnvInt("IMAGE_REQUEST_TIMEOUT_SECONDS", 30)),
		PlaceholderURL:      getEnv("PLACEHOLDER_URL", "https://via.placeholder.com/1024"),
		PlaceholderMarkers:  splitList(getEnv("PLACEHOLDER_MARKERS", "placeholder")),
		AssetFetchTimeout:   time.Second * time.Duration(getEnvInt("ASSET_FETCH_TIMEOUT_SECONDS", 60)),
		AssetTLSInsecure:    getEnvBool("ASSET_TLS_INSECURE", true),
		FontPath:            getEnv("FONT_PATH", "font.ttf"),
		InputPath:           getEnv("INPUT_PATH", "inputs.json"),
		OutputDir:           getEnv("OUTPUT_DIR", "outputs"),
		Port:                getEnv("PORT", "8080"),
		HTTPReadTimeout:     time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:    time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:     time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.ImagePollAttempts < 1 {
		return nil, fmt.Errorf("IMAGE_POLL_ATTEMPTS must be at least 1, got %d", cfg.ImagePollAttempts)
	}
	if cfg.ImagePollInterval < 0 {
		return nil, fmt.Errorf("IMAGE_POLL_INTERVAL_SECONDS must not be negative")
	}
	if strings.TrimSpace(cfg.FontPath) == "" {
		return nil, fmt.Errorf("FONT_PATH is required")
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return nil, fmt.Errorf("OUTPUT_DIR is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
