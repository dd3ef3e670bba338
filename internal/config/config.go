package config

import (
	"os"
	"strings"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port           string
	Debug          bool
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	TemplatePath   string
	ModelFallbacks map[string]string
	RedisAddr      string
	RedisPassword  string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	ArtifactDir    string
}

func Load() *Config {
	return &Config{
		Port:           getenv("PORT", "8080"),
		Debug:          getenv("DEBUG", "") == "1",
		OpenAIAPIKey:   getenv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  getenv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		TemplatePath:   getenv("PROMPT_TEMPLATE_PATH", "configs/research_prompt_template.txt"),
		ModelFallbacks: parseFallbacks(getenv("MODEL_FALLBACKS", "o1-pro=o1")),
		RedisAddr:      getenv("REDIS_ADDR", ""),
		RedisPassword:  getenv("REDIS_PASSWORD", ""),
		MinioEndpoint:  getenv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getenv("MINIO_BUCKET", "research-pdfs"),
		MinioUseSSL:    getenv("MINIO_USE_SSL", "false") == "true",
		ArtifactDir:    getenv("ARTIFACT_DIR", "static"),
	}
}

// parseFallbacks reads a "from=to,from=to" mapping of model ids that lack
// web-search support to the ids used in their place.
func parseFallbacks(s string) map[string]string {
	m := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		from, to, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || from == "" || to == "" {
			continue
		}
		m[from] = to
	}
	return m
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
