package config

import (
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server   ServerConfig
	OpenAI   OpenAIConfig
	Search   SearchConfig
	Vector   VectorConfig
	Pipeline PipelineConfig
}

type ServerConfig struct {
	Port           string        `envconfig:"SERVER_PORT" default:"8000"`
	Host           string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	ReadTimeout    time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout   time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"300s"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"240s"`
	APIKey         string        `envconfig:"API_KEY" required:"true"`
	AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type OpenAIConfig struct {
	APIKey         string  `envconfig:"OPENAI_API_KEY" required:"true"`
	APIEndpoint    string  `envconfig:"OPENAI_ENDPOINT" default:"https://api.openai.com/v1"`
	Model          string  `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	EmbeddingModel string  `envconfig:"OPENAI_EMBEDDING_MODEL" default:"text-embedding-3-small"`
	MaxTokens      int64   `envconfig:"OPENAI_MAX_TOKENS" default:"1000"`
	Temperature    float64 `envconfig:"OPENAI_TEMPERATURE" default:"0.7"`
}

type SearchConfig struct {
	APIKey     string        `envconfig:"TAVILY_API_KEY" required:"true"`
	Endpoint   string        `envconfig:"TAVILY_ENDPOINT" default:"https://api.tavily.com"`
	MaxResults int           `envconfig:"TAVILY_MAX_RESULTS" default:"3"`
	Timeout    time.Duration `envconfig:"TAVILY_TIMEOUT" default:"30s"`
}

type VectorConfig struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	TopK        int    `envconfig:"RETRIEVER_TOP_K" default:"4"`
}

type PipelineConfig struct {
	AdapterTimeout time.Duration `envconfig:"ADAPTER_TIMEOUT" default:"60s"`
	TrustedDomains []string      `envconfig:"TRUSTED_DOMAINS" default:"ecoinvent.org,openlca.org,unep.org,sciencebasedtargets.org,climate-data.org,ipcc.ch,world.openfoodfacts.org"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("configuration loaded successfully")
	return &cfg, nil
}
