package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string        `mapstructure:"port"`
	UploadDir      string        `mapstructure:"upload_dir"`
	IndexDir       string        `mapstructure:"index_dir"`
	GeminiAPIKey   string        `mapstructure:"GEMINI_API_KEY"`
	GroqAPIKey     string        `mapstructure:"GROQ_API_KEY"`
	GroqEndpoint   string        `mapstructure:"groq_endpoint"`
	EmbeddingModel string        `mapstructure:"embedding_model"`
	ChatModels     []string      `mapstructure:"chat_models"`
	DefaultModel   string        `mapstructure:"default_model"`
	ChunkSize      int           `mapstructure:"chunk_size"`
	ChunkOverlap   int           `mapstructure:"chunk_overlap"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("port", "8080")
	v.SetDefault("upload_dir", "data")
	v.SetDefault("index_dir", "news_vectorstore_index")
	v.SetDefault("groq_endpoint", "https://api.groq.com/openai/v1")
	v.SetDefault("embedding_model", "embedding-001")
	v.SetDefault("chat_models", []string{"llama3-8b-8192", "llama3-70b-8192", "mixtral-8x7b-32768"})
	v.SetDefault("default_model", "llama3-8b-8192")
	v.SetDefault("chunk_size", 1000)
	v.SetDefault("chunk_overlap", 100)
	v.SetDefault("request_timeout", 30*time.Second)

	v.AutomaticEnv()
	v.BindEnv("GEMINI_API_KEY")
	v.BindEnv("GROQ_API_KEY")

	// Missing config file is fine, defaults plus env cover everything.
	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap must be in [0, chunk_size), got %d", c.ChunkOverlap)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

// AllowsModel reports whether name is one of the configured chat models.
func (c *Config) AllowsModel(name string) bool {
	for _, m := range c.ChatModels {
		if m == name {
			return true
		}
	}
	return false
}
