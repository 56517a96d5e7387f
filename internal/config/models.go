package config

import (
	"fmt"
	"time"
)

// ClassifierConfig represents the configuration for the classification backend
type ClassifierConfig struct {
	Provider  string
	Endpoint  string
	HealthURL string
	Timeout   time.Duration
}

// InputConfig represents the advisory input limits
type InputConfig struct {
	MaxChars int
}

// ServerConfig represents the configuration for the web front end
type ServerConfig struct {
	ListenAddress   string
	Mode            string
	ShutdownTimeout time.Duration
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GetClassifier returns the classifier configuration
func (c *Config) GetClassifier() (ClassifierConfig, error) {
	timeout, err := c.GetDuration("classifier.timeout")
	if err != nil {
		return ClassifierConfig{}, fmt.Errorf("invalid classifier timeout: %w", err)
	}

	return ClassifierConfig{
		Provider:  c.GetString("classifier.provider"),
		Endpoint:  c.GetString("classifier.endpoint"),
		HealthURL: c.GetString("classifier.health_url"),
		Timeout:   timeout,
	}, nil
}

// GetInput returns the input configuration
func (c *Config) GetInput() InputConfig {
	return InputConfig{
		MaxChars: c.GetInt("input.max_chars"),
	}
}

// GetServer returns the web front end configuration
func (c *Config) GetServer() (ServerConfig, error) {
	shutdownTimeout, err := c.GetDuration("server.shutdown_timeout")
	if err != nil {
		return ServerConfig{}, fmt.Errorf("invalid server shutdown timeout: %w", err)
	}

	return ServerConfig{
		ListenAddress:   c.GetString("server.listen_address"),
		Mode:            c.GetString("server.mode"),
		ShutdownTimeout: shutdownTimeout,
	}, nil
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxBodySize: c.GetInt("bedrock.max_body_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxBodySize: c.GetInt("gemini.max_body_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxBodySize: c.GetInt("openai.max_body_size"),
	}
}
