package di

import (
	"flag"
	"io"
	"os"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/spam-classifier/internal/adapters/terminal"
	"github.com/mikey/spam-classifier/internal/config"
	"github.com/mikey/spam-classifier/internal/factory"
	"github.com/mikey/spam-classifier/internal/logging"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Classifier flags
	Provider string
	Endpoint string
	Timeout  time.Duration
	MaxChars int

	// LLM flags
	MaxTokens   int
	Temperature float64
	TopP        float64
	MaxBodySize int

	// Bedrock flags
	BedrockRegion  string
	BedrockModelID string

	// Gemini flags
	GeminiAPIKey    string
	GeminiModelName string

	// OpenAI flags
	OpenAIAPIKey    string
	OpenAIModelName string

	// Input flags
	InputFile  string
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line arguments into a CLIFlags struct
func ParseFlags(args []string) (*CLIFlags, error) {
	flags := &CLIFlags{}
	fs := flag.NewFlagSet("spam-classifier", flag.ContinueOnError)

	// Classifier flags
	fs.StringVar(&flags.Provider, "provider", factory.ProviderHTTP, "Classifier provider (http, openai, gemini, bedrock)")
	fs.StringVar(&flags.Endpoint, "endpoint", "http://localhost:8000/predict", "Classification endpoint URL for the http provider")
	fs.DurationVar(&flags.Timeout, "timeout", 30*time.Second, "Classification request timeout")
	fs.IntVar(&flags.MaxChars, "max-chars", 5000, "Advisory input character limit")

	// LLM flags
	fs.IntVar(&flags.MaxTokens, "max-tokens", 1000, "Maximum tokens for LLM response")
	fs.Float64Var(&flags.Temperature, "temperature", 0.1, "Temperature for LLM generation")
	fs.Float64Var(&flags.TopP, "top-p", 0.9, "Top-p for LLM generation")
	fs.IntVar(&flags.MaxBodySize, "max-body-size", 4096, "Maximum email body size to send to LLM")

	// Bedrock flags
	fs.StringVar(&flags.BedrockRegion, "bedrock-region", "us-east-1", "AWS region for Bedrock")
	fs.StringVar(&flags.BedrockModelID, "bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Gemini flags
	fs.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini")
	fs.StringVar(&flags.GeminiModelName, "gemini-model", "gemini-pro", "Gemini model name")

	// OpenAI flags
	fs.StringVar(&flags.OpenAIAPIKey, "openai-api-key", "", "API key for OpenAI")
	fs.StringVar(&flags.OpenAIModelName, "openai-model", "gpt-4", "OpenAI model name")

	// Input flags
	fs.StringVar(&flags.InputFile, "file", "", "Input email file (use stdin if not specified)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return flags, nil
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags, out io.Writer) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.NewFromFile(flags.ConfigFile)
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}

		// Create config from command line flags
		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	if err := provideCore(container); err != nil {
		return nil, err
	}

	// Register terminal renderer
	if out == nil {
		out = os.Stdout
	}
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) *terminal.Renderer {
		return terminal.NewRenderer(out, logger, flags.Verbose)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	v.Set("classifier.provider", flags.Provider)
	v.Set("classifier.endpoint", flags.Endpoint)
	v.Set("classifier.timeout", flags.Timeout.String())
	v.Set("input.max_chars", flags.MaxChars)

	// Set provider-specific configuration
	switch flags.Provider {
	case factory.ProviderBedrock:
		v.Set("bedrock.region", flags.BedrockRegion)
		v.Set("bedrock.model_id", flags.BedrockModelID)
		v.Set("bedrock.max_tokens", flags.MaxTokens)
		v.Set("bedrock.temperature", flags.Temperature)
		v.Set("bedrock.top_p", flags.TopP)
		v.Set("bedrock.max_body_size", flags.MaxBodySize)
	case factory.ProviderGemini:
		v.Set("gemini.api_key", flags.GeminiAPIKey)
		v.Set("gemini.model_name", flags.GeminiModelName)
		v.Set("gemini.max_tokens", flags.MaxTokens)
		v.Set("gemini.temperature", flags.Temperature)
		v.Set("gemini.top_p", flags.TopP)
		v.Set("gemini.max_body_size", flags.MaxBodySize)
	case factory.ProviderOpenAI:
		v.Set("openai.api_key", flags.OpenAIAPIKey)
		v.Set("openai.model_name", flags.OpenAIModelName)
		v.Set("openai.max_tokens", flags.MaxTokens)
		v.Set("openai.temperature", flags.Temperature)
		v.Set("openai.top_p", flags.TopP)
		v.Set("openai.max_body_size", flags.MaxBodySize)
	}

	return config.NewFromViper(v)
}
