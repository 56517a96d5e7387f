package factory

import (
	"fmt"

	"github.com/mikey/spam-classifier/internal/adapters/bedrock"
	"github.com/mikey/spam-classifier/internal/adapters/gemini"
	"github.com/mikey/spam-classifier/internal/adapters/httpapi"
	"github.com/mikey/spam-classifier/internal/adapters/openai"
	"github.com/mikey/spam-classifier/internal/config"
	"github.com/mikey/spam-classifier/internal/core"
	"github.com/mikey/spam-classifier/internal/utils"
	"go.uber.org/zap"
)

// Supported classifier providers
const (
	ProviderHTTP    = "http"
	ProviderOpenAI  = "openai"
	ProviderGemini  = "gemini"
	ProviderBedrock = "bedrock"
)

// ClassifierFactory creates classification backends
type ClassifierFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateClassifier creates a new classifier based on the configuration
func (f *ClassifierFactory) CreateClassifier() (core.Classifier, error) {
	classifierCfg, err := f.cfg.GetClassifier()
	if err != nil {
		return nil, err
	}

	f.logger.Info("Creating classifier", zap.String("provider", classifierCfg.Provider))

	switch classifierCfg.Provider {
	case ProviderHTTP, "":
		return httpapi.NewClient(classifierCfg.Endpoint, classifierCfg.HealthURL, classifierCfg.Timeout, f.logger), nil
	case ProviderOpenAI:
		return openai.NewFactory(f.cfg, f.logger, f.textProcessor).CreateClassifier()
	case ProviderGemini:
		return gemini.NewFactory(f.cfg, f.logger, f.textProcessor).CreateClassifier()
	case ProviderBedrock:
		return bedrock.NewFactory(f.cfg, f.logger, f.textProcessor).CreateClassifier()
	default:
		return nil, fmt.Errorf("unsupported classifier provider: %s", classifierCfg.Provider)
	}
}
