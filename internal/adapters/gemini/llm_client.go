package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/spam-classifier/internal/core"
	"github.com/mikey/spam-classifier/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiClient is an implementation of the Classifier interface using Google Gemini
type GeminiClient struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	modelName     string
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewGeminiClient creates a new Gemini classifier
func NewGeminiClient(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) (*GeminiClient, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.ResponseMIMEType = "application/json"

	return &GeminiClient{
		client:        client,
		model:         model,
		modelName:     modelName,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
	}, nil
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Classify asks the model for a spam verdict on the email text
func (c *GeminiClient) Classify(ctx context.Context, req core.ClassificationRequest) (*core.ClassificationResponse, error) {
	body := c.textProcessor.ProcessText(req.Text, c.maxBodySize)

	resp, err := c.model.GenerateContent(ctx, genai.Text(utils.BuildPrompt(body)))
	if err != nil {
		return nil, mapError(err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, core.NewTransportError(err)
	}

	verdict, err := utils.ParseVerdict(text)
	if err != nil {
		return nil, core.NewTransportError(err)
	}

	c.logger.Debug("Gemini verdict",
		zap.String("model", c.modelName),
		zap.Bool("is_spam", verdict.IsSpam))

	return verdict.ToResponse(), nil
}

// responseText concatenates the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("empty response from Gemini")
	}

	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", errors.New("empty response from Gemini")
	}

	var sb strings.Builder
	for _, part := range content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	if sb.Len() == 0 {
		return "", errors.New("no text in Gemini response")
	}
	return sb.String(), nil
}

// mapError separates API rejections from transport failures
func mapError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return core.NewApplicationError(apiErr.Code, apiErr.Message, err)
	}
	return core.NewTransportError(fmt.Errorf("failed to generate content with Gemini: %w", err))
}
