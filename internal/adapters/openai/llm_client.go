package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/mikey/spam-classifier/internal/core"
	"github.com/mikey/spam-classifier/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient is an implementation of the Classifier interface using OpenAI
type OpenAIClient struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewOpenAIClient creates a new OpenAI classifier
func NewOpenAIClient(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *OpenAIClient {
	return &OpenAIClient{
		client:        client,
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// Classify asks the model for a spam verdict on the email text
func (c *OpenAIClient) Classify(ctx context.Context, req core.ClassificationRequest) (*core.ClassificationResponse, error) {
	body := c.textProcessor.ProcessText(req.Text, c.maxBodySize)

	chatReq := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: utils.SystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: utils.BuildPrompt(body),
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, mapError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, core.NewTransportError(errors.New("empty response from OpenAI"))
	}

	verdict, err := utils.ParseVerdict(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, core.NewTransportError(err)
	}

	c.logger.Debug("OpenAI verdict",
		zap.String("model", c.modelName),
		zap.String("completion_id", resp.ID),
		zap.Bool("is_spam", verdict.IsSpam))

	return verdict.ToResponse(), nil
}

// mapError separates API rejections from transport failures
func mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return core.NewApplicationError(apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return core.NewApplicationError(reqErr.HTTPStatusCode, "", err)
	}

	return core.NewTransportError(fmt.Errorf("failed to create chat completion with OpenAI: %w", err))
}
