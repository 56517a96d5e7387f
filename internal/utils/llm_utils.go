package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mikey/spam-classifier/internal/core"
)

// ClassificationPrompt is sent to LLM backends. %s is replaced by the email text.
const ClassificationPrompt = `You are a spam detection system. Analyze the following email and determine if it's spam.
Respond with a JSON object containing:
- is_spam: boolean (true if spam, false if not)
- confidence: number between 0 and 1 (how confident you are in your assessment)

Email:
%s

Respond only with the JSON object and nothing else.`

// SystemPrompt is the system message for chat-style backends
const SystemPrompt = "You are a spam detection system. Respond only with JSON."

// LLMVerdict is the structured reply expected from an LLM backend
type LLMVerdict struct {
	IsSpam     bool    `json:"is_spam"`
	Confidence float64 `json:"confidence"`
}

// BuildPrompt formats the classification prompt for the given email text
func BuildPrompt(text string) string {
	return fmt.Sprintf(ClassificationPrompt, text)
}

// ParseVerdict decodes an LLM reply, tolerating prose around the JSON object
func ParseVerdict(reply string) (*LLMVerdict, error) {
	var verdict LLMVerdict
	if err := json.Unmarshal([]byte(reply), &verdict); err == nil {
		return &verdict, nil
	}

	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("failed to extract JSON from LLM response")
	}

	if err := json.Unmarshal([]byte(reply[start:end+1]), &verdict); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
	}

	return &verdict, nil
}

// ToResponse maps a verdict to the endpoint response shape
func (v *LLMVerdict) ToResponse() *core.ClassificationResponse {
	category := core.CategoryHam
	if v.IsSpam {
		category = core.CategorySpam
	}

	return &core.ClassificationResponse{
		Status: "success",
		Results: []core.ClassificationResult{
			{Category: category, Confidence: v.Confidence},
		},
	}
}
