package core

import (
	"time"
)

// Categories returned by the classification endpoint
const (
	CategorySpam = "spam"
	CategoryHam  = "ham"
)

// ClassificationRequest is the body sent to the classification endpoint
type ClassificationRequest struct {
	Text string `json:"text"`
}

// ClassificationResult is a single category/confidence pair
type ClassificationResult struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// ClassificationResponse is the payload returned by the classification endpoint.
// Only the first result is consumed.
type ClassificationResponse struct {
	Status  string                 `json:"status,omitempty"`
	Results []ClassificationResult `json:"results"`
}

// Phase is the lifecycle phase of a RequestController
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// IsTerminal reports whether the phase ends a lifecycle
func (p Phase) IsTerminal() bool {
	return p == PhaseSucceeded || p == PhaseFailed
}

// State is a snapshot of the controller's request state.
// Response and View are set only in PhaseSucceeded, Error only in PhaseFailed.
type State struct {
	Phase        Phase                   `json:"phase"`
	SubmissionID string                  `json:"submission_id,omitempty"`
	Response     *ClassificationResponse `json:"response,omitempty"`
	View         *ResultViewModel        `json:"view,omitempty"`
	Error        *ErrorViewModel         `json:"error,omitempty"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

// ResultViewModel is the presentation-ready form of a successful classification
type ResultViewModel struct {
	IsSpam            bool   `json:"is_spam"`
	ConfidencePercent string `json:"confidence_percent"`
	Label             string `json:"label"`
}

// ErrorViewModel is the presentation-ready form of a failed classification
type ErrorViewModel struct {
	Message string `json:"message"`
}

// InputStats tracks the advisory character limit for the submitted text
type InputStats struct {
	Length   int  `json:"length"`
	Limit    int  `json:"limit"`
	Exceeded bool `json:"exceeded"`
}
