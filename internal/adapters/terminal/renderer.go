package terminal

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mikey/spam-classifier/internal/core"
	"go.uber.org/zap"
)

const (
	barWidth       = 40
	previewLength  = 500
	spamAdvice     = "Be cautious with links and attachments."
	notSpamAdvice  = "Still verify sender authenticity."
	processingLine = "Processing..."
)

// Renderer prints request lifecycle notifications to a terminal
type Renderer struct {
	out     io.Writer
	logger  *zap.Logger
	verbose bool
}

// NewRenderer creates a new terminal renderer
func NewRenderer(out io.Writer, logger *zap.Logger, verbose bool) *Renderer {
	return &Renderer{
		out:     out,
		logger:  logger,
		verbose: verbose,
	}
}

// RenderInput prints a summary of the submitted text and its character counter
func (r *Renderer) RenderInput(text string, stats core.InputStats) {
	fmt.Fprintf(r.out, "\n=== Email Summary ===\n")
	fmt.Fprintf(r.out, "%s\n", CounterLine(stats))

	if r.verbose {
		preview := text
		if runes := []rune(preview); len(runes) > previewLength {
			preview = string(runes[:previewLength]) + "..."
		}
		fmt.Fprintf(r.out, "\nBody preview:\n%s\n", preview)
	}

	fmt.Fprintf(r.out, "\n")
}

// OnBusyChanged prints a progress line while a request is in flight
func (r *Renderer) OnBusyChanged(busy bool) {
	if busy {
		fmt.Fprintf(r.out, "=== Analysis ===\n%s\n", processingLine)
	}
}

// OnStateChanged prints terminal states
func (r *Renderer) OnStateChanged(state core.State) {
	switch state.Phase {
	case core.PhaseSucceeded:
		if state.View == nil {
			r.logger.Warn("Succeeded state without a view", zap.String("submission_id", state.SubmissionID))
			return
		}
		r.renderResult(*state.View)
	case core.PhaseFailed:
		message := core.MsgRequestFailed
		if state.Error != nil {
			message = state.Error.Message
		}
		fmt.Fprintf(r.out, "\n=== Error ===\n%s\n", message)
	}
}

func (r *Renderer) renderResult(view core.ResultViewModel) {
	fmt.Fprintf(r.out, "\n=== Results ===\n")
	fmt.Fprintf(r.out, "Classification: %s\n", view.Label)
	fmt.Fprintf(r.out, "Confidence: %s%%\n", view.ConfidencePercent)
	fmt.Fprintf(r.out, "%s\n", ConfidenceBar(view.ConfidencePercent))
	fmt.Fprintf(r.out, "%s\n", AdviceLine(view))
}

// AdviceLine is the closing recommendation for a classification
func AdviceLine(view core.ResultViewModel) string {
	advice := notSpamAdvice
	if view.IsSpam {
		advice = spamAdvice
	}
	return fmt.Sprintf("Email classified as %s (%s%% confidence). %s", view.Label, view.ConfidencePercent, advice)
}

// CounterLine formats the advisory character counter
func CounterLine(stats core.InputStats) string {
	line := fmt.Sprintf("%d/%d characters", stats.Length, stats.Limit)
	if stats.Exceeded {
		line += " (limit exceeded)"
	}
	return line
}

// ConfidenceBar draws the confidence percentage as a fixed-width bar, clamped to [0, 100]
func ConfidenceBar(percent string) string {
	value, err := strconv.ParseFloat(percent, 64)
	if err != nil {
		value = 0
	}
	value = min(max(value, 0), 100)

	filled := int(value / 100 * barWidth)
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled) + "]"
}
