package core

import (
	"strconv"
	"strings"
)

// Labels shown for each category
const (
	LabelSpam    = "SPAM"
	LabelNotSpam = "NOT SPAM"
)

// ResultPresenter maps classification outcomes to view-models. It holds no state.
type ResultPresenter struct{}

// NewResultPresenter creates a new presenter
func NewResultPresenter() *ResultPresenter {
	return &ResultPresenter{}
}

// Present derives the view-model from the first result of the response.
// Confidence is not clamped: values outside [0,1] are formatted as they come.
func (p *ResultPresenter) Present(resp *ClassificationResponse) (ResultViewModel, error) {
	if resp == nil || len(resp.Results) == 0 {
		return ResultViewModel{}, ErrNoResults
	}

	result := resp.Results[0]
	isSpam := result.Category == CategorySpam

	label := LabelNotSpam
	if isSpam {
		label = LabelSpam
	}

	return ResultViewModel{
		IsSpam:            isSpam,
		ConfidencePercent: FormatConfidence(result.Confidence),
		Label:             label,
	}, nil
}

// PresentError wraps a failure message in its view-model
func (p *ResultPresenter) PresentError(message string) ErrorViewModel {
	return ErrorViewModel{Message: message}
}

// FormatConfidence renders a [0,1] confidence as a percentage with two decimals.
// Exact halfway values round away from zero, so 12.125 becomes "12.13".
func FormatConfidence(confidence float64) string {
	percent := confidence * 100

	// FormatFloat rounds exact ties to even
	three := strconv.FormatFloat(percent, 'f', 3, 64)
	if strings.HasSuffix(three, "5") {
		if exact, err := strconv.ParseFloat(three, 64); err == nil && exact == percent {
			// Away from zero, matching JavaScript toFixed
			down, _ := strconv.ParseFloat(three[:len(three)-1], 64)
			step := 0.01
			if percent < 0 {
				step = -0.01
			}
			return strconv.FormatFloat(down+step, 'f', 2, 64)
		}
	}

	return strconv.FormatFloat(percent, 'f', 2, 64)
}
