package logging

import (
	"github.com/mikey/spam-classifier/internal/core"
	"go.uber.org/zap"
)

// LoggingObserver logs request lifecycle transitions
type LoggingObserver struct {
	logger *zap.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *zap.Logger) *LoggingObserver {
	return &LoggingObserver{logger: logger}
}

// OnBusyChanged logs the busy flag
func (o *LoggingObserver) OnBusyChanged(busy bool) {
	o.logger.Debug("Busy flag changed", zap.Bool("busy", busy))
}

// OnStateChanged logs the new state
func (o *LoggingObserver) OnStateChanged(state core.State) {
	fields := []zap.Field{
		zap.String("phase", string(state.Phase)),
		zap.String("submission_id", state.SubmissionID),
	}

	switch state.Phase {
	case core.PhaseSucceeded:
		if state.View != nil {
			fields = append(fields,
				zap.String("label", state.View.Label),
				zap.String("confidence_percent", state.View.ConfidencePercent))
		}
		o.logger.Info("Classification succeeded", fields...)
	case core.PhaseFailed:
		if state.Error != nil {
			fields = append(fields, zap.String("message", state.Error.Message))
		}
		o.logger.Warn("Classification failed", fields...)
	default:
		o.logger.Debug("Request state changed", fields...)
	}
}
