package metrics

import (
	"sync"
	"time"

	"github.com/mikey/spam-classifier/internal/core"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for the submissions counter
const (
	OutcomeSpam   = "spam"
	OutcomeHam    = "ham"
	OutcomeFailed = "failed"
)

// MetricsObserver records request lifecycle metrics
type MetricsObserver struct {
	submissions *prometheus.CounterVec
	duration    prometheus.Histogram
	inFlight    prometheus.Gauge

	mu      sync.Mutex
	started map[string]time.Time
	now     func() time.Time
}

// NewMetricsObserver creates the collectors and registers them with reg
func NewMetricsObserver(reg prometheus.Registerer) (*MetricsObserver, error) {
	o := &MetricsObserver{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spam_classifier",
			Name:      "submissions_total",
			Help:      "Classification submissions by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "spam_classifier",
			Name:      "submission_duration_seconds",
			Help:      "Time from Submitting to a terminal state.",
			Buckets:   prometheus.DefBuckets,
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "spam_classifier",
			Name:      "busy",
			Help:      "1 while a classification request is in flight.",
		}),
		started: make(map[string]time.Time),
		now:     time.Now,
	}

	for _, c := range []prometheus.Collector{o.submissions, o.duration, o.inFlight} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// OnBusyChanged tracks the in-flight gauge
func (o *MetricsObserver) OnBusyChanged(busy bool) {
	if busy {
		o.inFlight.Set(1)
		return
	}
	o.inFlight.Set(0)
}

// OnStateChanged counts terminal outcomes and observes lifecycle duration
func (o *MetricsObserver) OnStateChanged(state core.State) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch state.Phase {
	case core.PhaseSubmitting:
		o.started[state.SubmissionID] = o.now()
		return
	case core.PhaseSucceeded:
		outcome := OutcomeHam
		if state.View != nil && state.View.IsSpam {
			outcome = OutcomeSpam
		}
		o.submissions.WithLabelValues(outcome).Inc()
	case core.PhaseFailed:
		o.submissions.WithLabelValues(OutcomeFailed).Inc()
	default:
		return
	}

	if start, ok := o.started[state.SubmissionID]; ok {
		o.duration.Observe(o.now().Sub(start).Seconds())
		delete(o.started, state.SubmissionID)
	}
}
