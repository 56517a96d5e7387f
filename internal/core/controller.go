package core

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestController owns the request lifecycle: Idle, Submitting, then
// Succeeded or Failed. Only one submission is in flight at a time.
type RequestController struct {
	classifier Classifier
	presenter  *ResultPresenter
	logger     *zap.Logger

	// mu guards state, busy and observers. emitMu is taken before mu is
	// released so notifications leave in the order transitions happened.
	mu        sync.Mutex
	emitMu    sync.Mutex
	state     State
	busy      bool
	observers []observerEntry
	nextID    int
}

type observerEntry struct {
	id       int
	observer Observer
}

// notification is one pending observer callback
type notification struct {
	busy  *bool
	state *State
}

// NewRequestController creates a controller in the Idle state
func NewRequestController(classifier Classifier, presenter *ResultPresenter, logger *zap.Logger) *RequestController {
	return &RequestController{
		classifier: classifier,
		presenter:  presenter,
		logger:     logger,
		state: State{
			Phase:     PhaseIdle,
			UpdatedAt: time.Now(),
		},
	}
}

// State returns the current state snapshot
func (c *RequestController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether a submission is in flight
func (c *RequestController) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Subscribe registers an observer and returns a function that removes it
func (c *RequestController) Subscribe(o Observer) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.observers = append(c.observers, observerEntry{id: id, observer: o})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, entry := range c.observers {
			if entry.id == id {
				c.observers = append(c.observers[:i:i], c.observers[i+1:]...)
				return
			}
		}
	}
}

// Submit runs one request lifecycle for rawText and returns the terminal state.
// Failures are reported through the Failed state, not the error; the only
// error is ErrBusy, returned without any state change while a previous
// submission is still in flight.
func (c *RequestController) Submit(ctx context.Context, rawText string) (State, error) {
	text := strings.TrimSpace(rawText)

	c.mu.Lock()
	if c.busy {
		state := c.state
		c.mu.Unlock()
		c.logger.Debug("Ignoring submission while a request is in flight",
			zap.String("submission_id", state.SubmissionID))
		return state, ErrBusy
	}

	submissionID := uuid.NewString()

	if text == "" {
		c.state = c.failedState(submissionID, NewValidationError(MsgEmptyInput))
		failed := c.state
		c.unlockAndNotify(notification{state: &failed})
		return failed, nil
	}

	c.busy = true
	c.state = State{
		Phase:        PhaseSubmitting,
		SubmissionID: submissionID,
		UpdatedAt:    time.Now(),
	}
	submitting := c.state
	busy := true
	c.unlockAndNotify(notification{busy: &busy}, notification{state: &submitting})

	c.logger.Debug("Sending classification request",
		zap.String("submission_id", submissionID),
		zap.Int("text_length", len(text)))

	resp, err := c.classifier.Classify(ctx, ClassificationRequest{Text: text})
	final := c.resolve(submissionID, resp, err)

	c.mu.Lock()
	c.busy = false
	c.state = final
	idle := false
	c.unlockAndNotify(notification{busy: &idle}, notification{state: &final})

	return final, nil
}

// resolve maps the outcome of the classifier call to a terminal state
func (c *RequestController) resolve(submissionID string, resp *ClassificationResponse, err error) State {
	if err != nil {
		return c.failedState(submissionID, AsClassificationError(err))
	}

	view, err := c.presenter.Present(resp)
	if err != nil {
		return c.failedState(submissionID, NewMalformedResponseError(err))
	}

	return State{
		Phase:        PhaseSucceeded,
		SubmissionID: submissionID,
		Response:     resp,
		View:         &view,
		UpdatedAt:    time.Now(),
	}
}

func (c *RequestController) failedState(submissionID string, cerr *ClassificationError) State {
	c.logger.Debug("Classification failed",
		zap.String("submission_id", submissionID),
		zap.String("kind", string(cerr.Kind)),
		zap.Error(cerr))

	errView := c.presenter.PresentError(cerr.Message)
	return State{
		Phase:        PhaseFailed,
		SubmissionID: submissionID,
		Error:        &errView,
		UpdatedAt:    time.Now(),
	}
}

// unlockAndNotify releases mu and delivers the notifications in order.
// The caller must hold mu.
func (c *RequestController) unlockAndNotify(notifications ...notification) {
	observers := make([]Observer, len(c.observers))
	for i, entry := range c.observers {
		observers[i] = entry.observer
	}

	c.emitMu.Lock()
	c.mu.Unlock()
	defer c.emitMu.Unlock()

	for _, n := range notifications {
		for _, o := range observers {
			if n.busy != nil {
				o.OnBusyChanged(*n.busy)
			}
			if n.state != nil {
				o.OnStateChanged(*n.state)
			}
		}
	}
}
