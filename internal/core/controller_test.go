package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockClassifier is a mock implementation of Classifier
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, req ClassificationRequest) (*ClassificationResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ClassificationResponse), args.Error(1)
}

// recordingObserver captures notifications as short strings
type recordingObserver struct {
	mu     sync.Mutex
	events []string
	states []State
}

func (o *recordingObserver) OnBusyChanged(busy bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, fmt.Sprintf("busy:%t", busy))
}

func (o *recordingObserver) OnStateChanged(state State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, "state:"+string(state.Phase))
	o.states = append(o.states, state)
}

func (o *recordingObserver) Events() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.events...)
}

func newTestController(classifier Classifier) (*RequestController, *recordingObserver) {
	c := NewRequestController(classifier, NewResultPresenter(), zap.NewNop())
	obs := &recordingObserver{}
	c.Subscribe(obs)
	return c, obs
}

func TestRequestController_InitialState(t *testing.T) {
	c, _ := newTestController(new(MockClassifier))

	assert.Equal(t, PhaseIdle, c.State().Phase)
	assert.False(t, c.Busy())
}

func TestRequestController_Submit(t *testing.T) {
	t.Run("spam result", func(t *testing.T) {
		classifier := new(MockClassifier)
		resp := &ClassificationResponse{
			Status:  "success",
			Results: []ClassificationResult{{Category: CategorySpam, Confidence: 0.97}},
		}
		classifier.On("Classify", mock.Anything, ClassificationRequest{Text: "Win money now!!!"}).Return(resp, nil)
		c, obs := newTestController(classifier)

		state, err := c.Submit(context.Background(), "  Win money now!!!\n")

		require.NoError(t, err)
		assert.Equal(t, PhaseSucceeded, state.Phase)
		require.NotNil(t, state.View)
		assert.Equal(t, ResultViewModel{IsSpam: true, ConfidencePercent: "97.00", Label: "SPAM"}, *state.View)
		assert.Same(t, resp, state.Response)
		assert.Nil(t, state.Error)
		assert.NotEmpty(t, state.SubmissionID)
		assert.False(t, c.Busy())
		assert.Equal(t, []string{"busy:true", "state:submitting", "busy:false", "state:succeeded"}, obs.Events())
		assert.Equal(t, state.SubmissionID, obs.states[0].SubmissionID)
		classifier.AssertExpectations(t)
	})

	t.Run("ham result", func(t *testing.T) {
		classifier := new(MockClassifier)
		classifier.On("Classify", mock.Anything, mock.Anything).Return(&ClassificationResponse{
			Results: []ClassificationResult{{Category: CategoryHam, Confidence: 0.12}},
		}, nil)
		c, _ := newTestController(classifier)

		state, err := c.Submit(context.Background(), "Lunch tomorrow?")

		require.NoError(t, err)
		require.NotNil(t, state.View)
		assert.Equal(t, ResultViewModel{IsSpam: false, ConfidencePercent: "12.00", Label: "NOT SPAM"}, *state.View)
	})

	t.Run("only the first result is used", func(t *testing.T) {
		classifier := new(MockClassifier)
		classifier.On("Classify", mock.Anything, mock.Anything).Return(&ClassificationResponse{
			Results: []ClassificationResult{
				{Category: CategoryHam, Confidence: 0.6},
				{Category: CategorySpam, Confidence: 0.99},
			},
		}, nil)
		c, _ := newTestController(classifier)

		state, err := c.Submit(context.Background(), "hello")

		require.NoError(t, err)
		assert.Equal(t, "NOT SPAM", state.View.Label)
		assert.Equal(t, "60.00", state.View.ConfidencePercent)
	})
}

func TestRequestController_SubmitBlankInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "spaces", input: "    "},
		{name: "mixed whitespace", input: " \n\t\r\n "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classifier := new(MockClassifier)
			c, obs := newTestController(classifier)

			state, err := c.Submit(context.Background(), tt.input)

			require.NoError(t, err)
			assert.Equal(t, PhaseFailed, state.Phase)
			require.NotNil(t, state.Error)
			assert.Equal(t, "Please enter email content to analyze.", state.Error.Message)
			assert.Equal(t, []string{"state:failed"}, obs.Events())
			assert.False(t, c.Busy())
			classifier.AssertNotCalled(t, "Classify", mock.Anything, mock.Anything)
		})
	}
}

func TestRequestController_SubmitFailures(t *testing.T) {
	tests := []struct {
		name        string
		resp        *ClassificationResponse
		err         error
		wantMessage string
	}{
		{
			name:        "structured application error",
			err:         NewApplicationError(422, "text field required", nil),
			wantMessage: "text field required",
		},
		{
			name:        "application error without detail",
			err:         NewApplicationError(500, "", nil),
			wantMessage: "API request failed",
		},
		{
			name:        "wrapped application error",
			err:         fmt.Errorf("call failed: %w", NewApplicationError(400, "Email text is required", nil)),
			wantMessage: "Email text is required",
		},
		{
			name:        "transport error",
			err:         NewTransportError(errors.New("dial tcp 127.0.0.1:8000: connect: connection refused")),
			wantMessage: "Unable to classify email. Ensure API server is running.",
		},
		{
			name:        "unknown error",
			err:         errors.New("boom"),
			wantMessage: "Unable to classify email. Ensure API server is running.",
		},
		{
			name:        "empty results",
			resp:        &ClassificationResponse{Results: []ClassificationResult{}},
			wantMessage: "No classification result returned",
		},
		{
			name:        "missing results",
			resp:        &ClassificationResponse{Status: "success"},
			wantMessage: "No classification result returned",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classifier := new(MockClassifier)
			if tt.resp != nil {
				classifier.On("Classify", mock.Anything, mock.Anything).Return(tt.resp, nil)
			} else {
				classifier.On("Classify", mock.Anything, mock.Anything).Return(nil, tt.err)
			}
			c, obs := newTestController(classifier)

			state, err := c.Submit(context.Background(), "some email")

			require.NoError(t, err)
			assert.Equal(t, PhaseFailed, state.Phase)
			require.NotNil(t, state.Error)
			assert.Equal(t, tt.wantMessage, state.Error.Message)
			assert.Nil(t, state.View)
			assert.False(t, c.Busy())
			assert.Equal(t, []string{"busy:true", "state:submitting", "busy:false", "state:failed"}, obs.Events())
			classifier.AssertNumberOfCalls(t, "Classify", 1)
		})
	}
}

func TestRequestController_ResubmitAfterTerminalState(t *testing.T) {
	classifier := new(MockClassifier)
	classifier.On("Classify", mock.Anything, ClassificationRequest{Text: "first"}).Return(nil, errors.New("offline")).Once()
	classifier.On("Classify", mock.Anything, ClassificationRequest{Text: "second"}).Return(&ClassificationResponse{
		Results: []ClassificationResult{{Category: CategorySpam, Confidence: 0.5}},
	}, nil).Once()
	c, obs := newTestController(classifier)

	first, err := c.Submit(context.Background(), "first")
	require.NoError(t, err)
	assert.Equal(t, PhaseFailed, first.Phase)
	assert.False(t, c.Busy())

	second, err := c.Submit(context.Background(), "second")
	require.NoError(t, err)
	assert.Equal(t, PhaseSucceeded, second.Phase)
	assert.NotEqual(t, first.SubmissionID, second.SubmissionID)

	assert.Equal(t, []string{
		"busy:true", "state:submitting", "busy:false", "state:failed",
		"busy:true", "state:submitting", "busy:false", "state:succeeded",
	}, obs.Events())
	classifier.AssertExpectations(t)
}

func TestRequestController_RejectsSubmitWhileBusy(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	classifier := new(MockClassifier)
	classifier.On("Classify", mock.Anything, ClassificationRequest{Text: "first"}).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&ClassificationResponse{
			Results: []ClassificationResult{{Category: CategoryHam, Confidence: 0.8}},
		}, nil).Once()
	c, _ := newTestController(classifier)

	done := make(chan State, 1)
	go func() {
		state, _ := c.Submit(context.Background(), "first")
		done <- state
	}()

	<-started
	assert.True(t, c.Busy())
	assert.Equal(t, PhaseSubmitting, c.State().Phase)

	state, err := c.Submit(context.Background(), "second")
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, PhaseSubmitting, state.Phase)

	// Blank input is gated by the busy flag too
	_, err = c.Submit(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrBusy)

	close(release)

	select {
	case final := <-done:
		assert.Equal(t, PhaseSucceeded, final.Phase)
	case <-time.After(5 * time.Second):
		t.Fatal("submission did not complete")
	}

	assert.False(t, c.Busy())
	classifier.AssertNumberOfCalls(t, "Classify", 1)
}

func TestRequestController_Unsubscribe(t *testing.T) {
	classifier := new(MockClassifier)
	c := NewRequestController(classifier, NewResultPresenter(), zap.NewNop())

	kept := &recordingObserver{}
	removed := &recordingObserver{}
	c.Subscribe(kept)
	unsubscribe := c.Subscribe(removed)
	unsubscribe()

	_, err := c.Submit(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"state:failed"}, kept.Events())
	assert.Empty(t, removed.Events())
}
