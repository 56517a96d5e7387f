package core

import (
	"context"
)

// Classifier defines the interface for calling a classification backend.
// Implementations report failures as *ClassificationError where they can tell
// an application failure from a transport failure.
type Classifier interface {
	// Classify sends the request and returns the decoded response
	Classify(ctx context.Context, req ClassificationRequest) (*ClassificationResponse, error)
}

// Observer receives lifecycle notifications from a RequestController.
// Notifications are delivered synchronously in transition order; observers must
// not call Submit from inside a callback.
type Observer interface {
	// OnBusyChanged is called whenever the busy flag flips
	OnBusyChanged(busy bool)

	// OnStateChanged is called after every state transition
	OnStateChanged(state State)
}
