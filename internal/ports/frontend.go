package ports

// Frontend is a user-facing surface driving the request controller
type Frontend interface {
	// Start starts serving
	Start() error

	// Stop stops serving and releases resources
	Stop() error
}
