package api

// Envelope is the backend's response wrapper. A well-formed envelope with
// Success false is a normal result, not an error.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// Err returns nil for a successful envelope and an *EnvelopeError otherwise.
func (e *Envelope[T]) Err() error {
	if e == nil || e.Success {
		return nil
	}
	return &EnvelopeError{Message: e.Message}
}

// EnvelopeError reports a success:false envelope to callers that prefer a
// single error path.
type EnvelopeError struct {
	Message string
}

func (e *EnvelopeError) Error() string {
	if e.Message == "" {
		return "request was not successful"
	}
	return e.Message
}
