package operations

import "errors"

var (
	ErrServiceNotFound  = errors.New("service not found")
	ErrPodNotFound      = errors.New("pod not found")
	ErrInvalidReplicas  = errors.New("invalid replica count")
	ErrSimulatedFailure = errors.New("simulated operation failure")
	ErrShuttingDown     = errors.New("operation simulator is shutting down")
	ErrNameExhausted    = errors.New("could not generate an unused pod name")
)
