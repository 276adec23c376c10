package httpserver

import "errors"

var (
	ErrServerNotReady = errors.New("server is not ready")
	ErrInvalidBody    = errors.New("invalid request body")
	ErrSameReplicas   = errors.New("replicas equal to current")
	ErrInvalidVersion = errors.New("invalid registry version")
)
