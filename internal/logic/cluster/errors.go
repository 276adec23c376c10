package cluster

import "errors"

var (
	ErrEmptyName          = errors.New("empty name")
	ErrInvalidName        = errors.New("invalid name")
	ErrDuplicateService   = errors.New("duplicate service name")
	ErrDuplicatePod       = errors.New("duplicate pod name")
	ErrReplicaMismatch    = errors.New("replicas do not match pod count")
	ErrMaxReplicasTooLow  = errors.New("max replicas below replicas")
	ErrNonTerminalStatus  = errors.New("non-terminal service status")
	ErrUnknownPodStatus   = errors.New("unknown pod status")
	ErrNegativeRestarts   = errors.New("negative restart count")
	ErrUnknownStatus      = errors.New("unknown service status")
)
