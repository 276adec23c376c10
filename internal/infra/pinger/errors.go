package pinger

import "errors"

var (
	ErrNilPinger               = errors.New("pinger cannot be nil")
	ErrPingerNotFound          = errors.New("pinger not found")
	ErrPingerAlreadyRegistered = errors.New("pinger already registered")
)
