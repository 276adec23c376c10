package httpserver

import "time"

const (
	defaultPort = "8080"

	readTimeout       = 3 * time.Second
	readHeaderTimeout = 3 * time.Second
	// Synchronous operations (?wait=true) hold the response for the whole simulated delay.
	writeTimeout   = 30 * time.Second
	idleTimeout    = 60 * time.Second
	maxHeaderBytes = 1 << 12 // 4kb
	maxBodyBytes   = 1 << 14

	headerRole = "X-Portal-Role"
	headerUser = "X-Portal-User"

	contentTypeJSON = "application/json"
)
