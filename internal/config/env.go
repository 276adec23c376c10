package config

import "time"

// Env keys. Every setting uses the PORTAL_ prefix; durations take explicit
// units (e.g. 10s, 5m).

// Log level: debug, info, warn, error.
const envKeyLogLevel = "PORTAL_LOG_LEVEL"

// Log format: json or text.
const envKeyLogFormat = "PORTAL_LOG_FORMAT"

// Port of the API and health server.
const envKeyHTTPPort = "PORTAL_HTTP_PORT"

// Port of the Prometheus metrics server (GET /metrics).
const envKeyMetricsPort = "PORTAL_METRICS_PORT"

// Component health ping interval.
const (
	envKeyPingerInterval = "PORTAL_PINGER_INTERVAL"
	envMinPingerInterval = time.Second
)

// Audit log storage: badger, file or memory.
const envKeyAuditBackend = "PORTAL_AUDIT_BACKEND"

// Directory of the badger database or the JSON audit file.
const envKeyAuditPath = "PORTAL_AUDIT_PATH"

// Number of audit entries retained.
const envKeyAuditCapacity = "PORTAL_AUDIT_CAPACITY"

// Optional YAML file replacing the built-in seed services.
const envKeyFixturesFile = "PORTAL_FIXTURES_FILE"

// Multiplier applied to every simulated operation delay; 0 disables delays.
const envKeyOperationDelayScale = "PORTAL_OPERATION_DELAY_SCALE"

// Probability in [0,1] that an operation fails after its delay.
const envKeySimulatedFailureRate = "PORTAL_SIMULATED_FAILURE_RATE"

// Role assumed when a request carries no X-Portal-Role header.
const envKeyDefaultRole = "PORTAL_DEFAULT_ROLE"

// User recorded in the audit log when a request carries no X-Portal-User header.
const envKeyDefaultUser = "PORTAL_DEFAULT_USER"

// Scheduled restarts, "svc=CRON;svc2=CRON".
const envKeyRestartSchedules = "PORTAL_RESTART_SCHEDULES"

// IANA timezone for schedules without an inline CRON_TZ.
const envKeyScheduleTZ = "PORTAL_SCHEDULE_TZ"

// How often the scheduler checks for due restarts.
const (
	envKeyScheduleTick = "PORTAL_SCHEDULE_TICK"
	envMinScheduleTick = time.Second
)

// File whose presence marks the pod as terminating.
const envKeyTerminationFile = "PORTAL_TERMINATION_FILE"
