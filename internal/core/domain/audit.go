package domain

import "time"

// Audit actions.
const (
	AuditActionRegister = "register"
	AuditActionLogin    = "login"
)

// Audit outcomes.
const (
	AuditOutcomeSuccess  = "success"
	AuditOutcomeFailure  = "failure"
	AuditOutcomeThrottle = "throttled"
)

// AuditEvent records a single authentication attempt for the security trail.
type AuditEvent struct {
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Outcome   string    `json:"outcome"`
	Timestamp time.Time `json:"timestamp"`
}
