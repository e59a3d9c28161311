package domain

import "time"

// Audit actions recorded by the portal.
const (
	AuditLogin             = "session.login"
	AuditLogout            = "session.logout"
	AuditIdleLogout        = "session.idle_logout"
	AuditRemittanceCreated = "remittance.created"
	AuditRemittanceDecided = "remittance.decided"
	AuditHospitalCreated   = "hospital.created"
	AuditHospitalUpdated   = "hospital.updated"
	AuditHospitalDeleted   = "hospital.deleted"
	AuditHospitalRestored  = "hospital.restored"
	AuditUserRegistered    = "user.registered"
	AuditUserUpdated       = "user.updated"
)

// AuditEntry is an append-only record of who did what, browsable from the
// admin audit-log page.
type AuditEntry struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actor_id"`
	ActorEmail string    `json:"actor_email"`
	Action     string    `json:"action"`
	EntityID   string    `json:"entity_id,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// AuditFilter narrows an audit-log listing. Zero values mean "no filter".
type AuditFilter struct {
	ActorEmail string
	Action     string
	From       time.Time
	To         time.Time
	Page       int
	PerPage    int
}
