package entity

import "time"

// Entity types recorded in the audit trail.
const (
	EntityTaxpayer     = "taxpayer"
	EntityUser         = "user"
	EntityOrganization = "organization"
)

// Audit actions.
const (
	ActionCreate         = "create"
	ActionUpdate         = "update"
	ActionSoftDelete     = "soft_delete"
	ActionHardDelete     = "hard_delete"
	ActionVerify         = "verify"
	ActionRegister       = "register"
	ActionChangePassword = "change_password"
)

// AuditLog is an append-only record of a mutating action.
type AuditLog struct {
	ID         string
	UserID     string
	EntityType string
	EntityID   string
	Action     string
	Details    map[string]any
	IPAddress  *string
	UserAgent  *string
	RequestID  *string
	Timestamp  time.Time
}
