package domain

import "time"

// AuditAction is the kind of state transition recorded in the audit trail.
type AuditAction string

const (
	AuditActionCreate  AuditAction = "create"
	AuditActionUpdate  AuditAction = "update"
	AuditActionDelete  AuditAction = "delete"
	AuditActionLogin   AuditAction = "login"
	AuditActionLogout  AuditAction = "logout"
	AuditActionExport  AuditAction = "export"
	AuditActionApprove AuditAction = "approve"
)

var auditActions = map[AuditAction]struct{}{
	AuditActionCreate:  {},
	AuditActionUpdate:  {},
	AuditActionDelete:  {},
	AuditActionLogin:   {},
	AuditActionLogout:  {},
	AuditActionExport:  {},
	AuditActionApprove: {},
}

// Valid reports whether a is a known audit action.
func (a AuditAction) Valid() bool {
	_, ok := auditActions[a]
	return ok
}

// ChangeSet is a flat key→scalar snapshot of entity state. Nested values are
// not allowed; repositories serialize it as JSON text.
type ChangeSet map[string]any

// AuditEntry is one immutable audit trail record. Entries are appended in
// the same transaction as the mutation they describe and are never updated
// or deleted afterwards.
type AuditEntry struct {
	ID          int64       `json:"id"`
	Timestamp   time.Time   `json:"timestamp"`
	Actor       *string     `json:"actor"` // nil for system actions
	Action      AuditAction `json:"action"`
	EntityType  string      `json:"entity_type"`
	EntityID    *int64      `json:"entity_id"`
	OldValues   ChangeSet   `json:"old_values,omitempty"` // nil means "not applicable" (e.g. creation)
	NewValues   ChangeSet   `json:"new_values,omitempty"`
	Description *string     `json:"description,omitempty"`
}

// AuditFilter narrows the global audit feed.
type AuditFilter struct {
	Action     *AuditAction
	EntityType *string
	Page       PageRequest
}
