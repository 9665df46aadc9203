package domain

import "time"

// AuditLogCap bounds the per-user audit trail; the oldest entry is dropped
// once the cap is exceeded.
const AuditLogCap = 500

const (
	AuditActionUpdateState = "UPDATE_STATE"
	AuditEntityUserAppData = "USER_APP_DATA"
)

// AuditEntry is an immutable record of one state mutation: actor, time, and
// before/after JSON snapshots of the user's business-data blob.
type AuditEntry struct {
	ID        string    `json:"id" bson:"id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	Action    string    `json:"action" bson:"action"`
	Entity    string    `json:"entity" bson:"entity"`
	Before    string    `json:"before" bson:"before"`
	After     string    `json:"after" bson:"after"`
}
