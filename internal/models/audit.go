package models

import "time"

// AuditLog represents a record of directory actions
type AuditLog struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Target    string    `json:"target"`
	Details   string    `json:"details"` // JSON string
	IPAddress string    `json:"ip_address"`
}

// Common audit actions
const (
	ActionLogin          = "login"
	ActionLogout         = "logout"
	ActionUserCreate     = "user.create"
	ActionUserUpdate     = "user.update"
	ActionUserDeactivate = "user.deactivate"
)
