package database

import (
	"encoding/json"
	"time"

	"userdir-backend/internal/models"
)

// AuditRepo handles audit log database operations
type AuditRepo struct{}

// NewAuditRepo creates a new audit repository
func NewAuditRepo() *AuditRepo {
	return &AuditRepo{}
}

// Create creates a new audit log entry
func (r *AuditRepo) Create(log *models.AuditLog) error {
	result, err := DB.Exec(`
		INSERT INTO audit_logs (timestamp, username, action, target, details, ip_address)
		VALUES (?, ?, ?, ?, ?, ?)
	`, log.Timestamp, log.Username, log.Action, log.Target, log.Details, log.IPAddress)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	log.ID = id
	return nil
}

// Log is a convenience method to create an audit log entry with the current
// timestamp. Details are marshaled to JSON; marshal failures fall back to
// an empty object rather than dropping the entry.
func (r *AuditRepo) Log(username, action, target string, details interface{}, ipAddress string) error {
	detailsJSON := ""
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			detailsJSON = "{}"
		} else {
			detailsJSON = string(b)
		}
	}

	return r.Create(&models.AuditLog{
		Timestamp: time.Now(),
		Username:  username,
		Action:    action,
		Target:    target,
		Details:   detailsJSON,
		IPAddress: ipAddress,
	})
}

// List returns the most recent entries, newest first
func (r *AuditRepo) List(limit int) ([]*models.AuditLog, error) {
	rows, err := DB.Query(`
		SELECT id, timestamp, username, action, target, details, ip_address
		FROM audit_logs ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.AuditLog
	for rows.Next() {
		log := &models.AuditLog{}
		err := rows.Scan(
			&log.ID, &log.Timestamp, &log.Username, &log.Action,
			&log.Target, &log.Details, &log.IPAddress,
		)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}

// Count returns the total number of audit entries
func (r *AuditRepo) Count() (int, error) {
	var count int
	err := DB.QueryRow("SELECT COUNT(*) FROM audit_logs").Scan(&count)
	return count, err
}
