// Package events writes the reconciliation audit trail to the SQLite
// database. Logging here is best-effort context for operators; engine
// behavior never depends on it.
package events

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// Event types recorded in the audit log.
const (
	TypeProjectReconciled = "project.reconciled"
	TypeProjectBaselined  = "project.baselined"
	TypeChangesConfirmed  = "changes.confirmed"
	TypeDuplicatesRemoved = "milestones.deduplicated"
	TypeNotesUpdated      = "milestone.notes_updated"
)

// Writer handles writing events to the event log
type Writer struct {
	db *sql.DB
}

// NewWriter creates a new event writer
func NewWriter(db *sql.DB) *Writer {
	return &Writer{db: db}
}

// Log writes one event row with a JSON payload.
func (w *Writer) Log(projectCode, eventType string, payload map[string]interface{}) error {
	var payloadStr *string
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal event payload: %w", err)
		}
		s := string(data)
		payloadStr = &s
	}

	_, err := w.db.Exec(
		"INSERT INTO event_log (project_code, event_type, payload) VALUES (?, ?, ?)",
		projectCode, eventType, payloadStr,
	)
	if err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

// LogReconciled records a completed reconciliation transaction.
func (w *Writer) LogReconciled(projectCode string, isNew bool, candidateCount, duplicateCount int) error {
	return w.Log(projectCode, TypeProjectReconciled, map[string]interface{}{
		"is_new":          isNew,
		"candidate_count": candidateCount,
		"duplicate_count": duplicateCount,
	})
}

// LogBaselined records a baseline import.
func (w *Writer) LogBaselined(projectCode string, milestoneCount int) error {
	return w.Log(projectCode, TypeProjectBaselined, map[string]interface{}{
		"milestone_count": milestoneCount,
	})
}

// LogChangesConfirmed records confirmed schedule changes entering the ledger.
func (w *Writer) LogChangesConfirmed(projectCode string, changeIDs []string) error {
	return w.Log(projectCode, TypeChangesConfirmed, map[string]interface{}{
		"change_ids": changeIDs,
	})
}

// LogDuplicatesRemoved records a dedup correction.
func (w *Writer) LogDuplicatesRemoved(projectCode string, names []string) error {
	return w.Log(projectCode, TypeDuplicatesRemoved, map[string]interface{}{
		"names": names,
	})
}

// RecordUpload inserts one upload history row.
func (w *Writer) RecordUpload(uploadID, projectCode, filename string, sizeBytes int64, isBaseline bool, milestones, candidates, duplicates int, storedPath string) error {
	_, err := w.db.Exec(`
		INSERT INTO uploads (upload_id, project_code, filename, size_bytes, is_baseline, milestone_count, candidate_count, duplicate_count, stored_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uploadID, projectCode, filename, sizeBytes, boolToInt(isBaseline), milestones, candidates, duplicates, storedPath)
	if err != nil {
		return fmt.Errorf("failed to record upload: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
