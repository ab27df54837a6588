package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used throughout persisted state.
const DateLayout = "2006-01-02"

// TrimName normalizes a milestone name for identity comparison.
func TrimName(name string) string {
	return strings.TrimSpace(name)
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: must be YYYY-MM-DD", s)
	}
	return t, nil
}

// ValidateMilestoneStatus validates a milestone status value
func ValidateMilestoneStatus(status MilestoneStatus) error {
	switch status {
	case MilestoneNotStarted, MilestoneInProgress, MilestoneCompleted:
		return nil
	default:
		return fmt.Errorf("invalid milestone status: must be one of: NOT_STARTED, IN_PROGRESS, COMPLETED")
	}
}

// ValidateRiskLevel validates a severity or probability rating
func ValidateRiskLevel(level RiskLevel) error {
	switch level {
	case RiskLow, RiskMedium, RiskHigh:
		return nil
	default:
		return fmt.Errorf("invalid risk level: must be one of: LOW, MEDIUM, HIGH")
	}
}

// ValidateRiskStatus validates a risk lifecycle state
func ValidateRiskStatus(status RiskStatus) error {
	switch status {
	case RiskOpen, RiskMitigated, RiskClosed:
		return nil
	default:
		return fmt.Errorf("invalid risk status: must be one of: OPEN, MITIGATED, CLOSED")
	}
}

// ValidateMilestone checks the structural invariants of a single milestone.
func ValidateMilestone(m *Milestone) error {
	if TrimName(m.Name) == "" {
		return fmt.Errorf("milestone name must be non-empty")
	}
	if m.TargetDate == "" {
		return fmt.Errorf("milestone %q missing target_date", TrimName(m.Name))
	}
	if _, err := ParseDate(m.TargetDate); err != nil {
		return fmt.Errorf("milestone %q: %w", TrimName(m.Name), err)
	}
	if err := ValidateMilestoneStatus(m.Status); err != nil {
		return fmt.Errorf("milestone %q: %w", TrimName(m.Name), err)
	}
	if m.Status == MilestoneCompleted && m.CompletionDate == "" {
		return fmt.Errorf("milestone %q is COMPLETED but has no completion_date", TrimName(m.Name))
	}
	if m.Status != MilestoneCompleted && m.CompletionDate != "" {
		return fmt.Errorf("milestone %q has completion_date but status %s", TrimName(m.Name), m.Status)
	}
	if m.CompletionDate != "" {
		if _, err := ParseDate(m.CompletionDate); err != nil {
			return fmt.Errorf("milestone %q: %w", TrimName(m.Name), err)
		}
	}
	if m.CompletionPercentage < 0 || m.CompletionPercentage > 100 {
		return fmt.Errorf("milestone %q: completion_percentage must be 0-100, got %d", TrimName(m.Name), m.CompletionPercentage)
	}
	return nil
}

// ValidateProject checks the structural invariants of an incoming project
// document. A failure here aborts the whole reconciliation transaction
// before anything is merged or written.
func ValidateProject(p *Project) error {
	if p == nil {
		return &InvalidDocumentError{Reason: "project is nil"}
	}
	if strings.TrimSpace(p.ProjectCode) == "" {
		return &InvalidDocumentError{Reason: "project_code is empty"}
	}
	if strings.TrimSpace(p.ProjectName) == "" {
		return &InvalidDocumentError{Reason: "project_name is empty"}
	}
	for i := range p.Milestones {
		if err := ValidateMilestone(&p.Milestones[i]); err != nil {
			return &InvalidDocumentError{Reason: err.Error()}
		}
	}
	return nil
}
