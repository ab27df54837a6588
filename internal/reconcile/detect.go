package reconcile

import (
	"fmt"

	"github.com/statusdeck/statusdeck/internal/domain"
	"github.com/statusdeck/statusdeck/internal/id"
)

// Candidate is a detected schedule slip awaiting human confirmation. It
// carries no side effects: candidates are safe to recompute or discard, and
// nothing is written to the ledger until a reason is supplied.
type Candidate struct {
	MilestoneName   string            `json:"milestone_name"`
	OldDate         string            `json:"old_date"`
	NewDate         string            `json:"new_date"`
	DaysDiff        int               `json:"days_diff"`
	Type            domain.ChangeType `json:"type"`
	SuggestedImpact string            `json:"suggested_impact"`

	// Existing is the already-documented ledger entry for this exact slip,
	// if one exists, so the review step need not re-prompt for a reason.
	Existing *domain.Change `json:"existing_change,omitempty"`
}

// HasReason reports whether this slip already carries a documented reason.
func (c *Candidate) HasReason() bool {
	return c.Existing != nil && c.Existing.Reason != ""
}

// matchedPair is one (existing, incoming) milestone pair produced by the
// matcher, tagged with the strategy that linked them.
type matchedPair struct {
	existing *domain.Milestone
	incoming *domain.Milestone
	strategy MatchStrategy
}

// DetectChanges finds target-date deltas across matched pairs and classifies
// them. ledger is the persisted change list, consulted only to attach
// already-documented entries; this function never writes.
func DetectChanges(projectCode string, pairs []matchedPair, ledger []domain.Change) ([]Candidate, error) {
	byID := make(map[string]*domain.Change, len(ledger))
	for i := range ledger {
		byID[ledger[i].ChangeID] = &ledger[i]
	}

	var candidates []Candidate
	for _, p := range pairs {
		if p.existing.TargetDate == p.incoming.TargetDate {
			continue
		}

		oldDate, err := domain.ParseDate(p.existing.TargetDate)
		if err != nil {
			return nil, fmt.Errorf("milestone %q: %w", p.existing.Name, err)
		}
		newDate, err := domain.ParseDate(p.incoming.TargetDate)
		if err != nil {
			return nil, fmt.Errorf("milestone %q: %w", p.incoming.Name, err)
		}

		daysDiff := int(newDate.Sub(oldDate).Hours() / 24)
		changeType := domain.ChangeDelay
		if daysDiff <= 0 {
			changeType = domain.ChangeAcceleration
		}

		cand := Candidate{
			MilestoneName:   domain.TrimName(p.incoming.Name),
			OldDate:         p.existing.TargetDate,
			NewDate:         p.incoming.TargetDate,
			DaysDiff:        daysDiff,
			Type:            changeType,
			SuggestedImpact: SuggestImpact(daysDiff),
		}

		changeID := id.Change(projectCode, cand.MilestoneName, cand.OldDate, cand.NewDate)
		if existing, ok := byID[changeID]; ok {
			if existing.OldDate == cand.OldDate && existing.NewDate == cand.NewDate {
				cand.Existing = existing
			}
		}

		candidates = append(candidates, cand)
	}

	return candidates, nil
}

// SuggestImpact classifies a slip by magnitude: under a week is Minor, under
// a month Moderate, anything longer Significant.
func SuggestImpact(daysDiff int) string {
	absDays := daysDiff
	if absDays < 0 {
		absDays = -absDays
	}
	if absDays == 0 {
		return "No impact"
	}

	direction := "delay"
	if daysDiff < 0 {
		direction = "acceleration"
	}

	var severity string
	switch {
	case absDays < 7:
		severity = "Minor"
	case absDays < 30:
		severity = "Moderate"
	default:
		severity = "Significant"
	}

	return fmt.Sprintf("%s %d day %s", severity, absDays, direction)
}
