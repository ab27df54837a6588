package reconcile

import (
	"github.com/statusdeck/statusdeck/internal/domain"
)

// DedupeResult reports what a deduplication pass removed.
type DedupeResult struct {
	Milestones []domain.Milestone
	Removed    []domain.Milestone
}

// RemovedCount returns the number of dropped duplicates.
func (r *DedupeResult) RemovedCount() int {
	return len(r.Removed)
}

// Dedupe removes same-name milestones in a single forward pass, keeping the
// first occurrence. Name equality is on trimmed names. Idempotent: running
// it on its own output removes nothing.
//
// The pipeline runs this twice: on the raw incoming document (duplicates
// inside a single export) and on the final merged list (two incoming
// entries independently matching into the same name).
func Dedupe(milestones []domain.Milestone) DedupeResult {
	seen := make(map[string]bool, len(milestones))
	result := DedupeResult{
		Milestones: make([]domain.Milestone, 0, len(milestones)),
	}

	for _, m := range milestones {
		name := domain.TrimName(m.Name)
		if seen[name] {
			result.Removed = append(result.Removed, m)
			continue
		}
		seen[name] = true
		result.Milestones = append(result.Milestones, m)
	}

	return result
}
