package reconcile

import (
	"github.com/statusdeck/statusdeck/internal/domain"
)

// MergeMilestone produces the merged record for a matched (existing,
// incoming) pair. System-owned fields always take the incoming value;
// user-owned fields (notes, resources) always keep the existing value.
//
// The name follows the incoming document only for by_id and
// by_date_and_parent matches: those strategies mean the name itself may have
// legitimately changed upstream and the rename should propagate. A by_name
// match means the operator is relying on name stability, so the existing
// name stays authoritative.
func MergeMilestone(existing, incoming *domain.Milestone, strat MatchStrategy) domain.Milestone {
	merged := domain.Milestone{
		// system-owned: refreshed from the import
		ExternalID:           incoming.ExternalID,
		TargetDate:           incoming.TargetDate,
		Status:               incoming.Status,
		CompletionDate:       incoming.CompletionDate,
		CompletionPercentage: incoming.CompletionPercentage,
		ParentProject:        incoming.ParentProject,

		// user-owned: preserved from persisted state
		Notes:     existing.Notes,
		Resources: existing.Resources,
	}

	switch strat {
	case MatchByID, MatchByDateAndParent:
		merged.Name = domain.TrimName(incoming.Name)
	default:
		merged.Name = domain.TrimName(existing.Name)
	}

	return merged
}

// NewFromIncoming returns the record for an unmatched incoming milestone:
// system-owned fields from the source, user-owned fields empty.
func NewFromIncoming(incoming *domain.Milestone) domain.Milestone {
	m := *incoming
	m.Name = domain.TrimName(m.Name)
	m.Notes = ""
	m.Resources = ""
	return m
}
