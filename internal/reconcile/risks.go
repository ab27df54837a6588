package reconcile

import (
	"github.com/statusdeck/statusdeck/internal/domain"
	"github.com/statusdeck/statusdeck/internal/id"
)

// MergeRisks reconciles the risk list by ID. On a baseline import the
// incoming set replaces everything. Otherwise the incoming risks form the
// refreshed set and every existing risk whose ID is absent from it is
// appended, so risks entered directly in the dashboard survive re-imports that
// know nothing about them. An incoming risk sharing an ID overwrites the
// existing one wholesale; risks have no user-owned fields. IDs assigned to
// incoming risks skip IDs already present in the existing list.
func MergeRisks(existing, incoming []domain.Risk, isBaseline bool) []domain.Risk {
	var reserved []string
	if !isBaseline {
		for _, r := range existing {
			if r.RiskID != "" {
				reserved = append(reserved, r.RiskID)
			}
		}
	}
	merged := assignRiskIDs(incoming, reserved)

	if isBaseline || existing == nil {
		return merged
	}

	incomingIDs := domain.RiskIDs(merged)
	for _, r := range existing {
		if !incomingIDs[r.RiskID] {
			merged = append(merged, r)
		}
	}

	return merged
}

// assignRiskIDs fills in missing risk IDs, counting upward from the highest
// sequence present in the list or in reserved.
func assignRiskIDs(risks []domain.Risk, reserved []string) []domain.Risk {
	out := append([]domain.Risk(nil), risks...)

	used := append([]string(nil), reserved...)
	for _, r := range out {
		if r.RiskID != "" {
			used = append(used, r.RiskID)
		}
	}

	for i := range out {
		if out[i].RiskID == "" {
			next := id.NextRiskID(used)
			out[i].RiskID = next
			used = append(used, next)
		}
	}

	return out
}
