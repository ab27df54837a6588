package reconcile

import (
	"strings"
	"time"

	"github.com/statusdeck/statusdeck/internal/domain"
	"github.com/statusdeck/statusdeck/internal/id"
)

// Confirmation is one human-confirmed schedule slip as submitted by the
// review step.
type Confirmation struct {
	MilestoneName string `json:"milestone_name" yaml:"milestone_name"`
	OldDate       string `json:"old_date" yaml:"old_date"`
	NewDate       string `json:"new_date" yaml:"new_date"`
	DaysDiff      int    `json:"days_diff" yaml:"days_diff"`
	Reason        string `json:"reason" yaml:"reason"`
	Impact        string `json:"impact" yaml:"impact"`
}

// NewChange constructs a ledger entry from a confirmed slip. A non-empty
// reason is required; entries without one are rejected at this boundary and
// never constructed.
func NewChange(projectCode string, c Confirmation, now time.Time) (domain.Change, error) {
	if strings.TrimSpace(c.Reason) == "" {
		return domain.Change{}, &domain.EmptyReasonError{MilestoneName: c.MilestoneName}
	}

	impact := c.Impact
	if impact == "" {
		impact = SuggestImpact(c.DaysDiff)
	}

	return domain.Change{
		ChangeID:      id.Change(projectCode, c.MilestoneName, c.OldDate, c.NewDate),
		MilestoneName: domain.TrimName(c.MilestoneName),
		Date:          now.Format(domain.DateLayout),
		OldDate:       c.OldDate,
		NewDate:       c.NewDate,
		Reason:        c.Reason,
		Impact:        impact,
	}, nil
}

// MergeChanges upserts newly-confirmed changes into the persisted ledger,
// keyed by change ID. Re-submitting an identical change ID is a no-op beyond
// refreshing reason and impact text; nothing is ever deleted. Existing
// entries keep their position, new ones append in input order.
func MergeChanges(existing, incoming []domain.Change) []domain.Change {
	merged := append([]domain.Change(nil), existing...)

	index := make(map[string]int, len(merged))
	for i := range merged {
		index[merged[i].ChangeID] = i
	}

	for _, c := range incoming {
		if i, ok := index[c.ChangeID]; ok {
			merged[i] = c
			continue
		}
		index[c.ChangeID] = len(merged)
		merged = append(merged, c)
	}

	return merged
}
