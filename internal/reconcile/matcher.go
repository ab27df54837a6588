// Package reconcile implements the project state reconciliation engine:
// matching incoming milestones to persisted ones, merging fields by
// ownership, deduplicating, detecting schedule slips, and merging the
// change ledger and risk list. Every function here is a pure transform
// over in-memory state; persistence and serialization live with callers.
package reconcile

import (
	"github.com/statusdeck/statusdeck/internal/domain"
)

// MatchStrategy identifies which rule matched an incoming milestone to an
// existing one.
type MatchStrategy string

const (
	MatchNone            MatchStrategy = "none"
	MatchByID            MatchStrategy = "by_id"
	MatchByName          MatchStrategy = "by_name"
	MatchByDateAndParent MatchStrategy = "by_date_and_parent"
)

// matchFunc is one rule in the ordered strategy chain. It returns the index
// of the matched existing milestone, or -1.
type matchFunc func(incoming *domain.Milestone, existing []domain.Milestone) int

// strategy pairs a rule with its name so the priority order is a visible,
// testable list rather than nested conditionals.
type strategy struct {
	name MatchStrategy
	fn   matchFunc
}

// strategies is the match priority order. First hit wins; a by_name match is
// final even when the dates disagree.
var strategies = []strategy{
	{MatchByID, matchByID},
	{MatchByName, matchByName},
	{MatchByDateAndParent, matchByDateAndParent},
}

// Match finds at most one existing milestone for the incoming one. It is
// deterministic and total: every input yields exactly one outcome.
func Match(incoming *domain.Milestone, existing []domain.Milestone) (*domain.Milestone, MatchStrategy) {
	for _, s := range strategies {
		if i := s.fn(incoming, existing); i >= 0 {
			return &existing[i], s.name
		}
	}
	return nil, MatchNone
}

func matchByID(incoming *domain.Milestone, existing []domain.Milestone) int {
	if incoming.ExternalID == "" {
		return -1
	}
	for i := range existing {
		if existing[i].ExternalID == incoming.ExternalID {
			return i
		}
	}
	return -1
}

func matchByName(incoming *domain.Milestone, existing []domain.Milestone) int {
	name := domain.TrimName(incoming.Name)
	for i := range existing {
		if domain.TrimName(existing[i].Name) == name {
			return i
		}
	}
	return -1
}

// matchByDateAndParent catches a milestone renamed upstream between exports:
// the same target date under the same source grouping is taken as the same
// entity. Both fields must be non-empty.
func matchByDateAndParent(incoming *domain.Milestone, existing []domain.Milestone) int {
	if incoming.TargetDate == "" || incoming.ParentProject == "" {
		return -1
	}
	for i := range existing {
		if existing[i].TargetDate == incoming.TargetDate &&
			existing[i].ParentProject == incoming.ParentProject {
			return i
		}
	}
	return -1
}
