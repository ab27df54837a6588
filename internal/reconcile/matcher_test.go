package reconcile

import (
	"testing"

	"github.com/statusdeck/statusdeck/internal/domain"
)

func TestMatch(t *testing.T) {
	existing := []domain.Milestone{
		{ExternalID: "42", Name: "Design Complete", TargetDate: "2025-02-01", ParentProject: "Phase 1"},
		{Name: "Build Complete", TargetDate: "2025-04-01", ParentProject: "Phase 1"},
		{Name: "Go-Live", TargetDate: "2025-06-01", ParentProject: "Phase 2"},
	}

	tests := []struct {
		name         string
		incoming     domain.Milestone
		wantName     string
		wantStrategy MatchStrategy
	}{
		{
			name:         "external id wins over name",
			incoming:     domain.Milestone{ExternalID: "42", Name: "Renamed Entirely", TargetDate: "2099-01-01"},
			wantName:     "Design Complete",
			wantStrategy: MatchByID,
		},
		{
			name:         "name match",
			incoming:     domain.Milestone{Name: "Build Complete", TargetDate: "2025-05-15"},
			wantName:     "Build Complete",
			wantStrategy: MatchByName,
		},
		{
			name:         "name match with surrounding whitespace",
			incoming:     domain.Milestone{Name: "  Go-Live  ", TargetDate: "2025-06-01"},
			wantName:     "Go-Live",
			wantStrategy: MatchByName,
		},
		{
			name:         "date and parent catches upstream rename",
			incoming:     domain.Milestone{Name: "Production Launch", TargetDate: "2025-06-01", ParentProject: "Phase 2"},
			wantName:     "Go-Live",
			wantStrategy: MatchByDateAndParent,
		},
		{
			name:         "same date different parent is no match",
			incoming:     domain.Milestone{Name: "Production Launch", TargetDate: "2025-06-01", ParentProject: "Phase 3"},
			wantStrategy: MatchNone,
		},
		{
			name:         "empty parent never matches by date",
			incoming:     domain.Milestone{Name: "Production Launch", TargetDate: "2025-06-01"},
			wantStrategy: MatchNone,
		},
		{
			name:         "unknown milestone is new",
			incoming:     domain.Milestone{Name: "Hypercare Exit", TargetDate: "2025-09-01", ParentProject: "Phase 9"},
			wantStrategy: MatchNone,
		},
		{
			name:         "unknown external id falls through to name",
			incoming:     domain.Milestone{ExternalID: "999", Name: "Go-Live", TargetDate: "2025-06-10"},
			wantName:     "Go-Live",
			wantStrategy: MatchByName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, strat := Match(&tt.incoming, existing)
			if strat != tt.wantStrategy {
				t.Errorf("strategy = %s, want %s", strat, tt.wantStrategy)
			}
			if tt.wantStrategy == MatchNone {
				if match != nil {
					t.Errorf("expected no match, got %q", match.Name)
				}
				return
			}
			if match == nil {
				t.Fatalf("expected match %q, got none", tt.wantName)
			}
			if match.Name != tt.wantName {
				t.Errorf("matched %q, want %q", match.Name, tt.wantName)
			}
		})
	}
}

func TestMatchAgainstEmptySet(t *testing.T) {
	incoming := domain.Milestone{Name: "Kickoff", TargetDate: "2025-01-15"}
	match, strat := Match(&incoming, nil)
	if match != nil || strat != MatchNone {
		t.Errorf("Match against empty set = (%v, %s), want (nil, none)", match, strat)
	}
}

func TestStrategyOrder(t *testing.T) {
	// The priority order is a visible data structure; a reorder is a policy
	// change and should fail loudly.
	want := []MatchStrategy{MatchByID, MatchByName, MatchByDateAndParent}
	if len(strategies) != len(want) {
		t.Fatalf("strategies has %d entries, want %d", len(strategies), len(want))
	}
	for i, s := range strategies {
		if s.name != want[i] {
			t.Errorf("strategies[%d] = %s, want %s", i, s.name, want[i])
		}
	}
}
