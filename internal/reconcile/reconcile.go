package reconcile

import (
	"fmt"

	"github.com/statusdeck/statusdeck/internal/domain"
)

// Phase is one step of the reconciliation state machine. A transaction walks
// START → MATCHING → MERGING → DEDUPLICATING → CHANGE_DETECTION → RISK_MERGE
// → DONE; baseline imports skip MATCHING and MERGING. Any failure lands in
// ABORTED with no output produced.
type Phase string

const (
	PhaseStart           Phase = "START"
	PhaseMatching        Phase = "MATCHING"
	PhaseMerging         Phase = "MERGING"
	PhaseDeduplicating   Phase = "DEDUPLICATING"
	PhaseChangeDetection Phase = "CHANGE_DETECTION"
	PhaseRiskMerge       Phase = "RISK_MERGE"
	PhaseDone            Phase = "DONE"
	PhaseAborted         Phase = "ABORTED"
)

// Result is the outcome of one reconciliation transaction: the merged
// project ready to persist, the detected-but-unconfirmed change candidates
// for human review, and what deduplication removed.
type Result struct {
	Project           *domain.Project
	Candidates        []Candidate
	DuplicatesRemoved []domain.Milestone
	IsNew             bool
	Phase             Phase
}

// Reconcile runs one transaction: it merges the incoming document into the
// existing persisted state (or passes it through deduplication only, for a
// baseline import or a first-ever import) and surfaces schedule slips for
// review. It is a pure transform; neither input is mutated and nothing is
// persisted here. The caller serializes calls per project code around its
// read-merge-write cycle.
func Reconcile(existing, incoming *domain.Project, isBaseline bool) (*Result, error) {
	if err := domain.ValidateProject(incoming); err != nil {
		return nil, err
	}
	if existing != nil && existing.ProjectCode != incoming.ProjectCode {
		return nil, &domain.InvalidDocumentError{
			Reason: fmt.Sprintf("project_code mismatch: existing %s, incoming %s", existing.ProjectCode, incoming.ProjectCode),
		}
	}

	merged := incoming.Clone()
	result := &Result{
		Project: merged,
		IsNew:   existing == nil,
		Phase:   PhaseStart,
	}

	// First dedup pass: duplicate entries inside a single export.
	result.Phase = PhaseDeduplicating
	first := Dedupe(incoming.Milestones)
	result.DuplicatesRemoved = append(result.DuplicatesRemoved, first.Removed...)

	if isBaseline || existing == nil {
		merged.Milestones = trimNames(first.Milestones)
		result.Phase = PhaseRiskMerge
		merged.Risks = MergeRisks(nil, incoming.Risks, true)
		if existing != nil {
			// A baseline re-import resets milestones and risks but the
			// ledger is never deleted by reconciliation.
			merged.Changes = append([]domain.Change(nil), existing.Changes...)
		}
		result.Phase = PhaseDone
		return result, nil
	}

	result.Phase = PhaseMatching
	var pairs []matchedPair
	matchedExisting := make(map[*domain.Milestone]bool)
	candidates := make([]domain.Milestone, 0, len(first.Milestones))

	result.Phase = PhaseMerging
	for i := range first.Milestones {
		in := &first.Milestones[i]
		match, strat := Match(in, existing.Milestones)
		if match == nil {
			candidates = append(candidates, NewFromIncoming(in))
			continue
		}
		pairs = append(pairs, matchedPair{existing: match, incoming: in, strategy: strat})
		matchedExisting[match] = true
		candidates = append(candidates, MergeMilestone(match, in, strat))
	}

	// Milestones are never deleted by reconciliation: existing entries the
	// new document knows nothing about are carried over unchanged.
	for i := range existing.Milestones {
		if !matchedExisting[&existing.Milestones[i]] {
			candidates = append(candidates, existing.Milestones[i])
		}
	}

	// Second dedup pass: two incoming entries can merge into the same name.
	result.Phase = PhaseDeduplicating
	second := Dedupe(candidates)
	result.DuplicatesRemoved = append(result.DuplicatesRemoved, second.Removed...)
	merged.Milestones = second.Milestones

	result.Phase = PhaseChangeDetection
	detected, err := DetectChanges(incoming.ProjectCode, pairs, existing.Changes)
	if err != nil {
		result.Phase = PhaseAborted
		return nil, err
	}
	result.Candidates = detected

	result.Phase = PhaseRiskMerge
	merged.Risks = MergeRisks(existing.Risks, incoming.Risks, false)

	// Detection only proposes; the persisted ledger changes solely through
	// confirmed MergeChanges calls.
	merged.Changes = append([]domain.Change(nil), existing.Changes...)

	result.Phase = PhaseDone
	return result, nil
}

func trimNames(milestones []domain.Milestone) []domain.Milestone {
	out := append([]domain.Milestone(nil), milestones...)
	for i := range out {
		out[i].Name = domain.TrimName(out[i].Name)
	}
	return out
}
