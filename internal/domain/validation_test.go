package domain

import (
	"testing"
)

func validMilestone() Milestone {
	return Milestone{
		Name:       "Kickoff",
		TargetDate: "2025-01-15",
		Status:     MilestoneNotStarted,
	}
}

func TestValidateMilestone(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Milestone)
		wantErr bool
	}{
		{"valid", func(m *Milestone) {}, false},
		{"empty name", func(m *Milestone) { m.Name = "  " }, true},
		{"missing target date", func(m *Milestone) { m.TargetDate = "" }, true},
		{"malformed target date", func(m *Milestone) { m.TargetDate = "03/15/2025" }, true},
		{"bad status", func(m *Milestone) { m.Status = "ALMOST" }, true},
		{"completed without completion date", func(m *Milestone) {
			m.Status = MilestoneCompleted
			m.CompletionPercentage = 100
		}, true},
		{"completed with completion date", func(m *Milestone) {
			m.Status = MilestoneCompleted
			m.CompletionDate = "2025-01-14"
			m.CompletionPercentage = 100
		}, false},
		{"completion date without completed status", func(m *Milestone) {
			m.CompletionDate = "2025-01-14"
		}, true},
		{"percentage out of range", func(m *Milestone) { m.CompletionPercentage = 120 }, true},
		{"negative percentage", func(m *Milestone) { m.CompletionPercentage = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMilestone()
			tt.mutate(&m)
			err := ValidateMilestone(&m)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMilestone = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateProject(t *testing.T) {
	valid := &Project{
		ProjectName: "Zinc Nickel Line",
		ProjectCode: "ZN-P1",
		Milestones:  []Milestone{validMilestone()},
	}
	if err := ValidateProject(valid); err != nil {
		t.Errorf("valid project rejected: %v", err)
	}

	if err := ValidateProject(nil); !IsInvalidDocument(err) {
		t.Errorf("nil project: err = %v", err)
	}

	noCode := &Project{ProjectName: "X"}
	if err := ValidateProject(noCode); !IsInvalidDocument(err) {
		t.Errorf("missing code: err = %v", err)
	}

	badMilestone := &Project{
		ProjectName: "X",
		ProjectCode: "X-P1",
		Milestones:  []Milestone{{Name: "broken", Status: MilestoneNotStarted}},
	}
	if err := ValidateProject(badMilestone); !IsInvalidDocument(err) {
		t.Errorf("bad milestone: err = %v", err)
	}
}

func TestClone(t *testing.T) {
	p := &Project{
		ProjectCode: "ZN-P1",
		Milestones:  []Milestone{validMilestone()},
		Risks:       []Risk{{RiskID: "R-001"}},
		Changes:     []Change{{ChangeID: "CHG-A"}},
	}

	c := p.Clone()
	c.Milestones[0].Name = "mutated"
	c.Risks[0].RiskID = "mutated"
	c.Changes[0].ChangeID = "mutated"

	if p.Milestones[0].Name == "mutated" || p.Risks[0].RiskID == "mutated" || p.Changes[0].ChangeID == "mutated" {
		t.Errorf("Clone shares backing arrays with the original")
	}
}

func TestFindMilestone(t *testing.T) {
	p := &Project{Milestones: []Milestone{{Name: "Go-Live"}}}
	if p.FindMilestone(" Go-Live ") == nil {
		t.Errorf("trimmed lookup failed")
	}
	if p.FindMilestone("Missing") != nil {
		t.Errorf("found a milestone that does not exist")
	}
}
