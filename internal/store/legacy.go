package store

import (
	"fmt"

	"github.com/statusdeck/statusdeck/internal/domain"
)

// rawProject tolerates the record-file variants older writers produced
// before the field names settled.
type rawProject struct {
	ProjectName          string             `yaml:"project_name"`
	ProjectCode          string             `yaml:"project_code"`
	Status               string             `yaml:"status"`
	StartDate            string             `yaml:"start_date"`
	TargetCompletion     string             `yaml:"target_completion"`
	CompletionPercentage int                `yaml:"completion_percentage"`
	Milestones           []domain.Milestone `yaml:"milestones"`
	Risks                []rawRisk          `yaml:"risks"`
	Changes              []rawChange        `yaml:"changes"`
}

type rawRisk struct {
	ID          string            `yaml:"id"`
	RiskID      string            `yaml:"risk_id"`
	Description string            `yaml:"description"`
	Severity    domain.RiskLevel  `yaml:"severity"`
	Probability domain.RiskLevel  `yaml:"probability"`
	Impact      string            `yaml:"impact"`
	Mitigation  string            `yaml:"mitigation"`
	Status      domain.RiskStatus `yaml:"status"`
}

type rawChange struct {
	ID            string `yaml:"id"`
	ChangeID      string `yaml:"change_id"`
	MilestoneName string `yaml:"milestone_name"`
	Date          string `yaml:"date"`
	OldDate       string `yaml:"old_date"`
	NewDate       string `yaml:"new_date"`
	Reason        string `yaml:"reason"`
	Impact        string `yaml:"impact"`
}

func (r *rawProject) toDomain() *domain.Project {
	p := &domain.Project{
		ProjectName:          r.ProjectName,
		ProjectCode:          r.ProjectCode,
		Status:               r.Status,
		StartDate:            r.StartDate,
		TargetCompletion:     r.TargetCompletion,
		CompletionPercentage: r.CompletionPercentage,
		Milestones:           r.Milestones,
	}

	for _, rr := range r.Risks {
		risk := domain.Risk{
			RiskID:      rr.RiskID,
			Description: rr.Description,
			Severity:    rr.Severity,
			Probability: rr.Probability,
			Impact:      rr.Impact,
			Mitigation:  rr.Mitigation,
			Status:      rr.Status,
		}
		if risk.RiskID == "" {
			risk.RiskID = rr.ID
		}
		if risk.Impact == "" {
			sev := rr.Severity
			if sev == "" {
				sev = domain.RiskMedium
			}
			prob := rr.Probability
			if prob == "" {
				prob = domain.RiskMedium
			}
			risk.Impact = fmt.Sprintf("%s severity, %s probability", sev, prob)
		}
		p.Risks = append(p.Risks, risk)
	}

	for _, rc := range r.Changes {
		change := domain.Change{
			ChangeID:      rc.ChangeID,
			MilestoneName: rc.MilestoneName,
			Date:          rc.Date,
			OldDate:       rc.OldDate,
			NewDate:       rc.NewDate,
			Reason:        rc.Reason,
			Impact:        rc.Impact,
		}
		if change.ChangeID == "" {
			change.ChangeID = rc.ID
		}
		p.Changes = append(p.Changes, change)
	}

	return p
}
