package domain

// MilestoneStatus represents the progress state of a milestone
type MilestoneStatus string

const (
	MilestoneNotStarted MilestoneStatus = "NOT_STARTED"
	MilestoneInProgress MilestoneStatus = "IN_PROGRESS"
	MilestoneCompleted  MilestoneStatus = "COMPLETED"
)

// RiskLevel represents a risk severity or probability rating
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// RiskStatus represents the lifecycle state of a risk
type RiskStatus string

const (
	RiskOpen      RiskStatus = "OPEN"
	RiskMitigated RiskStatus = "MITIGATED"
	RiskClosed    RiskStatus = "CLOSED"
)

// ChangeType classifies a schedule slip by direction
type ChangeType string

const (
	ChangeDelay        ChangeType = "DELAY"
	ChangeAcceleration ChangeType = "ACCELERATION"
)

// Milestone represents one schedule milestone within a project.
//
// Fields split into system-owned (refreshed from every import: ExternalID,
// TargetDate, Status, CompletionDate, CompletionPercentage, ParentProject)
// and user-owned (only ever set through dashboard edits: Notes, Resources).
// The merge rules in internal/reconcile encode this split.
type Milestone struct {
	ExternalID           string          `yaml:"external_id,omitempty" json:"external_id,omitempty"`
	Name                 string          `yaml:"name" json:"name"`
	TargetDate           string          `yaml:"target_date" json:"target_date"` // YYYY-MM-DD
	Status               MilestoneStatus `yaml:"status" json:"status"`
	CompletionDate       string          `yaml:"completion_date,omitempty" json:"completion_date,omitempty"`
	CompletionPercentage int             `yaml:"completion_percentage" json:"completion_percentage"`
	ParentProject        string          `yaml:"parent_project,omitempty" json:"parent_project,omitempty"`
	Notes                string          `yaml:"notes,omitempty" json:"notes,omitempty"`
	Resources            string          `yaml:"resources,omitempty" json:"resources,omitempty"`
}

// Risk represents a project risk. Identity is RiskID; risks carry no
// user/system field split; the last writer owns every field.
type Risk struct {
	RiskID      string     `yaml:"risk_id" json:"risk_id"`
	Description string     `yaml:"description" json:"description"`
	Severity    RiskLevel  `yaml:"severity" json:"severity"`
	Probability RiskLevel  `yaml:"probability" json:"probability"`
	Impact      string     `yaml:"impact,omitempty" json:"impact,omitempty"`
	Mitigation  string     `yaml:"mitigation" json:"mitigation"`
	Status      RiskStatus `yaml:"status" json:"status"`
}

// Change represents a confirmed schedule change in the project ledger.
// ChangeID is derived deterministically from (project code, milestone name,
// old date, new date) so re-detecting the same slip never duplicates an
// entry. MilestoneName is a soft reference by name: a Change survives a
// milestone rename.
type Change struct {
	ChangeID      string `yaml:"change_id" json:"change_id"`
	MilestoneName string `yaml:"milestone_name,omitempty" json:"milestone_name,omitempty"`
	Date          string `yaml:"date" json:"date"` // date recorded
	OldDate       string `yaml:"old_date" json:"old_date"`
	NewDate       string `yaml:"new_date" json:"new_date"`
	Reason        string `yaml:"reason" json:"reason"`
	Impact        string `yaml:"impact" json:"impact"`
}

// Project is the persisted unit of state: one record file per project code.
type Project struct {
	ProjectName          string      `yaml:"project_name" json:"project_name"`
	ProjectCode          string      `yaml:"project_code" json:"project_code"`
	Status               string      `yaml:"status" json:"status"`
	StartDate            string      `yaml:"start_date" json:"start_date"`
	TargetCompletion     string      `yaml:"target_completion" json:"target_completion"`
	CompletionPercentage int         `yaml:"completion_percentage" json:"completion_percentage"`
	Milestones           []Milestone `yaml:"milestones" json:"milestones"`
	Risks                []Risk      `yaml:"risks" json:"risks"`
	Changes              []Change    `yaml:"changes" json:"changes"`
}

// Clone returns a deep copy of the project. Reconciliation is a pure
// transform; callers hand the engine a clone so persisted state is never
// mutated before the transaction commits.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Milestones = append([]Milestone(nil), p.Milestones...)
	cp.Risks = append([]Risk(nil), p.Risks...)
	cp.Changes = append([]Change(nil), p.Changes...)
	return &cp
}

// FindMilestone returns the milestone with the given trimmed name, or nil.
func (p *Project) FindMilestone(name string) *Milestone {
	want := TrimName(name)
	for i := range p.Milestones {
		if TrimName(p.Milestones[i].Name) == want {
			return &p.Milestones[i]
		}
	}
	return nil
}

// FindChange returns the change with the given ID, or nil.
func (p *Project) FindChange(changeID string) *Change {
	for i := range p.Changes {
		if p.Changes[i].ChangeID == changeID {
			return &p.Changes[i]
		}
	}
	return nil
}

// RiskIDs returns the set of risk IDs present in the list.
func RiskIDs(risks []Risk) map[string]bool {
	ids := make(map[string]bool, len(risks))
	for _, r := range risks {
		ids[r.RiskID] = true
	}
	return ids
}
