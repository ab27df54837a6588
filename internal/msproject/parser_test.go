package msproject

import (
	"testing"
	"unicode/utf8"

	"github.com/statusdeck/statusdeck/internal/domain"
)

const sampleExport = `<?xml version="1.0" encoding="UTF-8"?>
<Project xmlns="http://schemas.microsoft.com/project">
  <Title>Zinc Nickel Line</Title>
  <StartDate>2025-01-06T08:00:00</StartDate>
  <FinishDate>2025-09-30T17:00:00</FinishDate>
  <PercentComplete>35</PercentComplete>
  <ExtendedAttributes>
    <ExtendedAttribute FieldID="Text1">
      <Value>ZN-P1</Value>
    </ExtendedAttribute>
    <ExtendedAttribute FieldID="Text2">
      <Value>ACTIVE</Value>
    </ExtendedAttribute>
  </ExtendedAttributes>
  <Tasks>
    <Task>
      <UID>1</UID>
      <Name>Zinc Nickel Line</Name>
      <Summary>1</Summary>
      <OutlineLevel>1</OutlineLevel>
    </Task>
    <Task>
      <UID>2</UID>
      <Name>Phase 1 Construction</Name>
      <Summary>1</Summary>
      <OutlineLevel>2</OutlineLevel>
    </Task>
    <Task>
      <UID>3</UID>
      <Name>Kickoff</Name>
      <OutlineLevel>3</OutlineLevel>
      <Milestone>1</Milestone>
      <Finish>2025-01-15T17:00:00</Finish>
      <PercentComplete>100</PercentComplete>
      <ActualFinish>2025-01-14T17:00:00</ActualFinish>
    </Task>
    <Task>
      <UID>4</UID>
      <Name>Pour Foundation</Name>
      <OutlineLevel>3</OutlineLevel>
      <Milestone>0</Milestone>
      <Duration>PT40H0M0S</Duration>
      <Finish>2025-02-28T17:00:00</Finish>
      <PercentComplete>50</PercentComplete>
    </Task>
    <Task>
      <UID>5</UID>
      <Name>Tank Delivery</Name>
      <OutlineLevel>3</OutlineLevel>
      <Milestone>0</Milestone>
      <Duration>PT0H0M0S</Duration>
      <Finish>2025-03-15T17:00:00</Finish>
      <PercentComplete>25</PercentComplete>
    </Task>
    <Task>
      <UID>6</UID>
      <Name>Phase 2 Commissioning</Name>
      <Summary>1</Summary>
      <OutlineLevel>2</OutlineLevel>
    </Task>
    <Task>
      <UID>7</UID>
      <Name>Go-Live</Name>
      <OutlineLevel>3</OutlineLevel>
      <Milestone>1</Milestone>
      <Finish>2025-09-30T17:00:00</Finish>
      <PercentComplete>0</PercentComplete>
    </Task>
    <Task>
      <UID>8</UID>
      <Name>No Date Row</Name>
      <OutlineLevel>3</OutlineLevel>
      <Milestone>1</Milestone>
      <PercentComplete>0</PercentComplete>
    </Task>
  </Tasks>
  <RiskTable>
    <Risk>
      <ID>R-001</ID>
      <Description>Vendor lead time on rectifiers</Description>
      <Severity>high</Severity>
      <Probability>medium</Probability>
      <Impact>Commissioning slips two weeks</Impact>
      <Status>open</Status>
    </Risk>
    <Risk>
      <ID></ID>
      <Description>No ID, should be skipped</Description>
    </Risk>
  </RiskTable>
</Project>`

func TestParse(t *testing.T) {
	p, err := Parse([]byte(sampleExport))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.ProjectName != "Zinc Nickel Line" {
		t.Errorf("ProjectName = %q", p.ProjectName)
	}
	if p.ProjectCode != "ZN-P1" {
		t.Errorf("ProjectCode = %q, want ZN-P1", p.ProjectCode)
	}
	if p.Status != "ACTIVE" {
		t.Errorf("Status = %q, want ACTIVE", p.Status)
	}
	if p.StartDate != "2025-01-06" {
		t.Errorf("StartDate = %q", p.StartDate)
	}
	if p.TargetCompletion != "2025-09-30" {
		t.Errorf("TargetCompletion = %q", p.TargetCompletion)
	}
	if p.CompletionPercentage != 35 {
		t.Errorf("CompletionPercentage = %d", p.CompletionPercentage)
	}
}

func TestParseMilestones(t *testing.T) {
	p, err := Parse([]byte(sampleExport))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var names []string
	for _, m := range p.Milestones {
		names = append(names, m.Name)
	}
	want := []string{"Kickoff", "Tank Delivery", "Go-Live"}
	if len(names) != len(want) {
		t.Fatalf("milestones = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("milestones = %v, want %v", names, want)
		}
	}

	kickoff := p.Milestones[0]
	if kickoff.ExternalID != "3" {
		t.Errorf("Kickoff ExternalID = %q", kickoff.ExternalID)
	}
	if kickoff.TargetDate != "2025-01-15" {
		t.Errorf("Kickoff TargetDate = %q", kickoff.TargetDate)
	}
	if kickoff.Status != domain.MilestoneCompleted {
		t.Errorf("Kickoff Status = %s", kickoff.Status)
	}
	if kickoff.CompletionDate != "2025-01-14" {
		t.Errorf("Kickoff CompletionDate = %q, want ActualFinish date", kickoff.CompletionDate)
	}
	if kickoff.ParentProject != "Phase 1 Construction" {
		t.Errorf("Kickoff ParentProject = %q", kickoff.ParentProject)
	}

	// Zero duration counts as a milestone even without the flag.
	tank := p.Milestones[1]
	if tank.Status != domain.MilestoneInProgress {
		t.Errorf("Tank Delivery Status = %s", tank.Status)
	}

	// Parent grouping follows the most recent level-2 row.
	goLive := p.Milestones[2]
	if goLive.ParentProject != "Phase 2 Commissioning" {
		t.Errorf("Go-Live ParentProject = %q", goLive.ParentProject)
	}
	if goLive.Status != domain.MilestoneNotStarted {
		t.Errorf("Go-Live Status = %s", goLive.Status)
	}
}

func TestParseRisks(t *testing.T) {
	p, err := Parse([]byte(sampleExport))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(p.Risks) != 1 {
		t.Fatalf("risks = %d, want 1 (blank-ID row skipped)", len(p.Risks))
	}
	r := p.Risks[0]
	if r.RiskID != "R-001" {
		t.Errorf("RiskID = %q", r.RiskID)
	}
	if r.Severity != domain.RiskHigh || r.Probability != domain.RiskMedium {
		t.Errorf("levels = %s/%s, want HIGH/MEDIUM", r.Severity, r.Probability)
	}
	if r.Status != domain.RiskOpen {
		t.Errorf("Status = %s", r.Status)
	}
	if r.Mitigation != "No mitigation defined" {
		t.Errorf("Mitigation = %q, want default", r.Mitigation)
	}
}

func TestParseMalformedXML(t *testing.T) {
	_, err := Parse([]byte("<Project><Tasks>"))
	if !domain.IsInvalidDocument(err) {
		t.Errorf("Parse malformed: err = %v, want InvalidDocumentError", err)
	}
}

func TestParseDerivedCode(t *testing.T) {
	content := `<?xml version="1.0"?>
<Project>
  <Title>Anodize Control Upgrade North</Title>
  <StartDate>2025-02-01</StartDate>
  <FinishDate>2025-06-01</FinishDate>
</Project>`

	p, err := Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.ProjectCode != "ACU-P1" {
		t.Errorf("ProjectCode = %q, want ACU-P1 (initials of first three words)", p.ProjectCode)
	}
}

func TestParseDerivedCodeMultibyte(t *testing.T) {
	content := `<?xml version="1.0"?>
<Project>
  <Title>Überholung Ätzlinie Süd</Title>
  <StartDate>2025-02-01</StartDate>
  <FinishDate>2025-06-01</FinishDate>
</Project>`

	p, err := Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !utf8.ValidString(p.ProjectCode) {
		t.Fatalf("ProjectCode %q is not valid UTF-8", p.ProjectCode)
	}
	if p.ProjectCode != "ÜÄS-P1" {
		t.Errorf("ProjectCode = %q, want ÜÄS-P1", p.ProjectCode)
	}
}

func TestRiskLevelFallback(t *testing.T) {
	if riskLevel("severe") != domain.RiskMedium {
		t.Errorf("unknown level did not fall back to MEDIUM")
	}
	if riskStatus("???") != domain.RiskOpen {
		t.Errorf("unknown status did not fall back to OPEN")
	}
}
