// Package msproject extracts candidate project records from an MS Project
// XML schedule export. This is the caller-owned extraction step in front of
// the reconciliation engine: it produces a domain.Project from the task
// tree, and the engine never touches the XML format itself.
package msproject

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/statusdeck/statusdeck/internal/domain"
)

// Extended attribute field IDs carrying project metadata in the export.
const (
	fieldProjectCode = "Text1"
	fieldStatus      = "Text2"
)

type xmlDocument struct {
	Title           string              `xml:"Title"`
	Name            string              `xml:"Name"`
	StartDate       string              `xml:"StartDate"`
	Start           string              `xml:"Start"`
	FinishDate      string              `xml:"FinishDate"`
	Finish          string              `xml:"Finish"`
	PercentComplete string              `xml:"PercentComplete"`
	Attributes      []xmlAttribute      `xml:"ExtendedAttributes>ExtendedAttribute"`
	Tasks           []xmlTask           `xml:"Tasks>Task"`
	Risks           []xmlRisk           `xml:"RiskTable>Risk"`
	Changes         []xmlChange         `xml:"ChangeTable>Change"`
}

type xmlTask struct {
	UID             string         `xml:"UID"`
	Name            string         `xml:"Name"`
	Summary         string         `xml:"Summary"`
	OutlineLevel    string         `xml:"OutlineLevel"`
	Milestone       string         `xml:"Milestone"`
	Duration        string         `xml:"Duration"`
	Finish          string         `xml:"Finish"`
	ActualFinish    string         `xml:"ActualFinish"`
	PercentComplete string         `xml:"PercentComplete"`
	Notes           string         `xml:"Notes"`
	Attributes      []xmlAttribute `xml:"ExtendedAttribute"`
}

type xmlAttribute struct {
	FieldID string `xml:"FieldID,attr"`
	Value   string `xml:"Value"`
}

type xmlRisk struct {
	ID          string `xml:"ID"`
	Description string `xml:"Description"`
	Severity    string `xml:"Severity"`
	Probability string `xml:"Probability"`
	Impact      string `xml:"Impact"`
	Mitigation  string `xml:"Mitigation"`
	Status      string `xml:"Status"`
}

type xmlChange struct {
	ID            string `xml:"ID"`
	MilestoneName string `xml:"MilestoneName"`
	Date          string `xml:"Date"`
	OldDate       string `xml:"OldDate"`
	NewDate       string `xml:"NewDate"`
	Reason        string `xml:"Reason"`
	Impact        string `xml:"Impact"`
}

// ParseFile parses an MS Project XML export from disk.
func ParseFile(path string) (*domain.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse extracts a candidate Project from MS Project XML content. The
// result has not been validated or reconciled; it is raw extraction output.
func Parse(content []byte) (*domain.Project, error) {
	var doc xmlDocument
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, &domain.InvalidDocumentError{Reason: fmt.Sprintf("malformed XML: %v", err)}
	}

	p := &domain.Project{
		ProjectName:          projectName(&doc),
		Status:               "IN_PROGRESS",
		StartDate:            parseDate(firstNonEmpty(doc.StartDate, doc.Start)),
		TargetCompletion:     parseDate(firstNonEmpty(doc.FinishDate, doc.Finish)),
		CompletionPercentage: parsePercent(doc.PercentComplete),
	}

	if code := attributeValue(&doc, fieldProjectCode); code != "" {
		p.ProjectCode = code
	} else {
		p.ProjectCode = deriveCode(p.ProjectName)
	}
	if status := attributeValue(&doc, fieldStatus); status != "" {
		p.Status = status
	}

	p.Milestones = extractMilestones(doc.Tasks)
	p.Risks = extractRisks(doc.Risks)
	p.Changes = extractChanges(doc.Changes)

	return p, nil
}

func projectName(doc *xmlDocument) string {
	if name := firstNonEmpty(doc.Title, doc.Name); name != "" {
		return strings.TrimSpace(name)
	}
	return "Untitled Project"
}

// attributeValue finds an extended attribute value by field ID, checking the
// document level first and then every task.
func attributeValue(doc *xmlDocument, fieldID string) string {
	for _, a := range doc.Attributes {
		if a.FieldID == fieldID && a.Value != "" {
			return strings.TrimSpace(a.Value)
		}
	}
	for _, t := range doc.Tasks {
		for _, a := range t.Attributes {
			if a.FieldID == fieldID && a.Value != "" {
				return strings.TrimSpace(a.Value)
			}
		}
	}
	return ""
}

// deriveCode builds a project code from the name when the export carries
// none: initials of the first three words plus "-P1".
func deriveCode(name string) string {
	var initials strings.Builder
	words := strings.Fields(name)
	for i, w := range words {
		if i >= 3 {
			break
		}
		r, _ := utf8.DecodeRuneInString(w)
		initials.WriteRune(unicode.ToUpper(r))
	}
	if initials.Len() == 0 {
		initials.WriteString("P")
	}
	return initials.String() + "-P1"
}

// extractMilestones walks the flat task list. Summary tasks and outline
// levels 1-2 (project and phase rows) are skipped; a deeper task counts as a
// milestone when its Milestone flag is set or its duration is zero. The most
// recent level-2 row names the ParentProject grouping for the milestones
// under it.
func extractMilestones(tasks []xmlTask) []domain.Milestone {
	var milestones []domain.Milestone
	currentParent := ""

	for _, t := range tasks {
		level := parseInt(t.OutlineLevel, 999)

		if t.Summary == "1" || level <= 2 {
			if level == 2 {
				currentParent = strings.TrimSpace(t.Name)
			}
			continue
		}

		if !isMilestone(&t) {
			continue
		}

		name := strings.TrimSpace(t.Name)
		if name == "" {
			continue
		}
		if t.Finish == "" {
			// No target date, nothing to track against.
			continue
		}

		percent := parsePercent(t.PercentComplete)
		m := domain.Milestone{
			ExternalID:           strings.TrimSpace(t.UID),
			Name:                 name,
			TargetDate:           parseDate(t.Finish),
			CompletionPercentage: percent,
			ParentProject:        currentParent,
			Notes:                strings.TrimSpace(t.Notes),
		}

		switch {
		case percent == 100:
			m.Status = domain.MilestoneCompleted
			if t.ActualFinish != "" {
				m.CompletionDate = parseDate(t.ActualFinish)
			} else {
				m.CompletionDate = m.TargetDate
			}
		case percent > 0:
			m.Status = domain.MilestoneInProgress
		default:
			m.Status = domain.MilestoneNotStarted
		}

		milestones = append(milestones, m)
	}

	return milestones
}

// isMilestone applies the export's two milestone conventions: the explicit
// flag, or a zero duration (PT0H0M0S and variants).
func isMilestone(t *xmlTask) bool {
	if t.Milestone == "1" {
		return true
	}
	return strings.HasPrefix(t.Duration, "PT0")
}

func extractRisks(risks []xmlRisk) []domain.Risk {
	var out []domain.Risk
	for _, r := range risks {
		if r.ID == "" || r.Description == "" {
			continue
		}
		out = append(out, domain.Risk{
			RiskID:      strings.TrimSpace(r.ID),
			Description: strings.TrimSpace(r.Description),
			Severity:    riskLevel(r.Severity),
			Probability: riskLevel(r.Probability),
			Impact:      strings.TrimSpace(r.Impact),
			Mitigation:  defaultString(r.Mitigation, "No mitigation defined"),
			Status:      riskStatus(r.Status),
		})
	}
	return out
}

func extractChanges(changes []xmlChange) []domain.Change {
	var out []domain.Change
	for _, c := range changes {
		if c.ID == "" {
			continue
		}
		out = append(out, domain.Change{
			ChangeID:      strings.TrimSpace(c.ID),
			MilestoneName: strings.TrimSpace(c.MilestoneName),
			Date:          defaultString(c.Date, time.Now().Format(domain.DateLayout)),
			OldDate:       strings.TrimSpace(c.OldDate),
			NewDate:       strings.TrimSpace(c.NewDate),
			Reason:        defaultString(c.Reason, "Not specified"),
			Impact:        defaultString(c.Impact, "Unknown"),
		})
	}
	return out
}

func riskLevel(s string) domain.RiskLevel {
	level := domain.RiskLevel(strings.ToUpper(strings.TrimSpace(s)))
	if err := domain.ValidateRiskLevel(level); err != nil {
		return domain.RiskMedium
	}
	return level
}

func riskStatus(s string) domain.RiskStatus {
	status := domain.RiskStatus(strings.ToUpper(strings.TrimSpace(s)))
	if err := domain.ValidateRiskStatus(status); err != nil {
		return domain.RiskOpen
	}
	return status
}

// dateLayouts are the formats exports have been seen to use, tried in order.
var dateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006",
	"2006-01-02T15:04:05Z07:00",
}

// parseDate normalizes an export date to YYYY-MM-DD. Unparseable or empty
// input falls back to today, matching the tolerance of the extraction step;
// structural validation downstream decides what is fatal.
func parseDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now().Format(domain.DateLayout)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(domain.DateLayout)
		}
	}
	return time.Now().Format(domain.DateLayout)
}

func parsePercent(s string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	p := int(f)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func defaultString(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return strings.TrimSpace(s)
}
