// Package id defines the identifier families used across statusdeck:
// project codes, risk IDs, and deterministic change IDs.
package id

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	projectCodePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]{1,31}$`)
	riskIDPattern      = regexp.MustCompile(`^R-\d{3}$`)
	changeIDPattern    = regexp.MustCompile(`^CHG-[A-Z0-9-]+-\d{8}-\d{8}$`)

	slugInvalid  = regexp.MustCompile(`[^A-Z0-9]+`)
	slugCollapse = regexp.MustCompile(`-{2,}`)
)

// maxSlugLen caps the milestone-name component of a change ID; the two date
// components keep distinct slips of one milestone distinct regardless.
const maxSlugLen = 24

// FormatRisk formats a risk friendly ID
func FormatRisk(seq int) string {
	return fmt.Sprintf("R-%03d", seq)
}

// ParseRisk extracts the sequence number from a risk ID
func ParseRisk(id string) (int, error) {
	if !riskIDPattern.MatchString(id) {
		return 0, fmt.Errorf("invalid risk ID: %s (expected R-NNN)", id)
	}
	return strconv.Atoi(strings.TrimPrefix(id, "R-"))
}

// IsRiskID reports whether s is a well-formed risk ID.
func IsRiskID(s string) bool {
	return riskIDPattern.MatchString(s)
}

// NextRiskID returns the next free risk ID given the IDs already in use.
// Malformed existing IDs are skipped rather than rejected; legacy files may
// carry free-form IDs and those keep their identity untouched.
func NextRiskID(existing []string) string {
	max := 0
	for _, id := range existing {
		if seq, err := ParseRisk(id); err == nil && seq > max {
			max = seq
		}
	}
	return FormatRisk(max + 1)
}

// Slug reduces a milestone name to the uppercase alphanumeric-and-hyphen
// form used inside change IDs.
func Slug(name string) string {
	s := strings.ToUpper(strings.TrimSpace(name))
	s = slugInvalid.ReplaceAllString(s, "-")
	s = slugCollapse.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLen {
		s = strings.Trim(s[:maxSlugLen], "-")
	}
	if s == "" {
		s = "X"
	}
	return s
}

// Change derives the deterministic change ID for a schedule slip. The same
// (project code, milestone name, old date, new date) tuple always maps to
// the same ID, so re-detecting a slip can never create a duplicate ledger
// entry. Dates are YYYY-MM-DD.
func Change(projectCode, milestoneName, oldDate, newDate string) string {
	return fmt.Sprintf("CHG-%s-%s-%s-%s",
		Slug(projectCode),
		Slug(milestoneName),
		compactDate(oldDate),
		compactDate(newDate),
	)
}

// IsChangeID reports whether s is a well-formed change ID.
func IsChangeID(s string) bool {
	return changeIDPattern.MatchString(s)
}

// IsProjectCode reports whether s is a well-formed project code.
func IsProjectCode(s string) bool {
	return projectCodePattern.MatchString(s)
}

func compactDate(d string) string {
	return strings.ReplaceAll(d, "-", "")
}
