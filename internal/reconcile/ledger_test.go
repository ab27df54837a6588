package reconcile

import (
	"errors"
	"testing"
	"time"

	"github.com/statusdeck/statusdeck/internal/domain"
)

var testNow = time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

func TestNewChangeRequiresReason(t *testing.T) {
	_, err := NewChange("ZN-P1", Confirmation{
		MilestoneName: "Go-Live",
		OldDate:       "2025-03-01",
		NewDate:       "2025-03-15",
		DaysDiff:      14,
	}, testNow)

	var empty *domain.EmptyReasonError
	if !errors.As(err, &empty) {
		t.Fatalf("err = %v, want EmptyReasonError", err)
	}
}

func TestNewChangeRejectsWhitespaceReason(t *testing.T) {
	_, err := NewChange("ZN-P1", Confirmation{
		MilestoneName: "Go-Live",
		OldDate:       "2025-03-01",
		NewDate:       "2025-03-15",
		DaysDiff:      14,
		Reason:        "   \t",
	}, testNow)

	var empty *domain.EmptyReasonError
	if !errors.As(err, &empty) {
		t.Fatalf("err = %v, want EmptyReasonError for whitespace-only reason", err)
	}
}

func TestNewChange(t *testing.T) {
	change, err := NewChange("ZN-P1", Confirmation{
		MilestoneName: "Go-Live",
		OldDate:       "2025-03-01",
		NewDate:       "2025-03-15",
		DaysDiff:      14,
		Reason:        "Vendor slipped delivery",
	}, testNow)
	if err != nil {
		t.Fatalf("NewChange: %v", err)
	}

	if change.ChangeID != "CHG-ZN-P1-GO-LIVE-20250301-20250315" {
		t.Errorf("ChangeID = %q", change.ChangeID)
	}
	if change.Date != "2025-03-20" {
		t.Errorf("Date = %q, want record date", change.Date)
	}
	if change.Impact != "Moderate 14 day delay" {
		t.Errorf("Impact = %q, want suggested impact when none supplied", change.Impact)
	}
}

func TestNewChangeKeepsSuppliedImpact(t *testing.T) {
	change, err := NewChange("ZN-P1", Confirmation{
		MilestoneName: "Go-Live",
		OldDate:       "2025-03-01",
		NewDate:       "2025-03-15",
		DaysDiff:      14,
		Reason:        "Vendor slipped delivery",
		Impact:        "Revenue recognition moves a quarter",
	}, testNow)
	if err != nil {
		t.Fatalf("NewChange: %v", err)
	}
	if change.Impact != "Revenue recognition moves a quarter" {
		t.Errorf("Impact = %q", change.Impact)
	}
}

func TestMergeChangesUpsert(t *testing.T) {
	existing := []domain.Change{
		{ChangeID: "CHG-A", Reason: "first"},
		{ChangeID: "CHG-B", Reason: "second"},
	}
	incoming := []domain.Change{
		{ChangeID: "CHG-B", Reason: "second, revised"},
		{ChangeID: "CHG-C", Reason: "third"},
	}

	merged := MergeChanges(existing, incoming)

	if len(merged) != 3 {
		t.Fatalf("len = %d, want 3", len(merged))
	}
	// Existing entries keep their position; new ones append.
	if merged[0].ChangeID != "CHG-A" || merged[1].ChangeID != "CHG-B" || merged[2].ChangeID != "CHG-C" {
		t.Errorf("order = %s, %s, %s", merged[0].ChangeID, merged[1].ChangeID, merged[2].ChangeID)
	}
	if merged[1].Reason != "second, revised" {
		t.Errorf("upsert did not refresh reason: %q", merged[1].Reason)
	}
}

func TestMergeChangesIdempotent(t *testing.T) {
	existing := []domain.Change{{ChangeID: "CHG-A", Reason: "r"}}
	incoming := []domain.Change{{ChangeID: "CHG-A", Reason: "r"}}

	once := MergeChanges(existing, incoming)
	twice := MergeChanges(once, incoming)

	if len(once) != 1 || len(twice) != 1 {
		t.Errorf("lengths = %d, %d, want 1, 1", len(once), len(twice))
	}
}

func TestMergeChangesNeverDeletes(t *testing.T) {
	existing := []domain.Change{{ChangeID: "CHG-OLD", Reason: "ancient history"}}

	merged := MergeChanges(existing, nil)
	if len(merged) != 1 {
		t.Fatalf("existing entry was dropped")
	}
}

func TestNoDuplicateChangeAcrossUploads(t *testing.T) {
	// Detecting the same slip across two separate uploads yields one ledger
	// entry; the second confirmation only updates reason and impact.
	first, err := NewChange("ZN-P1", Confirmation{
		MilestoneName: "Go-Live", OldDate: "2025-03-01", NewDate: "2025-03-15",
		DaysDiff: 14, Reason: "initial reason",
	}, testNow)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewChange("ZN-P1", Confirmation{
		MilestoneName: "Go-Live", OldDate: "2025-03-01", NewDate: "2025-03-15",
		DaysDiff: 14, Reason: "better reason",
	}, testNow.AddDate(0, 0, 7))
	if err != nil {
		t.Fatal(err)
	}

	ledger := MergeChanges(nil, []domain.Change{first})
	ledger = MergeChanges(ledger, []domain.Change{second})

	if len(ledger) != 1 {
		t.Fatalf("ledger has %d entries, want 1", len(ledger))
	}
	if ledger[0].Reason != "better reason" {
		t.Errorf("Reason = %q, want updated reason", ledger[0].Reason)
	}
}
