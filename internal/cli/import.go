package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/statusdeck/statusdeck/internal/db"
	"github.com/statusdeck/statusdeck/internal/domain"
	"github.com/statusdeck/statusdeck/internal/events"
	"github.com/statusdeck/statusdeck/internal/msproject"
	"github.com/statusdeck/statusdeck/internal/reconcile"
)

var (
	importBaseline    bool
	importDryRun      bool
	importReasonsFile string
)

var importCmd = &cobra.Command{
	Use:   "import <file.xml>",
	Short: "Import a schedule export and reconcile it into project state",
	Long: `Import parses an MS Project XML export, reconciles it against the
persisted project state, and reports detected schedule slips.

Slips only enter the change ledger with a reason: supply one per slip in a
YAML file via --reasons, or confirm them later through the API. With
--dry-run nothing is written and the resulting record-file diff is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importBaseline, "baseline", false, "Treat as first import: skip matching and merge, only dedupe")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Reconcile and report without persisting")
	importCmd.Flags().StringVar(&importReasonsFile, "reasons", "", "YAML file of confirmed changes (milestone_name, old_date, new_date, reason, impact)")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	st, cfg, err := openStore(cmd)
	if err != nil {
		return err
	}

	incoming, err := msproject.ParseFile(args[0])
	if err != nil {
		return err
	}
	if err := domain.ValidateProject(incoming); err != nil {
		return err
	}

	code := incoming.ProjectCode
	lock := st.Lock(code)
	lock.Lock()
	defer lock.Unlock()

	var existing *domain.Project
	if st.Exists(code) {
		existing, err = st.Get(code)
		if err != nil {
			return err
		}
	}

	result, err := reconcile.Reconcile(existing, incoming, importBaseline)
	if err != nil {
		return err
	}

	if result.IsNew {
		fmt.Printf("Project %s (%s): new\n", code, incoming.ProjectName)
	} else {
		fmt.Printf("Project %s (%s): update\n", code, incoming.ProjectName)
	}
	fmt.Printf("  milestones: %d", len(result.Project.Milestones))
	if n := len(result.DuplicatesRemoved); n > 0 {
		fmt.Printf("  (duplicates removed: %d)", n)
	}
	fmt.Println()

	for _, m := range result.DuplicatesRemoved {
		fmt.Printf("  dropped duplicate: %s (%s, %d%%)\n", m.Name, m.TargetDate, m.CompletionPercentage)
	}

	if len(result.Candidates) > 0 {
		fmt.Printf("  detected changes:\n")
		for _, cand := range result.Candidates {
			marker := ""
			if cand.HasReason() {
				marker = "  [documented]"
			}
			fmt.Printf("    %-30s %s -> %s  (%+d days, %s)%s\n",
				cand.MilestoneName, cand.OldDate, cand.NewDate, cand.DaysDiff, cand.SuggestedImpact, marker)
		}
	}

	confirmed, skipped, err := loadConfirmations(code, result.Candidates)
	if err != nil {
		return err
	}
	for _, name := range skipped {
		fmt.Printf("  skipped (no reason supplied): %s\n", name)
	}
	result.Project.Changes = reconcile.MergeChanges(result.Project.Changes, confirmed)

	if importDryRun {
		if existing != nil {
			printRecordDiff(st.Path(code), existing, result.Project)
		}
		fmt.Println("Dry run: nothing written.")
		return nil
	}

	if err := st.Save(result.Project); err != nil {
		return err
	}
	fmt.Printf("Saved %s\n", st.Path(code))

	recordImportAudit(cfg.AuditDB, args[0], result, len(confirmed), importBaseline)
	return nil
}

// loadConfirmations reads the --reasons file, if given, and builds ledger
// entries for every listed slip with a non-empty reason. Entries without a
// reason are reported and dropped; they can be confirmed later.
func loadConfirmations(projectCode string, candidates []reconcile.Candidate) ([]domain.Change, []string, error) {
	if importReasonsFile == "" {
		return nil, nil, nil
	}

	data, err := os.ReadFile(importReasonsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read reasons file: %w", err)
	}

	var confirmations []reconcile.Confirmation
	if err := yaml.Unmarshal(data, &confirmations); err != nil {
		return nil, nil, fmt.Errorf("failed to parse reasons file: %w", err)
	}

	// Fill in days_diff from the detected candidate when the file omits it.
	byName := make(map[string]reconcile.Candidate, len(candidates))
	for _, cand := range candidates {
		byName[cand.MilestoneName] = cand
	}

	var confirmed []domain.Change
	var skipped []string
	now := time.Now()
	for _, conf := range confirmations {
		if strings.TrimSpace(conf.Reason) == "" {
			skipped = append(skipped, conf.MilestoneName)
			continue
		}
		if cand, ok := byName[conf.MilestoneName]; ok && conf.DaysDiff == 0 {
			conf.DaysDiff = cand.DaysDiff
			if conf.OldDate == "" {
				conf.OldDate = cand.OldDate
			}
			if conf.NewDate == "" {
				conf.NewDate = cand.NewDate
			}
		}
		change, err := reconcile.NewChange(projectCode, conf, now)
		if err != nil {
			return nil, nil, err
		}
		confirmed = append(confirmed, change)
	}
	return confirmed, skipped, nil
}

// printRecordDiff shows what the merge would change in the persisted record
// file.
func printRecordDiff(path string, existing, merged *domain.Project) {
	before, err := yaml.Marshal(existing)
	if err != nil {
		return
	}
	after, err := yaml.Marshal(merged)
	if err != nil {
		return
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: filepath.Base(path),
		ToFile:   filepath.Base(path) + " (merged)",
		Context:  3,
	}
	if text, err := difflib.GetUnifiedDiffString(diff); err == nil && text != "" {
		fmt.Println(text)
	}
}

// recordImportAudit appends to the audit database. Failures are reported
// but never fail the import.
func recordImportAudit(dbPath, filename string, result *reconcile.Result, confirmedCount int, isBaseline bool) {
	database, err := db.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: audit database unavailable: %v\n", err)
		return
	}
	defer database.Close()
	if err := database.Migrate(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: audit migration failed: %v\n", err)
		return
	}

	w := events.NewWriter(database.DB)
	code := result.Project.ProjectCode
	if result.IsNew || isBaseline {
		err = w.LogBaselined(code, len(result.Project.Milestones))
	} else {
		err = w.LogReconciled(code, result.IsNew, len(result.Candidates), len(result.DuplicatesRemoved))
	}
	if err == nil && confirmedCount > 0 {
		err = w.Log(code, events.TypeChangesConfirmed, map[string]interface{}{"count": confirmedCount, "source": filepath.Base(filename)})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: audit write failed: %v\n", err)
	}
}
