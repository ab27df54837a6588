package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/statusdeck/statusdeck/internal/db"
	"github.com/statusdeck/statusdeck/internal/domain"
)

// TempDB creates a temporary audit database for testing
func TempDB(t *testing.T) (*sql.DB, string) {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	if err := database.Migrate(); err != nil {
		database.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		database.Close()
	})

	return database.DB, dbPath
}

// WriteFile writes content to a file in a temporary directory
func WriteFile(t *testing.T, dir, filename, content string) string {
	t.Helper()
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
	return path
}

// Milestone builds a milestone with sensible defaults for tests
func Milestone(name, targetDate string) domain.Milestone {
	return domain.Milestone{
		Name:       name,
		TargetDate: targetDate,
		Status:     domain.MilestoneNotStarted,
	}
}

// Project builds a minimal valid project for tests
func Project(code string, milestones ...domain.Milestone) *domain.Project {
	return &domain.Project{
		ProjectName:      "Test Project " + code,
		ProjectCode:      code,
		Status:           "IN_PROGRESS",
		StartDate:        "2025-01-01",
		TargetCompletion: "2025-12-31",
		Milestones:       milestones,
	}
}
