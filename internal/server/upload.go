package server

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/statusdeck/statusdeck/internal/domain"
	"github.com/statusdeck/statusdeck/internal/msproject"
	"github.com/statusdeck/statusdeck/internal/reconcile"
)

// uploadResponse is the body returned after a document upload. Nothing has
// been persisted yet: Candidates await human confirmation and the merged
// state is recomputed during confirm.
type uploadResponse struct {
	Success        bool                  `json:"success"`
	UploadID       string                `json:"upload_id"`
	ProjectCode    string                `json:"project_code"`
	ProjectName    string                `json:"project_name"`
	IsNew          bool                  `json:"is_new"`
	MilestoneCount int                   `json:"milestone_count"`
	Duplicates     int                   `json:"duplicates_removed"`
	Candidates     []reconcile.Candidate `json:"detected_changes"`
	StoredPath     string                `json:"stored_path"`
}

// handleUpload receives an MS Project XML export, extracts candidate
// records, and runs a detection-only reconciliation pass. The raw file is
// kept under the upload directory for the confirm step.
func (s *Server) handleUpload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		uploadsTotal.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "missing file field"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		uploadsTotal.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "failed to read upload"})
		return
	}

	isBaseline := c.PostForm("baseline") == "true"

	result, incoming, err := s.detect(content, isBaseline)
	if err != nil {
		uploadsTotal.WithLabelValues("invalid").Inc()
		status := http.StatusBadRequest
		if !domain.IsInvalidDocument(err) {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	uploadID := uuid.NewString()
	storedPath, err := s.storeUpload(incoming.ProjectCode, content)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to store upload")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to store upload"})
		return
	}

	uploadsTotal.WithLabelValues("accepted").Inc()
	changeCandidatesTotal.Add(float64(len(result.Candidates)))
	s.auditLog(func() error {
		return s.audit.RecordUpload(uploadID, incoming.ProjectCode, header.Filename,
			int64(len(content)), isBaseline, len(incoming.Milestones),
			len(result.Candidates), len(result.DuplicatesRemoved), storedPath)
	})

	c.JSON(http.StatusOK, uploadResponse{
		Success:        true,
		UploadID:       uploadID,
		ProjectCode:    incoming.ProjectCode,
		ProjectName:    incoming.ProjectName,
		IsNew:          result.IsNew,
		MilestoneCount: len(result.Project.Milestones),
		Duplicates:     len(result.DuplicatesRemoved),
		Candidates:     result.Candidates,
		StoredPath:     storedPath,
	})
}

// parseDocument extracts and structurally validates an incoming document.
func parseDocument(content []byte) (*domain.Project, error) {
	incoming, err := msproject.Parse(content)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateProject(incoming); err != nil {
		return nil, err
	}
	return incoming, nil
}

// detect parses the document and runs reconciliation without persisting.
func (s *Server) detect(content []byte, isBaseline bool) (*reconcile.Result, *domain.Project, error) {
	incoming, err := parseDocument(content)
	if err != nil {
		return nil, nil, err
	}

	lock := s.store.Lock(incoming.ProjectCode)
	lock.Lock()
	defer lock.Unlock()

	var existing *domain.Project
	if s.store.Exists(incoming.ProjectCode) {
		existing, err = s.store.Get(incoming.ProjectCode)
		if err != nil {
			return nil, nil, err
		}
	}

	result, err := reconcile.Reconcile(existing, incoming, isBaseline)
	if err != nil {
		return nil, nil, err
	}
	return result, incoming, nil
}

// confirmRequest finalizes an upload: entries with a non-empty reason become
// ledger records, everything else is dropped at the boundary.
type confirmRequest struct {
	ProjectCode string                   `json:"project_code" binding:"required"`
	StoredPath  string                   `json:"stored_path" binding:"required"`
	IsBaseline  bool                     `json:"is_baseline"`
	Changes     []reconcile.Confirmation `json:"changes"`
}

// handleConfirm re-runs reconciliation on the stored upload under the
// project lock, merges confirmed changes into the ledger, and persists the
// result atomically.
func (s *Server) handleConfirm(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	content, err := s.readStoredUpload(req.StoredPath)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	incoming, err := parseDocument(content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if incoming.ProjectCode != req.ProjectCode {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   fmt.Sprintf("stored upload is for project %s, not %s", incoming.ProjectCode, req.ProjectCode),
		})
		return
	}

	lock := s.store.Lock(req.ProjectCode)
	lock.Lock()
	defer lock.Unlock()

	var existing *domain.Project
	if s.store.Exists(req.ProjectCode) {
		existing, err = s.store.Get(req.ProjectCode)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
	}

	result, err := reconcile.Reconcile(existing, incoming, req.IsBaseline)
	if err != nil {
		status := http.StatusInternalServerError
		if domain.IsInvalidDocument(err) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	var confirmed []domain.Change
	now := time.Now()
	for _, conf := range req.Changes {
		if strings.TrimSpace(conf.Reason) == "" {
			continue
		}
		change, err := reconcile.NewChange(req.ProjectCode, conf, now)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		confirmed = append(confirmed, change)
	}

	result.Project.Changes = reconcile.MergeChanges(result.Project.Changes, confirmed)

	if err := s.store.Save(result.Project); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	changesConfirmedTotal.Add(float64(len(confirmed)))
	duplicatesRemovedTotal.Add(float64(len(result.DuplicatesRemoved)))
	s.auditLog(func() error {
		if result.IsNew || req.IsBaseline {
			return s.audit.LogBaselined(req.ProjectCode, len(result.Project.Milestones))
		}
		return s.audit.LogReconciled(req.ProjectCode, result.IsNew, len(result.Candidates), len(result.DuplicatesRemoved))
	})
	if len(confirmed) > 0 {
		ids := make([]string, len(confirmed))
		for i, ch := range confirmed {
			ids[i] = ch.ChangeID
		}
		s.auditLog(func() error { return s.audit.LogChangesConfirmed(req.ProjectCode, ids) })
	}
	if len(result.DuplicatesRemoved) > 0 {
		names := make([]string, len(result.DuplicatesRemoved))
		for i, m := range result.DuplicatesRemoved {
			names[i] = m.Name
		}
		s.log.Warn().Str("project", req.ProjectCode).Strs("names", names).Msg("removed duplicate milestones")
		s.auditLog(func() error { return s.audit.LogDuplicatesRemoved(req.ProjectCode, names) })
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"project_code":       req.ProjectCode,
		"changes_saved":      len(confirmed),
		"duplicates_removed": len(result.DuplicatesRemoved),
	})
}

// storeUpload writes the raw document under the upload directory for the
// confirm step and for audit.
func (s *Server) storeUpload(projectCode string, content []byte) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	name := fmt.Sprintf("%s_%s.xml", projectCode, time.Now().Format("20060102_150405"))
	path := filepath.Join(s.uploadDir, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return path, nil
}

// readStoredUpload reads a previously stored document, refusing paths
// outside the upload directory.
func (s *Server) readStoredUpload(path string) ([]byte, error) {
	absDir, err := filepath.Abs(s.uploadDir)
	if err != nil {
		return nil, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(absPath, absDir+string(filepath.Separator)) {
		return nil, fmt.Errorf("stored_path is outside the upload directory")
	}
	return os.ReadFile(absPath)
}
