package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/statusdeck/statusdeck/internal/domain"
	"github.com/statusdeck/statusdeck/internal/events"
)

func (s *Server) handleListProjects(c *gin.Context) {
	projects, err := s.store.LoadAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "projects": projects})
}

func (s *Server) handleGetProject(c *gin.Context) {
	project, err := s.store.Get(c.Param("code"))
	if err != nil {
		if domain.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "project": project})
}

type notesRequest struct {
	Notes     string `json:"notes"`
	Resources string `json:"resources"`
}

// handleUpdateNotes edits the user-owned fields of one milestone. These are
// the only milestone fields the dashboard writes directly; everything else
// comes from imports.
func (s *Server) handleUpdateNotes(c *gin.Context) {
	code := c.Param("code")
	name := c.Param("name")

	var req notesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	lock := s.store.Lock(code)
	lock.Lock()
	defer lock.Unlock()

	project, err := s.store.Get(code)
	if err != nil {
		if domain.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	milestone := project.FindMilestone(name)
	if milestone == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "milestone not found: " + name})
		return
	}
	milestone.Notes = req.Notes
	milestone.Resources = req.Resources

	if err := s.store.Save(project); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	s.auditLog(func() error {
		return s.audit.Log(code, events.TypeNotesUpdated, map[string]interface{}{"milestone": milestone.Name})
	})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type changeEditRequest struct {
	Reason string `json:"reason" binding:"required"`
	Impact string `json:"impact"`
}

// handleUpdateChange edits the reason and impact of an existing ledger
// entry. Those are the only mutable fields of a Change; everything else is
// fixed at construction and reconciliation never deletes one.
func (s *Server) handleUpdateChange(c *gin.Context) {
	code := c.Param("code")
	changeID := c.Param("id")

	var req changeEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Reason) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "reason must be non-empty"})
		return
	}

	lock := s.store.Lock(code)
	lock.Lock()
	defer lock.Unlock()

	project, err := s.store.Get(code)
	if err != nil {
		if domain.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	change := project.FindChange(changeID)
	if change == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "change not found: " + changeID})
		return
	}
	change.Reason = req.Reason
	if req.Impact != "" {
		change.Impact = req.Impact
	}

	if err := s.store.Save(project); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
