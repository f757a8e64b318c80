package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/skillproctor/internal/services"
)

type ProctoringHandler struct {
	svc services.ProctoringService
}

func NewProctoringHandler(svc services.ProctoringService) *ProctoringHandler {
	return &ProctoringHandler{svc: svc}
}

type LogEventRequest struct {
	StageType string `json:"stage_type" binding:"required"`
	SessionID string `json:"session_id"`
	EventType string `json:"event_type" binding:"required"`
	Details   string `json:"details"`
	Severity  string `json:"severity"`
}

// Log records an event for the calling candidate.
func (h *ProctoringHandler) Log(c *gin.Context) {
	candidateID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req LogEventRequest
	if !bindJSON(c, "ProctoringHandler.Log", &req) {
		return
	}

	ev, err := h.svc.Log(c.Request.Context(), services.LogEventInput{
		CandidateID: candidateID,
		StageType:   req.StageType,
		SessionID:   req.SessionID,
		EventType:   req.EventType,
		Details:     req.Details,
		Severity:    req.Severity,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

func (h *ProctoringHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), c.Param("candidate_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": list})
}

func (h *ProctoringHandler) Summary(c *gin.Context) {
	sum, err := h.svc.Summary(c.Request.Context(), c.Param("candidate_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}
