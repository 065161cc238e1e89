package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"console-cafe-backend/internal/ledger"
)

// PostSession handles POST /api/sessions.
func (h *Handler) PostSession(c *gin.Context) {
	var req ledger.StartRequest
	if !bind(c, &req) {
		return
	}
	session, err := h.sessions.Start(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": session.ID, "message": "Session created"})
}

// GetSessions handles GET /api/sessions.
func (h *Handler) GetSessions(c *gin.Context) {
	sessions, err := h.sessions.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// GetActiveSessions handles GET /api/sessions/active.
func (h *Handler) GetActiveSessions(c *gin.Context) {
	sessions, err := h.sessions.ListActive(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// EndSession handles PUT /api/sessions/:session_id/end.
func (h *Handler) EndSession(c *gin.Context) {
	session, err := h.sessions.End(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session ended", "total_cost": *session.TotalCost})
}
