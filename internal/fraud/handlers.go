package fraud

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/CodeMesh15/fraud-detection-service/internal/event"
	"github.com/CodeMesh15/fraud-detection-service/internal/logging"
	"github.com/CodeMesh15/fraud-detection-service/internal/validation"
)

// Handler exposes the fraud engine over HTTP. Decoding and validation
// happen here; the analyzer only ever sees well-formed events.
type Handler struct {
	analyzer *Analyzer
}

// NewHandler creates an HTTP handler around the analyzer.
func NewHandler(analyzer *Analyzer) *Handler {
	return &Handler{analyzer: analyzer}
}

// RegisterRoutes mounts the fraud API on the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/events", h.AnalyzeEvent)
	rg.GET("/sessions/:sessionId/events", h.GetSessionEvents)
	rg.GET("/sessions/:sessionId/checks", h.GetSessionChecks)
}

// AnalyzeEvent handles POST /api/v1/events.
func (h *Handler) AnalyzeEvent(c *gin.Context) {
	var ev event.Event
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Request body must be a valid event object",
		})
		return
	}

	ev.SessionID = validation.SanitizeString(ev.SessionID, validation.MaxIDLength)
	ev.UserID = validation.SanitizeString(ev.UserID, validation.MaxIDLength)
	ev.IPAddress = validation.SanitizeString(ev.IPAddress, validation.MaxIDLength)

	if err := ev.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_event",
			"message": err.Error(),
		})
		return
	}
	if !validation.IsValidIP(ev.IPAddress) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_event",
			"message": "ipAddress must be a valid IPv4 or IPv6 address",
		})
		return
	}

	result := h.analyzer.Check(c.Request.Context(), &ev)
	c.JSON(http.StatusOK, result)
}

// GetSessionEvents handles GET /api/v1/sessions/:sessionId/events.
func (h *Handler) GetSessionEvents(c *gin.Context) {
	sessionID := c.Param("sessionId")
	events := h.analyzer.History(sessionID)
	c.JSON(http.StatusOK, gin.H{
		"sessionId": sessionID,
		"events":    events,
		"count":     len(events),
	})
}

// GetSessionChecks handles GET /api/v1/sessions/:sessionId/checks.
// Returns the most recent audit-trail entries for the session.
func (h *Handler) GetSessionChecks(c *gin.Context) {
	audit := h.analyzer.Audit()
	if audit == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "audit_disabled",
			"message": "Check result auditing is not enabled",
		})
		return
	}

	sessionID := c.Param("sessionId")
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	checks, err := audit.ListBySession(c.Request.Context(), sessionID, limit)
	if err != nil {
		logging.L(c.Request.Context()).Error("failed to list fraud checks", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to load check history",
		})
		return
	}
	if checks == nil {
		checks = []*CheckResult{}
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId": sessionID,
		"checks":    checks,
		"count":     len(checks),
	})
}
