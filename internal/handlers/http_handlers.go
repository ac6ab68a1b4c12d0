package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
	"github.com/google/uuid"

	"raffle/internal/csvmap"
	"raffle/internal/models"
	"raffle/internal/services"
	"raffle/internal/spin"
)

// sessionCookie identifies a presenter session across requests. The UI may
// also pass the id explicitly in the X-Session-ID header.
const (
	sessionCookie    = "raffle_session"
	sessionHeader    = "X-Session-ID"
	sessionKey       = "sessionID"
	sessionCookieAge = 30 * 24 * 3600 // seconds
)

// HTTPHandler holds the dependencies for the HTTP handlers.
type HTTPHandler struct {
	service *services.RaffleService
}

// NewHTTPHandler creates a new HTTPHandler.
func NewHTTPHandler(service *services.RaffleService) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// SessionMiddleware resolves the presenter session id, minting one on first
// contact.
func (h *HTTPHandler) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(sessionHeader)
		if sessionID == "" {
			if cookie, err := c.Cookie(sessionCookie); err == nil {
				sessionID = cookie
			}
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
			c.SetCookie(sessionCookie, sessionID, sessionCookieAge, "/", "", false, true)
		}
		c.Set(sessionKey, sessionID)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}

// RegisterRoutes registers all the application routes.
func (h *HTTPHandler) RegisterRoutes(router gin.IRoutes) {
	router.POST("/api/headers", h.PreviewHeaders)
	router.POST("/api/import", h.ImportContestants)
	router.POST("/api/import/file", h.ImportContestantsFile)

	router.GET("/api/contestants", h.GetContestants)
	router.GET("/api/contestants/find", h.FindContestant)
	router.DELETE("/api/contestants", h.ClearContestants)

	router.POST("/api/spin/wheel", h.SpinWheel)
	router.POST("/api/spin/slot", h.SpinSlot)

	router.GET("/api/history", h.GetHistory)
	router.DELETE("/api/history", h.ClearHistory)
	router.DELETE("/api/history/:id", h.RemoveHistory)
	router.GET("/api/history/export", h.ExportHistoryCSV)

	router.GET("/api/presets", h.GetPresets)
	router.POST("/api/presets", h.SavePreset)
	router.DELETE("/api/presets/:name", h.DeletePreset)

	router.GET("/api/themes", h.GetThemes)
	router.DELETE("/api/session", h.ClearSession)
}

// PreviewHeaders returns the first row of the pasted text so the UI can
// offer mapping choices.
func (h *HTTPHandler) PreviewHeaders(c *gin.Context) {
	var req models.HeadersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}

	headers, err := csvmap.Headers(req.Text, req.Delimiter)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"headers": headers})
}

// ImportContestants maps the posted text and replaces the session roster.
func (h *HTTPHandler) ImportContestants(c *gin.Context) {
	var req models.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}
	h.runImport(c, req.Text, req.Mapping)
}

// ImportContestantsFile is the multipart variant: a CSV file plus the
// mapping posted as form fields.
func (h *HTTPHandler) ImportContestantsFile(c *gin.Context) {
	file, _, err := c.Request.FormFile("contestantCSV")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "error retrieving file"})
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "error reading file"})
		return
	}

	mapping := models.ColumnMapping{
		NameColumn:   c.PostForm("nameColumn"),
		TicketColumn: c.PostForm("ticketColumn"),
		EmailColumn:  c.PostForm("emailColumn"),
		HasHeaderRow: c.PostForm("hasHeaderRow") == "true",
		Delimiter:    c.PostForm("delimiter"),
	}
	h.runImport(c, string(raw), mapping)
}

func (h *HTTPHandler) runImport(c *gin.Context, text string, mapping models.ColumnMapping) {
	rows, warnings, err := csvmap.Parse(text, mapping)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	imported := h.service.ReplaceContestants(sessionID(c), rows)
	c.JSON(http.StatusOK, models.ImportResponse{
		Imported: imported,
		Skipped:  len(rows) - imported,
		Warnings: warnings,
	})
}

// GetContestants returns the current roster.
func (h *HTTPHandler) GetContestants(c *gin.Context) {
	roster := h.service.Contestants(sessionID(c))
	c.JSON(http.StatusOK, gin.H{"contestants": roster, "count": len(roster)})
}

// FindContestant looks up a contestant by ticket.
func (h *HTTPHandler) FindContestant(c *gin.Context) {
	ticket := c.Query("ticket")
	if ticket == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "ticket query parameter is required"})
		return
	}
	contestant := h.service.FindByTicket(sessionID(c), ticket)
	if contestant == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: services.ErrTicketNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, contestant)
}

// ClearContestants empties the roster.
func (h *HTTPHandler) ClearContestants(c *gin.Context) {
	h.service.ClearContestants(sessionID(c))
	c.Status(http.StatusNoContent)
}

// SpinWheel starts a wheel spin and returns the animation plan.
func (h *HTTPHandler) SpinWheel(c *gin.Context) {
	var req models.SpinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}

	resp, err := h.service.SpinWheel(sessionID(c), req)
	if err != nil {
		respondSpinError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SpinSlot starts a slot spin and returns the reel layout.
func (h *HTTPHandler) SpinSlot(c *gin.Context) {
	var req models.SpinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}

	resp, err := h.service.SpinSlot(sessionID(c), req)
	if err != nil {
		respondSpinError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// respondSpinError maps refusals onto statuses the UI can act on: a busy
// sequencer is a conflict, everything else is a user-correctable request.
func respondSpinError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTicketNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, spin.ErrSpinInProgress):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	}
}

// GetHistory returns winner records, optionally filtered by type.
func (h *HTTPHandler) GetHistory(c *gin.Context) {
	var records []*models.WinnerRecord
	if t := c.Query("type"); t != "" {
		records = h.service.HistoryByType(sessionID(c), t)
	} else {
		records = h.service.History(sessionID(c))
	}
	c.JSON(http.StatusOK, gin.H{"history": records, "count": len(records)})
}

// ClearHistory destroys the session's history.
func (h *HTTPHandler) ClearHistory(c *gin.Context) {
	h.service.ClearHistory(sessionID(c))
	c.Status(http.StatusNoContent)
}

// RemoveHistory deletes one record by id.
func (h *HTTPHandler) RemoveHistory(c *gin.Context) {
	h.service.RemoveHistory(sessionID(c), c.Param("id"))
	c.Status(http.StatusNoContent)
}

// ExportHistoryCSV downloads the history as a CSV file.
func (h *HTTPHandler) ExportHistoryCSV(c *gin.Context) {
	out, err := h.service.ExportHistoryCSV(sessionID(c))
	if err != nil {
		logger.Errorf("Error exporting history CSV: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "error writing CSV"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment;filename=winner_history.csv")

	// BOM keeps Excel happy with UTF-8 content.
	c.Writer.Write([]byte("\xef\xbb\xbf"))
	c.Writer.Write([]byte(out))
}

// GetPresets lists the saved mapping presets.
func (h *HTTPHandler) GetPresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"presets": h.service.MappingPresets(sessionID(c))})
}

// SavePreset stores a named mapping preset.
func (h *HTTPHandler) SavePreset(c *gin.Context) {
	var req models.SavePresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}
	preset := models.MappingPreset{Name: req.Name, Mapping: req.Mapping}
	if err := h.service.SaveMappingPreset(sessionID(c), preset); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, preset)
}

// DeletePreset removes a preset by name.
func (h *HTTPHandler) DeletePreset(c *gin.Context) {
	h.service.DeleteMappingPreset(sessionID(c), c.Param("name"))
	c.Status(http.StatusNoContent)
}

// GetThemes lists the available themes.
func (h *HTTPHandler) GetThemes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"themes": h.service.Themes().All()})
}

// ClearSession wipes everything the session owns.
func (h *HTTPHandler) ClearSession(c *gin.Context) {
	h.service.ClearSession(sessionID(c))
	c.Status(http.StatusNoContent)
}
