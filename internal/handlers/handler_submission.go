package handlers

import (
	"net/http"
	"strconv"
	"time"

	portssvc "github.com/carbonly/carbon_footprint_app/internal/core/ports/services"
	"github.com/carbonly/carbon_footprint_app/internal/dto"
	"github.com/carbonly/carbon_footprint_app/internal/middleware"

	"github.com/gin-gonic/gin"
)

// submissionHandler handles report and submission endpoints: the explicit
// submit action, the autosave trigger, and reads of saved records.
type submissionHandler struct {
	reportService     portssvc.ReportSvcFacade
	submissionService portssvc.SubmissionSvcFacade
	autosaveService   portssvc.AutosaveSvcFacade
}

func newSubmissionHandler(rs portssvc.ReportSvcFacade, ss portssvc.SubmissionSvcFacade, as portssvc.AutosaveSvcFacade) *submissionHandler {
	return &submissionHandler{
		reportService:     rs,
		submissionService: ss,
		autosaveService:   as,
	}
}

// registerSubmissionRoutes registers report and submission routes.
func registerSubmissionRoutes(
	rg *gin.RouterGroup,
	reportService portssvc.ReportSvcFacade,
	submissionService portssvc.SubmissionSvcFacade,
	autosaveService portssvc.AutosaveSvcFacade,
) {
	h := newSubmissionHandler(reportService, submissionService, autosaveService)

	reports := rg.Group("/reports")
	{
		reports.POST("", h.ensureReport)
		reports.GET("/:id", h.getReport)
		reports.POST("/:id/lock", h.lockReport)
		reports.PUT("/:id/sources/:sourceKey", h.submit)
		reports.GET("/:id/sources/:sourceKey", h.getSubmission)
		reports.POST("/:id/sources/:sourceKey/autosave", h.autosave)
		reports.GET("/:id/sources/:sourceKey/autosave", h.autosaveState)
		reports.POST("/:id/sources/:sourceKey/autosave/flush", h.flushAutosave)
	}
}

// EnsureReportRequest names the year a report is requested for.
type EnsureReportRequest struct {
	Year int `json:"year" binding:"required"`
}

// ensureReport godoc
// @Summary Get or create the caller's report for a year
// @Description Returns the caller's report for the given year, creating it on first use.
// @Tags reports
// @Accept  json
// @Produce  json
// @Param   report body EnsureReportRequest true "Reporting year"
// @Success 200 {object} dto.ReportResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports [post]
func (h *submissionHandler) ensureReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req EnsureReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	if req.Year < 1990 || req.Year > time.Now().Year()+1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Year out of range: " + strconv.Itoa(req.Year)})
		return
	}

	report, err := h.reportService.EnsureReport(c.Request.Context(), userID, req.Year)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to ensure report")
		return
	}

	c.JSON(http.StatusOK, dto.ToReportResponse(report))
}

// getReport godoc
// @Summary Get a report
// @Description Retrieves one report. Callers outside the owning company are rejected unless super admin.
// @Tags reports
// @Produce  json
// @Param   id path string true "Report ID"
// @Success 200 {object} dto.ReportResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/{id} [get]
func (h *submissionHandler) getReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	report, err := h.reportService.GetReport(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve report")
		return
	}

	c.JSON(http.StatusOK, dto.ToReportResponse(report))
}

// lockReport godoc
// @Summary Lock a report
// @Description Freezes a reporting period. Company admins and super admins only. Every later save against it is rejected.
// @Tags reports
// @Produce  json
// @Param   id path string true "Report ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/{id}/lock [post]
func (h *submissionHandler) lockReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.reportService.LockReport(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondServiceError(c, logger, err, "Failed to lock report")
		return
	}

	c.Status(http.StatusNoContent)
}

// submit godoc
// @Summary Submit source rows
// @Description Runs the submission pipeline for one source's rows: validate, sanitize, compute, persist. A computation failure still saves the input as a draft.
// @Tags reports
// @Accept  json
// @Produce  json
// @Param   id path string true "Report ID"
// @Param   sourceKey path string true "Source key, e.g. 2A"
// @Param   submission body dto.SubmitRequest true "Input rows"
// @Success 200 {object} dto.SubmitResult
// @Failure 400 {object} ErrorResponse "Validation failure, nothing saved"
// @Failure 423 {object} ErrorResponse "Report is locked"
// @Security BearerAuth
// @Router /reports/{id}/sources/{sourceKey} [put]
func (h *submissionHandler) submit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.submissionService.Submit(c.Request.Context(), userID, c.Param("id"), c.Param("sourceKey"), req.Rows)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to save submission")
		return
	}

	c.JSON(http.StatusOK, result)
}

// getSubmission godoc
// @Summary Get the saved record of a source
// @Description Returns the last-saved input and result rows for a (report, source) pair.
// @Tags reports
// @Produce  json
// @Param   id path string true "Report ID"
// @Param   sourceKey path string true "Source key"
// @Success 200 {object} dto.SubmissionResponse
// @Failure 404 {object} ErrorResponse "Nothing saved yet"
// @Security BearerAuth
// @Router /reports/{id}/sources/{sourceKey} [get]
func (h *submissionHandler) getSubmission(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	record, err := h.submissionService.GetSubmission(c.Request.Context(), userID, c.Param("id"), c.Param("sourceKey"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve submission")
		return
	}

	c.JSON(http.StatusOK, dto.ToSubmissionResponse(record))
}

// autosave godoc
// @Summary Record an edit for autosaving
// @Description Schedules a debounced save of the rows. Content identical to the last save is dropped without any scheduling.
// @Tags reports
// @Accept  json
// @Produce  json
// @Param   id path string true "Report ID"
// @Param   sourceKey path string true "Source key"
// @Param   submission body dto.SubmitRequest true "Input rows"
// @Success 202 {object} dto.AutosaveResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/{id}/sources/{sourceKey}/autosave [post]
func (h *submissionHandler) autosave(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	state, err := h.autosaveService.Schedule(c.Request.Context(), userID, c.Param("id"), c.Param("sourceKey"), req.Rows)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to schedule autosave")
		return
	}

	c.JSON(http.StatusAccepted, dto.AutosaveResponse{State: string(state)})
}

// flushAutosave godoc
// @Summary Force a pending autosave to run now
// @Description Runs a scheduled save immediately instead of waiting out the debounce, so edits are not lost when the client navigates away. Returns 204 when nothing was pending.
// @Tags reports
// @Produce  json
// @Param   id path string true "Report ID"
// @Param   sourceKey path string true "Source key"
// @Success 200 {object} dto.SubmitResult
// @Success 204 "No Content"
// @Failure 423 {object} ErrorResponse "Report is locked"
// @Security BearerAuth
// @Router /reports/{id}/sources/{sourceKey}/autosave/flush [post]
func (h *submissionHandler) flushAutosave(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if _, ok := middleware.GetUserIDFromContext(c); !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	result, err := h.autosaveService.Flush(c.Request.Context(), c.Param("id"), c.Param("sourceKey"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to flush autosave")
		return
	}
	if result == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, result)
}

// autosaveState godoc
// @Summary Get the autosave state of a source screen
// @Description Reports whether the (report, source) autosave instance is idle, saving, or just saved.
// @Tags reports
// @Produce  json
// @Param   id path string true "Report ID"
// @Param   sourceKey path string true "Source key"
// @Success 200 {object} dto.AutosaveResponse
// @Security BearerAuth
// @Router /reports/{id}/sources/{sourceKey}/autosave [get]
func (h *submissionHandler) autosaveState(c *gin.Context) {
	state := h.autosaveService.State(c.Param("id"), c.Param("sourceKey"))
	c.JSON(http.StatusOK, dto.AutosaveResponse{State: string(state)})
}
