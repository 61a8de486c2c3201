package handlers

import (
	"net/http"

	portssvc "github.com/carbonly/carbon_footprint_app/internal/core/ports/services"
	"github.com/carbonly/carbon_footprint_app/internal/dto"
	"github.com/carbonly/carbon_footprint_app/internal/middleware"

	"github.com/gin-gonic/gin"
)

// visibilityHandler exposes the admin console endpoints: the per-user
// visibility matrix and the toggle mutation.
type visibilityHandler struct {
	visibilityService portssvc.VisibilitySvcFacade
}

func newVisibilityHandler(vs portssvc.VisibilitySvcFacade) *visibilityHandler {
	return &visibilityHandler{visibilityService: vs}
}

// registerVisibilityRoutes registers the admin console routes.
func registerVisibilityRoutes(rg *gin.RouterGroup, visibilityService portssvc.VisibilitySvcFacade) {
	h := newVisibilityHandler(visibilityService)

	visibility := rg.Group("/visibility")
	{
		visibility.GET("/users/:id", h.getMatrix)
		visibility.PUT("", h.setVisibility)
	}
}

// getMatrix godoc
// @Summary Get a user's visibility matrix
// @Description Resolves the effective visibility of every enabled poste and source for the target user.
// @Tags visibility
// @Produce  json
// @Param   id path string true "Target user ID"
// @Success 200 {object} dto.UserVisibilityMatrix
// @Failure 403 {object} ErrorResponse "Target outside the caller's company"
// @Failure 404 {object} ErrorResponse "Target user not found"
// @Security BearerAuth
// @Router /visibility/users/{id} [get]
func (h *visibilityHandler) getMatrix(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	matrix, err := h.visibilityService.GetEffectiveMatrix(c.Request.Context(), actorUserID, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to resolve visibility matrix")
		return
	}

	c.JSON(http.StatusOK, matrix)
}

// setVisibility godoc
// @Summary Toggle a visibility flag
// @Description Creates or updates a hidden flag for the target user. Omitting sourceKey targets the poste-level flag. The edit gate is re-checked on every call.
// @Tags visibility
// @Accept  json
// @Produce  json
// @Param   toggle body dto.SetVisibilityRequest true "Visibility toggle"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse "Unknown poste or source"
// @Failure 403 {object} ErrorResponse "Actor may not edit this user's visibility"
// @Security BearerAuth
// @Router /visibility [put]
func (h *visibilityHandler) setVisibility(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.SetVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	err := h.visibilityService.SetVisibility(c.Request.Context(), actorUserID, req.TargetUserID, req.PosteID, req.SourceKey, *req.Hidden)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update visibility")
		return
	}

	c.Status(http.StatusNoContent)
}
