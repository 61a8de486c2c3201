package handlers

import (
	"net/http"

	"github.com/carbonly/carbon_footprint_app/internal/core/domain"
	portssvc "github.com/carbonly/carbon_footprint_app/internal/core/ports/services"
	"github.com/carbonly/carbon_footprint_app/internal/dto"
	"github.com/carbonly/carbon_footprint_app/internal/middleware"

	"github.com/gin-gonic/gin"
)

// posteHandler serves the poste/source catalog filtered through the
// caller's visibility flags, so hidden items simply never appear.
type posteHandler struct {
	catalogService    portssvc.CatalogSvcFacade
	visibilityService portssvc.VisibilitySvcFacade
}

func newPosteHandler(cs portssvc.CatalogSvcFacade, vs portssvc.VisibilitySvcFacade) *posteHandler {
	return &posteHandler{
		catalogService:    cs,
		visibilityService: vs,
	}
}

// registerPosteRoutes registers the catalog routes.
func registerPosteRoutes(rg *gin.RouterGroup, catalogService portssvc.CatalogSvcFacade, visibilityService portssvc.VisibilitySvcFacade) {
	h := newPosteHandler(catalogService, visibilityService)

	postes := rg.Group("/postes")
	{
		postes.GET("", h.listPostes)
		postes.GET("/:id/sources", h.listSources)
	}
}

// listPostes godoc
// @Summary List visible postes
// @Description Lists the enabled postes the caller may see, with their visible sources.
// @Tags postes
// @Produce  json
// @Success 200 {object} dto.ListPostesResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /postes [get]
func (h *posteHandler) listPostes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	flags, err := h.visibilityService.GetFlagsForUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to load visibility")
		return
	}

	postes, err := h.catalogService.ListPostes(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to load catalog")
		return
	}

	resp := dto.ListPostesResponse{}
	for i := range postes {
		poste := &postes[i]
		if !domain.EffectivePosteVisible(flags, poste.PosteID) {
			continue
		}
		sources, err := h.catalogService.ListSources(c.Request.Context(), poste.PosteID)
		if err != nil {
			respondServiceError(c, logger, err, "Failed to load catalog")
			return
		}
		visible := sources[:0:0]
		for _, src := range sources {
			if domain.EffectiveSourceVisible(flags, poste.PosteID, src.SourceKey) {
				visible = append(visible, src)
			}
		}
		resp.Postes = append(resp.Postes, dto.ToPosteResponse(poste, visible))
	}

	c.JSON(http.StatusOK, resp)
}

// listSources godoc
// @Summary List visible sources of a poste
// @Description Lists the enabled sources of one poste the caller may see.
// @Tags postes
// @Produce  json
// @Param   id path string true "Poste ID"
// @Success 200 {array} dto.SourceResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /postes/{id}/sources [get]
func (h *posteHandler) listSources(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	posteID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	flags, err := h.visibilityService.GetFlagsForUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to load visibility")
		return
	}
	if !domain.EffectivePosteVisible(flags, posteID) {
		// A hidden poste is indistinguishable from a missing one.
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Resource not found"})
		return
	}

	sources, err := h.catalogService.ListSources(c.Request.Context(), posteID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to load catalog")
		return
	}

	resp := make([]dto.SourceResponse, 0, len(sources))
	for i := range sources {
		if domain.EffectiveSourceVisible(flags, posteID, sources[i].SourceKey) {
			resp = append(resp, dto.ToSourceResponse(&sources[i]))
		}
	}

	c.JSON(http.StatusOK, resp)
}
