// Package handler provides HTTP handlers for the API.
package handler

import (
	"net/http"

	"github.com/iapprendre/catalog-platform/internal/catalog"
	"github.com/iapprendre/catalog-platform/internal/middleware"
	"github.com/iapprendre/catalog-platform/internal/service"
	"github.com/iapprendre/catalog-platform/pkg/logger"
)

// ToolsHandler handles catalog endpoints.
type ToolsHandler struct {
	service *service.CatalogService
	logger  *logger.Logger
}

// NewToolsHandler creates a new catalog handler.
func NewToolsHandler(svc *service.CatalogService, log *logger.Logger) *ToolsHandler {
	return &ToolsHandler{
		service: svc,
		logger:  log,
	}
}

// List handles GET /api/v1/tools?audience=&skill=&q=
// Absent audience/skill parameters mean the wildcard: no constraint.
func (h *ToolsHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	criteria := catalog.Criteria{
		Audience: query.Get("audience"),
		Skill:    query.Get("skill"),
		Search:   query.Get("q"),
	}
	if criteria.Audience == "" {
		criteria.Audience = catalog.Wildcard
	}
	if criteria.Skill == "" {
		criteria.Skill = catalog.Wildcard
	}

	if err := middleware.ValidateSearchTerm(criteria.Search); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.service.ListTools(criteria))
}

// Categories handles GET /api/v1/categories
func (h *ToolsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Categories())
}

// Stats handles GET /api/v1/stats
func (h *ToolsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Stats())
}
