// Package service provides business logic for the catalog platform.
package service

import (
	"github.com/iapprendre/catalog-platform/internal/catalog"
	"github.com/iapprendre/catalog-platform/internal/model"
	"github.com/iapprendre/catalog-platform/pkg/metrics"
)

// CatalogService exposes the static catalog and its filter engine.
type CatalogService struct {
	catalog *catalog.Catalog
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(c *catalog.Catalog) *CatalogService {
	return &CatalogService{catalog: c}
}

// ListTools returns the tools matching the criteria, in catalog order. This
// is the onCriteriaChanged entry point: the presentation layer calls it on
// every criteria change.
func (s *CatalogService) ListTools(criteria catalog.Criteria) *model.ListToolsResponse {
	matched := catalog.Filter(s.catalog.Tools, criteria)
	metrics.RecordFilter(len(matched))

	return &model.ListToolsResponse{
		Tools: matched,
		Total: len(matched),
	}
}

// Categories returns both taxonomies, wildcard first.
func (s *CatalogService) Categories() *model.CategoriesResponse {
	return &model.CategoriesResponse{
		Audiences: s.catalog.Audiences,
		Skills:    s.catalog.Skills,
	}
}

// Stats returns the catalog summary.
func (s *CatalogService) Stats() model.CatalogStats {
	return s.catalog.Stats()
}
