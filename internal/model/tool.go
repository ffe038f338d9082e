// Package model defines data structures for the catalog platform.
package model

// Tool represents one immutable catalog entry.
type Tool struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	TargetAudience string   `json:"target_audience"`
	Category       string   `json:"category"`
	Features       []string `json:"features"`
	Rating         int      `json:"rating"`
	Type           string   `json:"type"`
	Level          string   `json:"level"`
	URL            string   `json:"url"`
}

// Category is one taxonomy entry along which the catalog can be filtered.
// The wildcard entry sorts first and matches every record for its dimension.
type Category struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// ListToolsResponse is the response for listing tools.
type ListToolsResponse struct {
	Tools []Tool `json:"tools"`
	Total int    `json:"total"`
}

// CategoriesResponse carries both taxonomies.
type CategoriesResponse struct {
	Audiences []Category `json:"audiences"`
	Skills    []Category `json:"skills"`
}

// CatalogStats summarizes the catalog for the presentation layer.
type CatalogStats struct {
	ToolCount  int    `json:"tool_count"`
	SkillCount int    `json:"skill_count"`
	Levels     string `json:"levels"`
}
