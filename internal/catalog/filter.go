package catalog

import (
	"strings"

	"github.com/iapprendre/catalog-platform/internal/model"
)

// Criteria are the three independent, composable selection signals. They are
// owned by the caller and passed by value on every change.
type Criteria struct {
	Audience string
	Skill    string
	Search   string
}

// Filter narrows tools to the records matching every criterion, preserving
// input order. It is pure: the input slice is never mutated and identical
// arguments always yield value-equal results. An empty result is a legitimate
// value, not an error; unknown taxonomy tags simply match nothing.
func Filter(tools []model.Tool, criteria Criteria) []model.Tool {
	term := strings.ToLower(criteria.Search)

	matched := make([]model.Tool, 0, len(tools))
	for _, tool := range tools {
		if criteria.Audience != Wildcard && tool.TargetAudience != criteria.Audience {
			continue
		}
		if criteria.Skill != Wildcard && tool.Category != criteria.Skill {
			continue
		}
		if term != "" && !matchesSearch(tool, term) {
			continue
		}
		matched = append(matched, tool)
	}
	return matched
}

// matchesSearch reports whether term is a substring of the tool's name,
// description or any feature label. The term is already lower-cased; fields
// are folded the same way.
func matchesSearch(tool model.Tool, term string) bool {
	if strings.Contains(strings.ToLower(tool.Name), term) {
		return true
	}
	if strings.Contains(strings.ToLower(tool.Description), term) {
		return true
	}
	for _, feature := range tool.Features {
		if strings.Contains(strings.ToLower(feature), term) {
			return true
		}
	}
	return false
}
