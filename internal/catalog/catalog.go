// Package catalog holds the static tool catalog, its taxonomies and the
// filter engine that narrows it.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/iapprendre/catalog-platform/internal/model"
)

// Wildcard is the reserved taxonomy entry meaning "no constraint on this
// dimension". It sorts first in both taxonomies.
const Wildcard = "Tous"

//go:embed data/tools.json
var rawData []byte

// Catalog is the static, ordered collection of tools plus the two taxonomies
// along which it can be filtered. Loaded once at process start, never mutated.
type Catalog struct {
	Tools     []model.Tool
	Audiences []model.Category
	Skills    []model.Category
}

type dataFile struct {
	AudienceCategories []model.Category `json:"audience_categories"`
	SkillCategories    []model.Category `json:"skill_categories"`
	Tools              []model.Tool     `json:"tools"`
}

// Load parses and validates the embedded catalog data. A malformed data set is
// a startup error, never a runtime one.
func Load() (*Catalog, error) {
	var data dataFile
	if err := json.Unmarshal(rawData, &data); err != nil {
		return nil, fmt.Errorf("failed to parse catalog data: %w", err)
	}

	c := &Catalog{
		Tools:     data.Tools,
		Audiences: data.AudienceCategories,
		Skills:    data.SkillCategories,
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) validate() error {
	if err := validateTaxonomy("audience", c.Audiences); err != nil {
		return err
	}
	if err := validateTaxonomy("skill", c.Skills); err != nil {
		return err
	}

	audiences := tagSet(c.Audiences)
	skills := tagSet(c.Skills)
	seen := make(map[string]bool, len(c.Tools))

	for _, t := range c.Tools {
		if t.ID == "" {
			return fmt.Errorf("tool %q has no id", t.Name)
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate tool id %q", t.ID)
		}
		seen[t.ID] = true

		if t.Rating < 0 || t.Rating > 5 {
			return fmt.Errorf("tool %q: rating %d out of range", t.ID, t.Rating)
		}
		if !audiences[t.TargetAudience] {
			return fmt.Errorf("tool %q: unknown audience %q", t.ID, t.TargetAudience)
		}
		if !skills[t.Category] {
			return fmt.Errorf("tool %q: unknown category %q", t.ID, t.Category)
		}
	}
	return nil
}

func validateTaxonomy(name string, categories []model.Category) error {
	if len(categories) == 0 {
		return fmt.Errorf("%s taxonomy is empty", name)
	}
	if categories[0].Name != Wildcard {
		return fmt.Errorf("%s taxonomy must start with the %q entry", name, Wildcard)
	}
	seen := make(map[string]bool, len(categories))
	for _, cat := range categories {
		if seen[cat.Name] {
			return fmt.Errorf("%s taxonomy: duplicate entry %q", name, cat.Name)
		}
		seen[cat.Name] = true
	}
	return nil
}

func tagSet(categories []model.Category) map[string]bool {
	set := make(map[string]bool, len(categories))
	for _, cat := range categories {
		set[cat.Name] = true
	}
	return set
}

// Stats summarizes the catalog for the presentation layer's header cards.
func (c *Catalog) Stats() model.CatalogStats {
	return model.CatalogStats{
		ToolCount:  len(c.Tools),
		SkillCount: len(c.Skills) - 1, // wildcard excluded
		Levels:     Wildcard,
	}
}
