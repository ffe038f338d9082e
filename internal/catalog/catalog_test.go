package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedCatalog(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, c.Tools)
	require.NotEmpty(t, c.Audiences)
	require.NotEmpty(t, c.Skills)

	assert.Equal(t, Wildcard, c.Audiences[0].Name, "wildcard must sort first")
	assert.Equal(t, Wildcard, c.Skills[0].Name, "wildcard must sort first")
}

func TestLoadedToolsSatisfyInvariants(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	audiences := tagSet(c.Audiences)
	skills := tagSet(c.Skills)

	for _, tool := range c.Tools {
		assert.NotEmpty(t, tool.ID)
		assert.NotEmpty(t, tool.Name)
		assert.GreaterOrEqual(t, tool.Rating, 0)
		assert.LessOrEqual(t, tool.Rating, 5)
		assert.True(t, audiences[tool.TargetAudience], "tool %s: audience %q not in taxonomy", tool.ID, tool.TargetAudience)
		assert.True(t, skills[tool.Category], "tool %s: category %q not in taxonomy", tool.ID, tool.Category)
	}
}

func TestStats(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	stats := c.Stats()

	assert.Equal(t, len(c.Tools), stats.ToolCount)
	assert.Equal(t, len(c.Skills)-1, stats.SkillCount)
}

func TestFilterWildcardIdentityOnEmbeddedData(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	got := Filter(c.Tools, Criteria{Audience: Wildcard, Skill: Wildcard})

	assert.Equal(t, c.Tools, got)
}
