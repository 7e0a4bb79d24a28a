package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/jobdesk/backend/internal/models"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	assert.Len(t, c.Team, 5)
	for _, cat := range models.Categories {
		assert.NotEmpty(t, c.Subtypes[cat], cat)
	}
	assert.True(t, c.IsTeamMember("Hafiz Nordin"))
	assert.True(t, c.IsTeamMember("  hafiz nordin "))
	assert.False(t, c.IsTeamMember("Someone Else"))
}

func TestSuggest(t *testing.T) {
	c := Default()

	assert.Equal(t, c.Subtypes[models.CategoryPrinted], c.Suggest(models.CategoryPrinted, ""))
	assert.Equal(t, []string{"Poster"}, c.Suggest(models.CategoryPrinted, "post"))
	assert.Contains(t, c.Suggest(models.CategoryDigital, "SOCIAL"), "Social Media Promo")
	assert.Empty(t, c.Suggest(models.CategoryPrinted, "zzz"))
	assert.Empty(t, c.Suggest(models.Category("radio"), ""))
}

func TestSuggestDoesNotAliasCatalog(t *testing.T) {
	c := Default()
	got := c.Suggest(models.CategoryOther, "")
	got[0] = "changed"
	assert.NotEqual(t, "changed", c.Subtypes[models.CategoryOther][0])
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
version: 1
team: [Ali]
subtypes:
  video: [Teaser]
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ali"}, c.Team)
	assert.Equal(t, []string{"Teaser"}, c.Suggest(models.CategoryVideo, ""))
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Team, c.Team)
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"bad version":      "version: 2\nteam: [A]\n",
		"unknown category": "version: 1\nteam: [A]\nsubtypes:\n  radio: [Jingle]\n",
		"empty team":       "version: 1\nteam: []\n",
		"not yaml":         "version: [",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(raw))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
