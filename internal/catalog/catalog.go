// Package catalog holds the production team roster and the subtype options
// offered for each request category.
package catalog

import (
	_ "embed"
	"os"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/example/jobdesk/backend/internal/models"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is the parsed catalog file.
type Catalog struct {
	Team     []string                     `yaml:"team" json:"team"`
	Subtypes map[models.Category][]string `yaml:"subtypes" json:"subtypes"`
}

type catalogFile struct {
	Version int `yaml:"version"`
	Catalog `yaml:",inline"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a catalog file. An empty path yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read catalog %s", path)
	}
	c, err := Parse(raw)
	return c, errors.Wrapf(err, "catalog %s", path)
}

// Parse decodes catalog YAML and checks it only names known categories.
func Parse(raw []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, errors.Wrap(err, "decode catalog")
	}
	if file.Version != 1 {
		return nil, errors.Errorf("unsupported catalog version: %d", file.Version)
	}
	for cat := range file.Subtypes {
		if !cat.Valid() {
			return nil, errors.Errorf("unknown category %q", cat)
		}
	}
	if len(file.Team) == 0 {
		return nil, errors.New("catalog team is empty")
	}
	c := file.Catalog
	if c.Subtypes == nil {
		c.Subtypes = map[models.Category][]string{}
	}
	return &c, nil
}

// IsTeamMember reports whether name is on the roster. Matching ignores case
// and surrounding space.
func (c *Catalog) IsTeamMember(name string) bool {
	name = strings.TrimSpace(name)
	for _, member := range c.Team {
		if strings.EqualFold(member, name) {
			return true
		}
	}
	return false
}

// Suggest ranks the subtypes of category against q. An empty q returns every
// subtype in catalog order.
func (c *Catalog) Suggest(category models.Category, q string) []string {
	options := c.Subtypes[category]
	q = strings.TrimSpace(q)
	if q == "" {
		return append([]string{}, options...)
	}
	ranks := fuzzy.RankFindNormalizedFold(q, options)
	sort.Sort(ranks)

	out := make([]string, 0, len(ranks))
	for _, rank := range ranks {
		out = append(out, rank.Target)
	}
	return out
}
