// Package recipe loads the brewing recipe catalog: the built-in recipes
// overlaid by user YAML files.
package recipe

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alexander-akhmetov/brewguide/internal/debug"
	"github.com/alexander-akhmetov/brewguide/internal/domain"
)

//go:embed defaults/recipes.yaml
var defaultsFS embed.FS

// ErrNotFound is returned when a recipe id is not in the catalog.
var ErrNotFound = errors.New("recipe not found")

// Catalog is an immutable set of recipes keyed by id.
type Catalog struct {
	recipes map[string]domain.Recipe
	order   []string
	sources map[string]string
}

// Load reads the embedded recipes and then every *.yaml / *.yml file in dir.
// A user recipe with the same id replaces the built-in one. A missing dir is
// not an error.
func Load(dir string) (*Catalog, error) {
	c := &Catalog{
		recipes: make(map[string]domain.Recipe),
		sources: make(map[string]string),
	}

	data, err := defaultsFS.ReadFile("defaults/recipes.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded recipes: %w", err)
	}
	builtin, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse embedded recipes: %w", err)
	}
	for _, r := range builtin {
		c.add(r, "embedded")
	}

	if dir == "" {
		return c, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("read recipes dir: %w", err)
	}
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path) //nolint:gosec // user's recipe file
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		recipes, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		for _, r := range recipes {
			if _, exists := c.recipes[r.ID]; exists {
				debug.Logf("recipe: %s overrides %s from %s", path, r.ID, c.sources[r.ID])
			}
			c.add(r, path)
		}
	}
	return c, nil
}

// Parse decodes a YAML document holding either one recipe or a list of
// recipes, and validates each one.
func Parse(data []byte) ([]domain.Recipe, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parse recipes: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	var recipes []domain.Recipe
	switch node.Content[0].Kind {
	case yaml.SequenceNode:
		if err := node.Content[0].Decode(&recipes); err != nil {
			return nil, fmt.Errorf("decode recipes: %w", err)
		}
	case yaml.MappingNode:
		var r domain.Recipe
		if err := node.Content[0].Decode(&r); err != nil {
			return nil, fmt.Errorf("decode recipe: %w", err)
		}
		recipes = append(recipes, r)
	default:
		return nil, fmt.Errorf("parse recipes: expected a mapping or a list")
	}

	for i := range recipes {
		if err := Validate(recipes[i]); err != nil {
			return nil, err
		}
	}
	return recipes, nil
}

// Validate checks the fields a guided session relies on.
func Validate(r domain.Recipe) error {
	if r.ID == "" {
		return fmt.Errorf("recipe %q: missing id", r.Name)
	}
	if r.Name == "" {
		return fmt.Errorf("recipe %s: missing name", r.ID)
	}
	if len(r.Steps) == 0 {
		return fmt.Errorf("recipe %s: needs at least one step", r.ID)
	}
	for i, s := range r.Steps {
		if s.Duration < 0 {
			return fmt.Errorf("recipe %s: step %d has negative duration", r.ID, i+1)
		}
		if s.WaterML < 0 || s.TemperatureC < 0 {
			return fmt.Errorf("recipe %s: step %d has negative target", r.ID, i+1)
		}
	}
	return nil
}

func (c *Catalog) add(r domain.Recipe, source string) {
	if _, exists := c.recipes[r.ID]; !exists {
		c.order = append(c.order, r.ID)
	}
	c.recipes[r.ID] = r
	c.sources[r.ID] = source
}

// Get returns the recipe with the given id.
func (c *Catalog) Get(id string) (domain.Recipe, error) {
	r, ok := c.recipes[id]
	if !ok {
		return domain.Recipe{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, nil
}

// Source returns where a recipe was loaded from ("embedded" or a file path).
func (c *Catalog) Source(id string) string {
	return c.sources[id]
}

// List returns all recipes in load order.
func (c *Catalog) List() []domain.Recipe {
	out := make([]domain.Recipe, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.recipes[id])
	}
	return out
}

// ByCategory returns the recipes in category, sorted by difficulty then name.
// An empty category returns everything.
func (c *Catalog) ByCategory(category string) []domain.Recipe {
	var out []domain.Recipe
	for _, r := range c.List() {
		if category == "" || strings.EqualFold(r.Category, category) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Difficulty != out[j].Difficulty {
			return out[i].Difficulty < out[j].Difficulty
		}
		return out[i].Name < out[j].Name
	})
	return out
}
