// Package catalog loads the static exercise library and serves lookups
// and filtering over it. The catalog is read-only after Load.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/claude/ironlog/internal/formulas"
	"github.com/claude/ironlog/internal/models"
)

const imageBaseURL = "https://raw.githubusercontent.com/yuhonas/free-exercise-db/main/exercises/"

// rawExercise is one entry of the exercise dataset on disk.
type rawExercise struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Equipment        string   `json:"equipment"`
	Instructions     []string `json:"instructions"`
	Images           []string `json:"images"`
	PrimaryMuscles   []string `json:"primaryMuscles"`
	SecondaryMuscles []string `json:"secondaryMuscles"`
}

// Catalog is the loaded exercise library, keyed by exercise id.
type Catalog struct {
	byID    map[string]models.Exercise
	ordered []models.Exercise
}

// Load reads the exercise dataset from a JSON file and classifies each
// entry into a muscle group. Classification happens once here, not per
// session.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading exercise data: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from raw JSON exercise data.
func Parse(data []byte) (*Catalog, error) {
	var raw []rawExercise
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing exercise data: %w", err)
	}

	c := &Catalog{byID: make(map[string]models.Exercise, len(raw))}
	for _, r := range raw {
		if r.ID == "" || r.Name == "" {
			continue
		}
		ex := models.Exercise{
			ID:               r.ID,
			Name:             r.Name,
			MuscleGroup:      formulas.ClassifyMuscleGroup(r.PrimaryMuscles),
			Equipment:        r.Equipment,
			Instructions:     r.Instructions,
			PrimaryMuscles:   r.PrimaryMuscles,
			SecondaryMuscles: r.SecondaryMuscles,
		}
		if len(r.Images) > 0 {
			ex.ImageURL = imageBaseURL + r.Images[0]
		}
		if _, dup := c.byID[ex.ID]; dup {
			continue
		}
		c.byID[ex.ID] = ex
		c.ordered = append(c.ordered, ex)
	}
	return c, nil
}

// Get returns the exercise with the given id.
func (c *Catalog) Get(id string) (models.Exercise, bool) {
	ex, ok := c.byID[id]
	return ex, ok
}

// Len returns the number of exercises in the catalog.
func (c *Catalog) Len() int {
	return len(c.ordered)
}

// All returns every exercise in load order.
func (c *Catalog) All() []models.Exercise {
	out := make([]models.Exercise, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Filter returns exercises matching the given muscle group and free-text
// query. An empty group (or "all") matches every group; the query matches
// against name and muscle group, case-insensitively.
func (c *Catalog) Filter(group, query string) []models.Exercise {
	group = strings.ToLower(strings.TrimSpace(group))
	query = strings.ToLower(strings.TrimSpace(query))

	var out []models.Exercise
	for _, ex := range c.ordered {
		if group != "" && group != "all" && string(ex.MuscleGroup) != group {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(ex.Name), query) &&
			!strings.Contains(string(ex.MuscleGroup), query) {
			continue
		}
		out = append(out, ex)
	}
	return out
}

// Resolve maps exercise ids to catalog entries, silently skipping unknown
// ids. Order is preserved.
func (c *Catalog) Resolve(ids []string) []models.Exercise {
	out := make([]models.Exercise, 0, len(ids))
	for _, id := range ids {
		if ex, ok := c.byID[id]; ok {
			out = append(out, ex)
		}
	}
	return out
}
