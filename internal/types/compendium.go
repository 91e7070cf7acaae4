// Package types defines the shared domain types for the selection pipeline.
//
// The experience hierarchy is Company → Position → Bullet. All three levels
// share the same field names (id, name, location, dateStart, dateEnd, summary,
// description, tags, priority, link) with varying optionality, and serialize
// as camelCase JSON.
package types

import "fmt"

// Tag is a string label used for categorizing and scoring experience items.
type Tag = string

// Company is the top level of the experience hierarchy: an employer or
// engagement, holding the positions held there.
type Company struct {
	ID          string     `json:"id"`
	Name        string     `json:"name,omitempty"`
	Location    string     `json:"location,omitempty"`
	DateStart   string     `json:"dateStart"`
	DateEnd     string     `json:"dateEnd,omitempty"`
	Summary     string     `json:"summary,omitempty"`
	Description string     `json:"description,omitempty"`
	Tags        []Tag      `json:"tags"`
	Priority    int        `json:"priority"`
	Link        string     `json:"link,omitempty"`
	Children    []Position `json:"children"`
}

// Position is a role held at a company. Its optional description is
// promotable to a synthetic bullet during indexing.
type Position struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Location    string   `json:"location,omitempty"`
	DateStart   string   `json:"dateStart"`
	DateEnd     string   `json:"dateEnd,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []Tag    `json:"tags"`
	Priority    int      `json:"priority"`
	Link        string   `json:"link,omitempty"`
	Children    []Bullet `json:"children"`
}

// Bullet is the atomic achievement statement, the unit of selection.
type Bullet struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Location    string `json:"location,omitempty"`
	DateStart   string `json:"dateStart,omitempty"`
	DateEnd     string `json:"dateEnd,omitempty"`
	Summary     string `json:"summary,omitempty"`
	Description string `json:"description"`
	Tags        []Tag  `json:"tags"`
	Priority    int    `json:"priority"`
	Link        string `json:"link,omitempty"`
}

// Compendium is the full hierarchical dataset available for selection.
// Companies are ordered by recency (most recent first).
type Compendium struct {
	Companies    []Company     `json:"companies"`
	RoleProfiles []RoleProfile `json:"roleProfiles,omitempty"`
}

// RoleProfile defines which tags matter for a role type and how the
// heuristic scorer weights its components.
type RoleProfile struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	TagWeights     map[Tag]float64 `json:"tagWeights"`
	ScoringWeights ScoringWeights  `json:"scoringWeights"`
}

// ScoringWeights are the component weights for the heuristic scorer.
// They should sum to approximately 1.0.
type ScoringWeights struct {
	TagRelevance float64 `json:"tagRelevance"`
	Priority     float64 `json:"priority"`
}

// Validate checks the bullet's required fields.
func (b *Bullet) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("bullet ID cannot be empty")
	}
	if b.Priority < 1 || b.Priority > 10 {
		return fmt.Errorf("bullet %q: priority must be 1-10, got %d", b.ID, b.Priority)
	}
	if b.Description == "" {
		return fmt.Errorf("bullet %q: must have non-empty description text", b.ID)
	}
	return nil
}

// Validate checks the position's required fields and all of its bullets.
func (p *Position) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("position ID cannot be empty")
	}
	if p.Name == "" {
		return fmt.Errorf("position %q: name cannot be empty", p.ID)
	}
	if p.DateStart == "" {
		return fmt.Errorf("position %q: dateStart cannot be empty", p.ID)
	}
	if len(p.Children) == 0 {
		return fmt.Errorf("position %q: must have at least one bullet", p.ID)
	}
	for i := range p.Children {
		if err := p.Children[i].Validate(); err != nil {
			return fmt.Errorf("position %q → bullet[%d]: %w", p.ID, i, err)
		}
	}
	return nil
}

// Validate checks the company's required fields and all of its positions.
func (c *Company) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("company ID cannot be empty")
	}
	if c.DateStart == "" {
		return fmt.Errorf("company %q: dateStart cannot be empty", c.ID)
	}
	if len(c.Children) == 0 {
		return fmt.Errorf("company %q: must have at least one position", c.ID)
	}
	for i := range c.Children {
		if err := c.Children[i].Validate(); err != nil {
			return fmt.Errorf("company %q → position[%d]: %w", c.ID, i, err)
		}
	}
	return nil
}

// Validate recursively checks the whole compendium, including role profile
// scoring weights.
func (c *Compendium) Validate() error {
	if len(c.Companies) == 0 {
		return fmt.Errorf("compendium must have at least one company")
	}
	for i := range c.Companies {
		if err := c.Companies[i].Validate(); err != nil {
			return fmt.Errorf("companies[%d]: %w", i, err)
		}
	}
	for i := range c.RoleProfiles {
		p := &c.RoleProfiles[i]
		if err := p.ScoringWeights.Validate(); err != nil {
			return fmt.Errorf("roleProfiles[%d] %q: %w", i, p.ID, err)
		}
	}
	return nil
}

// Profile returns the role profile with the given ID, or nil.
func (c *Compendium) Profile(id string) *RoleProfile {
	for i := range c.RoleProfiles {
		if c.RoleProfiles[i].ID == id {
			return &c.RoleProfiles[i]
		}
	}
	return nil
}

// Validate checks that weights are non-negative and sum to ~1.0.
func (w ScoringWeights) Validate() error {
	if w.TagRelevance < 0 || w.Priority < 0 {
		return fmt.Errorf("scoring weights cannot be negative (tagRelevance: %.2f, priority: %.2f)", w.TagRelevance, w.Priority)
	}
	sum := w.TagRelevance + w.Priority
	if sum < 0.99 || sum > 1.01 {
		return fmt.Errorf("scoring weights must sum to ~1.0, got %.3f", sum)
	}
	return nil
}

// Normalize rescales the weights to sum to 1.0. The second return is a
// human-readable note when normalization actually changed the values.
func (w ScoringWeights) Normalize() (ScoringWeights, string) {
	sum := w.TagRelevance + w.Priority
	if sum > 0.999 && sum < 1.001 {
		return w, ""
	}
	if sum == 0 {
		return ScoringWeights{TagRelevance: 0.5, Priority: 0.5}, "scoring weights were zero, using 0.5/0.5"
	}
	n := ScoringWeights{TagRelevance: w.TagRelevance / sum, Priority: w.Priority / sum}
	note := fmt.Sprintf("normalized scoring weights from %.3f to 1.0 (tagRelevance: %.2f → %.2f, priority: %.2f → %.2f)",
		sum, w.TagRelevance, n.TagRelevance, w.Priority, n.Priority)
	return n, note
}
