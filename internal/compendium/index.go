// Package compendium loads the hierarchical experience dataset and derives
// the read-only lookup structures the selection pipeline works against.
package compendium

import (
	"github.com/olliegilbey/resumate-sub000/internal/types"
)

// Owner locates a bullet within the hierarchy.
type Owner struct {
	CompanyID  string
	PositionID string
}

// Index is the derived, read-only view of one compendium: the set of all
// valid bullet identifiers plus the bullet → owner mapping used for
// diversity enforcement. Built once per selection request, never mutated.
type Index struct {
	ValidIDs map[string]struct{}
	Owners   map[string]Owner

	bullets     map[string]types.Bullet
	companies   map[string]*types.Company
	positions   map[string]*types.Position
	companyRank map[string]int
}

// DescriptionBulletID is the identifier given to a position description
// promoted to a synthetic bullet.
func DescriptionBulletID(positionID string) string {
	return positionID + "-description"
}

// descriptionBullet promotes a position's free-text description to a bullet
// carrying the position's tags and priority.
func descriptionBullet(p *types.Position) types.Bullet {
	return types.Bullet{
		ID:          DescriptionBulletID(p.ID),
		Description: p.Description,
		Tags:        p.Tags,
		Priority:    p.Priority,
	}
}

// NewIndex flattens the compendium into an Index. Pure, O(n) in the total
// bullet count. Malformed nesting is a caller bug, not a runtime concern.
func NewIndex(c *types.Compendium) *Index {
	ix := &Index{
		ValidIDs:    make(map[string]struct{}),
		Owners:      make(map[string]Owner),
		bullets:     make(map[string]types.Bullet),
		companies:   make(map[string]*types.Company),
		positions:   make(map[string]*types.Position),
		companyRank: make(map[string]int),
	}

	for ci := range c.Companies {
		company := &c.Companies[ci]
		ix.companies[company.ID] = company
		ix.companyRank[company.ID] = ci

		for pi := range company.Children {
			position := &company.Children[pi]
			ix.positions[position.ID] = position
			owner := Owner{CompanyID: company.ID, PositionID: position.ID}

			if position.Description != "" {
				desc := descriptionBullet(position)
				ix.add(desc, owner)
			}
			for _, bullet := range position.Children {
				ix.add(bullet, owner)
			}
		}
	}

	return ix
}

func (ix *Index) add(b types.Bullet, o Owner) {
	ix.ValidIDs[b.ID] = struct{}{}
	ix.Owners[b.ID] = o
	ix.bullets[b.ID] = b
}

// Bullet returns the bullet (real or synthetic) for an identifier.
func (ix *Index) Bullet(id string) (types.Bullet, bool) {
	b, ok := ix.bullets[id]
	return b, ok
}

// Owner returns the owning company and position for a bullet identifier.
func (ix *Index) Owner(id string) (Owner, bool) {
	o, ok := ix.Owners[id]
	return o, ok
}

// Company returns the company with the given identifier.
func (ix *Index) Company(id string) (*types.Company, bool) {
	c, ok := ix.companies[id]
	return c, ok
}

// Position returns the position with the given identifier.
func (ix *Index) Position(id string) (*types.Position, bool) {
	p, ok := ix.positions[id]
	return p, ok
}

// CompanyRank returns the company's recency rank: 0 is the most recent.
// Unknown companies sort last.
func (ix *Index) CompanyRank(id string) int {
	if rank, ok := ix.companyRank[id]; ok {
		return rank
	}
	return len(ix.companyRank)
}

// Size returns the number of indexed bullets, synthetic ones included.
func (ix *Index) Size() int {
	return len(ix.bullets)
}
