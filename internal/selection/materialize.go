package selection

import (
	"fmt"
	"sort"

	"github.com/olliegilbey/resumate-sub000/internal/compendium"
	"github.com/olliegilbey/resumate-sub000/internal/types"
)

// Materialize resolves selected bullet identifiers back to full bullets with
// their company and position context, preserving the input order. An unknown
// identifier is an internal error: everything reaching this point has already
// passed identifier validation.
func Materialize(selected []types.BulletScore, idx *compendium.Index) ([]types.ScoredBullet, error) {
	out := make([]types.ScoredBullet, 0, len(selected))

	for _, bs := range selected {
		bullet, ok := idx.Bullet(bs.BulletID)
		if !ok {
			return nil, fmt.Errorf("bullet %q not found in compendium index", bs.BulletID)
		}
		owner, _ := idx.Owner(bs.BulletID)
		company, ok := idx.Company(owner.CompanyID)
		if !ok {
			return nil, fmt.Errorf("company %q not found for bullet %q", owner.CompanyID, bs.BulletID)
		}
		position, ok := idx.Position(owner.PositionID)
		if !ok {
			return nil, fmt.Errorf("position %q not found for bullet %q", owner.PositionID, bs.BulletID)
		}

		out = append(out, types.ScoredBullet{
			Bullet:            bullet,
			Score:             bs.Score,
			CompanyID:         company.ID,
			CompanyName:       company.Name,
			CompanyLocation:   company.Location,
			CompanyDateStart:  company.DateStart,
			CompanyDateEnd:    company.DateEnd,
			PositionID:        position.ID,
			PositionName:      position.Name,
			PositionDateStart: position.DateStart,
			PositionDateEnd:   position.DateEnd,
		})
	}

	return out, nil
}

// Arrange orders materialized bullets for presentation: companies by recency
// (compendium order), bullets within a company by descending score. Purely
// cosmetic, the selection itself is unchanged.
func Arrange(bullets []types.ScoredBullet, idx *compendium.Index) {
	sort.SliceStable(bullets, func(i, j int) bool {
		ri, rj := idx.CompanyRank(bullets[i].CompanyID), idx.CompanyRank(bullets[j].CompanyID)
		if ri != rj {
			return ri < rj
		}
		return bullets[i].Score > bullets[j].Score
	})
}
