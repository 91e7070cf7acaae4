package scoring

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/olliegilbey/resumate-sub000/internal/compendium"
	"github.com/olliegilbey/resumate-sub000/internal/types"
)

// ScoreCompendium scores every bullet in the compendium against a role
// profile, fanning out one goroutine per company. Position descriptions are
// scored as synthetic bullets so they compete for selection like any other.
//
// The result order is deterministic: companies in compendium order, then
// positions, then bullets, regardless of scheduling.
func ScoreCompendium(ctx context.Context, c *types.Compendium, profile *types.RoleProfile) ([]types.BulletScore, error) {
	perCompany := make([][]types.BulletScore, len(c.Companies))

	g, ctx := errgroup.WithContext(ctx)
	for ci := range c.Companies {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			perCompany[ci] = scoreCompany(&c.Companies[ci], profile)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var scored []types.BulletScore
	for _, batch := range perCompany {
		scored = append(scored, batch...)
	}
	return scored, nil
}

func scoreCompany(company *types.Company, profile *types.RoleProfile) []types.BulletScore {
	var scored []types.BulletScore
	for pi := range company.Children {
		position := &company.Children[pi]

		if position.Description != "" {
			desc := types.Bullet{
				ID:          compendium.DescriptionBulletID(position.ID),
				Description: position.Description,
				Tags:        position.Tags,
				Priority:    position.Priority,
			}
			scored = append(scored, types.BulletScore{
				BulletID: desc.ID,
				Score:    ScoreBullet(&desc, position, company, profile),
			})
		}

		for bi := range position.Children {
			bullet := &position.Children[bi]
			scored = append(scored, types.BulletScore{
				BulletID: bullet.ID,
				Score:    ScoreBullet(bullet, position, company, profile),
			})
		}
	}
	return scored
}
