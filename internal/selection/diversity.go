// Package selection filters scored bullets down to a final, diverse set and
// materializes them with their hierarchy context. Scoring (heuristic or LLM)
// happens upstream; this package only enforces counts and diversity caps.
package selection

import (
	"sort"

	"github.com/olliegilbey/resumate-sub000/internal/compendium"
	"github.com/olliegilbey/resumate-sub000/internal/types"
)

// Select filters scored bullets to at most cfg.MaxBullets while enforcing
// the per-company and per-position caps. Greedy by descending score: a
// candidate that would breach a cap is skipped, not discarded, so lower
// scored bullets from under-represented companies still get in.
//
// Bullets whose identifier is unknown to the index are dropped silently;
// upstream validation already guarantees they cannot occur on the LLM path.
func Select(scored []types.BulletScore, idx *compendium.Index, cfg types.SelectionConfig) []types.BulletScore {
	ranked := make([]types.BulletScore, len(scored))
	copy(ranked, scored)
	// Stable keeps the upstream order (compendium order for the heuristic
	// path, model order for the LLM path) as the tie-break.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	perCompany := make(map[string]int)
	perPosition := make(map[string]int)
	selected := make([]types.BulletScore, 0, cfg.MaxBullets)

	for _, candidate := range ranked {
		if len(selected) >= cfg.MaxBullets {
			break
		}
		owner, ok := idx.Owner(candidate.BulletID)
		if !ok {
			continue
		}
		if cfg.MaxPerCompany > 0 && perCompany[owner.CompanyID] >= cfg.MaxPerCompany {
			continue
		}
		if cfg.MaxPerPosition > 0 && perPosition[owner.PositionID] >= cfg.MaxPerPosition {
			continue
		}
		selected = append(selected, candidate)
		perCompany[owner.CompanyID]++
		perPosition[owner.PositionID]++
	}

	if cfg.MinPerCompany > 1 {
		selected = dropBelowFloor(selected, idx, cfg.MinPerCompany, perCompany)
	}
	return selected
}

// dropBelowFloor removes every bullet belonging to a company that ended up
// with fewer than floor selections. A company either appears with enough
// substance to carry a resume section or not at all.
func dropBelowFloor(selected []types.BulletScore, idx *compendium.Index, floor int, perCompany map[string]int) []types.BulletScore {
	kept := selected[:0]
	for _, bullet := range selected {
		owner, _ := idx.Owner(bullet.BulletID)
		if perCompany[owner.CompanyID] < floor {
			continue
		}
		kept = append(kept, bullet)
	}
	return kept
}
