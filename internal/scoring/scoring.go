// Package scoring implements the deterministic heuristic bullet scorer.
//
// Scoring is hierarchical (company × position × bullet), modeling how a
// recruiter reads a resume: company name first, then job title, then the
// bullets underneath.
package scoring

import (
	"github.com/olliegilbey/resumate-sub000/internal/types"
)

// ScoreBullet scores a single bullet in the context of its position and
// company against a role profile.
func ScoreBullet(bullet *types.Bullet, position *types.Position, company *types.Company, profile *types.RoleProfile) float64 {
	weights := profile.ScoringWeights

	tagScore := tagRelevance(bullet.Tags, profile.TagWeights)
	priorityScore := float64(bullet.Priority) / 10.0

	base := tagScore*weights.TagRelevance + priorityScore*weights.Priority

	return base * companyMultiplier(company) * positionMultiplier(position, profile.TagWeights)
}

// tagRelevance returns the average weight of the bullet's tags that appear
// in the profile's tag weights, in [0.0, 1.0]. No matches means zero.
func tagRelevance(tags []types.Tag, tagWeights map[types.Tag]float64) float64 {
	if len(tags) == 0 || len(tagWeights) == 0 {
		return 0
	}

	total := 0.0
	matched := 0
	for _, tag := range tags {
		if weight, ok := tagWeights[tag]; ok {
			total += weight
			matched++
		}
	}
	if matched == 0 {
		return 0
	}
	return total / float64(matched)
}

// companyMultiplier maps company priority 1-10 to a ±20% adjustment.
func companyMultiplier(company *types.Company) float64 {
	return 0.8 + float64(company.Priority)/10.0*0.4
}

// positionMultiplier combines the position's priority curve with a tag
// relevance adjustment in the 0.9-1.1 range.
func positionMultiplier(position *types.Position, tagWeights map[types.Tag]float64) float64 {
	priorityMultiplier := 0.8 + float64(position.Priority)/10.0*0.4

	tagMultiplier := 1.0
	if len(position.Tags) > 0 {
		tagMultiplier = 0.9 + tagRelevance(position.Tags, tagWeights)*0.2
	}

	return priorityMultiplier * tagMultiplier
}
