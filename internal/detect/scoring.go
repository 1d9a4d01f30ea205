package detect

import "gridline-schedule-engine/pkg/types"

// Impact scoring turns a conflict's shape into a 0-100 urgency number
// and qualitative tags so schedulers can triage a long list quickly.

const maxImpactScore = 100

var severityBaseScore = map[types.Severity]int{
	types.SeverityCritical: 80,
	types.SeverityHigh:     60,
	types.SeverityMedium:   40,
	types.SeverityLow:      20,
}

// difficultyByType is the league-default estimate of how hard each
// conflict class is to repair.
var difficultyByType = map[types.ConflictType]types.ResolutionDifficulty{
	types.ConflictTypeSundayPolicy: types.DifficultyVeryHard,
	types.ConflictTypeTeam:         types.DifficultyHard,
	types.ConflictTypeTravel:       types.DifficultyHard,
	types.ConflictTypeVenue:        types.DifficultyModerate,
	types.ConflictTypeVenueSharing: types.DifficultyModerate,
	types.ConflictTypeResource:     types.DifficultyModerate,
	types.ConflictTypeMedia:        types.DifficultyModerate,
	types.ConflictTypeRest:         types.DifficultyEasy,
}

// applyScoring populates the derived fields on every conflict in place.
func applyScoring(conflicts []types.Conflict) {
	for i := range conflicts {
		c := &conflicts[i]
		c.ImpactScore = impactScore(c)
		c.Difficulty = difficultyFor(c)
		c.Business = businessImpactFor(c)
	}
}

// impactScore starts from the severity base and adds weight for wide
// blast radius, player welfare, and hard policy rules.
func impactScore(c *types.Conflict) int {
	score := severityBaseScore[c.Severity]
	if len(c.TeamIDs) > 2 {
		score += 10
	}
	if c.PlayerWelfare {
		score += 15
	}
	if c.Type == types.ConflictTypeSundayPolicy {
		score += 20
	}
	if score > maxImpactScore {
		score = maxImpactScore
	}
	return score
}

func difficultyFor(c *types.Conflict) types.ResolutionDifficulty {
	d, ok := difficultyByType[c.Type]
	if !ok {
		d = types.DifficultyModerate
	}
	// A critical finding of an otherwise easy class still takes real
	// coordination to fix.
	if c.Severity == types.SeverityCritical && d == types.DifficultyEasy {
		d = types.DifficultyModerate
	}
	return d
}

func businessImpactFor(c *types.Conflict) types.BusinessImpact {
	if c.Type == types.ConflictTypeSundayPolicy {
		return types.BusinessImpactSevere
	}
	switch c.Severity {
	case types.SeverityCritical:
		return types.BusinessImpactHigh
	case types.SeverityHigh:
		return types.BusinessImpactMedium
	default:
		return types.BusinessImpactLow
	}
}
