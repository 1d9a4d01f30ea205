package resolve

import (
	"context"
	"sort"

	"gridline-schedule-engine/internal/logging"
	"gridline-schedule-engine/internal/strategy"
	"gridline-schedule-engine/pkg/types"
)

// severityWeight ranks urgency within a conflict class.
var severityWeight = map[types.Severity]int{
	types.SeverityCritical: 400,
	types.SeverityHigh:     300,
	types.SeverityMedium:   200,
	types.SeverityLow:      100,
}

// typeWeight ranks conflict classes. Policy violations outrank
// everything a scheduler could trade off against them; types absent
// from the table carry no class weight and order by severity alone.
var typeWeight = map[types.ConflictType]int{
	types.ConflictTypeSundayPolicy: 2000,
	types.ConflictTypeVenue:        1500,
	types.ConflictTypeTeam:         1200,
	types.ConflictTypeTravel:       800,
	types.ConflictTypeRest:         600,
	types.ConflictTypeResource:     400,
	types.ConflictTypeMedia:        200,
}

func priorityOf(c *types.Conflict) int {
	return severityWeight[c.Severity] + typeWeight[c.Type]
}

// prioritize returns a copy of the conflicts ordered most urgent first.
// The sort is stable over the detector's output, so conflicts with
// equal priority keep their severity and impact ordering.
func prioritize(conflicts []types.Conflict) []types.Conflict {
	out := make([]types.Conflict, len(conflicts))
	copy(out, conflicts)
	sort.SliceStable(out, func(i, j int) bool {
		return priorityOf(&out[i]) > priorityOf(&out[j])
	})
	return out
}

// orderByHistory sorts candidates by learned success rate, best first.
// Equal rates keep the declared order, which also covers stores that
// return one neutral prior for every pair. A store read error keeps the
// declared order rather than failing the run.
func (r *Resolver) orderByHistory(ctx context.Context, log logging.Logger, list []strategy.Strategy, ct types.ConflictType) []strategy.Strategy {
	rates := make([]float64, len(list))
	for i, s := range list {
		rate, err := r.history.GetSuccessRate(ctx, s.Name(), ct)
		if err != nil {
			log.Warn("history lookup failed, keeping declared strategy order",
				"strategy", s.Name(),
				"conflict_type", string(ct),
				"error", err.Error())
			return list
		}
		rates[i] = rate
	}

	idx := make([]int, len(list))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return rates[idx[a]] > rates[idx[b]]
	})

	out := make([]strategy.Strategy, len(list))
	for i, j := range idx {
		out[i] = list[j]
	}
	return out
}

func sortTypes(list []types.ConflictType) {
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
}
