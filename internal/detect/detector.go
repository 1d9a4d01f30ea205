package detect

import (
	"context"
	"sort"

	engerrors "gridline-schedule-engine/internal/errors"
	"gridline-schedule-engine/internal/logging"
	"gridline-schedule-engine/pkg/types"
)

// Detector runs the detection phases in fixed order and merges their
// findings. It holds no per-run state: every call rebuilds its indexes
// locally, so one detector can serve concurrent runs over different
// schedules.
type Detector struct {
	evaluators []RuleEvaluator
	logger     logging.Logger
	opts       types.ResolverOptions
}

// Option customizes a detector.
type Option func(*Detector)

// WithEvaluators replaces the default phase list.
func WithEvaluators(evaluators ...RuleEvaluator) Option {
	return func(d *Detector) {
		d.evaluators = evaluators
	}
}

// WithExtraEvaluators appends phases after the defaults.
func WithExtraEvaluators(evaluators ...RuleEvaluator) Option {
	return func(d *Detector) {
		d.evaluators = append(d.evaluators, evaluators...)
	}
}

// WithOptions sets the run options (scoring, cascade analysis).
func WithOptions(opts types.ResolverOptions) Option {
	return func(d *Detector) {
		d.opts = opts
	}
}

// NewDetector creates a detector with the default phase order:
// policy, venue, team, travel, resource, venue sharing, media, cascade.
func NewDetector(logger logging.Logger, opts ...Option) *Detector {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	d := &Detector{
		evaluators: []RuleEvaluator{
			NewPolicyEvaluator(),
			NewVenueOverlapEvaluator(),
			NewTeamEvaluator(),
			NewTravelEvaluator(),
			NewResourceEvaluator(),
			NewVenueSharingEvaluator(),
			NewMediaEvaluator(),
			NewCascadeEvaluator(),
		},
		logger: logger.WithComponent("detector"),
		opts:   types.DefaultResolverOptions(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectAll scans the schedule and returns a deduplicated conflict list
// sorted by severity, impact, and identity key. An evaluator failure
// aborts the run with no partial result: acting on an incomplete scan
// is worse than acting on none.
func (d *Detector) DetectAll(ctx context.Context, schedule *types.Schedule, sctx *types.ScheduleContext) ([]types.Conflict, error) {
	var conflicts []types.Conflict

	for _, ev := range d.evaluators {
		if ev.Name() == PhaseCascade && !d.opts.EnableCascadingDetection {
			continue
		}

		found, err := ev.Evaluate(ctx, schedule, sctx)
		if err != nil {
			d.logger.Error("detection phase failed", "phase", ev.Name(), "error", err.Error())
			return nil, engerrors.NewDetectionError(ev.Name(), err)
		}
		if len(found) > 0 {
			d.logger.Debug("detection phase complete", "phase", ev.Name(), "conflicts", len(found))
		}
		conflicts = append(conflicts, found...)
	}

	conflicts = dedupe(conflicts)
	if d.opts.EnableSeverityScoring {
		applyScoring(conflicts)
	}
	sortConflicts(conflicts)

	d.logger.Info("detection complete", "games", len(schedule.Games), "conflicts", len(conflicts))
	return conflicts, nil
}

// DetectAllWithOptions runs one scan under the given options instead of
// the detector's defaults. The detector holds no per-run state, so a
// shallow copy scopes the override to this call.
func (d *Detector) DetectAllWithOptions(ctx context.Context, schedule *types.Schedule, sctx *types.ScheduleContext, opts types.ResolverOptions) ([]types.Conflict, error) {
	scoped := *d
	scoped.opts = opts
	return scoped.DetectAll(ctx, schedule, sctx)
}

// dedupe keeps the first conflict per identity key, preserving phase
// order. Later phases re-reporting the same clash lose to the earlier,
// more specific finding.
func dedupe(conflicts []types.Conflict) []types.Conflict {
	seen := make(map[string]bool, len(conflicts))
	out := conflicts[:0]
	for i := range conflicts {
		key := conflicts[i].DedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, conflicts[i])
	}
	return out
}

// sortConflicts orders by severity rank desc, impact score desc, then
// identity key asc so equal conflicts always land in the same place.
func sortConflicts(conflicts []types.Conflict) {
	sort.SliceStable(conflicts, func(i, j int) bool {
		ri, rj := conflicts[i].Severity.Rank(), conflicts[j].Severity.Rank()
		if ri != rj {
			return ri > rj
		}
		if conflicts[i].ImpactScore != conflicts[j].ImpactScore {
			return conflicts[i].ImpactScore > conflicts[j].ImpactScore
		}
		return conflicts[i].DedupKey() < conflicts[j].DedupKey()
	})
}
