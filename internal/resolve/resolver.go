// Package resolve orchestrates one detect, repair, verify pass over a
// schedule. The resolver detects conflicts, orders them by urgency,
// lets domain resolvers claim their conflict types first, then walks
// each remaining conflict through the applicable general strategies
// until one produces a fix. The final working schedule is re-scanned so
// callers get an honest validation report alongside the outcome.
package resolve

import (
	"context"
	"fmt"
	"time"

	"gridline-schedule-engine/internal/detect"
	engerrors "gridline-schedule-engine/internal/errors"
	"gridline-schedule-engine/internal/history"
	"gridline-schedule-engine/internal/logging"
	"gridline-schedule-engine/internal/strategy"
	"gridline-schedule-engine/pkg/types"
)

// Resolver runs resolution passes. It holds no per-run state, so one
// resolver can serve concurrent runs.
type Resolver struct {
	detector *detect.Detector
	registry *strategy.Registry
	history  history.Store
	logger   logging.Logger
	defaults types.ResolverOptions
	now      func() time.Time
}

// Option customizes a resolver.
type Option func(*Resolver)

// WithOptions sets the options used when Resolve receives nil.
func WithOptions(opts types.ResolverOptions) Option {
	return func(r *Resolver) {
		r.defaults = opts
	}
}

// WithClock fixes the resolver's clock. Tests use this to pin
// resolution timestamps and elapsed times.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}

// NewResolver wires a resolver over its collaborators. The history
// store may be a MemoryStore when persistence is not configured; the
// detector and registry are required.
func NewResolver(detector *detect.Detector, registry *strategy.Registry, store history.Store, logger logging.Logger, opts ...Option) *Resolver {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	r := &Resolver{
		detector: detector,
		registry: registry,
		history:  store,
		logger:   logger.WithComponent("resolver"),
		defaults: types.DefaultResolverOptions(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs one full pass: detect, prioritize, repair, validate.
// A nil opts falls back to the resolver's defaults. The input schedule
// is never mutated; fixes land on an internal clone returned as
// ModifiedSchedule. The returned error covers machinery failures only
// (a detection phase erroring out); conflicts that no strategy could
// close are data, reported in UnresolvedConflicts with Success false.
func (r *Resolver) Resolve(ctx context.Context, schedule *types.Schedule, sctx *types.ScheduleContext, opts *types.ResolverOptions) (*types.ResolutionResult, error) {
	options := r.defaults
	if opts != nil {
		options = *opts
	}

	runID := logging.RunIDFrom(ctx)
	if runID == "" {
		runID = logging.GenerateRunID()
	}
	log := r.logger.WithRunID(runID)

	started := r.now()
	conflicts, err := r.detector.DetectAllWithOptions(ctx, schedule, sctx, options)
	if err != nil {
		return nil, err
	}

	result := &types.ResolutionResult{
		Conflicts:           conflicts,
		Resolutions:         []types.Resolution{},
		UnresolvedConflicts: []types.Conflict{},
		Stats:               types.NewResolutionStats(),
	}
	result.Stats.TotalConflicts = len(conflicts)
	for i := range conflicts {
		result.Stats.ConflictsByType[conflicts[i].Type]++
	}

	if len(conflicts) == 0 {
		result.Success = true
		result.ModifiedSchedule = schedule
		result.Validation = types.ValidationReport{IsValid: true, ConflictTypesPresent: []types.ConflictType{}}
		result.ResolutionTimeMs = r.since(started)
		log.Info("schedule is clean", "games", len(schedule.Games))
		return result, nil
	}

	working := schedule.Clone()
	ordered := prioritize(conflicts)
	closed := make(map[string]bool, len(ordered))

	apply := func(out *strategy.Outcome) {
		working = out.ModifiedSchedule
		result.Resolutions = append(result.Resolutions, out.Resolutions...)
		for _, res := range out.Resolutions {
			closed[res.ConflictID] = true
		}
	}

	// Domain resolvers run first: a policy violation has exactly one
	// acceptable fix, and applying it before the general strategies
	// keeps them from shuffling a game that must move anyway.
	if options.DomainSpecificRulesEnabled {
		for i := range ordered {
			c := &ordered[i]
			if closed[c.ID] {
				continue
			}
			dom, ok := r.registry.DomainResolverFor(c.Type)
			if !ok {
				continue
			}
			out := r.attempt(ctx, log, dom, c, working, sctx, options)
			succeeded := out != nil && out.Success
			result.Stats.RecordAttempt(dom.Name(), succeeded)
			if succeeded {
				apply(out)
			}
		}
	}

	for i := range ordered {
		c := ordered[i]
		if closed[c.ID] {
			continue
		}

		repaired := false
		for _, s := range r.candidates(ctx, log, c.Type, options) {
			out := r.attempt(ctx, log, s, &c, working, sctx, options)
			succeeded := out != nil && out.Success
			result.Stats.RecordAttempt(s.Name(), succeeded)
			if !succeeded {
				continue
			}
			apply(out)
			repaired = true
			break
		}
		if !repaired {
			result.UnresolvedConflicts = append(result.UnresolvedConflicts, c)
		}
	}

	report, err := r.validate(ctx, working, sctx, options)
	if err != nil {
		return nil, err
	}

	result.ModifiedSchedule = working
	result.Validation = report
	result.Success = len(result.UnresolvedConflicts) == 0
	result.Stats.ResolvedConflicts = result.Stats.TotalConflicts - len(result.UnresolvedConflicts)
	result.Stats.UnresolvedConflicts = len(result.UnresolvedConflicts)
	typeByID := conflictTypesByID(result.Conflicts)
	for i := range result.Resolutions {
		if typeByID[result.Resolutions[i].ConflictID] == types.ConflictTypeSundayPolicy {
			result.Stats.PolicyResolutions++
		}
	}
	result.ResolutionTimeMs = r.since(started)

	if options.LearningEnabled {
		r.recordHistory(ctx, log, result)
	}

	log.Info("resolution complete", "summary", result.Summary())
	return result, nil
}

// attempt runs one strategy against one conflict over the current
// working schedule. Strategy errors and panics are contained here: both
// are logged and reported as a nil outcome so the caller counts a
// failed attempt and moves on.
func (r *Resolver) attempt(ctx context.Context, log logging.Logger, s strategy.Strategy, c *types.Conflict, working *types.Schedule, sctx *types.ScheduleContext, options types.ResolverOptions) (out *strategy.Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("strategy panicked",
				"strategy", s.Name(),
				"conflict_id", c.ID,
				"panic", fmt.Sprint(rec))
			out = nil
		}
	}()

	req := &strategy.Request{
		Conflict: *c,
		Schedule: working,
		Context:  sctx,
		Options:  options,
		Now:      r.now(),
	}
	got, err := s.Resolve(ctx, req)
	if err != nil {
		log.Warn("strategy failed",
			"error", engerrors.NewStrategyError(s.Name(), c.ID, err).Error())
		return nil
	}
	if got != nil && !got.Success {
		log.Debug("strategy declined",
			"strategy", s.Name(),
			"conflict_id", c.ID,
			"reason", got.Reason)
	}
	return got
}

// candidates returns the strategies to try for a conflict type, in the
// order they should be tried.
func (r *Resolver) candidates(ctx context.Context, log logging.Logger, ct types.ConflictType, options types.ResolverOptions) []strategy.Strategy {
	list := r.registry.CandidatesFor(ct)
	if options.LearningEnabled && len(list) > 1 {
		list = r.orderByHistory(ctx, log, list, ct)
	}
	if max := options.MaxResolutionAttemptsPerConflict; max > 0 && len(list) > max {
		list = list[:max]
	}
	return list
}

// validate re-runs detection on the final working schedule and distills
// the remaining conflicts into a report.
func (r *Resolver) validate(ctx context.Context, working *types.Schedule, sctx *types.ScheduleContext, options types.ResolverOptions) (types.ValidationReport, error) {
	remaining, err := r.detector.DetectAllWithOptions(ctx, working, sctx, options)
	if err != nil {
		return types.ValidationReport{}, err
	}

	report := types.ValidationReport{
		IsValid:                len(remaining) == 0,
		RemainingConflictCount: len(remaining),
		ConflictTypesPresent:   []types.ConflictType{},
	}
	seen := make(map[types.ConflictType]bool, len(remaining))
	for i := range remaining {
		c := &remaining[i]
		if c.Severity == types.SeverityCritical {
			report.CriticalConflictCount++
		}
		if !seen[c.Type] {
			seen[c.Type] = true
			report.ConflictTypesPresent = append(report.ConflictTypesPresent, c.Type)
		}
	}
	sortTypes(report.ConflictTypesPresent)
	return report, nil
}

// conflictTypesByID indexes detected conflicts so resolutions, which
// only carry conflict ids, can be mapped back to their types.
func conflictTypesByID(conflicts []types.Conflict) map[string]types.ConflictType {
	byID := make(map[string]types.ConflictType, len(conflicts))
	for i := range conflicts {
		byID[conflicts[i].ID] = conflicts[i].Type
	}
	return byID
}

// recordHistory writes one outcome sample per resolution and one per
// unresolved conflict. Write failures degrade to warnings: the run
// result is already computed and learning data is advisory.
func (r *Resolver) recordHistory(ctx context.Context, log logging.Logger, result *types.ResolutionResult) {
	typeByID := conflictTypesByID(result.Conflicts)

	when := r.now()
	for _, res := range result.Resolutions {
		ct, ok := typeByID[res.ConflictID]
		if !ok {
			continue
		}
		r.record(ctx, log, types.ResolutionHistoryRecord{
			ConflictType: ct,
			Strategy:     res.Strategy,
			Success:      true,
			RecordedAt:   when,
		})
	}
	for i := range result.UnresolvedConflicts {
		r.record(ctx, log, types.ResolutionHistoryRecord{
			ConflictType: result.UnresolvedConflicts[i].Type,
			Strategy:     types.StrategyNone,
			Success:      false,
			RecordedAt:   when,
		})
	}
}

func (r *Resolver) record(ctx context.Context, log logging.Logger, rec types.ResolutionHistoryRecord) {
	if err := r.history.RecordResolution(ctx, rec); err != nil {
		log.Warn("history write failed",
			"strategy", rec.Strategy,
			"conflict_type", string(rec.ConflictType),
			"error", err.Error())
	}
}

func (r *Resolver) since(started time.Time) int64 {
	return r.now().Sub(started).Milliseconds()
}
