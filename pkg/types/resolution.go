package types

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ScheduleChange is a single field-level delta a resolution applied to
// a game. Changes are recorded as strings so reports and history rows
// stay uniform across field types.
type ScheduleChange struct {
	GameID   string `json:"game_id"`
	Field    string `json:"field"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// Resolution is one applied repair: which strategy closed which
// conflict, and the exact schedule deltas it made.
type Resolution struct {
	ID         string           `json:"id"`
	ConflictID string           `json:"conflict_id"`
	Strategy   string           `json:"strategy"`
	Success    bool             `json:"success"`
	Changes    []ScheduleChange `json:"changes"`
	Notes      string           `json:"notes,omitempty"`
	AppliedAt  time.Time        `json:"applied_at"`
}

// resolutionNamespace seeds content-derived resolution IDs, keeping
// whole runs reproducible for fixed inputs.
var resolutionNamespace = uuid.MustParse("3f2c9b71-84da-4e0b-b6c2-7d5a81c4f932")

// NewResolution creates a successful resolution for a conflict. The ID
// derives from the conflict and strategy, so repeated runs over the
// same inputs produce identical resolutions.
func NewResolution(conflictID, strategy string, appliedAt time.Time) *Resolution {
	return &Resolution{
		ID:         uuid.NewSHA1(resolutionNamespace, []byte(conflictID+"|"+strategy)).String(),
		ConflictID: conflictID,
		Strategy:   strategy,
		Success:    true,
		Changes:    []ScheduleChange{},
		AppliedAt:  appliedAt.UTC(),
	}
}

// Validate checks if the resolution has valid fields
func (r *Resolution) Validate() error {
	if r.ConflictID == "" {
		return errors.New("resolution must reference a conflict ID")
	}
	if r.Strategy == "" {
		return errors.New("resolution must name its strategy")
	}
	return nil
}

// ResolutionHistoryRecord is one learning sample: a strategy attempted
// against a conflict type, and whether it worked. Unresolved conflicts
// are recorded with strategy "none" so failure counts against the type,
// not against any particular strategy.
type ResolutionHistoryRecord struct {
	ConflictType ConflictType `json:"conflict_type"`
	Strategy     string       `json:"strategy"`
	Success      bool         `json:"success"`
	RecordedAt   time.Time    `json:"recorded_at"`
}

// StrategyNone marks history records for conflicts no strategy resolved.
const StrategyNone = "none"

// ResolverOptions tunes a resolution run.
type ResolverOptions struct {
	// MaxResolutionAttemptsPerConflict caps how many candidate
	// strategies are tried per conflict. Zero means the applicability
	// list itself is the cap.
	MaxResolutionAttemptsPerConflict int `json:"max_resolution_attempts_per_conflict"`
	// LearningEnabled orders candidates by historical success rate and
	// writes outcome records back to the history store.
	LearningEnabled bool `json:"learning_enabled"`
	// PrioritizeMinimalChanges prefers outcomes that touch fewer games
	// when a strategy offers alternatives.
	PrioritizeMinimalChanges bool `json:"prioritize_minimal_changes"`
	// PreserveHighPriorityGames keeps championship and conference games
	// off the candidate list when a strategy picks which game to move.
	PreserveHighPriorityGames bool `json:"preserve_high_priority_games"`
	// EnableCascadingDetection runs the cascade analysis phase during
	// detection.
	EnableCascadingDetection bool `json:"enable_cascading_detection"`
	// EnableSeverityScoring populates impact score, difficulty, and
	// business impact on detected conflicts.
	EnableSeverityScoring bool `json:"enable_severity_scoring"`
	// DomainSpecificRulesEnabled runs domain resolvers (the Sunday-play
	// rule) ahead of general strategies.
	DomainSpecificRulesEnabled bool `json:"domain_specific_rules_enabled"`
}

// DefaultResolverOptions returns the options used when the caller does
// not supply any.
func DefaultResolverOptions() ResolverOptions {
	return ResolverOptions{
		MaxResolutionAttemptsPerConflict: 3,
		LearningEnabled:                  true,
		PrioritizeMinimalChanges:         true,
		PreserveHighPriorityGames:        true,
		EnableCascadingDetection:         true,
		EnableSeverityScoring:            true,
		DomainSpecificRulesEnabled:       true,
	}
}

// ValidationReport is the outcome of re-running detection on the final
// working schedule.
type ValidationReport struct {
	IsValid                bool           `json:"is_valid"`
	RemainingConflictCount int            `json:"remaining_conflict_count"`
	ConflictTypesPresent   []ConflictType `json:"conflict_types_present"`
	CriticalConflictCount  int            `json:"critical_conflict_count"`
}

// StrategyStats counts attempts and successes for one strategy within
// a run.
type StrategyStats struct {
	Attempts  int `json:"attempts"`
	Successes int `json:"successes"`
}

// ResolutionStats summarizes a resolution run.
type ResolutionStats struct {
	TotalConflicts      int `json:"total_conflicts"`
	ResolvedConflicts   int `json:"resolved_conflicts"`
	UnresolvedConflicts int `json:"unresolved_conflicts"`
	// PolicyResolutions counts resolved conflicts of the policy type,
	// since those repairs are non-negotiable and worth surfacing.
	PolicyResolutions int                      `json:"policy_resolutions"`
	ConflictsByType   map[ConflictType]int     `json:"conflicts_by_type"`
	Strategies        map[string]StrategyStats `json:"strategies"`
}

// NewResolutionStats returns stats with initialized maps.
func NewResolutionStats() ResolutionStats {
	return ResolutionStats{
		ConflictsByType: make(map[ConflictType]int),
		Strategies:      make(map[string]StrategyStats),
	}
}

// RecordAttempt counts one strategy attempt, and a success when ok.
func (rs *ResolutionStats) RecordAttempt(strategy string, ok bool) {
	st := rs.Strategies[strategy]
	st.Attempts++
	if ok {
		st.Successes++
	}
	rs.Strategies[strategy] = st
}

// ResolutionResult is the full outcome of a Resolve call. Success means
// every detected conflict was closed; callers must inspect Validation
// separately, since a constrained run can complete while the final
// schedule still carries violations.
type ResolutionResult struct {
	Success             bool             `json:"success"`
	Conflicts           []Conflict       `json:"conflicts"`
	Resolutions         []Resolution     `json:"resolutions"`
	UnresolvedConflicts []Conflict       `json:"unresolved_conflicts"`
	ModifiedSchedule    *Schedule        `json:"modified_schedule"`
	Validation          ValidationReport `json:"validation"`
	Stats               ResolutionStats  `json:"stats"`
	ResolutionTimeMs    int64            `json:"resolution_time_ms"`
}

// Summary returns a one-line description of the run for logs.
func (rr *ResolutionResult) Summary() string {
	return fmt.Sprintf("conflicts=%d resolved=%d unresolved=%d valid=%t in %dms",
		len(rr.Conflicts), len(rr.Resolutions), len(rr.UnresolvedConflicts),
		rr.Validation.IsValid, rr.ResolutionTimeMs)
}
