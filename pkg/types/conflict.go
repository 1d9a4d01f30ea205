package types

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ConflictType represents the category of scheduling conflict
type ConflictType string

const (
	// ConflictTypeVenue is two games overlapping at the same venue
	ConflictTypeVenue ConflictType = "venue"
	// ConflictTypeTeam is a team booked into two games on the same day
	ConflictTypeTeam ConflictType = "team"
	// ConflictTypeRest is a gap between games below the sport's minimum
	ConflictTypeRest ConflictType = "rest"
	// ConflictTypeTravel is a back-to-back trip with infeasible travel time
	ConflictTypeTravel ConflictType = "travel"
	// ConflictTypeResource is contention over an operational resource
	ConflictTypeResource ConflictType = "resource"
	// ConflictTypeMedia is a broadcast rights window violation
	ConflictTypeMedia ConflictType = "media"
	// ConflictTypeSundayPolicy is a game or trip on a team's no-play day.
	// The wire name keeps the tag historically used for the BYU rule.
	ConflictTypeSundayPolicy ConflictType = "byu_sunday"
	// ConflictTypeVenueSharing is contention between co-tenants of a venue
	ConflictTypeVenueSharing ConflictType = "venue_sharing"
)

// Valid checks if the conflict type is valid
func (ct ConflictType) Valid() bool {
	switch ct {
	case ConflictTypeVenue, ConflictTypeTeam, ConflictTypeRest, ConflictTypeTravel,
		ConflictTypeResource, ConflictTypeMedia, ConflictTypeSundayPolicy, ConflictTypeVenueSharing:
		return true
	}
	return false
}

// Severity represents how disruptive a conflict is to the schedule
type Severity string

const (
	// SeverityCritical blocks publication of the schedule
	SeverityCritical Severity = "critical"
	// SeverityHigh needs resolution before the schedule is usable
	SeverityHigh Severity = "high"
	// SeverityMedium should be resolved but the schedule is playable
	SeverityMedium Severity = "medium"
	// SeverityLow is advisory
	SeverityLow Severity = "low"
)

// Valid checks if the severity is valid
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// Rank returns the numeric order of the severity, highest first.
// Unknown severities rank below low.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// ResolutionDifficulty estimates how hard a conflict is to resolve
type ResolutionDifficulty string

const (
	DifficultyEasy     ResolutionDifficulty = "easy"
	DifficultyModerate ResolutionDifficulty = "moderate"
	DifficultyHard     ResolutionDifficulty = "hard"
	DifficultyVeryHard ResolutionDifficulty = "very_hard"
)

// BusinessImpact estimates the off-field cost of leaving a conflict in place
type BusinessImpact string

const (
	BusinessImpactLow    BusinessImpact = "low"
	BusinessImpactMedium BusinessImpact = "medium"
	BusinessImpactHigh   BusinessImpact = "high"
	BusinessImpactSevere BusinessImpact = "severe"
)

// conflictNamespace seeds content-derived conflict IDs so the same
// conflict always gets the same ID across runs.
var conflictNamespace = uuid.MustParse("8a6e1d32-5c4b-47a9-9a3e-2f6d0c9b7e15")

// Conflict is a detected violation of scheduling rules. The same
// underlying clash reported by multiple checks carries the same DedupKey.
type Conflict struct {
	ID          string       `json:"id"`
	Type        ConflictType `json:"type"`
	Severity    Severity     `json:"severity"`
	Description string       `json:"description"`
	Date        time.Time    `json:"date"`
	GameIDs     []string     `json:"game_ids"`
	TeamIDs     []string     `json:"team_ids,omitempty"`
	VenueIDs    []string     `json:"venue_ids,omitempty"`

	// Scoring fields populated by the detector.
	ImpactScore   int                  `json:"impact_score,omitempty"`
	Difficulty    ResolutionDifficulty `json:"resolution_difficulty,omitempty"`
	Business      BusinessImpact       `json:"business_impact,omitempty"`
	PlayerWelfare bool                 `json:"player_welfare,omitempty"`

	RecommendedActions []string       `json:"recommended_actions,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
}

// NewConflict creates a conflict with a deterministic ID derived from
// its identity key.
func NewConflict(ct ConflictType, severity Severity, date time.Time, description string) *Conflict {
	c := &Conflict{
		Type:        ct,
		Severity:    severity,
		Date:        date.UTC(),
		Description: description,
		GameIDs:     []string{},
	}
	c.ID = uuid.NewSHA1(conflictNamespace, []byte(c.DedupKey())).String()
	return c
}

// Participants returns the IDs that identify who the conflict is about:
// teams when any are recorded, otherwise venues, otherwise games. The
// result is sorted.
func (c *Conflict) Participants() []string {
	var ids []string
	switch {
	case len(c.TeamIDs) > 0:
		ids = append(ids, c.TeamIDs...)
	case len(c.VenueIDs) > 0:
		ids = append(ids, c.VenueIDs...)
	default:
		ids = append(ids, c.GameIDs...)
	}
	sort.Strings(ids)
	return ids
}

// DedupKey is the identity of the underlying clash: the conflict type,
// the calendar day, and the sorted participant IDs. Two conflicts with
// equal keys describe the same problem.
func (c *Conflict) DedupKey() string {
	return fmt.Sprintf("%s|%s|%s", c.Type, c.Date.UTC().Format("2006-01-02"), strings.Join(c.Participants(), ","))
}

// RefreshID recomputes the deterministic ID after participant fields
// change. Builders call this once the conflict is fully described.
func (c *Conflict) RefreshID() {
	c.ID = uuid.NewSHA1(conflictNamespace, []byte(c.DedupKey())).String()
}

// Validate checks if the conflict has valid fields
func (c *Conflict) Validate() error {
	if !c.Type.Valid() {
		return fmt.Errorf("invalid conflict type: %s", c.Type)
	}
	if !c.Severity.Valid() {
		return fmt.Errorf("invalid severity: %s", c.Severity)
	}
	if c.Description == "" {
		return fmt.Errorf("conflict %s has no description", c.ID)
	}
	if c.Date.IsZero() {
		return fmt.Errorf("conflict %s has no date", c.ID)
	}
	return nil
}
