package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridline-schedule-engine/pkg/types"
)

func sampleResult() *types.ResolutionResult {
	stats := types.NewResolutionStats()
	stats.TotalConflicts = 2
	stats.ResolvedConflicts = 1
	stats.UnresolvedConflicts = 1
	stats.ConflictsByType[types.ConflictTypeTeam] = 1
	stats.ConflictsByType[types.ConflictTypeTravel] = 1
	stats.RecordAttempt("day_shift", true)
	stats.RecordAttempt("game_clustering", false)

	return &types.ResolutionResult{
		Success: false,
		Conflicts: []types.Conflict{
			{
				ID:          "c1",
				Type:        types.ConflictTypeTeam,
				Severity:    types.SeverityCritical,
				Date:        time.Date(2025, time.November, 4, 0, 0, 0, 0, time.UTC),
				Description: "team aces has 2 games on 2025-11-04",
			},
			{
				ID:          "c2",
				Type:        types.ConflictTypeTravel,
				Severity:    types.SeverityHigh,
				Date:        time.Date(2025, time.November, 5, 0, 0, 0, 0, time.UTC),
				Description: "knights cannot reach Hudson Garden in time",
			},
		},
		Resolutions: []types.Resolution{
			{
				ID:         "r1",
				ConflictID: "c1",
				Strategy:   "day_shift",
				Success:    true,
				Changes: []types.ScheduleChange{
					{GameID: "g2", Field: "date", OldValue: "2025-11-04", NewValue: "2025-11-05"},
				},
				Notes: "shifted game g2 by 1 day",
			},
		},
		UnresolvedConflicts: []types.Conflict{
			{
				ID:          "c2",
				Type:        types.ConflictTypeTravel,
				Severity:    types.SeverityHigh,
				Description: "knights cannot reach Hudson Garden in time",
			},
		},
		Validation: types.ValidationReport{
			IsValid:                false,
			RemainingConflictCount: 1,
			ConflictTypesPresent:   []types.ConflictType{types.ConflictTypeTravel},
			CriticalConflictCount:  0,
		},
		Stats:            stats,
		ResolutionTimeMs: 12,
	}
}

func TestMarkdown_CoversEverySection(t *testing.T) {
	out := Markdown(sampleResult())

	assert.Contains(t, out, "# Schedule Resolution Report")
	assert.Contains(t, out, "- Outcome: **Unresolved**")
	assert.Contains(t, out, "- Conflicts detected: 2")
	assert.Contains(t, out, "## Conflicts")
	assert.Contains(t, out, "| Critical | Team | 2025-11-04 |")
	assert.Contains(t, out, "## Resolutions")
	assert.Contains(t, out, "g2 date 2025-11-04 to 2025-11-05")
	assert.Contains(t, out, "## Unresolved Conflicts")
	assert.Contains(t, out, "## Strategy Attempts")
	assert.Contains(t, out, "| day_shift | 1 | 1 |")
	assert.Contains(t, out, "| game_clustering | 1 | 0 |")
	assert.Contains(t, out, "1 conflict(s) remaining (0 critical): Travel")
}

func TestMarkdown_CleanRunStaysShort(t *testing.T) {
	res := &types.ResolutionResult{
		Success:    true,
		Validation: types.ValidationReport{IsValid: true},
		Stats:      types.NewResolutionStats(),
	}

	out := Markdown(res)
	assert.Contains(t, out, "- Outcome: **Resolved**")
	assert.Contains(t, out, "- Validation: clean")
	assert.NotContains(t, out, "## Conflicts")
	assert.NotContains(t, out, "## Unresolved Conflicts")
}

func TestMarkdown_EscapesTableBreakers(t *testing.T) {
	res := &types.ResolutionResult{
		Success: false,
		Conflicts: []types.Conflict{
			{
				Type:        types.ConflictTypeVenue,
				Severity:    types.SeverityLow,
				Date:        time.Date(2025, time.November, 4, 0, 0, 0, 0, time.UTC),
				Description: "overlap | pipe\nnewline",
			},
		},
		Stats: types.NewResolutionStats(),
	}

	out := Markdown(res)
	assert.Contains(t, out, `overlap \| pipe newline`)
}

func TestHTML_RendersTables(t *testing.T) {
	out, err := HTML(sampleResult())
	require.NoError(t, err)

	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "day_shift")
}

func TestWriteConsole_Digest(t *testing.T) {
	restore := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = restore }()

	var buf bytes.Buffer
	require.NoError(t, WriteConsole(&buf, sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "Outcome: UNRESOLVED")
	assert.Contains(t, out, "Conflicts: 2 detected, 1 resolved, 1 unresolved")
	assert.Contains(t, out, "[CRITICAL] team: team aces has 2 games on 2025-11-04")
	assert.Contains(t, out, "day_shift")
	assert.Contains(t, out, "1 attempt(s), 1 success(es)")
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Venue Sharing", label("venue_sharing"))
	assert.Equal(t, "Critical", label("critical"))
}
