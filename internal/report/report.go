// Package report renders resolution results for people. The same
// result can become a Markdown summary, a standalone HTML page built
// from that Markdown, or a colored console digest.
package report

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"gridline-schedule-engine/pkg/types"
)

var titleCaser = cases.Title(language.English)

// label turns a wire identifier like "venue_sharing" into a heading
// like "Venue Sharing".
func label(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "_", " "))
}

// cell escapes a value for use inside a Markdown table row.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

// Markdown renders the result as a Markdown document with tables for
// conflicts, resolutions, unresolved conflicts, and strategy attempts.
func Markdown(result *types.ResolutionResult) string {
	var b strings.Builder

	b.WriteString("# Schedule Resolution Report\n\n")

	outcome := "Resolved"
	if !result.Success {
		outcome = "Unresolved"
	}
	fmt.Fprintf(&b, "- Outcome: **%s**\n", outcome)
	fmt.Fprintf(&b, "- Conflicts detected: %d\n", len(result.Conflicts))
	fmt.Fprintf(&b, "- Resolutions applied: %d\n", len(result.Resolutions))
	fmt.Fprintf(&b, "- Unresolved conflicts: %d\n", len(result.UnresolvedConflicts))
	fmt.Fprintf(&b, "- Validation: %s\n", validationLine(result.Validation))
	fmt.Fprintf(&b, "- Elapsed: %dms\n", result.ResolutionTimeMs)

	if len(result.Conflicts) > 0 {
		b.WriteString("\n## Conflicts\n\n")
		b.WriteString("| Severity | Type | Date | Description |\n")
		b.WriteString("|---|---|---|---|\n")
		for i := range result.Conflicts {
			c := &result.Conflicts[i]
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				label(string(c.Severity)), label(string(c.Type)),
				c.Date.UTC().Format("2006-01-02"), cell(c.Description))
		}
	}

	if len(result.Resolutions) > 0 {
		b.WriteString("\n## Resolutions\n\n")
		b.WriteString("| Strategy | Changes | Notes |\n")
		b.WriteString("|---|---|---|\n")
		for i := range result.Resolutions {
			r := &result.Resolutions[i]
			fmt.Fprintf(&b, "| %s | %s | %s |\n",
				cell(r.Strategy), cell(changesLine(r.Changes)), cell(r.Notes))
		}
	}

	if len(result.UnresolvedConflicts) > 0 {
		b.WriteString("\n## Unresolved Conflicts\n\n")
		b.WriteString("| Severity | Type | Description |\n")
		b.WriteString("|---|---|---|\n")
		for i := range result.UnresolvedConflicts {
			c := &result.UnresolvedConflicts[i]
			fmt.Fprintf(&b, "| %s | %s | %s |\n",
				label(string(c.Severity)), label(string(c.Type)), cell(c.Description))
		}
	}

	if len(result.Stats.Strategies) > 0 {
		b.WriteString("\n## Strategy Attempts\n\n")
		b.WriteString("| Strategy | Attempts | Successes |\n")
		b.WriteString("|---|---|---|\n")
		for _, name := range sortedStrategyNames(result.Stats) {
			st := result.Stats.Strategies[name]
			fmt.Fprintf(&b, "| %s | %d | %d |\n", cell(name), st.Attempts, st.Successes)
		}
	}

	return b.String()
}

// validationLine condenses a validation report into one phrase.
func validationLine(v types.ValidationReport) string {
	if v.IsValid {
		return "clean"
	}
	names := make([]string, len(v.ConflictTypesPresent))
	for i, ct := range v.ConflictTypesPresent {
		names[i] = label(string(ct))
	}
	line := fmt.Sprintf("%d conflict(s) remaining (%d critical)",
		v.RemainingConflictCount, v.CriticalConflictCount)
	if len(names) > 0 {
		line += ": " + strings.Join(names, ", ")
	}
	return line
}

// changesLine condenses schedule changes into "g2 date 2025-11-04 to
// 2025-11-05" phrases.
func changesLine(changes []types.ScheduleChange) string {
	if len(changes) == 0 {
		return "none"
	}
	parts := make([]string, len(changes))
	for i, ch := range changes {
		parts[i] = fmt.Sprintf("%s %s %s to %s", ch.GameID, ch.Field, ch.OldValue, ch.NewValue)
	}
	return strings.Join(parts, "; ")
}

func sortedStrategyNames(stats types.ResolutionStats) []string {
	names := make([]string, 0, len(stats.Strategies))
	for name := range stats.Strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
