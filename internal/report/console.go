package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	engerrors "gridline-schedule-engine/internal/errors"
	"gridline-schedule-engine/pkg/types"
)

var (
	headingColor    = color.New(color.FgCyan, color.Bold)
	resolvedColor   = color.New(color.FgGreen, color.Bold)
	unresolvedColor = color.New(color.FgRed, color.Bold)

	severityColors = map[types.Severity]*color.Color{
		types.SeverityCritical: color.New(color.FgRed, color.Bold),
		types.SeverityHigh:     color.New(color.FgRed),
		types.SeverityMedium:   color.New(color.FgYellow),
		types.SeverityLow:      color.New(color.FgBlue),
	}
)

// WriteConsole writes a colored digest of the result. The whole digest
// is buffered first so a broken writer surfaces as one report error
// instead of a half-printed screen.
func WriteConsole(w io.Writer, result *types.ResolutionResult) error {
	var buf bytes.Buffer

	headingColor.Fprintln(&buf, "Schedule Resolution")
	headingColor.Fprintln(&buf, "===================")

	if result.Success {
		resolvedColor.Fprintln(&buf, "Outcome: RESOLVED")
	} else {
		unresolvedColor.Fprintln(&buf, "Outcome: UNRESOLVED")
	}
	fmt.Fprintf(&buf, "Conflicts: %d detected, %d resolved, %d unresolved\n",
		result.Stats.TotalConflicts, result.Stats.ResolvedConflicts, result.Stats.UnresolvedConflicts)
	fmt.Fprintf(&buf, "Validation: %s\n", validationLine(result.Validation))
	fmt.Fprintf(&buf, "Elapsed: %dms\n", result.ResolutionTimeMs)

	if len(result.Conflicts) > 0 {
		headingColor.Fprintln(&buf, "\nConflicts")
		for i := range result.Conflicts {
			writeConflictLine(&buf, &result.Conflicts[i])
		}
	}

	if len(result.Resolutions) > 0 {
		headingColor.Fprintln(&buf, "\nResolutions")
		for i := range result.Resolutions {
			r := &result.Resolutions[i]
			fmt.Fprintf(&buf, "  %-22s %s\n", r.Strategy, changesLine(r.Changes))
		}
	}

	if len(result.UnresolvedConflicts) > 0 {
		headingColor.Fprintln(&buf, "\nUnresolved")
		for i := range result.UnresolvedConflicts {
			writeConflictLine(&buf, &result.UnresolvedConflicts[i])
		}
	}

	if len(result.Stats.Strategies) > 0 {
		headingColor.Fprintln(&buf, "\nStrategy attempts")
		for _, name := range sortedStrategyNames(result.Stats) {
			st := result.Stats.Strategies[name]
			fmt.Fprintf(&buf, "  %-22s %d attempt(s), %d success(es)\n", name, st.Attempts, st.Successes)
		}
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return engerrors.NewReportError("write_console", err)
	}
	return nil
}

func writeConflictLine(w io.Writer, c *types.Conflict) {
	sev, ok := severityColors[c.Severity]
	if !ok {
		sev = color.New(color.FgWhite)
	}
	fmt.Fprint(w, "  ")
	sev.Fprintf(w, "[%s]", strings.ToUpper(string(c.Severity)))
	fmt.Fprintf(w, " %s: %s\n", c.Type, c.Description)
}
