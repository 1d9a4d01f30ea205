// engine detects and repairs scheduling conflicts in schedule documents.
// It loads a schedule and its context from YAML or JSON files, runs the
// resolution engine, and renders the outcome as a console digest,
// markdown, HTML, or raw JSON.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/fatih/color"

	"gridline-schedule-engine/internal/config"
	"gridline-schedule-engine/internal/di"
	"gridline-schedule-engine/internal/loader"
	"gridline-schedule-engine/internal/report"
	"gridline-schedule-engine/pkg/types"
)

const (
	modeDetect  = "detect"
	modeResolve = "resolve"
)

func main() {
	var (
		schedulePath = flag.String("schedule", "", "Path to the schedule document (.yaml, .yml, or .json)")
		contextPath  = flag.String("context", "", "Path to the schedule context document (.yaml, .yml, or .json)")
		mode         = flag.String("mode", modeResolve, "What to do: detect or resolve")
		format       = flag.String("format", "", "Report format: console, markdown, html, or json (defaults to the configured format)")
		outPath      = flag.String("out", "", "Write the report to this file instead of stdout")
	)
	flag.Parse()

	if *schedulePath == "" || *contextPath == "" {
		fmt.Fprintln(os.Stderr, "both -schedule and -context are required")
		flag.Usage()
		os.Exit(2)
	}
	if *mode != modeDetect && *mode != modeResolve {
		fmt.Fprintf(os.Stderr, "invalid mode: %s (want detect or resolve)\n", *mode)
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if *format == "" {
		*format = cfg.Report.Format
	}
	if *outPath == "" && cfg.Report.OutputDir != "" {
		*outPath = filepath.Join(cfg.Report.OutputDir, "report."+reportExt(*format))
	}

	container, err := di.NewContainer(cfg)
	if err != nil {
		log.Fatalf("failed to build engine: %v", err)
	}

	schedule, err := loader.LoadSchedule(*schedulePath)
	if err != nil {
		log.Fatalf("failed to load schedule: %v", err)
	}
	sctx, err := loader.LoadContext(*contextPath)
	if err != nil {
		log.Fatalf("failed to load schedule context: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	result, err := run(ctx, container, *mode, schedule, sctx)
	if err != nil {
		log.Fatalf("%s failed: %v", *mode, err)
	}

	rendered, err := render(result, *format, *outPath != "")
	if err != nil {
		log.Fatalf("failed to render report: %v", err)
	}
	if err := emit(rendered, *outPath); err != nil {
		log.Fatalf("failed to write report: %v", err)
	}

	if err := container.Close(); err != nil {
		log.Printf("error during shutdown: %v", err)
	}

	if conflictsRemain(result, *mode) {
		os.Exit(1)
	}
}

func run(ctx context.Context, c *di.Container, mode string, schedule *types.Schedule, sctx *types.ScheduleContext) (*types.ResolutionResult, error) {
	if mode == modeDetect {
		conflicts, err := c.Detector.DetectAll(ctx, schedule, sctx)
		if err != nil {
			return nil, err
		}
		return detectionResult(conflicts), nil
	}
	return c.Resolver.Resolve(ctx, schedule, sctx, nil)
}

// detectionResult shapes a detect-only pass into the result form the
// report renderers consume. Nothing was repaired, so the validation
// block simply restates what detection found.
func detectionResult(conflicts []types.Conflict) *types.ResolutionResult {
	stats := types.NewResolutionStats()
	stats.TotalConflicts = len(conflicts)
	stats.UnresolvedConflicts = len(conflicts)

	validation := types.ValidationReport{
		IsValid:                len(conflicts) == 0,
		RemainingConflictCount: len(conflicts),
		ConflictTypesPresent:   []types.ConflictType{},
	}
	seen := make(map[types.ConflictType]bool)
	for i := range conflicts {
		c := &conflicts[i]
		stats.ConflictsByType[c.Type]++
		if c.Severity == types.SeverityCritical {
			validation.CriticalConflictCount++
		}
		if !seen[c.Type] {
			seen[c.Type] = true
			validation.ConflictTypesPresent = append(validation.ConflictTypesPresent, c.Type)
		}
	}
	sort.Slice(validation.ConflictTypesPresent, func(i, j int) bool {
		return validation.ConflictTypesPresent[i] < validation.ConflictTypesPresent[j]
	})

	return &types.ResolutionResult{
		Success:             len(conflicts) == 0,
		Conflicts:           conflicts,
		Resolutions:         []types.Resolution{},
		UnresolvedConflicts: []types.Conflict{},
		Validation:          validation,
		Stats:               stats,
	}
}

func render(result *types.ResolutionResult, format string, toFile bool) ([]byte, error) {
	switch format {
	case config.FormatConsole:
		if toFile {
			color.NoColor = true
		}
		var buf bytes.Buffer
		if err := report.WriteConsole(&buf, result); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case config.FormatMarkdown:
		return []byte(report.Markdown(result)), nil
	case config.FormatHTML:
		page, err := report.HTML(result)
		if err != nil {
			return nil, err
		}
		return []byte(page), nil
	case config.FormatJSON:
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown format: %s (want console, markdown, html, or json)", format)
	}
}

// reportExt picks the file extension used when the output path comes
// from the configured report directory.
func reportExt(format string) string {
	switch format {
	case config.FormatMarkdown:
		return "md"
	case config.FormatHTML:
		return "html"
	case config.FormatJSON:
		return "json"
	default:
		return "txt"
	}
}

func emit(rendered []byte, outPath string) error {
	if outPath == "" {
		_, err := os.Stdout.Write(rendered)
		return err
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(outPath, rendered, 0644)
}

// conflictsRemain decides the exit status: a detect pass fails on any
// finding, a resolve pass only on conflicts no strategy could close.
func conflictsRemain(result *types.ResolutionResult, mode string) bool {
	if mode == modeDetect {
		return len(result.Conflicts) > 0
	}
	return len(result.UnresolvedConflicts) > 0
}
