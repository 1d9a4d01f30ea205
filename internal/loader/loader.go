// Package loader reads schedule and context documents from YAML or
// JSON files. Both formats funnel through one decode path: the raw
// document becomes a key map, then mapstructure fills the typed
// structs using their json tags, so the two formats cannot drift
// apart. Unknown keys are an error; a typo in a fixture should fail
// loudly, not silently relax a rule.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	engerrors "gridline-schedule-engine/internal/errors"
	"gridline-schedule-engine/pkg/types"
)

// LoadSchedule reads and validates a schedule document.
func LoadSchedule(path string) (*types.Schedule, error) {
	var s types.Schedule
	if err := decodeFile(path, &s); err != nil {
		return nil, engerrors.NewScheduleError(err)
	}
	if err := s.Validate(); err != nil {
		return nil, engerrors.NewScheduleError(err)
	}
	return &s, nil
}

// LoadContext reads and validates a schedule context document.
func LoadContext(path string) (*types.ScheduleContext, error) {
	var sc types.ScheduleContext
	if err := decodeFile(path, &sc); err != nil {
		return nil, engerrors.NewContextError(err)
	}
	if err := sc.Validate(); err != nil {
		return nil, engerrors.NewContextError(err)
	}
	return &sc, nil
}

func decodeFile(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	doc := make(map[string]any)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported document extension %q (want .yaml, .yml, or .json)", ext)
	}

	return decode(doc, out)
}

// decode fills out from a key map. Field names come from the json
// tags, dates accept RFC3339 or plain YYYY-MM-DD, and weekdays accept
// their English names.
func decode(doc map[string]any, out any) error {
	var meta mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:   out,
		TagName:  "json",
		Metadata: &meta,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToTimeHook,
			stringToWeekdayHook,
		),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(doc); err != nil {
		return err
	}
	if len(meta.Unused) > 0 {
		sort.Strings(meta.Unused)
		return fmt.Errorf("unknown keys: %s", strings.Join(meta.Unused, ", "))
	}
	return nil
}

var (
	timeType    = reflect.TypeOf(time.Time{})
	weekdayType = reflect.TypeOf(time.Weekday(0))
)

// dateLayouts are the accepted date spellings. YAML documents usually
// arrive here as time.Time already (the parser resolves timestamp
// scalars itself); these cover JSON documents and quoted YAML strings.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func stringToTimeHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != timeType {
		return data, nil
	}
	s := data.(string)
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return nil, fmt.Errorf("invalid date %q (want YYYY-MM-DD or RFC3339)", s)
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func stringToWeekdayHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != weekdayType {
		return data, nil
	}
	s := data.(string)
	if wd, ok := weekdayNames[strings.ToLower(s)]; ok {
		return wd, nil
	}
	return nil, fmt.Errorf("invalid weekday %q (want Sunday through Saturday)", s)
}
