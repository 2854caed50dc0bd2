package ingest

import "strings"

// Format identifies which known export schema a file's header matched.
type Format string

const (
	FormatSamsungWeight   Format = "samsung_weight"
	FormatSamsungExercise Format = "samsung_exercise"
	FormatStrengthWorkout Format = "strength_workout"
	FormatMFPCalories     Format = "mfp_calories"
	FormatFIT             Format = "fit_activity"
	FormatUnrecognized    Format = "unrecognized"
)

// samsungExercisePrefix is stripped from exercise export column names
// before matching.
const samsungExercisePrefix = "com.samsung.health.exercise."

// DetectFormat classifies a header row by the presence of each schema's
// required column subset. Matching is case-insensitive and order
// independent; extra columns are ignored.
func DetectFormat(header []string) Format {
	cols := make(map[string]struct{}, len(header))
	for _, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		name = strings.TrimPrefix(name, samsungExercisePrefix)
		if name != "" {
			cols[name] = struct{}{}
		}
	}

	has := func(names ...string) bool {
		for _, n := range names {
			if _, ok := cols[n]; !ok {
				return false
			}
		}
		return true
	}

	switch {
	case has("exercise_type", "start_time", "duration"):
		return FormatSamsungExercise
	case has("start_time", "weight"):
		return FormatSamsungWeight
	case has("date", "exercise", "weight", "reps"):
		return FormatStrengthWorkout
	case has("date", "calories"):
		return FormatMFPCalories
	default:
		return FormatUnrecognized
	}
}

// columnIndex maps normalized column names to their field position.
type columnIndex map[string]int

func indexColumns(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		name = strings.TrimPrefix(name, samsungExercisePrefix)
		if name == "" {
			continue
		}
		if _, exists := idx[name]; !exists {
			idx[name] = i
		}
	}
	return idx
}

// field returns the trimmed value of a named column for one row, or ""
// when the column is absent or the row is short.
func (ci columnIndex) field(row []string, name string) string {
	i, ok := ci[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
