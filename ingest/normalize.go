package ingest

import (
	"strconv"
	"strings"
	"time"
)

const lbToKg = 0.45359237

// dateLayouts lists accepted date formats, tried in order. The first is
// the Samsung export timestamp format.
var dateLayouts = []string{
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"02.01.2006",
}

// parseDate parses a source date string and normalizes it to UTC midnight.
// All canonical records are keyed by this civil-date representation.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return civilDate(t), true
	}
	return time.Time{}, false
}

// civilDate truncates a timestamp to UTC midnight, the key every canonical
// record uses.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// parseFloat returns the parsed value and whether it is usable. Negative
// values are rejected; every numeric in this domain is a magnitude.
func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// parseOptionalFloat maps empty, non-numeric, and negative fields to nil.
// Optional fields never fail a row.
func parseOptionalFloat(s string) *float64 {
	v, ok := parseFloat(s)
	if !ok {
		return nil
	}
	return &v
}

func parseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// normalizeWeight converts a weight to kilograms based on a unit marker.
// The default unit is kg; "lb"/"lbs" converts.
func normalizeWeight(v float64, unit string) float64 {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "lb", "lbs", "pound", "pounds":
		return v * lbToKg
	default:
		return v
	}
}

// weightUnitSuffixes, longest first so "lbs" is not cut to "lb".
var weightUnitSuffixes = []string{"pounds", "pound", "lbs", "lb", "kgs", "kg"}

// parseWeightKg parses a weight field that may carry its unit as a suffix
// ("180lb", "82.5 kg") or in a separate unit column, and returns kilograms.
// A suffix on the value wins over the unit column.
func parseWeightKg(s, unit string) (float64, bool) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	for _, suffix := range weightUnitSuffixes {
		if strings.HasSuffix(lower, suffix) {
			unit = suffix
			s = strings.TrimSpace(s[:len(s)-len(suffix)])
			break
		}
	}
	v, ok := parseFloat(s)
	if !ok {
		return 0, false
	}
	return normalizeWeight(v, unit), true
}

// Samsung Health exercise_type codes. Type 0 is the watch's passive
// auto-detection and is excluded entirely: it double-counts real sessions
// and inflates daily minutes.
const samsungAutoDetected = 0

var samsungMeditationTypes = map[int]struct{}{
	15002: {}, // guided breathing
	15003: {},
	15005: {}, // mindfulness
	15006: {},
}

var samsungCardioTypes = map[int]struct{}{
	1001:  {}, // walking
	1002:  {}, // running
	9002:  {}, // swimming
	10007: {}, // rowing
	10026: {}, // elliptical
	11007: {}, // hiking
}

// classifyExerciseType maps a Samsung numeric exercise code to a session
// type. Unknown codes are never an error; they classify as other.
func classifyExerciseType(code int) SessionType {
	if _, ok := samsungMeditationTypes[code]; ok {
		return SessionMeditation
	}
	if _, ok := samsungCardioTypes[code]; ok {
		return SessionCardio
	}
	return SessionOther
}

// msToMinutes converts Samsung's millisecond durations.
func msToMinutes(ms float64) float64 {
	return ms / 60000.0
}
