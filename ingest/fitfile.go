package ingest

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/tormoder/fit"
)

// IngestFITBytes decodes a FIT activity file into exercise sessions. Each
// session message becomes one record; files without a usable activity are
// rejected with the same failure semantics as unrecognized CSV.
func IngestFITBytes(name string, data []byte) (*FileResult, error) {
	decoded, err := fit.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: decode fit: %v", ErrUnrecognizedFormat, name, err)
	}
	activity, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: activity fit expected: %v", ErrUnrecognizedFormat, name, err)
	}
	if len(activity.Sessions) == 0 {
		return nil, fmt.Errorf("%w: %s: activity file has no session message", ErrUnrecognizedFormat, name)
	}

	fr := &FileResult{Name: name, Format: FormatFIT}
	for i, session := range activity.Sessions {
		if session == nil {
			continue
		}
		rec, reason := sessionRecord(session)
		if reason != "" {
			fr.skip(i+1, reason)
			continue
		}
		fr.Sessions = append(fr.Sessions, rec)
		fr.Rows++
	}
	return fr, nil
}

// sessionRecord maps one FIT session message to a canonical exercise
// session. A non-empty reason means the session is unusable and should be
// reported as skipped.
func sessionRecord(session *fit.SessionMsg) (ExerciseSession, string) {
	start := session.StartTime
	if start.IsZero() || fit.IsBaseTime(start) {
		return ExerciseSession{}, "session has no start time"
	}
	minutes := positiveOrZero(session.GetTotalTimerTimeScaled()) / 60.0
	if minutes == 0 {
		minutes = positiveOrZero(session.GetTotalElapsedTimeScaled()) / 60.0
	}
	if minutes == 0 {
		return ExerciseSession{}, "session has no duration"
	}

	rec := ExerciseSession{
		Date:        civilDate(start),
		Type:        classifySport(fmt.Sprint(session.Sport)),
		DurationMin: minutes,
	}
	if cal := session.TotalCalories; cal != 0 && cal != ^uint16(0) {
		v := float64(cal)
		rec.CaloriesBurned = &v
	}
	return rec, ""
}

// positiveOrZero clamps NaN, infinite, and negative values to zero. Unset
// FIT fields scale to NaN.
func positiveOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return v
}

// classifySport maps a FIT sport name to the canonical session type.
func classifySport(sport string) SessionType {
	switch strings.ToLower(sport) {
	case "walking", "running", "cycling", "swimming", "rowing", "hiking", "elliptical":
		return SessionCardio
	default:
		return SessionOther
	}
}
