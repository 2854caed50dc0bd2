package ingest

import "time"

// SessionType classifies an exercise session into the closed set used by
// the aggregation layer. Unknown source codes always map to SessionOther.
type SessionType string

const (
	SessionCardio     SessionType = "cardio"
	SessionMeditation SessionType = "meditation"
	SessionOther      SessionType = "other"
)

// WeightSample is one body-weight measurement, at most one per civil day.
type WeightSample struct {
	Date       time.Time `json:"date"`
	WeightKg   float64   `json:"weight_kg"`
	BodyFatPct *float64  `json:"body_fat_pct,omitempty"`
}

// ExerciseSession is one logged activity. A day may hold many.
type ExerciseSession struct {
	Date           time.Time   `json:"date"`
	Type           SessionType `json:"type"`
	DurationMin    float64     `json:"duration_min"`
	CaloriesBurned *float64    `json:"calories_burned,omitempty"`
}

// StrengthSet is one set of one strength exercise.
type StrengthSet struct {
	Date     time.Time `json:"date"`
	Exercise string    `json:"exercise"`
	WeightKg float64   `json:"weight_kg"`
	Reps     int       `json:"reps"`
}

// VolumeKg returns the set's training volume (weight times reps).
func (s StrengthSet) VolumeKg() float64 {
	return s.WeightKg * float64(s.Reps)
}

// CalorieDay is one day's total calorie intake, at most one per civil day.
type CalorieDay struct {
	Date     time.Time `json:"date"`
	Calories float64   `json:"calories"`
}

// Dataset is the merged, date-keyed view of everything ingested in one run.
// Weights and Calories are unique per day; Sessions and Sets are many per
// day and kept in ingestion order.
type Dataset struct {
	Weights  map[time.Time]WeightSample `json:"weights"`
	Sessions []ExerciseSession          `json:"sessions"`
	Sets     []StrengthSet              `json:"sets"`
	Calories map[time.Time]CalorieDay   `json:"calories"`
}

// NewDataset returns an empty dataset ready for merging.
func NewDataset() *Dataset {
	return &Dataset{
		Weights:  make(map[time.Time]WeightSample),
		Calories: make(map[time.Time]CalorieDay),
	}
}

// Empty reports whether no records of any kind were ingested.
func (d *Dataset) Empty() bool {
	return len(d.Weights) == 0 && len(d.Sessions) == 0 && len(d.Sets) == 0 && len(d.Calories) == 0
}

// RecordCount is the total number of canonical records across all kinds.
func (d *Dataset) RecordCount() int {
	return len(d.Weights) + len(d.Sessions) + len(d.Sets) + len(d.Calories)
}

// Merge folds one file's records into the dataset. Within a kind, records
// keyed by the same date replace earlier ones: per-day kinds (weight,
// calories) overwrite the day's entry, multi-per-day kinds (sessions, sets)
// replace the full day. Callers pass files in their explicit processing
// order, so later files win ties.
func (d *Dataset) Merge(fr *FileResult) {
	for _, w := range fr.Weights {
		d.Weights[w.Date] = w
	}
	for _, c := range fr.Calories {
		d.Calories[c.Date] = c
	}
	if len(fr.Sessions) > 0 {
		replaced := dateSet(fr.Sessions, func(s ExerciseSession) time.Time { return s.Date })
		kept := d.Sessions[:0]
		for _, s := range d.Sessions {
			if _, ok := replaced[s.Date]; !ok {
				kept = append(kept, s)
			}
		}
		d.Sessions = append(kept, fr.Sessions...)
	}
	if len(fr.Sets) > 0 {
		replaced := dateSet(fr.Sets, func(s StrengthSet) time.Time { return s.Date })
		kept := d.Sets[:0]
		for _, s := range d.Sets {
			if _, ok := replaced[s.Date]; !ok {
				kept = append(kept, s)
			}
		}
		d.Sets = append(kept, fr.Sets...)
	}
}

func dateSet[T any](records []T, date func(T) time.Time) map[time.Time]struct{} {
	out := make(map[time.Time]struct{}, len(records))
	for _, r := range records {
		out[date(r)] = struct{}{}
	}
	return out
}

// FileResult holds one source file's normalized records plus its skip and
// warning bookkeeping, before merging.
type FileResult struct {
	Name     string            `json:"name"`
	Format   Format            `json:"format"`
	Weights  []WeightSample    `json:"-"`
	Sessions []ExerciseSession `json:"-"`
	Sets     []StrengthSet     `json:"-"`
	Calories []CalorieDay      `json:"-"`
	Rows     int               `json:"rows_ingested"`
	Skipped  []RowSkip         `json:"rows_skipped,omitempty"`
	Warnings []string          `json:"warnings,omitempty"`
}

// RowSkip records one excluded row and why it was excluded.
type RowSkip struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Report aggregates per-file results for one ingestion run.
type Report struct {
	Files        []FileResult `json:"files"`
	TotalRows    int          `json:"total_rows_ingested"`
	TotalSkipped int          `json:"total_rows_skipped"`
}

// AddFile appends a file result and updates the aggregate counters.
func (r *Report) AddFile(fr FileResult) {
	r.Files = append(r.Files, fr)
	r.TotalRows += fr.Rows
	r.TotalSkipped += len(fr.Skipped)
}
