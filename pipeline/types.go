package pipeline

import (
	"time"

	healthdash "github.com/loud-whisper/Health-Dashboard"
	"github.com/loud-whisper/Health-Dashboard/ingest"
)

// Options configures one dashboard pipeline run over files on disk.
type Options struct {
	// Inputs are processed in order; later files win merge conflicts.
	Inputs        []string
	OutDir        string
	Format        string // parquet|csv
	MovingAvgDays int
	Overwrite     bool
}

// Result returns generated artifact paths plus the in-memory dataset for
// callers that keep serving it.
type Result struct {
	OutputDir       string   `json:"output_dir"`
	ChartsPath      string   `json:"charts_path"`
	MergedDailyPath string   `json:"merged_daily_path"`
	DatasetPath     string   `json:"dataset_path"`
	ReportPath      string   `json:"report_path"`
	Warnings        []string `json:"warnings,omitempty"`

	Dataset  *ingest.Dataset      `json:"-"`
	Overview *healthdash.Overview `json:"-"`
	Report   *ingest.Report       `json:"-"`
}

// NamedInput is one in-memory source file for RunBytes.
type NamedInput struct {
	Name string
	Data []byte
}

// BytesOptions configures an in-memory run (browser/wasm callers).
type BytesOptions struct {
	Inputs        []NamedInput
	Format        string // parquet|csv
	MovingAvgDays int
}

// BytesResult holds every artifact keyed by file name.
type BytesResult struct {
	Files    map[string][]byte
	Warnings []string

	Dataset  *ingest.Dataset
	Overview *healthdash.Overview
	Report   *ingest.Report
}

// DailyRow is one date's merged view across all record kinds, the schema
// of the merged_daily artifact.
type DailyRow struct {
	Date              time.Time `json:"date"`
	WeightKg          *float64  `json:"weight_kg,omitempty"`
	BodyFatPct        *float64  `json:"body_fat_pct,omitempty"`
	CaloriesIn        *float64  `json:"calories_in,omitempty"`
	CaloriesBurned    *float64  `json:"calories_burned,omitempty"`
	ExerciseMinutes   *float64  `json:"exercise_minutes,omitempty"`
	MeditationMinutes *float64  `json:"meditation_minutes,omitempty"`
	StrengthSets      int       `json:"strength_sets"`
	StrengthVolumeKg  *float64  `json:"strength_volume_kg,omitempty"`
}
