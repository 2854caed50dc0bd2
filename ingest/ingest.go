package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Sentinel errors for file-level ingestion failures. Row-level problems are
// never errors; they become skip-report entries.
var (
	ErrUnrecognizedFormat = errors.New("unrecognized file format")
	ErrUnreadableFile     = errors.New("unreadable file")
	ErrMissingColumn      = errors.New("required column missing")
	ErrNoRecords          = errors.New("no records to display")
)

// IngestFile reads and normalizes one source file. FIT activity files are
// dispatched on extension; everything else goes through CSV schema
// detection.
func IngestFile(path string) (*FileResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	name := filepath.Base(path)
	if strings.EqualFold(filepath.Ext(path), ".fit") {
		return IngestFITBytes(name, data)
	}
	return IngestBytes(name, data)
}

// IngestBytes normalizes one CSV export held in memory.
func IngestBytes(name string, data []byte) (*FileResult, error) {
	table, err := tokenize(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableFile, name, err)
	}

	format := DetectFormat(table.header)
	if format == FormatUnrecognized {
		return nil, fmt.Errorf("%w: %s", ErrUnrecognizedFormat, name)
	}

	fr := &FileResult{Name: name, Format: format}
	cols := indexColumns(table.header)

	switch format {
	case FormatSamsungWeight:
		buildWeightRecords(fr, table, cols)
	case FormatSamsungExercise:
		buildExerciseRecords(fr, table, cols)
	case FormatStrengthWorkout:
		buildStrengthRecords(fr, table, cols)
	case FormatMFPCalories:
		buildCalorieRecords(fr, table, cols)
	}

	log.WithFields(log.Fields{
		"file":    name,
		"format":  format,
		"rows":    fr.Rows,
		"skipped": len(fr.Skipped),
	}).Debug("ingested file")

	return fr, nil
}

func (fr *FileResult) skip(line int, reason string) {
	fr.Skipped = append(fr.Skipped, RowSkip{Line: line, Reason: reason})
}

func buildWeightRecords(fr *FileResult, table *rawTable, cols columnIndex) {
	for i, row := range table.rows {
		line := table.firstDataLine + i
		if blankRow(row) {
			continue
		}
		date, ok := parseDate(cols.field(row, "start_time"))
		if !ok {
			fr.skip(line, "unparseable date")
			continue
		}
		weightKg, ok := parseWeightKg(cols.field(row, "weight"), cols.field(row, "weight_unit"))
		if !ok {
			fr.skip(line, "missing or invalid weight")
			continue
		}
		sample := WeightSample{
			Date:       date,
			WeightKg:   weightKg,
			BodyFatPct: parseOptionalFloat(cols.field(row, "body_fat")),
		}
		fr.Weights = append(fr.Weights, sample)
		fr.Rows++
	}
}

func buildExerciseRecords(fr *FileResult, table *rawTable, cols columnIndex) {
	autoDetected := 0
	for i, row := range table.rows {
		line := table.firstDataLine + i
		if blankRow(row) {
			continue
		}
		date, ok := parseDate(cols.field(row, "start_time"))
		if !ok {
			fr.skip(line, "unparseable date")
			continue
		}
		code, ok := parseInt(cols.field(row, "exercise_type"))
		if !ok {
			fr.skip(line, "missing exercise type")
			continue
		}
		if code == samsungAutoDetected {
			autoDetected++
			continue
		}
		durationMS, ok := parseFloat(cols.field(row, "duration"))
		if !ok {
			fr.skip(line, "missing or invalid duration")
			continue
		}
		session := ExerciseSession{
			Date:           date,
			Type:           classifyExerciseType(code),
			DurationMin:    msToMinutes(durationMS),
			CaloriesBurned: parseOptionalFloat(cols.field(row, "calorie")),
		}
		fr.Sessions = append(fr.Sessions, session)
		fr.Rows++
	}
	if autoDetected > 0 {
		fr.Warnings = append(fr.Warnings, fmt.Sprintf("excluded %d auto-detected entries (type 0)", autoDetected))
	}
}

func buildStrengthRecords(fr *FileResult, table *rawTable, cols columnIndex) {
	for i, row := range table.rows {
		line := table.firstDataLine + i
		if blankRow(row) {
			continue
		}
		date, ok := parseDate(cols.field(row, "date"))
		if !ok {
			fr.skip(line, "unparseable date")
			continue
		}
		exercise := cols.field(row, "exercise")
		if exercise == "" {
			fr.skip(line, "missing exercise name")
			continue
		}
		weightKg, ok := parseWeightKg(cols.field(row, "weight"), cols.field(row, "unit"))
		if !ok {
			fr.skip(line, "missing or invalid weight")
			continue
		}
		reps, ok := parseInt(cols.field(row, "reps"))
		if !ok {
			fr.skip(line, "missing or invalid reps")
			continue
		}
		set := StrengthSet{
			Date:     date,
			Exercise: exercise,
			WeightKg: weightKg,
			Reps:     reps,
		}
		fr.Sets = append(fr.Sets, set)
		fr.Rows++
	}
}

func buildCalorieRecords(fr *FileResult, table *rawTable, cols columnIndex) {
	for i, row := range table.rows {
		line := table.firstDataLine + i
		if blankRow(row) {
			continue
		}
		date, ok := parseDate(cols.field(row, "date"))
		if !ok {
			fr.skip(line, "unparseable date")
			continue
		}
		calories, ok := parseFloat(cols.field(row, "calories"))
		if !ok {
			fr.skip(line, "missing or invalid calories")
			continue
		}
		fr.Calories = append(fr.Calories, CalorieDay{Date: date, Calories: calories})
		fr.Rows++
	}
}

func blankRow(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
