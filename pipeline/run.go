package pipeline

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	healthdash "github.com/loud-whisper/Health-Dashboard"
	"github.com/loud-whisper/Health-Dashboard/ingest"
	"github.com/loud-whisper/Health-Dashboard/render"
)

// Artifact file names written by every run.
const (
	ChartsFileName  = "charts.html"
	DatasetFileName = "dataset.json"
	ReportFileName  = "ingest_report.json"
	mergedBaseName  = "merged_daily"
)

// Run ingests the input files in order, derives all chart series, and
// writes the dashboard artifacts to the output directory.
func Run(opts Options) (*Result, error) {
	if len(opts.Inputs) == 0 {
		return nil, fmt.Errorf("at least one input file is required")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	format, err := normalizeFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	if err := ensureOutputDir(opts.OutDir, opts.Overwrite); err != nil {
		return nil, err
	}

	ds, report, warnings := ingestAll(opts.Inputs, func(i int) (*ingest.FileResult, error) {
		return ingest.IngestFile(opts.Inputs[i])
	})

	overview, err := healthdash.Analyze(ds, healthdash.Config{MovingAvgDays: opts.MovingAvgDays})
	if err != nil {
		return nil, err
	}

	chartsPath := filepath.Join(opts.OutDir, ChartsFileName)
	f, err := os.Create(chartsPath)
	if err != nil {
		return nil, fmt.Errorf("create charts html: %w", err)
	}
	if err := render.WritePage(f, overview); err != nil {
		f.Close()
		return nil, fmt.Errorf("render charts html: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	rows := buildDailyRows(ds)
	mergedPath := filepath.Join(opts.OutDir, mergedBaseName+"."+format)
	switch format {
	case "csv":
		data, err := marshalMergedCSV(rows)
		if err != nil {
			return nil, fmt.Errorf("write merged csv: %w", err)
		}
		if err := os.WriteFile(mergedPath, data, 0o644); err != nil {
			return nil, err
		}
	case "parquet":
		data, err := marshalMergedParquet(rows)
		if err != nil {
			return nil, fmt.Errorf("write merged parquet: %w", err)
		}
		if err := os.WriteFile(mergedPath, data, 0o644); err != nil {
			return nil, err
		}
	}

	datasetPath := filepath.Join(opts.OutDir, DatasetFileName)
	if err := writeJSON(datasetPath, ds); err != nil {
		return nil, fmt.Errorf("write dataset.json: %w", err)
	}
	reportPath := filepath.Join(opts.OutDir, ReportFileName)
	if err := writeJSON(reportPath, report); err != nil {
		return nil, fmt.Errorf("write ingest_report.json: %w", err)
	}

	log.WithFields(log.Fields{
		"files":   len(opts.Inputs),
		"records": ds.RecordCount(),
		"skipped": report.TotalSkipped,
		"out":     opts.OutDir,
	}).Info("pipeline run complete")

	return &Result{
		OutputDir:       opts.OutDir,
		ChartsPath:      chartsPath,
		MergedDailyPath: mergedPath,
		DatasetPath:     datasetPath,
		ReportPath:      reportPath,
		Warnings:        warnings,
		Dataset:         ds,
		Overview:        overview,
		Report:          report,
	}, nil
}

// RunBytes is the in-memory version of Run: it takes source files as byte
// slices and returns every artifact as bytes, keyed by file name.
func RunBytes(opts BytesOptions) (*BytesResult, error) {
	if len(opts.Inputs) == 0 {
		return nil, fmt.Errorf("at least one input file is required")
	}
	format, err := normalizeFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(opts.Inputs))
	for i, in := range opts.Inputs {
		names[i] = in.Name
	}
	ds, report, warnings := ingestAll(names, func(i int) (*ingest.FileResult, error) {
		in := opts.Inputs[i]
		if strings.EqualFold(filepath.Ext(in.Name), ".fit") {
			return ingest.IngestFITBytes(in.Name, in.Data)
		}
		return ingest.IngestBytes(in.Name, in.Data)
	})

	overview, err := healthdash.Analyze(ds, healthdash.Config{MovingAvgDays: opts.MovingAvgDays})
	if err != nil {
		return nil, err
	}

	files := make(map[string][]byte, 4)

	var chartBuf bytes.Buffer
	if err := render.WritePage(&chartBuf, overview); err != nil {
		return nil, fmt.Errorf("render charts html: %w", err)
	}
	files[ChartsFileName] = chartBuf.Bytes()

	rows := buildDailyRows(ds)
	switch format {
	case "csv":
		data, err := marshalMergedCSV(rows)
		if err != nil {
			return nil, fmt.Errorf("marshal merged csv: %w", err)
		}
		files[mergedBaseName+".csv"] = data
	case "parquet":
		data, err := marshalMergedParquet(rows)
		if err != nil {
			return nil, fmt.Errorf("marshal merged parquet: %w", err)
		}
		files[mergedBaseName+".parquet"] = data
	}

	datasetJSON, err := marshalJSON(ds)
	if err != nil {
		return nil, fmt.Errorf("marshal dataset.json: %w", err)
	}
	files[DatasetFileName] = datasetJSON
	reportJSON, err := marshalJSON(report)
	if err != nil {
		return nil, fmt.Errorf("marshal ingest_report.json: %w", err)
	}
	files[ReportFileName] = reportJSON

	return &BytesResult{
		Files:    files,
		Warnings: warnings,
		Dataset:  ds,
		Overview: overview,
		Report:   report,
	}, nil
}

// ingestAll runs the given ingester over each input in order, merging
// successes and downgrading file-level failures to warnings. Inputs are
// addressed by position, never by name; two inputs may share a file name.
// A file that cannot be read or recognized never aborts the run.
func ingestAll(names []string, ingestOne func(int) (*ingest.FileResult, error)) (*ingest.Dataset, *ingest.Report, []string) {
	ds := ingest.NewDataset()
	report := &ingest.Report{}
	warnings := make([]string, 0)

	for i, input := range names {
		fr, err := ingestOne(i)
		if err != nil {
			switch {
			case errors.Is(err, ingest.ErrUnrecognizedFormat), errors.Is(err, ingest.ErrUnreadableFile):
				warnings = append(warnings, err.Error())
				log.WithField("file", input).Warn(err.Error())
				continue
			default:
				warnings = append(warnings, fmt.Sprintf("%s: %v", input, err))
				continue
			}
		}
		ds.Merge(fr)
		report.AddFile(*fr)
		warnings = append(warnings, fr.Warnings...)
	}
	return ds, report, warnings
}

func normalizeFormat(format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "csv"
	}
	if format != "parquet" && format != "csv" {
		return "", fmt.Errorf("unsupported format %q (expected parquet|csv)", format)
	}
	return format, nil
}

func ensureOutputDir(dir string, overwrite bool) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("output path %s is not a directory", dir)
		}
		if !overwrite {
			entries, err := os.ReadDir(dir)
			if err != nil {
				return err
			}
			if len(entries) > 0 {
				return fmt.Errorf("output directory %s is not empty (use overwrite)", dir)
			}
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// buildDailyRows flattens the dataset into one row per date, the schema
// shared by the csv, parquet, and json daily artifacts.
func buildDailyRows(ds *ingest.Dataset) []DailyRow {
	byDate := make(map[time.Time]*DailyRow)
	row := func(date time.Time) *DailyRow {
		r, ok := byDate[date]
		if !ok {
			r = &DailyRow{Date: date}
			byDate[date] = r
		}
		return r
	}

	for date, w := range ds.Weights {
		r := row(date)
		v := w.WeightKg
		r.WeightKg = &v
		r.BodyFatPct = w.BodyFatPct
	}
	for date, c := range ds.Calories {
		r := row(date)
		v := c.Calories
		r.CaloriesIn = &v
	}
	for _, s := range ds.Sessions {
		r := row(s.Date)
		if s.Type == ingest.SessionMeditation {
			addTo(&r.MeditationMinutes, s.DurationMin)
			continue
		}
		addTo(&r.ExerciseMinutes, s.DurationMin)
		if s.CaloriesBurned != nil {
			addTo(&r.CaloriesBurned, *s.CaloriesBurned)
		}
	}
	for _, s := range ds.Sets {
		r := row(s.Date)
		r.StrengthSets++
		addTo(&r.StrengthVolumeKg, s.VolumeKg())
	}

	rows := make([]DailyRow, 0, len(byDate))
	for _, r := range byDate {
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows
}

func addTo(dst **float64, v float64) {
	if *dst == nil {
		out := v
		*dst = &out
		return
	}
	**dst += v
}

func marshalMergedCSV(rows []DailyRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{
		"date", "weight_kg", "body_fat_pct", "calories_in", "calories_burned",
		"exercise_minutes", "meditation_minutes", "strength_sets", "strength_volume_kg",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range rows {
		rec := []string{
			r.Date.Format("2006-01-02"),
			formatFloatPtr(r.WeightKg),
			formatFloatPtr(r.BodyFatPct),
			formatFloatPtr(r.CaloriesIn),
			formatFloatPtr(r.CaloriesBurned),
			formatFloatPtr(r.ExerciseMinutes),
			formatFloatPtr(r.MeditationMinutes),
			strconv.Itoa(r.StrengthSets),
			formatFloatPtr(r.StrengthVolumeKg),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return encodeJSON(f, v)
}

func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
