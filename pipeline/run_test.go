package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loud-whisper/Health-Dashboard/ingest"
)

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const weightCSV = "start_time,weight,body_fat\n" +
	"2024-01-01 08:00:00.000,70.5,21.0\n" +
	"2024-01-02 08:00:00.000,70.3,\n"

const strengthCSV = "Date,Title,Exercise,Set #,Reps,Weight,Time\n" +
	"2024-01-02,Legs,Squat,1,5,100,\n"

func TestRunWritesAllArtifacts(t *testing.T) {
	dir := t.TempDir()
	inputs := []string{
		writeInput(t, dir, "weight.csv", weightCSV),
		writeInput(t, dir, "workouts.csv", strengthCSV),
	}
	outDir := filepath.Join(dir, "out")

	res, err := Run(Options{
		Inputs:    inputs,
		OutDir:    outDir,
		Format:    "csv",
		Overwrite: true,
	})
	require.NoError(t, err)

	for _, path := range []string{res.ChartsPath, res.MergedDailyPath, res.DatasetPath, res.ReportPath} {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.Greater(t, info.Size(), int64(0), path)
	}

	f, err := os.Open(res.MergedDailyPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "date", rows[0][0])
	assert.Equal(t, "2024-01-01", rows[1][0])
	assert.Equal(t, "70.5", rows[1][1])
	// Jan 2 carries both a weight and the squat volume.
	assert.Equal(t, "70.3", rows[2][1])
	assert.Equal(t, "1", rows[2][7])
	assert.Equal(t, "500", rows[2][8])

	var report ingest.Report
	data, err := os.ReadFile(res.ReportPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, 3, report.TotalRows)
	assert.Equal(t, 0, report.TotalSkipped)
}

func TestRunUnrecognizedFileBecomesWarning(t *testing.T) {
	dir := t.TempDir()
	inputs := []string{
		writeInput(t, dir, "weight.csv", weightCSV),
		writeInput(t, dir, "mystery.csv", "alpha,beta\n1,2\n"),
	}

	res, err := Run(Options{
		Inputs:    inputs,
		OutDir:    filepath.Join(dir, "out"),
		Format:    "csv",
		Overwrite: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0], "unrecognized")
	assert.Len(t, res.Report.Files, 1)
}

func TestRunNoRecordsFails(t *testing.T) {
	dir := t.TempDir()
	inputs := []string{
		writeInput(t, dir, "mystery.csv", "alpha,beta\n1,2\n"),
	}

	_, err := Run(Options{
		Inputs:    inputs,
		OutDir:    filepath.Join(dir, "out"),
		Format:    "csv",
		Overwrite: true,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ingest.ErrNoRecords)
}

func TestRunLaterFileWins(t *testing.T) {
	dir := t.TempDir()
	inputs := []string{
		writeInput(t, dir, "a.csv", "start_time,weight\n2024-01-01,70.5\n"),
		writeInput(t, dir, "b.csv", "start_time,weight\n2024-01-01,71.0\n"),
	}

	res, err := Run(Options{
		Inputs:    inputs,
		OutDir:    filepath.Join(dir, "out"),
		Format:    "csv",
		Overwrite: true,
	})
	require.NoError(t, err)
	require.Len(t, res.Overview.WeightDaily, 1)
	assert.Equal(t, 71.0, res.Overview.WeightDaily[0].Value)
}

func TestRunBytesProducesArtifacts(t *testing.T) {
	res, err := RunBytes(BytesOptions{
		Inputs: []NamedInput{
			{Name: "weight.csv", Data: []byte(weightCSV)},
			{Name: "workouts.csv", Data: []byte(strengthCSV)},
		},
		Format: "csv",
	})
	require.NoError(t, err)

	for _, name := range []string{ChartsFileName, "merged_daily.csv", DatasetFileName, ReportFileName} {
		data, ok := res.Files[name]
		require.True(t, ok, name)
		assert.NotEmpty(t, data, name)
	}
	assert.Contains(t, string(res.Files[ChartsFileName]), "echarts")
}

func TestRunBytesDuplicateNamesKeepBothFiles(t *testing.T) {
	res, err := RunBytes(BytesOptions{
		Inputs: []NamedInput{
			{Name: "weight.csv", Data: []byte("start_time,weight\n2024-01-01,70.0\n")},
			{Name: "weight.csv", Data: []byte("start_time,weight\n2024-01-02,70.5\n")},
		},
		Format: "csv",
	})
	require.NoError(t, err)
	require.Len(t, res.Overview.WeightDaily, 2)
	assert.Equal(t, 70.0, res.Overview.WeightDaily[0].Value)
	assert.Equal(t, 70.5, res.Overview.WeightDaily[1].Value)
}

func TestRunBytesDuplicateNamesLaterWinsTies(t *testing.T) {
	res, err := RunBytes(BytesOptions{
		Inputs: []NamedInput{
			{Name: "weight.csv", Data: []byte("start_time,weight\n2024-01-01,70.0\n")},
			{Name: "weight.csv", Data: []byte("start_time,weight\n2024-01-01,71.0\n")},
		},
		Format: "csv",
	})
	require.NoError(t, err)
	require.Len(t, res.Overview.WeightDaily, 1)
	assert.Equal(t, 71.0, res.Overview.WeightDaily[0].Value)
}

func TestRunBytesParquetFormat(t *testing.T) {
	res, err := RunBytes(BytesOptions{
		Inputs: []NamedInput{
			{Name: "weight.csv", Data: []byte(weightCSV)},
		},
		Format: "parquet",
	})
	require.NoError(t, err)
	data, ok := res.Files["merged_daily.parquet"]
	require.True(t, ok)
	// Parquet files end with the PAR1 magic.
	require.GreaterOrEqual(t, len(data), 8)
	assert.Equal(t, "PAR1", string(data[len(data)-4:]))
}

func TestNormalizeFormat(t *testing.T) {
	for in, want := range map[string]string{"": "csv", "CSV": "csv", "Parquet": "parquet"} {
		got, err := normalizeFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := normalizeFormat("xlsx")
	require.Error(t, err)
}
