package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIngestSamsungWeightRoundTrip(t *testing.T) {
	csv := "com.samsung.health.weight,202401151030,6.2\n" +
		"start_time,weight,body_fat,weight_unit\n" +
		"2024-01-15 08:31:02.000,82.4,21.5,kg\n"

	fr, err := IngestBytes("weight.csv", []byte(csv))
	require.NoError(t, err)
	require.Equal(t, FormatSamsungWeight, fr.Format)
	require.Len(t, fr.Weights, 1)

	w := fr.Weights[0]
	assert.Equal(t, day(2024, time.January, 15), w.Date)
	assert.Equal(t, 82.4, w.WeightKg)
	require.NotNil(t, w.BodyFatPct)
	assert.Equal(t, 21.5, *w.BodyFatPct)
	assert.Empty(t, fr.Skipped)
}

func TestIngestWeightWithBOMAndLeadingComma(t *testing.T) {
	csv := "\xEF\xBB\xBFcom.samsung.health.weight,202401151030,6.2\n" +
		",start_time,weight\n" +
		",2024-01-15 08:31:02.000,82.4\n"

	fr, err := IngestBytes("weight.csv", []byte(csv))
	require.NoError(t, err)
	require.Len(t, fr.Weights, 1)
	assert.Equal(t, 82.4, fr.Weights[0].WeightKg)
}

func TestIngestWeightPoundsConvert(t *testing.T) {
	csv := "start_time,weight,weight_unit\n" +
		"2024-01-15,180,lb\n"

	fr, err := IngestBytes("weight.csv", []byte(csv))
	require.NoError(t, err)
	require.Len(t, fr.Weights, 1)
	assert.InDelta(t, 81.6466, fr.Weights[0].WeightKg, 0.001)
}

func TestIngestWeightUnitSuffix(t *testing.T) {
	csv := "start_time,weight\n" +
		"2024-01-15,180lb\n" +
		"2024-01-16,180 lbs\n" +
		"2024-01-17,82.5kg\n"

	fr, err := IngestBytes("weight.csv", []byte(csv))
	require.NoError(t, err)
	require.Len(t, fr.Weights, 3)
	assert.Empty(t, fr.Skipped)
	assert.InDelta(t, 81.6466, fr.Weights[0].WeightKg, 0.001)
	assert.InDelta(t, 81.6466, fr.Weights[1].WeightKg, 0.001)
	assert.InDelta(t, 82.5, fr.Weights[2].WeightKg, 0.001)
}

func TestIngestWeightSuffixWinsOverUnitColumn(t *testing.T) {
	csv := "start_time,weight,weight_unit\n" +
		"2024-01-15,180lb,kg\n"

	fr, err := IngestBytes("weight.csv", []byte(csv))
	require.NoError(t, err)
	require.Len(t, fr.Weights, 1)
	assert.InDelta(t, 81.6466, fr.Weights[0].WeightKg, 0.001)
}

func TestIngestWeightSkipsBadRows(t *testing.T) {
	csv := "start_time,weight,body_fat\n" +
		"not-a-date,82.4,\n" +
		"2024-01-16,eighty,\n" +
		"2024-01-17,81.9,not-a-number\n" +
		"2024-01-18,-5,\n"

	fr, err := IngestBytes("weight.csv", []byte(csv))
	require.NoError(t, err)

	// Rows 1, 2, 4 skipped; row 3 kept with nil body fat.
	require.Len(t, fr.Weights, 1)
	assert.Nil(t, fr.Weights[0].BodyFatPct)
	require.Len(t, fr.Skipped, 3)
	assert.Equal(t, 2, fr.Skipped[0].Line)
	assert.Equal(t, "unparseable date", fr.Skipped[0].Reason)
	assert.Equal(t, 1, fr.Rows)
}

func TestIngestSamsungExerciseTypes(t *testing.T) {
	csv := "com.samsung.shealth.exercise,202401151030,6.2\n" +
		"com.samsung.health.exercise.start_time,com.samsung.health.exercise.exercise_type,com.samsung.health.exercise.duration,com.samsung.health.exercise.calorie\n" +
		"2024-01-15 07:00:00.000,1002,1800000,312\n" + // running
		"2024-01-15 21:00:00.000,15002,600000,\n" + // guided breathing
		"2024-01-16 07:00:00.000,0,3600000,120\n" + // auto-detected, excluded
		"2024-01-16 18:00:00.000,13001,2700000,210\n" // strength, unknown to the cardio map

	fr, err := IngestBytes("exercise.csv", []byte(csv))
	require.NoError(t, err)
	require.Len(t, fr.Sessions, 3)

	run := fr.Sessions[0]
	assert.Equal(t, SessionCardio, run.Type)
	assert.Equal(t, 30.0, run.DurationMin)
	require.NotNil(t, run.CaloriesBurned)
	assert.Equal(t, 312.0, *run.CaloriesBurned)

	med := fr.Sessions[1]
	assert.Equal(t, SessionMeditation, med.Type)
	assert.Equal(t, 10.0, med.DurationMin)
	assert.Nil(t, med.CaloriesBurned)

	lift := fr.Sessions[2]
	assert.Equal(t, SessionOther, lift.Type)

	require.Len(t, fr.Warnings, 1)
	assert.Contains(t, fr.Warnings[0], "auto-detected")
}

func TestIngestStrengthWorkout(t *testing.T) {
	csv := "Date,Title,Exercise,Set #,Reps,Weight,Time\n" +
		"2024-02-01,Push Day,Squat,1,5,100,\n" +
		"2024-02-01,Push Day,Bench Press,1,8,60,\n"

	fr, err := IngestBytes("workouts.csv", []byte(csv))
	require.NoError(t, err)
	require.Len(t, fr.Sets, 2)

	squat := fr.Sets[0]
	assert.Equal(t, day(2024, time.February, 1), squat.Date)
	assert.Equal(t, "Squat", squat.Exercise)
	assert.Equal(t, 100.0, squat.WeightKg)
	assert.Equal(t, 5, squat.Reps)
	assert.Equal(t, 500.0, squat.VolumeKg())
}

func TestIngestMFPCalories(t *testing.T) {
	csv := "Date,Calories\n" +
		"2024-01-15,2150\n" +
		"2024-01-16,1980.5\n"

	fr, err := IngestBytes("mfp_daily_calories.csv", []byte(csv))
	require.NoError(t, err)
	require.Len(t, fr.Calories, 2)
	assert.Equal(t, 2150.0, fr.Calories[0].Calories)
	assert.Equal(t, 1980.5, fr.Calories[1].Calories)
}

func TestIngestUnrecognizedHeader(t *testing.T) {
	csv := "alpha,beta\n1,2\n"

	_, err := IngestBytes("mystery.csv", []byte(csv))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnrecognizedFormat)
}

func TestIngestEmptyFile(t *testing.T) {
	_, err := IngestBytes("empty.csv", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreadableFile)
}

func TestDatasetMergeLastWriteWins(t *testing.T) {
	first, err := IngestBytes("a.csv", []byte("start_time,weight\n2024-01-01,70.5\n"))
	require.NoError(t, err)
	second, err := IngestBytes("b.csv", []byte("start_time,weight\n2024-01-01,71.0\n2024-01-02,70.8\n"))
	require.NoError(t, err)

	ds := NewDataset()
	ds.Merge(first)
	ds.Merge(second)

	require.Len(t, ds.Weights, 2)
	assert.Equal(t, 71.0, ds.Weights[day(2024, time.January, 1)].WeightKg)
	assert.Equal(t, 70.8, ds.Weights[day(2024, time.January, 2)].WeightKg)
}

func TestDatasetMergeReplacesDayOfSets(t *testing.T) {
	first, err := IngestBytes("a.csv", []byte(
		"Date,Exercise,Reps,Weight\n2024-02-01,Squat,5,100\n2024-02-02,Deadlift,3,140\n"))
	require.NoError(t, err)
	second, err := IngestBytes("b.csv", []byte(
		"Date,Exercise,Reps,Weight\n2024-02-01,Squat,5,102.5\n"))
	require.NoError(t, err)

	ds := NewDataset()
	ds.Merge(first)
	ds.Merge(second)

	// The later file replaces all of 2024-02-01; 2024-02-02 survives.
	require.Len(t, ds.Sets, 2)
	weights := map[string]float64{}
	for _, s := range ds.Sets {
		weights[s.Exercise] = s.WeightKg
	}
	assert.Equal(t, 102.5, weights["Squat"])
	assert.Equal(t, 140.0, weights["Deadlift"])
}

func TestReportAggregates(t *testing.T) {
	fr, err := IngestBytes("weight.csv", []byte(
		"start_time,weight\n2024-01-15,82.4\nbad,1\n"))
	require.NoError(t, err)

	var rep Report
	rep.AddFile(*fr)
	assert.Equal(t, 1, rep.TotalRows)
	assert.Equal(t, 1, rep.TotalSkipped)
	require.Len(t, rep.Files, 1)
}
