package healthdash

import (
	"fmt"

	"github.com/loud-whisper/Health-Dashboard/ingest"
)

const defaultMovingAvgDays = 7

// Config controls aggregation parameters.
type Config struct {
	// MovingAvgDays is the trailing window for the weight moving average.
	// Zero means the 7-day default.
	MovingAvgDays int
}

// Overview contains every derived chart series plus the trend summary for
// one ingested dataset.
type Overview struct {
	WeightDaily       []Point                       `json:"weight_daily"`
	WeightMovingAvg   []Point                       `json:"weight_moving_avg"`
	WeightWeekly      []Point                       `json:"weight_weekly"`
	WeightMonthly     []Point                       `json:"weight_monthly"`
	BodyFatDaily      []Point                       `json:"body_fat_daily,omitempty"`
	CaloriesDaily     []Point                       `json:"calories_daily,omitempty"`
	CaloriesWeekly    []Point                       `json:"calories_weekly,omitempty"`
	CardioMinutes     []Point                       `json:"cardio_minutes_daily,omitempty"`
	MeditationMinutes []Point                       `json:"meditation_minutes_daily,omitempty"`
	BurnedCalories    []Point                       `json:"burned_calories_daily,omitempty"`
	VolumeDaily       []Point                       `json:"volume_daily,omitempty"`
	VolumeWeekly      []Point                       `json:"volume_weekly,omitempty"`
	Progression       map[string][]ProgressionPoint `json:"progression,omitempty"`
	MovingAvgDays     int                           `json:"moving_avg_days"`
	Notes             string                        `json:"notes"`
}

// Analyze derives all chart series from a merged dataset. An empty dataset
// is the one fatal condition of a run.
func Analyze(ds *ingest.Dataset, cfg Config) (*Overview, error) {
	if ds == nil || ds.Empty() {
		return nil, fmt.Errorf("analyze dataset: %w", ingest.ErrNoRecords)
	}
	window := cfg.MovingAvgDays
	if window <= 0 {
		window = defaultMovingAvgDays
	}

	weight, bodyFat := weightSeries(ds)
	calories := calorieSeries(ds)
	cardio, meditation, burned := sessionSeries(ds)
	volume := volumeSeries(ds)

	o := &Overview{
		WeightDaily:       weight,
		WeightMovingAvg:   MovingAverage(weight, window),
		WeightWeekly:      weeklyRollup(weight, rollupMean),
		WeightMonthly:     monthlyRollup(weight, rollupMean),
		BodyFatDaily:      bodyFat,
		CaloriesDaily:     calories,
		CaloriesWeekly:    weeklyRollup(calories, rollupSum),
		CardioMinutes:     cardio,
		MeditationMinutes: meditation,
		BurnedCalories:    burned,
		VolumeDaily:       volume,
		VolumeWeekly:      weeklyRollup(volume, rollupSum),
		Progression:       progressionByExercise(ds),
		MovingAvgDays:     window,
	}
	o.Notes = BuildTrendNotes(o)
	return o, nil
}
