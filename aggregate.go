package healthdash

import (
	"sort"
	"time"

	"github.com/loud-whisper/Health-Dashboard/ingest"
)

// Point is one dated value in a chart series.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// ProgressionPoint is one day of one exercise's strength progression.
type ProgressionPoint struct {
	Date         time.Time `json:"date"`
	TopWeightKg  float64   `json:"top_weight_kg"`
	VolumeKg     float64   `json:"volume_kg"`
	EstOneRepMax float64   `json:"est_one_rep_max_kg"`
}

// EpleyOneRepMax estimates a one-rep max from a submaximal set:
// w * (1 + reps/30). A single rep is its own max.
func EpleyOneRepMax(weightKg float64, reps int) float64 {
	if reps <= 1 {
		return weightKg
	}
	return weightKg * (1.0 + float64(reps)/30.0)
}

// MovingAverage computes a trailing moving average over the given window.
// Boundary windows use only the points available so far; no padding, no
// lookahead. Input must be date-sorted.
func MovingAverage(points []Point, window int) []Point {
	if window <= 1 || len(points) == 0 {
		return points
	}
	out := make([]Point, len(points))
	sum := 0.0
	for i, p := range points {
		sum += p.Value
		if i >= window {
			sum -= points[i-window].Value
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = Point{Date: p.Date, Value: sum / float64(n)}
	}
	return out
}

type rollupMode int

const (
	rollupSum rollupMode = iota
	rollupMean
)

// weeklyRollup buckets points by ISO week, keyed by the week's Monday.
func weeklyRollup(points []Point, mode rollupMode) []Point {
	return rollup(points, mode, weekStart)
}

// monthlyRollup buckets points by calendar month, keyed by the first day.
func monthlyRollup(points []Point, mode rollupMode) []Point {
	return rollup(points, mode, func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	})
}

func rollup(points []Point, mode rollupMode, bucket func(time.Time) time.Time) []Point {
	if len(points) == 0 {
		return nil
	}
	sums := make(map[time.Time]float64)
	counts := make(map[time.Time]int)
	for _, p := range points {
		key := bucket(p.Date)
		sums[key] += p.Value
		counts[key]++
	}
	out := make([]Point, 0, len(sums))
	for key, sum := range sums {
		v := sum
		if mode == rollupMean {
			v = sum / float64(counts[key])
		}
		out = append(out, Point{Date: key, Value: v})
	}
	sortPoints(out)
	return out
}

// weekStart returns the Monday of t's ISO week.
func weekStart(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return t.AddDate(0, 0, 1-weekday)
}

func sortPoints(points []Point) {
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
}

// weightSeries extracts the daily weight and body-fat series from the
// dataset, date-sorted. Days without a body-fat reading are absent from
// the body-fat series rather than zero.
func weightSeries(ds *ingest.Dataset) (weight, bodyFat []Point) {
	weight = make([]Point, 0, len(ds.Weights))
	for _, w := range ds.Weights {
		weight = append(weight, Point{Date: w.Date, Value: w.WeightKg})
		if w.BodyFatPct != nil {
			bodyFat = append(bodyFat, Point{Date: w.Date, Value: *w.BodyFatPct})
		}
	}
	sortPoints(weight)
	sortPoints(bodyFat)
	return weight, bodyFat
}

func calorieSeries(ds *ingest.Dataset) []Point {
	out := make([]Point, 0, len(ds.Calories))
	for _, c := range ds.Calories {
		out = append(out, Point{Date: c.Date, Value: c.Calories})
	}
	sortPoints(out)
	return out
}

// sessionSeries sums session minutes and burned calories per day, split by
// session type. Meditation minutes stay out of the exercise series.
func sessionSeries(ds *ingest.Dataset) (cardioMin, meditationMin, burned []Point) {
	cardio := make(map[time.Time]float64)
	meditation := make(map[time.Time]float64)
	calories := make(map[time.Time]float64)
	for _, s := range ds.Sessions {
		switch s.Type {
		case ingest.SessionMeditation:
			meditation[s.Date] += s.DurationMin
		default:
			cardio[s.Date] += s.DurationMin
			if s.CaloriesBurned != nil {
				calories[s.Date] += *s.CaloriesBurned
			}
		}
	}
	return mapToPoints(cardio), mapToPoints(meditation), mapToPoints(calories)
}

// volumeSeries sums strength volume (weight x reps) per day.
func volumeSeries(ds *ingest.Dataset) []Point {
	daily := make(map[time.Time]float64)
	for _, s := range ds.Sets {
		daily[s.Date] += s.VolumeKg()
	}
	return mapToPoints(daily)
}

// progressionByExercise builds per-exercise daily progression: the day's
// top set weight, total volume, and the best Epley estimate across sets.
func progressionByExercise(ds *ingest.Dataset) map[string][]ProgressionPoint {
	type key struct {
		exercise string
		date     time.Time
	}
	daily := make(map[key]*ProgressionPoint)
	for _, s := range ds.Sets {
		k := key{exercise: s.Exercise, date: s.Date}
		p, ok := daily[k]
		if !ok {
			p = &ProgressionPoint{Date: s.Date}
			daily[k] = p
		}
		if s.WeightKg > p.TopWeightKg {
			p.TopWeightKg = s.WeightKg
		}
		p.VolumeKg += s.VolumeKg()
		if est := EpleyOneRepMax(s.WeightKg, s.Reps); est > p.EstOneRepMax {
			p.EstOneRepMax = est
		}
	}

	out := make(map[string][]ProgressionPoint)
	for k, p := range daily {
		out[k.exercise] = append(out[k.exercise], *p)
	}
	for exercise := range out {
		points := out[exercise]
		sort.Slice(points, func(i, j int) bool {
			return points[i].Date.Before(points[j].Date)
		})
		out[exercise] = points
	}
	return out
}

func mapToPoints(daily map[time.Time]float64) []Point {
	out := make([]Point, 0, len(daily))
	for date, v := range daily {
		out = append(out, Point{Date: date, Value: v})
	}
	sortPoints(out)
	return out
}
