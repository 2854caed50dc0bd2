package healthdash

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// BuildTrendNotes turns the derived series into a short human-readable
// summary shown under the charts.
func BuildTrendNotes(o *Overview) string {
	if o == nil {
		return ""
	}

	var b strings.Builder

	if len(o.WeightMovingAvg) > 0 {
		first := o.WeightMovingAvg[0]
		last := o.WeightMovingAvg[len(o.WeightMovingAvg)-1]
		delta := last.Value - first.Value
		days := int(last.Date.Sub(first.Date).Hours() / 24)
		fmt.Fprintf(
			&b,
			"Weight: %.1f kg (%d-day avg), %s%.1f kg over %d days.\n",
			last.Value,
			o.MovingAvgDays,
			signPrefix(delta),
			math.Abs(delta),
			days,
		)
		b.WriteString("- ")
		b.WriteString(weightAssessment(delta, days))
		b.WriteByte('\n')
	}

	if len(o.CaloriesDaily) > 0 {
		fmt.Fprintf(
			&b,
			"Intake: %.0f kcal/day average over %d logged days.\n",
			meanValue(o.CaloriesDaily),
			len(o.CaloriesDaily),
		)
	}

	if len(o.CardioMinutes) > 0 || len(o.MeditationMinutes) > 0 {
		fmt.Fprintf(
			&b,
			"Activity: %.0f cardio min and %.0f meditation min per active day.\n",
			meanValue(o.CardioMinutes),
			meanValue(o.MeditationMinutes),
		)
	}

	if len(o.VolumeWeekly) > 0 {
		last := o.VolumeWeekly[len(o.VolumeWeekly)-1]
		fmt.Fprintf(
			&b,
			"Strength: %.0f kg volume in the latest week across %d tracked exercises.\n",
			last.Value,
			len(o.Progression),
		)
		if best, name := bestOneRepMaxGain(o.Progression); name != "" {
			fmt.Fprintf(&b, "- Best progression: %s, estimated 1RM up %.1f kg.\n", name, best)
		}
	}

	return strings.TrimSpace(b.String())
}

func weightAssessment(delta float64, days int) string {
	if days < 14 {
		return "Too little history for a trend call; keep logging."
	}
	weeklyRate := delta / (float64(days) / 7.0)
	switch {
	case math.Abs(weeklyRate) < 0.1:
		return "Weight is holding steady."
	case weeklyRate <= -1.0:
		return "Losing faster than ~1 kg/week; consider easing the deficit."
	case weeklyRate < 0:
		return "Steady downward trend at a sustainable rate."
	case weeklyRate >= 0.5:
		return "Gaining more than ~0.5 kg/week; worth reviewing intake."
	default:
		return "Slow upward trend."
	}
}

// bestOneRepMaxGain finds the exercise with the largest first-to-last
// estimated 1RM improvement.
func bestOneRepMaxGain(progression map[string][]ProgressionPoint) (float64, string) {
	names := make([]string, 0, len(progression))
	for name := range progression {
		names = append(names, name)
	}
	sort.Strings(names)

	best := 0.0
	bestName := ""
	for _, name := range names {
		points := progression[name]
		if len(points) < 2 {
			continue
		}
		gain := points[len(points)-1].EstOneRepMax - points[0].EstOneRepMax
		if gain > best {
			best = gain
			bestName = name
		}
	}
	return best, bestName
}

func meanValue(points []Point) float64 {
	if len(points) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range points {
		sum += p.Value
	}
	return sum / float64(len(points))
}

func signPrefix(v float64) string {
	if v < 0 {
		return "-"
	}
	return "+"
}
