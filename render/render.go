// Package render builds go-echarts charts from derived health series and
// assembles them into a single dashboard page.
package render

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	healthdash "github.com/loud-whisper/Health-Dashboard"
)

const (
	theme      = "macarons"
	dateLayout = "2006-01-02"
)

// Page assembles every available chart into one scrollable page. Charts
// whose series are empty are left out.
func Page(o *healthdash.Overview) *components.Page {
	page := components.NewPage()
	page.SetLayout(components.PageCenterLayout)
	page.PageTitle = "Health Dashboard"

	if len(o.WeightDaily) > 0 {
		page.AddCharts(WeightChart(o))
	}
	if len(o.CaloriesDaily) > 0 {
		page.AddCharts(CaloriesChart(o))
	}
	if len(o.CardioMinutes) > 0 || len(o.MeditationMinutes) > 0 {
		page.AddCharts(ExerciseMinutesChart(o))
	}
	if len(o.VolumeWeekly) > 0 {
		page.AddCharts(WeeklyVolumeChart(o))
	}
	if len(o.Progression) > 0 {
		page.AddCharts(ProgressionChart(o))
	}
	return page
}

// WritePage renders the full dashboard page as standalone HTML.
func WritePage(w io.Writer, o *healthdash.Overview) error {
	return Page(o).Render(w)
}

// WeightChart plots daily weight with its trailing moving average.
func WeightChart(o *healthdash.Overview) *charts.Line {
	line := newLine(
		"Body Weight",
		fmt.Sprintf("daily measurements with %d-day trailing average", o.MovingAvgDays),
		"Weight (kg)",
	)
	line.SetXAxis(axisDates(o.WeightDaily))
	line.AddSeries("Weight (kg)", lineItems(o.WeightDaily))
	line.AddSeries(fmt.Sprintf("%d-day avg", o.MovingAvgDays), lineItems(o.WeightMovingAvg))
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return line
}

// CaloriesChart plots daily calorie intake.
func CaloriesChart(o *healthdash.Overview) *charts.Line {
	line := newLine("Calorie Intake", "logged daily totals", "kcal")
	line.SetXAxis(axisDates(o.CaloriesDaily))
	line.AddSeries("Calories", lineItems(o.CaloriesDaily))
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return line
}

// ExerciseMinutesChart stacks daily exercise and meditation minutes.
func ExerciseMinutesChart(o *healthdash.Overview) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: theme}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Active Minutes",
			Subtitle: "exercise and meditation per day",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: 45},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:         "Minutes",
			NameLocation: "middle",
			NameGap:      50,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
			AxisPointer: &opts.AxisPointer{
				Type: "shadow",
			},
		}),
		charts.WithLegendOpts(opts.Legend{
			Bottom: "bottom",
			Show:   opts.Bool(true),
		}),
	)

	dates := unionDates(o.CardioMinutes, o.MeditationMinutes)
	bar.SetXAxis(formatDates(dates))
	bar.AddSeries("Exercise", barItems(dates, o.CardioMinutes)).
		SetSeriesOptions(charts.WithBarChartOpts(opts.BarChart{Stack: "minutes"}))
	bar.AddSeries("Meditation", barItems(dates, o.MeditationMinutes)).
		SetSeriesOptions(charts.WithBarChartOpts(opts.BarChart{Stack: "minutes"}))
	return bar
}

// WeeklyVolumeChart plots total strength volume per ISO week.
func WeeklyVolumeChart(o *healthdash.Overview) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: theme}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Weekly Training Volume",
			Subtitle: "sum of weight x reps, grouped by week",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: 45},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:         "Volume (kg)",
			NameLocation: "middle",
			NameGap:      50,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
	)
	bar.SetXAxis(axisDates(o.VolumeWeekly))
	items := make([]opts.BarData, 0, len(o.VolumeWeekly))
	for _, p := range o.VolumeWeekly {
		items = append(items, opts.BarData{Value: p.Value})
	}
	bar.AddSeries("Volume", items)
	return bar
}

// ProgressionChart plots each exercise's estimated one-rep max over time.
func ProgressionChart(o *healthdash.Overview) *charts.Line {
	line := newLine("Strength Progression", "estimated one-rep max per exercise", "Est. 1RM (kg)")

	dates := progressionDates(o.Progression)
	line.SetXAxis(formatDates(dates))

	names := make([]string, 0, len(o.Progression))
	for name := range o.Progression {
		names = append(names, name)
	}
	sort.Strings(names)

	index := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		index[d] = i
	}
	for _, name := range names {
		items := make([]opts.LineData, len(dates))
		for i := range items {
			items[i] = opts.LineData{Value: nil}
		}
		for _, p := range o.Progression[name] {
			items[index[p.Date]] = opts.LineData{Value: p.EstOneRepMax}
		}
		line.AddSeries(name, items)
	}
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{ConnectNulls: opts.Bool(true)}))
	return line
}

func newLine(title, subtitle, yName string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: theme}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: 45},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:         yName,
			NameLocation: "middle",
			NameGap:      50,
			Scale:        opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
			AxisPointer: &opts.AxisPointer{
				Type: "cross",
			},
		}),
		charts.WithLegendOpts(opts.Legend{
			Bottom: "bottom",
			Show:   opts.Bool(true),
		}),
	)
	return line
}

func axisDates(points []healthdash.Point) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = p.Date.Format(dateLayout)
	}
	return out
}

func lineItems(points []healthdash.Point) []opts.LineData {
	items := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		items = append(items, opts.LineData{Value: p.Value})
	}
	return items
}

// barItems aligns a sparse daily series onto a shared date axis, filling
// missing days with zero.
func barItems(dates []time.Time, points []healthdash.Point) []opts.BarData {
	byDate := make(map[time.Time]float64, len(points))
	for _, p := range points {
		byDate[p.Date] = p.Value
	}
	items := make([]opts.BarData, len(dates))
	for i, d := range dates {
		items[i] = opts.BarData{Value: byDate[d]}
	}
	return items
}

func unionDates(series ...[]healthdash.Point) []time.Time {
	seen := make(map[time.Time]struct{})
	for _, points := range series {
		for _, p := range points {
			seen[p.Date] = struct{}{}
		}
	}
	return sortedDates(seen)
}

func progressionDates(progression map[string][]healthdash.ProgressionPoint) []time.Time {
	seen := make(map[time.Time]struct{})
	for _, points := range progression {
		for _, p := range points {
			seen[p.Date] = struct{}{}
		}
	}
	return sortedDates(seen)
}

func sortedDates(seen map[time.Time]struct{}) []time.Time {
	out := make([]time.Time, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func formatDates(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(dateLayout)
	}
	return out
}
