// mfpconvert sums a Samsung Health food_intake export (per-meal rows,
// synced from MyFitnessPal) into a Date,Calories CSV the dashboard ingests
// directly.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/loud-whisper/Health-Dashboard/ingest"
)

func main() {
	var (
		inPath  = flag.String("in", "", "Path to com.samsung.health.food_intake.*.csv")
		outPath = flag.String("out", "", "Output path (default: mfp_daily_calories.csv next to input)")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --in food_intake.csv [--out mfp_daily_calories.csv]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if strings.TrimSpace(*inPath) == "" {
		flag.Usage()
		os.Exit(2)
	}
	out := *outPath
	if out == "" {
		out = filepath.Join(filepath.Dir(*inPath), "mfp_daily_calories.csv")
	}

	days, err := convert(*inPath, out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mfpconvert failed: %v\n", err)
		os.Exit(1)
	}

	total := 0.0
	for _, d := range days {
		total += d.Calories
	}
	fmt.Printf("Wrote %d days to %s\n", len(days), out)
	fmt.Printf("Date range: %s to %s\n",
		days[0].Date.Format("2006-01-02"), days[len(days)-1].Date.Format("2006-01-02"))
	fmt.Printf("Avg daily:  %.0f kcal\n", total/float64(len(days)))
}

func convert(inPath, outPath string) ([]ingest.CalorieDay, error) {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	days, err := ingest.SumFoodIntake(data)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("no usable rows in %s", inPath)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })

	f, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Date", "Calories"}); err != nil {
		return nil, err
	}
	for _, d := range days {
		rec := []string{
			d.Date.Format("2006-01-02"),
			strconv.FormatFloat(math.Round(d.Calories), 'f', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return days, nil
}
