package ingest

import (
	"fmt"
	"time"
)

// SumFoodIntake totals a Samsung food_intake export's per-meal calories
// into one CalorieDay per civil day. Rows missing a date or calorie value
// are silently dropped, matching the tolerant row semantics of the other
// ingesters. Output order is unspecified.
func SumFoodIntake(data []byte) ([]CalorieDay, error) {
	table, err := tokenize(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	cols := indexColumns(table.header)
	if _, ok := cols["start_time"]; !ok {
		return nil, fmt.Errorf("%w: start_time", ErrMissingColumn)
	}
	if _, ok := cols["calorie"]; !ok {
		return nil, fmt.Errorf("%w: calorie", ErrMissingColumn)
	}

	daily := make(map[time.Time]float64)
	for _, row := range table.rows {
		date, ok := parseDate(cols.field(row, "start_time"))
		if !ok {
			continue
		}
		cal, ok := parseFloat(cols.field(row, "calorie"))
		if !ok {
			continue
		}
		daily[date] += cal
	}

	out := make([]CalorieDay, 0, len(daily))
	for date, cal := range daily {
		out = append(out, CalorieDay{Date: date, Calories: cal})
	}
	return out, nil
}
