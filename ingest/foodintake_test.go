package ingest

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumFoodIntake(t *testing.T) {
	csv := "com.samsung.health.food_intake,6307003,6\n" +
		"start_time,calorie,meal_type,name\n" +
		"2021-10-30 04:00:00.000,450,100001,Breakfast\n" +
		"2021-10-30 12:30:00.000,720.5,100002,Lunch\n" +
		"2021-10-31 08:00:00.000,390,100001,Breakfast\n" +
		"bad-date,100,100001,\n" +
		"2021-10-31 19:00:00.000,,100003,\n"

	days, err := SumFoodIntake([]byte(csv))
	require.NoError(t, err)
	require.Len(t, days, 2)
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })

	assert.Equal(t, time.Date(2021, time.October, 30, 0, 0, 0, 0, time.UTC), days[0].Date)
	assert.Equal(t, 1170.5, days[0].Calories)
	assert.Equal(t, 390.0, days[1].Calories)
}

func TestSumFoodIntakeMissingColumns(t *testing.T) {
	_, err := SumFoodIntake([]byte("start_time,name\n2021-10-30,x\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
}
