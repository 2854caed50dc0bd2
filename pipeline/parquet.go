//go:build !js

package pipeline

import (
	"math"

	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

type dailyParquetRow struct {
	Date              string  `parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	WeightKg          float64 `parquet:"name=weight_kg, type=DOUBLE"`
	BodyFatPct        float64 `parquet:"name=body_fat_pct, type=DOUBLE"`
	CaloriesIn        float64 `parquet:"name=calories_in, type=DOUBLE"`
	CaloriesBurned    float64 `parquet:"name=calories_burned, type=DOUBLE"`
	ExerciseMinutes   float64 `parquet:"name=exercise_minutes, type=DOUBLE"`
	MeditationMinutes float64 `parquet:"name=meditation_minutes, type=DOUBLE"`
	StrengthSets      int64   `parquet:"name=strength_sets, type=INT64"`
	StrengthVolumeKg  float64 `parquet:"name=strength_volume_kg, type=DOUBLE"`
}

func marshalMergedParquet(rows []DailyRow) ([]byte, error) {
	fw := parquetbuffer.NewBufferFile()
	pw, err := writer.NewParquetWriter(fw, new(dailyParquetRow), 4)
	if err != nil {
		return nil, err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, r := range rows {
		row := dailyParquetRow{
			Date:              r.Date.Format("2006-01-02"),
			WeightKg:          valueOrNaN(r.WeightKg),
			BodyFatPct:        valueOrNaN(r.BodyFatPct),
			CaloriesIn:        valueOrNaN(r.CaloriesIn),
			CaloriesBurned:    valueOrNaN(r.CaloriesBurned),
			ExerciseMinutes:   valueOrNaN(r.ExerciseMinutes),
			MeditationMinutes: valueOrNaN(r.MeditationMinutes),
			StrengthSets:      int64(r.StrengthSets),
			StrengthVolumeKg:  valueOrNaN(r.StrengthVolumeKg),
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return nil, err
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return append([]byte(nil), fw.Bytes()...), nil
}

func valueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
