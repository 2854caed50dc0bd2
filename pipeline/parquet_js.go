//go:build js

package pipeline

import "fmt"

// Browser builds skip the parquet writer; callers should request csv.
func marshalMergedParquet(rows []DailyRow) ([]byte, error) {
	return nil, fmt.Errorf("parquet output is unavailable in browser builds, use format=csv")
}
