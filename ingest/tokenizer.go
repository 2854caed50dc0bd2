package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// rawTable is one CSV file split into a header and data rows, with the
// Samsung export quirks already stripped.
type rawTable struct {
	header []string
	rows   [][]string
	// firstDataLine is the 1-based line number of rows[0] in the source
	// file, accounting for any metadata line preceding the header.
	firstDataLine int
}

// tokenize splits raw CSV bytes into header and rows. It tolerates a UTF-8
// BOM, a Samsung metadata first line (com.samsung...,<n>,<m>) ahead of the
// real header, and the leading-comma column shift some Samsung exports
// carry (an unnamed first column, dropped from every row).
func tokenize(data []byte) (*rawTable, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	records := make([][]string, 0, 256)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	headerIdx := 0
	if isSamsungMetadataLine(records[0]) {
		headerIdx = 1
	}
	if headerIdx >= len(records) {
		return nil, fmt.Errorf("file has metadata line but no header")
	}

	header := records[headerIdx]
	rows := records[headerIdx+1:]

	if len(header) > 0 && strings.TrimSpace(header[0]) == "" {
		header = header[1:]
		trimmed := make([][]string, len(rows))
		for i, row := range rows {
			if len(row) > 0 {
				trimmed[i] = row[1:]
			}
		}
		rows = trimmed
	}

	return &rawTable{
		header:        header,
		rows:          rows,
		firstDataLine: headerIdx + 2,
	}, nil
}

// isSamsungMetadataLine detects the export preamble line, e.g.
// "com.samsung.shealth.exercise,202405201431,6.2".
func isSamsungMetadataLine(fields []string) bool {
	if len(fields) == 0 || len(fields) > 4 {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(fields[0]), "com.samsung.")
}
