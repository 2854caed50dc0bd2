//go:build js && wasm

package main

import (
	"archive/zip"
	"bytes"
	"fmt"
	"sort"
	"syscall/js"
	"time"

	"github.com/loud-whisper/Health-Dashboard/pipeline"
)

func main() {
	js.Global().Set("buildDashboard", js.FuncOf(buildDashboard))
	select {}
}

// buildDashboard ingests an array of {name, bytes} file objects and
// returns the chart HTML plus a zip of every artifact.
func buildDashboard(_ js.Value, args []js.Value) any {
	if len(args) < 2 {
		return map[string]any{
			"ok":    false,
			"error": "expected arguments: files(Array of {name, bytes}), options(object)",
		}
	}
	filesArg := args[0]
	optsArg := args[1]
	if filesArg.IsUndefined() || filesArg.IsNull() || filesArg.Get("length").Int() == 0 {
		return map[string]any{
			"ok":    false,
			"error": "at least one input file is required",
		}
	}

	inputs := make([]pipeline.NamedInput, 0, filesArg.Get("length").Int())
	for i := 0; i < filesArg.Get("length").Int(); i++ {
		entry := filesArg.Index(i)
		name := getString(entry, "name", fmt.Sprintf("input_%d.csv", i))
		bytesArg := entry.Get("bytes")
		if bytesArg.IsUndefined() || bytesArg.IsNull() {
			return map[string]any{
				"ok":    false,
				"error": fmt.Sprintf("file %s has no bytes", name),
			}
		}
		data := make([]byte, bytesArg.Get("length").Int())
		js.CopyBytesToGo(data, bytesArg)
		inputs = append(inputs, pipeline.NamedInput{Name: name, Data: data})
	}

	result, err := pipeline.RunBytes(pipeline.BytesOptions{
		Inputs:        inputs,
		Format:        "csv",
		MovingAvgDays: getInt(optsArg, "moving_avg_days"),
	})
	if err != nil {
		return map[string]any{
			"ok":    false,
			"error": err.Error(),
		}
	}

	zipBytes, err := zipArtifacts(result.Files)
	if err != nil {
		return map[string]any{
			"ok":    false,
			"error": fmt.Sprintf("create zip: %v", err),
		}
	}
	payload := js.Global().Get("Uint8Array").New(len(zipBytes))
	js.CopyBytesToJS(payload, zipBytes)

	fileNames := make([]string, 0, len(result.Files))
	for name := range result.Files {
		fileNames = append(fileNames, name)
	}
	sort.Strings(fileNames)

	return map[string]any{
		"ok":       true,
		"html":     string(result.Files[pipeline.ChartsFileName]),
		"zip":      payload,
		"warnings": stringsToAny(result.Warnings),
		"files":    stringsToAny(fileNames),
	}
}

func zipArtifacts(files map[string][]byte) ([]byte, error) {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	fixedTime := time.Unix(0, 0).UTC()

	for _, name := range names {
		h := &zip.FileHeader{
			Name:   name,
			Method: zip.Deflate,
		}
		h.SetModTime(fixedTime)
		w, err := zw.CreateHeader(h)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(files[name]); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func getString(v js.Value, key, fallback string) string {
	if v.IsUndefined() || v.IsNull() {
		return fallback
	}
	out := v.Get(key)
	if out.IsUndefined() || out.IsNull() {
		return fallback
	}
	s := out.String()
	if s == "" || s == "undefined" || s == "null" {
		return fallback
	}
	return s
}

func getInt(v js.Value, key string) int {
	if v.IsUndefined() || v.IsNull() {
		return 0
	}
	out := v.Get(key)
	if out.IsUndefined() || out.IsNull() || out.Type() != js.TypeNumber {
		return 0
	}
	return out.Int()
}

func stringsToAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
