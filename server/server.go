// Package server exposes the dashboard over local HTTP: an upload endpoint
// that re-ingests source files and a chart page rendered from the current
// snapshot.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/loud-whisper/Health-Dashboard/ingest"
	"github.com/loud-whisper/Health-Dashboard/pipeline"
	"github.com/loud-whisper/Health-Dashboard/render"
)

// maxUploadBytes caps the in-memory portion of an upload; larger file
// parts spill to temp files that are removed once ingestion finishes.
// Variable so tests can force the spill.
var maxUploadBytes int64 = 64 << 20

// Server serves the dashboard from an in-memory snapshot store.
type Server struct {
	store         *Store
	router        *mux.Router
	movingAvgDays int
}

// New builds a server with an empty store.
func New(movingAvgDays int) *Server {
	s := &Server{
		store:         &Store{},
		movingAvgDays: movingAvgDays,
	}

	r := mux.NewRouter()
	r.Use(s.loggingMiddleware)
	r.HandleFunc("/", s.handleDashboard).Methods(http.MethodGet)
	r.HandleFunc("/upload", s.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/report", s.handleReport).Methods(http.MethodGet)
	r.HandleFunc("/dataset", s.handleDataset).Methods(http.MethodGet)
	s.router = r

	return s
}

// SetSnapshot seeds the store, used by the CLI after a pipeline run.
func (s *Server) SetSnapshot(snap *Snapshot) {
	s.store.Set(snap)
}

// Handler returns the HTTP handler, exported for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until the context is canceled or the listener
// fails.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("localhost:%d", port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.WithField("addr", srv.Addr).Info("dashboard server listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).Round(time.Millisecond).String(),
		}).Debug("request served")
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Get()
	if snap == nil || snap.Dataset == nil || snap.Dataset.Empty() {
		s.renderEmptyPage(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.WritePage(w, snap.Overview); err != nil {
		log.WithError(err).Error("render dashboard page")
		http.Error(w, "failed to render charts", http.StatusInternalServerError)
	}
}

// handleUpload re-ingests the posted files, in the order they appear in
// the multipart body, and swaps the snapshot.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, fmt.Sprintf("parse upload: %v", err), http.StatusBadRequest)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.WithError(err).Warn("clean up upload temp files")
		}
	}()
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		http.Error(w, "no files uploaded (use form field \"files\")", http.StatusBadRequest)
		return
	}

	inputs := make([]pipeline.NamedInput, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			http.Error(w, fmt.Sprintf("open %s: %v", fh.Filename, err), http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			http.Error(w, fmt.Sprintf("read %s: %v", fh.Filename, err), http.StatusBadRequest)
			return
		}
		inputs = append(inputs, pipeline.NamedInput{Name: fh.Filename, Data: data})
	}

	res, err := pipeline.RunBytes(pipeline.BytesOptions{
		Inputs:        inputs,
		Format:        "csv",
		MovingAvgDays: s.movingAvgDays,
	})
	if err != nil {
		if errors.Is(err, ingest.ErrNoRecords) {
			http.Error(w, "nothing to display: no valid records in the uploaded files", http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.store.Set(&Snapshot{
		Dataset:  res.Dataset,
		Overview: res.Overview,
		Report:   res.Report,
		Warnings: res.Warnings,
		LoadedAt: time.Now(),
	})
	log.WithFields(log.Fields{
		"files":   len(inputs),
		"records": res.Dataset.RecordCount(),
	}).Info("snapshot replaced")

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Get()
	if snap == nil {
		http.Error(w, "nothing to display: no data ingested yet", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]any{
		"report":    snap.Report,
		"warnings":  snap.Warnings,
		"loaded_at": snap.LoadedAt,
	})
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Get()
	if snap == nil {
		http.Error(w, "nothing to display: no data ingested yet", http.StatusNotFound)
		return
	}
	writeJSON(w, snap.Dataset)
}

func (s *Server) renderEmptyPage(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head><title>Health Dashboard</title></head>
<body>
<h1>Health Dashboard</h1>
<p>Nothing to display yet. Upload export files to get started.</p>
<form action="/upload" method="post" enctype="multipart/form-data">
  <input type="file" name="files" multiple>
  <button type="submit">Upload</button>
</form>
</body>
</html>`)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.WithError(err).Error("encode json response")
	}
}
