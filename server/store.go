package server

import (
	"sync"
	"time"

	healthdash "github.com/loud-whisper/Health-Dashboard"
	"github.com/loud-whisper/Health-Dashboard/ingest"
)

// Snapshot is one immutable ingestion result. The server always serves a
// complete snapshot; re-ingesting swaps the whole thing.
type Snapshot struct {
	Dataset  *ingest.Dataset
	Overview *healthdash.Overview
	Report   *ingest.Report
	Warnings []string
	LoadedAt time.Time
}

// Store holds the current snapshot behind a read-write lock. Single
// writer, many readers.
type Store struct {
	mu      sync.RWMutex
	current *Snapshot
}

// Set replaces the current snapshot.
func (s *Store) Set(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = snap
}

// Get returns the current snapshot, or nil before the first ingest.
func (s *Store) Get() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
