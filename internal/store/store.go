// Package store implements the JSON-file backed context store.
//
// The full record set lives in memory as a map keyed by record ID and is
// mirrored to a single JSON file. Every mutation rewrites the whole file
// synchronously; there is no partial-write protection, no locking, and no
// indexing — the store is built for one process and low record counts.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Rev4nchist/FastMCP/internal/models"
)

// Store owns the in-memory record map and its on-disk mirror.
type Store struct {
	path    string
	records map[string]*models.ContextRecord
}

// Open loads the store from path. A missing file yields an empty store; an
// unreadable or malformed file is logged and also yields an empty store.
// Availability wins over integrity here: construction never fails.
func Open(path string) *Store {
	s := &Store{path: path, records: make(map[string]*models.ContextRecord)}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s
	}
	if err != nil {
		slog.Warn("store: read failed, starting empty", "path", path, "err", err)
		return s
	}

	var loaded map[string]*models.ContextRecord
	if err := json.Unmarshal(data, &loaded); err != nil {
		slog.Warn("store: parse failed, starting empty", "path", path, "err", err)
		return s
	}
	if loaded != nil {
		s.records = loaded
	}
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Len returns the number of records in the store.
func (s *Store) Len() int { return len(s.records) }

// Add inserts or overwrites the entry at rec.ID and persists the whole store.
// A colliding ID silently replaces the previous record. The in-memory insert
// is kept even when persisting fails; the error reports the lost durability.
func (s *Store) Add(rec *models.ContextRecord) error {
	s.records[rec.ID] = rec
	return s.persist()
}

// Get returns the record with the given ID, if present.
func (s *Store) Get(id string) (*models.ContextRecord, bool) {
	rec, ok := s.records[id]
	return rec, ok
}

// Search returns records whose title, content, or any tag contains query
// (case-insensitive), optionally restricted to one type. Results are ordered
// by updated_at descending, ties broken by ID ascending.
func (s *Store) Search(query string, typ models.ContextType) []*models.ContextRecord {
	q := strings.ToLower(query)
	var out []*models.ContextRecord
	for _, rec := range s.records {
		if typ != "" && rec.Type != typ {
			continue
		}
		if matches(rec, q) {
			out = append(out, rec)
		}
	}
	sortByUpdated(out)
	return out
}

// Recent returns up to limit records, most recently updated first, optionally
// restricted to one type. A non-positive limit returns all matching records.
func (s *Store) Recent(limit int, typ models.ContextType) []*models.ContextRecord {
	var out []*models.ContextRecord
	for _, rec := range s.records {
		if typ != "" && rec.Type != typ {
			continue
		}
		out = append(out, rec)
	}
	sortByUpdated(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Update applies patch to the record with the given ID, refreshes updated_at,
// and persists. Provided fields overwrite, except metadata which merges
// key-by-key. Returns found=false when the ID is absent; the store is then
// untouched.
func (s *Store) Update(id string, patch *models.Patch) (rec *models.ContextRecord, found bool, err error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, false, nil
	}

	if patch.Title != nil {
		rec.Title = *patch.Title
	}
	if patch.Content != nil {
		rec.Content = *patch.Content
	}
	if patch.Priority != nil {
		rec.Priority = *patch.Priority
	}
	if patch.Tags != nil {
		rec.Tags = patch.Tags
	}
	if patch.Connections != nil {
		rec.Connections = patch.Connections
	}
	if patch.Metadata != nil {
		if rec.Metadata == nil {
			rec.Metadata = make(map[string]any, len(patch.Metadata))
		}
		for k, v := range patch.Metadata {
			rec.Metadata[k] = v
		}
	}

	rec.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	return rec, true, s.persist()
}

// Stats aggregates the in-memory records; it never touches disk.
func (s *Store) Stats() models.Stats {
	st := models.Stats{
		Total:      len(s.records),
		ByType:     make(map[models.ContextType]int),
		ByPriority: make(map[models.Priority]int),
	}

	all := make([]*models.ContextRecord, 0, len(s.records))
	for _, rec := range s.records {
		st.ByType[rec.Type]++
		st.ByPriority[rec.Priority]++
		all = append(all, rec)
	}
	sortByUpdated(all)

	const topN = 3
	n := len(all)
	if n > topN {
		n = topN
	}
	st.MostRecent = make([]models.RecentEntry, 0, n)
	for _, rec := range all[:n] {
		st.MostRecent = append(st.MostRecent, models.RecentEntry{
			Title:     rec.Title,
			UpdatedAt: rec.UpdatedAt,
		})
	}
	return st
}

// persist rewrites the backing file with the entire record set.
// O(total records) per mutation; acceptable at this store's scale.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal records: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("store: persist %s: %w", s.path, err)
	}
	return nil
}

// matches reports whether q (already lowercased) appears in the record's
// title, content, or any tag.
func matches(rec *models.ContextRecord, q string) bool {
	if strings.Contains(strings.ToLower(rec.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(rec.Content), q) {
		return true
	}
	for _, tag := range rec.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// sortByUpdated orders records by updated_at descending, then ID ascending so
// the ordering is deterministic across runs.
func sortByUpdated(recs []*models.ContextRecord) {
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].UpdatedAt.Equal(recs[j].UpdatedAt) {
			return recs[i].UpdatedAt.After(recs[j].UpdatedAt)
		}
		return recs[i].ID < recs[j].ID
	})
}
