// Package service implements the orchestrator that wires together
// configuration and the JSON-file context store.
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Rev4nchist/FastMCP/internal/config"
	"github.com/Rev4nchist/FastMCP/internal/models"
	"github.com/Rev4nchist/FastMCP/internal/store"
)

// ErrNotFound is returned when a requested record ID is absent from the store.
var ErrNotFound = errors.New("context record not found")

// Service orchestrates all context operations.
type Service struct {
	ContextHome string
	Config      *config.ContextConfig

	store *store.Store
}

// New initialises a Service rooted at contextHome.
// If contextHome is empty it is resolved via config.GetContextHome.
func New(contextHome string) (*Service, error) {
	if contextHome == "" {
		contextHome = config.GetContextHome()
	}

	if err := os.MkdirAll(contextHome, 0o755); err != nil {
		return nil, fmt.Errorf("service.New: create context home: %w", err)
	}

	cfg, err := config.Load(filepath.Join(contextHome, "config.yaml"))
	if err != nil {
		return nil, fmt.Errorf("service.New: load config: %w", err)
	}

	return &Service{
		ContextHome: contextHome,
		Config:      cfg,
		store:       store.Open(config.StorePath(contextHome)),
	}, nil
}

// AddInput is the caller-supplied data for creating a record. Type and
// Priority are raw strings; empty values fall back to the configured defaults
// and unknown values are rejected.
type AddInput struct {
	Title       string
	Content     string
	Type        string
	Priority    string
	Tags        []string
	Connections []string
	Metadata    map[string]any
}

// Add validates and defaults the input, creates the record, and stores it.
// A persist failure is logged but does not discard the in-memory record; the
// divergence surfaces as data loss on the next process start.
func (s *Service) Add(in *AddInput) (*models.ContextRecord, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("Add: title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("Add: content is required")
	}

	typStr := in.Type
	if typStr == "" {
		typStr = s.Config.Defaults.Type
	}
	typ, err := models.ParseContextType(typStr)
	if err != nil {
		return nil, fmt.Errorf("Add: %w", err)
	}

	prStr := in.Priority
	if prStr == "" {
		prStr = s.Config.Defaults.Priority
	}
	priority, err := models.ParsePriority(prStr)
	if err != nil {
		return nil, fmt.Errorf("Add: %w", err)
	}

	rec := models.NewRecord(typ, priority, &models.RawRecordInput{
		Title:       in.Title,
		Content:     in.Content,
		Tags:        in.Tags,
		Connections: in.Connections,
		Metadata:    in.Metadata,
	})

	if err := s.store.Add(rec); err != nil {
		slog.Warn("Add: persist failed, record kept in memory", "id", rec.ID, "err", err)
	}
	return rec, nil
}

// Search returns records matching query, most recently updated first.
// typeFilter may be empty; limit <= 0 uses the configured recent limit.
func (s *Service) Search(query, typeFilter string, limit int) ([]*models.ContextRecord, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("Search: query is required")
	}
	typ, err := s.parseTypeFilter(typeFilter)
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	if limit <= 0 {
		limit = s.Config.List.RecentLimit
	}

	results := s.store.Search(query, typ)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Recent returns the most recently updated records.
// typeFilter may be empty; limit <= 0 uses the configured recent limit.
func (s *Service) Recent(limit int, typeFilter string) ([]*models.ContextRecord, error) {
	typ, err := s.parseTypeFilter(typeFilter)
	if err != nil {
		return nil, fmt.Errorf("Recent: %w", err)
	}
	if limit <= 0 {
		limit = s.Config.List.RecentLimit
	}
	return s.store.Recent(limit, typ), nil
}

// Details returns the full record for id, or ErrNotFound.
func (s *Service) Details(id string) (*models.ContextRecord, error) {
	rec, ok := s.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("Details: %q: %w", id, ErrNotFound)
	}
	return rec, nil
}

// Update applies patch to the record with the given id and refreshes its
// updated_at. Returns ErrNotFound when the id is absent. Persist failures
// follow the same log-and-keep policy as Add.
func (s *Service) Update(id string, patch *models.Patch) (*models.ContextRecord, error) {
	rec, found, err := s.store.Update(id, patch)
	if !found {
		return nil, fmt.Errorf("Update: %q: %w", id, ErrNotFound)
	}
	if err != nil {
		slog.Warn("Update: persist failed, record kept in memory", "id", id, "err", err)
	}
	return rec, nil
}

// Stats aggregates the store contents in memory.
func (s *Service) Stats() models.Stats {
	return s.store.Stats()
}

// Len returns the number of stored records.
func (s *Service) Len() int {
	return s.store.Len()
}

// parseTypeFilter converts an optional type filter string; empty means none.
func (s *Service) parseTypeFilter(typeFilter string) (models.ContextType, error) {
	if typeFilter == "" {
		return "", nil
	}
	return models.ParseContextType(typeFilter)
}
