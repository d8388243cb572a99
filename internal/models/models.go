// Package models defines the core data types for the context manager.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ---------------------------------------------------------------------------
// Enumerations
// ---------------------------------------------------------------------------

// ContextType classifies what kind of context a record holds.
type ContextType string

// Accepted context types.
const (
	TypeConversation ContextType = "conversation"
	TypeDecision     ContextType = "decision"
	TypeProject      ContextType = "project"
	TypeTask         ContextType = "task"
	TypeInsight      ContextType = "insight"
	TypeRelationship ContextType = "relationship"
)

var contextTypes = []ContextType{
	TypeConversation, TypeDecision, TypeProject,
	TypeTask, TypeInsight, TypeRelationship,
}

// ContextTypeNames returns the accepted context type values as strings.
func ContextTypeNames() []string {
	names := make([]string, len(contextTypes))
	for i, t := range contextTypes {
		names[i] = string(t)
	}
	return names
}

// Valid reports whether t is one of the accepted context types.
func (t ContextType) Valid() bool {
	for _, v := range contextTypes {
		if t == v {
			return true
		}
	}
	return false
}

// ParseContextType converts s into a ContextType, rejecting unknown values.
func ParseContextType(s string) (ContextType, error) {
	t := ContextType(s)
	if !t.Valid() {
		return "", fmt.Errorf("invalid context type %q (valid: %s)",
			s, strings.Join(ContextTypeNames(), ", "))
	}
	return t, nil
}

// UnmarshalJSON rejects unknown type values at the deserialization boundary.
func (t *ContextType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseContextType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Priority ranks how important a context record is.
type Priority string

// Accepted priority levels.
const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

var priorities = []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

// PriorityNames returns the accepted priority values as strings.
func PriorityNames() []string {
	names := make([]string, len(priorities))
	for i, p := range priorities {
		names[i] = string(p)
	}
	return names
}

// Valid reports whether p is one of the accepted priorities.
func (p Priority) Valid() bool {
	for _, v := range priorities {
		if p == v {
			return true
		}
	}
	return false
}

// ParsePriority converts s into a Priority, rejecting unknown values.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority %q (valid: %s)",
			s, strings.Join(PriorityNames(), ", "))
	}
	return p, nil
}

// UnmarshalJSON rejects unknown priority values at the deserialization boundary.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePriority(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ---------------------------------------------------------------------------
// Records
// ---------------------------------------------------------------------------

// ContextRecord is one stored context item.
// Connections are advisory record IDs and are never validated, so dangling
// references are legal.
type ContextRecord struct {
	ID          string         `json:"id"`
	Type        ContextType    `json:"type"`
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	Priority    Priority       `json:"priority"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Tags        []string       `json:"tags"`
	Connections []string       `json:"connections"`
	Metadata    map[string]any `json:"metadata"`
}

// RawRecordInput is the caller-supplied data before defaulting and ID generation.
type RawRecordInput struct {
	Title       string
	Content     string
	Tags        []string
	Connections []string
	Metadata    map[string]any
}

const idTimeLayout = "20060102_150405"

// NewID derives a record ID from the type and creation time.
// Two records of the same type created within the same second share an ID;
// the store overwrites rather than erroring on that collision.
func NewID(typ ContextType, t time.Time) string {
	return fmt.Sprintf("%s_%s", typ, t.UTC().Format(idTimeLayout))
}

// NewRecord constructs a ContextRecord from a RawRecordInput, deriving the ID
// and stamping creation/update times (UTC, second precision). Omitted tags,
// connections, and metadata become empty rather than nil.
func NewRecord(typ ContextType, priority Priority, raw *RawRecordInput) *ContextRecord {
	now := time.Now().UTC().Truncate(time.Second)
	tags := raw.Tags
	if tags == nil {
		tags = make([]string, 0)
	}
	connections := raw.Connections
	if connections == nil {
		connections = make([]string, 0)
	}
	metadata := raw.Metadata
	if metadata == nil {
		metadata = make(map[string]any)
	}
	return &ContextRecord{
		ID:          NewID(typ, now),
		Type:        typ,
		Title:       raw.Title,
		Content:     raw.Content,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
		Tags:        tags,
		Connections: connections,
		Metadata:    metadata,
	}
}

// ---------------------------------------------------------------------------
// Patch
// ---------------------------------------------------------------------------

// Patch is a partial update. Nil fields are absent and leave the record
// unchanged; a non-nil empty slice or map is an explicit value. Metadata is
// merged key-by-key into the existing mapping rather than replacing it.
type Patch struct {
	Title       *string
	Content     *string
	Priority    *Priority
	Tags        []string
	Connections []string
	Metadata    map[string]any
}

// ---------------------------------------------------------------------------
// Stats
// ---------------------------------------------------------------------------

// RecentEntry is one row of the most-recently-updated list in Stats.
type RecentEntry struct {
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Stats aggregates the store contents.
type Stats struct {
	Total      int                 `json:"total"`
	ByType     map[ContextType]int `json:"by_type"`
	ByPriority map[Priority]int    `json:"by_priority"`
	MostRecent []RecentEntry       `json:"most_recent"`
}
