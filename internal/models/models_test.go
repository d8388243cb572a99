package models_test

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/Rev4nchist/FastMCP/internal/models"
)

// ---------------------------------------------------------------------------
// Enumerations
// ---------------------------------------------------------------------------

func TestParseContextType_HappyPath(t *testing.T) {
	c := qt.New(t)

	for _, name := range models.ContextTypeNames() {
		c.Run(name, func(c *qt.C) {
			typ, err := models.ParseContextType(name)
			c.Assert(err, qt.IsNil)
			c.Assert(string(typ), qt.Equals, name)
			c.Assert(typ.Valid(), qt.IsTrue)
		})
	}
}

func TestParseContextType_FailurePath(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name string
		in   string
	}{
		{"empty string", ""},
		{"unknown value", "meeting"},
		{"uppercase", "Decision"},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			_, err := models.ParseContextType(tc.in)
			c.Assert(err, qt.IsNotNil)
		})
	}
}

func TestParsePriority_HappyPath(t *testing.T) {
	c := qt.New(t)

	for _, name := range models.PriorityNames() {
		c.Run(name, func(c *qt.C) {
			p, err := models.ParsePriority(name)
			c.Assert(err, qt.IsNil)
			c.Assert(string(p), qt.Equals, name)
		})
	}
}

func TestParsePriority_FailurePath(t *testing.T) {
	c := qt.New(t)

	_, err := models.ParsePriority("urgent")
	c.Assert(err, qt.IsNotNil)
	c.Assert(err.Error(), qt.Contains, "urgent")
}

func TestEnumUnmarshalJSON_FailurePath(t *testing.T) {
	c := qt.New(t)

	c.Run("unknown type is rejected at the JSON boundary", func(c *qt.C) {
		var rec models.ContextRecord
		err := json.Unmarshal([]byte(`{"id":"x","type":"meeting","title":"t"}`), &rec)
		c.Assert(err, qt.IsNotNil)
	})

	c.Run("unknown priority is rejected at the JSON boundary", func(c *qt.C) {
		var rec models.ContextRecord
		err := json.Unmarshal([]byte(`{"id":"x","type":"task","priority":"urgent"}`), &rec)
		c.Assert(err, qt.IsNotNil)
	})

	c.Run("valid values pass through", func(c *qt.C) {
		var rec models.ContextRecord
		err := json.Unmarshal([]byte(`{"id":"x","type":"task","priority":"high"}`), &rec)
		c.Assert(err, qt.IsNil)
		c.Assert(rec.Type, qt.Equals, models.TypeTask)
		c.Assert(rec.Priority, qt.Equals, models.PriorityHigh)
	})
}

// ---------------------------------------------------------------------------
// NewID / NewRecord
// ---------------------------------------------------------------------------

func TestNewID_HappyPath(t *testing.T) {
	c := qt.New(t)

	at := time.Date(2024, 3, 9, 14, 30, 5, 0, time.UTC)
	c.Assert(models.NewID(models.TypeTask, at), qt.Equals, "task_20240309_143005")
}

func TestNewRecord_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("all fields carried over", func(c *qt.C) {
		rec := models.NewRecord(models.TypeDecision, models.PriorityHigh, &models.RawRecordInput{
			Title:       "Chose Go",
			Content:     "Ported the tool to Go.",
			Tags:        []string{"lang", "port"},
			Connections: []string{"project_20240101_000000"},
			Metadata:    map[string]any{"source": "meeting"},
		})

		c.Assert(rec.Type, qt.Equals, models.TypeDecision)
		c.Assert(rec.Title, qt.Equals, "Chose Go")
		c.Assert(rec.Content, qt.Equals, "Ported the tool to Go.")
		c.Assert(rec.Priority, qt.Equals, models.PriorityHigh)
		c.Assert(rec.Tags, qt.DeepEquals, []string{"lang", "port"})
		c.Assert(rec.Connections, qt.DeepEquals, []string{"project_20240101_000000"})
		c.Assert(rec.Metadata, qt.DeepEquals, map[string]any{"source": "meeting"})
	})

	c.Run("omitted collections default to empty, not nil", func(c *qt.C) {
		rec := models.NewRecord(models.TypeConversation, models.PriorityMedium, &models.RawRecordInput{
			Title:   "T",
			Content: "C",
		})
		c.Assert(rec.Tags, qt.IsNotNil)
		c.Assert(rec.Tags, qt.HasLen, 0)
		c.Assert(rec.Connections, qt.IsNotNil)
		c.Assert(rec.Connections, qt.HasLen, 0)
		c.Assert(rec.Metadata, qt.IsNotNil)
		c.Assert(rec.Metadata, qt.HasLen, 0)
	})

	c.Run("timestamps are UTC, second precision, and equal at creation", func(c *qt.C) {
		rec := models.NewRecord(models.TypeTask, models.PriorityLow, &models.RawRecordInput{
			Title: "T", Content: "C",
		})
		c.Assert(rec.CreatedAt.Location(), qt.Equals, time.UTC)
		c.Assert(rec.CreatedAt.Nanosecond(), qt.Equals, 0)
		c.Assert(rec.UpdatedAt.Equal(rec.CreatedAt), qt.IsTrue)
	})

	c.Run("ID is derived from type and creation time", func(c *qt.C) {
		rec := models.NewRecord(models.TypeInsight, models.PriorityMedium, &models.RawRecordInput{
			Title: "T", Content: "C",
		})
		want := fmt.Sprintf("%s_%s", rec.Type, rec.CreatedAt.Format("20060102_150405"))
		c.Assert(rec.ID, qt.Equals, want)
	})
}

// TestNewRecord_SameSecondCollision documents that two records of the same
// type created within the same wall-clock second share an ID.
func TestNewRecord_SameSecondCollision(t *testing.T) {
	c := qt.New(t)

	raw := &models.RawRecordInput{Title: "T", Content: "C"}
	var a, b *models.ContextRecord
	// Retry in case the two calls straddle a second boundary.
	for i := 0; i < 10; i++ {
		a = models.NewRecord(models.TypeTask, models.PriorityMedium, raw)
		b = models.NewRecord(models.TypeTask, models.PriorityMedium, raw)
		if a.ID == b.ID {
			break
		}
	}
	c.Assert(b.ID, qt.Equals, a.ID)
}

// ---------------------------------------------------------------------------
// JSON round-trip
// ---------------------------------------------------------------------------

func TestContextRecordJSON_RoundTrip(t *testing.T) {
	c := qt.New(t)

	orig := models.NewRecord(models.TypeProject, models.PriorityCritical, &models.RawRecordInput{
		Title:       "Launch",
		Content:     "Ship the thing.",
		Tags:        []string{"q3"},
		Connections: []string{"task_20240101_000000"},
		Metadata:    map[string]any{"owner": "sam"},
	})

	data, err := json.Marshal(orig)
	c.Assert(err, qt.IsNil)

	var got models.ContextRecord
	c.Assert(json.Unmarshal(data, &got), qt.IsNil)

	c.Assert(got.ID, qt.Equals, orig.ID)
	c.Assert(got.Type, qt.Equals, orig.Type)
	c.Assert(got.Title, qt.Equals, orig.Title)
	c.Assert(got.Content, qt.Equals, orig.Content)
	c.Assert(got.Priority, qt.Equals, orig.Priority)
	c.Assert(got.CreatedAt.Equal(orig.CreatedAt), qt.IsTrue)
	c.Assert(got.UpdatedAt.Equal(orig.UpdatedAt), qt.IsTrue)
	c.Assert(got.Tags, qt.DeepEquals, orig.Tags)
	c.Assert(got.Connections, qt.DeepEquals, orig.Connections)
	c.Assert(got.Metadata, qt.DeepEquals, orig.Metadata)
}
