package service_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/Rev4nchist/FastMCP/internal/config"
	"github.com/Rev4nchist/FastMCP/internal/models"
	"github.com/Rev4nchist/FastMCP/internal/service"
	"github.com/Rev4nchist/FastMCP/internal/store"
)

// newService returns a Service rooted at a fresh temp home.
func newService(c *qt.C, t *testing.T) (*service.Service, string) {
	c.Helper()
	home := t.TempDir()
	svc, err := service.New(home)
	c.Assert(err, qt.IsNil)
	return svc, home
}

// ---------------------------------------------------------------------------
// New
// ---------------------------------------------------------------------------

func TestNew_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("creates the context home directory", func(c *qt.C) {
		home := filepath.Join(t.TempDir(), "nested", "ctx")
		svc, err := service.New(home)
		c.Assert(err, qt.IsNil)
		c.Assert(svc.ContextHome, qt.Equals, home)

		info, err := os.Stat(home)
		c.Assert(err, qt.IsNil)
		c.Assert(info.IsDir(), qt.IsTrue)
	})

	c.Run("picks up per-home config", func(c *qt.C) {
		home := t.TempDir()
		cfg := "defaults:\n  type: task\n  priority: high\nlist:\n  recent_limit: 3\n"
		c.Assert(os.WriteFile(filepath.Join(home, "config.yaml"), []byte(cfg), 0o600), qt.IsNil)

		svc, err := service.New(home)
		c.Assert(err, qt.IsNil)
		c.Assert(svc.Config.Defaults.Type, qt.Equals, "task")
		c.Assert(svc.Config.Defaults.Priority, qt.Equals, "high")
		c.Assert(svc.Config.List.RecentLimit, qt.Equals, 3)
	})
}

func TestNew_FailurePath(t *testing.T) {
	c := qt.New(t)

	home := t.TempDir()
	cfg := "defaults:\n  type: meeting\n"
	c.Assert(os.WriteFile(filepath.Join(home, "config.yaml"), []byte(cfg), 0o600), qt.IsNil)

	_, err := service.New(home)
	c.Assert(err, qt.IsNotNil)
	c.Assert(err.Error(), qt.Contains, "defaults.type")
}

// ---------------------------------------------------------------------------
// Add
// ---------------------------------------------------------------------------

func TestAdd_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("explicit type and priority", func(c *qt.C) {
		svc, _ := newService(c, t)
		rec, err := svc.Add(&service.AddInput{
			Title:    "Chose sqlite",
			Content:  "Decided against it.",
			Type:     "decision",
			Priority: "critical",
			Tags:     []string{"storage"},
		})
		c.Assert(err, qt.IsNil)
		c.Assert(rec.Type, qt.Equals, models.TypeDecision)
		c.Assert(rec.Priority, qt.Equals, models.PriorityCritical)
		c.Assert(rec.ID, qt.Contains, "decision_")
		c.Assert(svc.Len(), qt.Equals, 1)
	})

	c.Run("empty type and priority use configured defaults", func(c *qt.C) {
		svc, _ := newService(c, t)
		rec, err := svc.Add(&service.AddInput{Title: "T", Content: "C"})
		c.Assert(err, qt.IsNil)
		c.Assert(rec.Type, qt.Equals, models.TypeConversation)
		c.Assert(rec.Priority, qt.Equals, models.PriorityMedium)
	})

	c.Run("record survives reopening the same home", func(c *qt.C) {
		svc, home := newService(c, t)
		rec, err := svc.Add(&service.AddInput{Title: "Durable", Content: "C"})
		c.Assert(err, qt.IsNil)

		again, err := service.New(home)
		c.Assert(err, qt.IsNil)
		got, err := again.Details(rec.ID)
		c.Assert(err, qt.IsNil)
		c.Assert(got.Title, qt.Equals, "Durable")
	})
}

func TestAdd_FailurePath(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name    string
		in      *service.AddInput
		errLike string
	}{
		{"missing title", &service.AddInput{Content: "C"}, "title is required"},
		{"whitespace title", &service.AddInput{Title: "  ", Content: "C"}, "title is required"},
		{"missing content", &service.AddInput{Title: "T"}, "content is required"},
		{"unknown type", &service.AddInput{Title: "T", Content: "C", Type: "meeting"}, "meeting"},
		{"unknown priority", &service.AddInput{Title: "T", Content: "C", Priority: "urgent"}, "urgent"},
	}

	svc, _ := newService(c, t)
	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			_, err := svc.Add(tc.in)
			c.Assert(err, qt.IsNotNil)
			c.Assert(err.Error(), qt.Contains, tc.errLike)
		})
	}
	c.Assert(svc.Len(), qt.Equals, 0)
}

// ---------------------------------------------------------------------------
// Search / Recent
// ---------------------------------------------------------------------------

func TestSearch_HappyPath(t *testing.T) {
	c := qt.New(t)

	// Distinct types keep same-second IDs from colliding.
	svc, _ := newService(c, t)
	adds := []struct{ title, typ string }{
		{"Deploy runbook", "task"},
		{"Deploy checklist", "project"},
		{"Grocery list", "insight"},
	}
	for _, a := range adds {
		_, err := svc.Add(&service.AddInput{Title: a.title, Content: "body", Type: a.typ})
		c.Assert(err, qt.IsNil)
	}

	c.Run("substring match on title", func(c *qt.C) {
		got, err := svc.Search("deploy", "", 0)
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.HasLen, 2)
	})

	c.Run("limit truncates results", func(c *qt.C) {
		got, err := svc.Search("deploy", "", 1)
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.HasLen, 1)
	})

	c.Run("type filter excludes other types", func(c *qt.C) {
		got, err := svc.Search("deploy", "task", 0)
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.HasLen, 1)
		c.Assert(got[0].Title, qt.Equals, "Deploy runbook")
	})
}

func TestSearch_FailurePath(t *testing.T) {
	c := qt.New(t)

	svc, _ := newService(c, t)

	_, err := svc.Search("   ", "", 0)
	c.Assert(err, qt.IsNotNil)
	c.Assert(err.Error(), qt.Contains, "query is required")

	_, err = svc.Search("x", "meeting", 0)
	c.Assert(err, qt.IsNotNil)
}

func TestRecent_HappyPath(t *testing.T) {
	c := qt.New(t)

	// Seed the backing file directly so the 12 records keep distinct IDs.
	home := t.TempDir()
	seed := store.Open(config.StorePath(home))
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		at := base.Add(time.Duration(i) * time.Second)
		c.Assert(seed.Add(&models.ContextRecord{
			ID:          models.NewID(models.TypeTask, at),
			Type:        models.TypeTask,
			Title:       "T",
			Content:     "C",
			Priority:    models.PriorityMedium,
			CreatedAt:   at,
			UpdatedAt:   at,
			Tags:        make([]string, 0),
			Connections: make([]string, 0),
			Metadata:    make(map[string]any),
		}), qt.IsNil)
	}

	svc, err := service.New(home)
	c.Assert(err, qt.IsNil)
	c.Assert(svc.Len(), qt.Equals, 12)

	c.Run("zero limit uses the configured recent limit", func(c *qt.C) {
		got, err := svc.Recent(0, "")
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.HasLen, svc.Config.List.RecentLimit)
	})

	c.Run("explicit limit wins", func(c *qt.C) {
		got, err := svc.Recent(2, "")
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.HasLen, 2)
	})
}

// ---------------------------------------------------------------------------
// Details / Update
// ---------------------------------------------------------------------------

func TestDetails_FailurePath(t *testing.T) {
	c := qt.New(t)

	svc, _ := newService(c, t)
	_, err := svc.Details("task_19990101_000000")
	c.Assert(errors.Is(err, service.ErrNotFound), qt.IsTrue)
	c.Assert(err.Error(), qt.Contains, "task_19990101_000000")
}

func TestUpdate_HappyPath(t *testing.T) {
	c := qt.New(t)

	svc, _ := newService(c, t)
	rec, err := svc.Add(&service.AddInput{
		Title:    "Original",
		Content:  "body",
		Metadata: map[string]any{"a": "1"},
	})
	c.Assert(err, qt.IsNil)

	title := "Renamed"
	got, err := svc.Update(rec.ID, &models.Patch{
		Title:    &title,
		Metadata: map[string]any{"b": "2"},
	})
	c.Assert(err, qt.IsNil)
	c.Assert(got.Title, qt.Equals, "Renamed")
	c.Assert(got.Content, qt.Equals, "body")
	c.Assert(got.Metadata, qt.DeepEquals, map[string]any{"a": "1", "b": "2"})
}

func TestUpdate_FailurePath(t *testing.T) {
	c := qt.New(t)

	svc, _ := newService(c, t)
	title := "x"
	_, err := svc.Update("missing", &models.Patch{Title: &title})
	c.Assert(errors.Is(err, service.ErrNotFound), qt.IsTrue)
	c.Assert(svc.Len(), qt.Equals, 0)
}

// ---------------------------------------------------------------------------
// Stats
// ---------------------------------------------------------------------------

func TestStats_HappyPath(t *testing.T) {
	c := qt.New(t)

	svc, _ := newService(c, t)
	for i := 0; i < 3; i++ {
		_, err := svc.Add(&service.AddInput{Title: "Task", Content: "C", Type: "task"})
		c.Assert(err, qt.IsNil)
	}
	for i := 0; i < 2; i++ {
		_, err := svc.Add(&service.AddInput{Title: "Decision", Content: "C", Type: "decision", Priority: "high"})
		c.Assert(err, qt.IsNil)
	}

	st := svc.Stats()
	// Same-second adds share an ID and overwrite, so totals are per unique ID.
	c.Assert(st.Total, qt.Equals, svc.Len())
	c.Assert(st.ByType[models.TypeTask]+st.ByType[models.TypeDecision], qt.Equals, st.Total)
	c.Assert(len(st.MostRecent) <= 3, qt.IsTrue)
}
