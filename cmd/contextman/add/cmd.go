// Package addcmd implements the `contextman add` command.
package addcmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Rev4nchist/FastMCP/cmd/contextman/shared"
	"github.com/Rev4nchist/FastMCP/internal/service"
)

// Command implements `contextman add`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	title       string
	content     string
	ctype       string
	priority    string
	tags        string
	connections string
	metadata    []string
}

// New creates the add command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "add",
		Short: "Add a new context item to the store",
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.StringVar(&c.title, "title", "", "Title of the context (required)")
	f.StringVar(&c.content, "content", "", "Detailed content (required)")
	f.StringVar(&c.ctype, "type", "", "Context type: conversation, decision, project, task, insight, relationship (default from config)")
	f.StringVar(&c.priority, "priority", "", "Priority: critical, high, medium, low (default from config)")
	f.StringVar(&c.tags, "tags", "", "Comma-separated tags")
	f.StringVar(&c.connections, "connections", "", "Comma-separated IDs of related contexts")
	f.StringArrayVar(&c.metadata, "metadata", nil, "Metadata entry as key=value (repeatable)")

	_ = c.cmd.MarkFlagRequired("title")
	_ = c.cmd.MarkFlagRequired("content")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	meta, err := parseMetadata(c.metadata)
	if err != nil {
		return err
	}

	svc, err := service.New(c.ctx.ContextHome)
	if err != nil {
		return err
	}

	rec, err := svc.Add(&service.AddInput{
		Title:       c.title,
		Content:     c.content,
		Type:        c.ctype,
		Priority:    c.priority,
		Tags:        splitCSV(c.tags),
		Connections: splitCSV(c.connections),
		Metadata:    meta,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added: %s (id: %s)\n", rec.Title, rec.ID)
	return nil
}

// parseMetadata converts repeated key=value flags into a metadata map.
func parseMetadata(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	meta := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --metadata entry %q: expected key=value", pair)
		}
		meta[key] = value
	}
	return meta, nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
