// Package updatecmd implements the `contextman update` command.
package updatecmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Rev4nchist/FastMCP/cmd/contextman/shared"
	"github.com/Rev4nchist/FastMCP/internal/models"
	"github.com/Rev4nchist/FastMCP/internal/service"
)

// Command implements `contextman update`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	title       string
	content     string
	priority    string
	tags        string
	connections string
	metadata    []string
}

// New creates the update command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "update <record-id>",
		Short: "Update fields of an existing context item",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.StringVar(&c.title, "title", "", "New title")
	f.StringVar(&c.content, "content", "", "New content")
	f.StringVar(&c.priority, "priority", "", "New priority: critical, high, medium, low")
	f.StringVar(&c.tags, "tags", "", "New comma-separated tags (replaces the existing list)")
	f.StringVar(&c.connections, "connections", "", "New comma-separated connections (replaces the existing list)")
	f.StringArrayVar(&c.metadata, "metadata", nil, "Metadata entry as key=value to merge in (repeatable)")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	// Flag presence, not value, decides what the patch carries, so an
	// explicitly empty flag clears the field.
	patch := &models.Patch{}
	flags := cmd.Flags()

	if flags.Changed("title") {
		patch.Title = &c.title
	}
	if flags.Changed("content") {
		patch.Content = &c.content
	}
	if flags.Changed("priority") {
		priority, err := models.ParsePriority(c.priority)
		if err != nil {
			return err
		}
		patch.Priority = &priority
	}
	if flags.Changed("tags") {
		patch.Tags = splitCSV(c.tags)
		if patch.Tags == nil {
			patch.Tags = make([]string, 0)
		}
	}
	if flags.Changed("connections") {
		patch.Connections = splitCSV(c.connections)
		if patch.Connections == nil {
			patch.Connections = make([]string, 0)
		}
	}
	if flags.Changed("metadata") {
		meta, err := parseMetadata(c.metadata)
		if err != nil {
			return err
		}
		patch.Metadata = meta
	}

	svc, err := service.New(c.ctx.ContextHome)
	if err != nil {
		return err
	}

	rec, err := svc.Update(args[0], patch)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated: %s (id: %s)\n", rec.Title, rec.ID)
	return nil
}

// parseMetadata converts repeated key=value flags into a metadata map.
func parseMetadata(pairs []string) (map[string]any, error) {
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
