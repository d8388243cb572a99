// Package searchcmd implements the `contextman search` command.
package searchcmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Rev4nchist/FastMCP/cmd/contextman/shared"
	"github.com/Rev4nchist/FastMCP/internal/models"
	"github.com/Rev4nchist/FastMCP/internal/service"
)

// Command implements `contextman search`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	ctype string
	limit int
}

// New creates the search command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "search <query>",
		Short: "Search contexts by title, content, or tags",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.StringVar(&c.ctype, "type", "", "Filter by context type")
	f.IntVar(&c.limit, "limit", 0, "Maximum number of results (default 10)")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	query := args[0]

	svc, err := service.New(c.ctx.ContextHome)
	if err != nil {
		return err
	}

	results, err := svc.Search(query, c.ctype, c.limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintf(out, "No contexts found matching %q.\n", query)
		return nil
	}

	fmt.Fprintf(out, "Found %d contexts matching %q:\n", len(results), query)
	printList(out, results)
	return nil
}

// printList renders the shared compact listing used by search and recent.
func printList(out io.Writer, results []*models.ContextRecord) {
	for i, rec := range results {
		fmt.Fprintf(out, "\n%d. %s (%s)\n", i+1, rec.Title, rec.Type)
		fmt.Fprintf(out, "   ID: %s | Priority: %s | Updated: %s\n",
			rec.ID, rec.Priority, rec.UpdatedAt.Format("2006-01-02 15:04"))
		fmt.Fprintf(out, "   Content: %s\n", snippet(rec.Content, 100))
		if len(rec.Tags) > 0 {
			fmt.Fprintf(out, "   Tags: %s\n", joinComma(rec.Tags))
		}
	}
}

func snippet(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

func joinComma(ss []string) string {
	result := ""
	for i, s := range ss {
		if i > 0 {
			result += ", "
		}
		result += s
	}
	return result
}
