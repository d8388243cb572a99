// Package recentcmd implements the `contextman recent` command.
package recentcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rev4nchist/FastMCP/cmd/contextman/shared"
	"github.com/Rev4nchist/FastMCP/internal/service"
)

// Command implements `contextman recent`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	limit int
	ctype string
}

// New creates the recent command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "recent",
		Short: "List recently added or updated contexts",
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.IntVar(&c.limit, "limit", 0, "Maximum number of results (default 10)")
	f.StringVar(&c.ctype, "type", "", "Filter by context type")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	svc, err := service.New(c.ctx.ContextHome)
	if err != nil {
		return err
	}

	results, err := svc.Recent(c.limit, c.ctype)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No contexts found.")
		return nil
	}

	header := "Recent contexts"
	if c.ctype != "" {
		header += " (" + c.ctype + ")"
	}
	fmt.Fprintf(out, "%s:\n", header)

	for i, rec := range results {
		fmt.Fprintf(out, "\n%d. %s (%s)\n", i+1, rec.Title, rec.Type)
		fmt.Fprintf(out, "   ID: %s | Priority: %s | Updated: %s\n",
			rec.ID, rec.Priority, rec.UpdatedAt.Format("2006-01-02 15:04"))
		if len(rec.Tags) > 0 {
			fmt.Fprintf(out, "   Tags: %s\n", joinComma(rec.Tags))
		}
	}
	return nil
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
