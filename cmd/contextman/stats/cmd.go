// Package statscmd implements the `contextman stats` command.
package statscmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rev4nchist/FastMCP/cmd/contextman/shared"
	"github.com/Rev4nchist/FastMCP/internal/models"
	"github.com/Rev4nchist/FastMCP/internal/service"
)

// Command implements `contextman stats`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the stats command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "stats",
		Short: "Show context store statistics",
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	svc, err := service.New(c.ctx.ContextHome)
	if err != nil {
		return err
	}

	st := svc.Stats()
	out := cmd.OutOrStdout()

	if st.Total == 0 {
		fmt.Fprintln(out, "Context store is empty.")
		return nil
	}

	fmt.Fprintf(out, "Total contexts: %d\n", st.Total)

	fmt.Fprintln(out, "\nBy type:")
	for _, typ := range models.ContextTypeNames() {
		if n := st.ByType[models.ContextType(typ)]; n > 0 {
			fmt.Fprintf(out, "  %s: %d\n", typ, n)
		}
	}

	fmt.Fprintln(out, "\nBy priority:")
	for _, priority := range models.PriorityNames() {
		if n := st.ByPriority[models.Priority(priority)]; n > 0 {
			fmt.Fprintf(out, "  %s: %d\n", priority, n)
		}
	}

	fmt.Fprintln(out, "\nMost recent:")
	for _, entry := range st.MostRecent {
		fmt.Fprintf(out, "  %s (%s)\n", entry.Title, entry.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
