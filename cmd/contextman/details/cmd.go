// Package detailscmd implements the `contextman details` command.
package detailscmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Rev4nchist/FastMCP/cmd/contextman/shared"
	"github.com/Rev4nchist/FastMCP/internal/service"
)

// Command implements `contextman details`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the details command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "details <record-id>",
		Short: "Show the full stored record for one context item",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	svc, err := service.New(c.ctx.ContextHome)
	if err != nil {
		return err
	}

	rec, err := svc.Details(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Context Details: %s\n\n", rec.Title)
	fmt.Fprintf(out, "ID:       %s\n", rec.ID)
	fmt.Fprintf(out, "Type:     %s\n", rec.Type)
	fmt.Fprintf(out, "Priority: %s\n", rec.Priority)
	fmt.Fprintf(out, "Created:  %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(out, "Updated:  %s\n", rec.UpdatedAt.Format("2006-01-02 15:04:05 UTC"))

	if len(rec.Tags) > 0 {
		fmt.Fprintf(out, "Tags:     %s\n", strings.Join(rec.Tags, ", "))
	}
	if len(rec.Connections) > 0 {
		fmt.Fprintf(out, "Connected to: %s\n", strings.Join(rec.Connections, ", "))
	}

	fmt.Fprintf(out, "\nContent:\n%s\n", rec.Content)

	if len(rec.Metadata) > 0 {
		fmt.Fprintln(out, "\nMetadata:")
		keys := make([]string, 0, len(rec.Metadata))
		for k := range rec.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "  %s: %v\n", k, rec.Metadata[k])
		}
	}
	return nil
}
