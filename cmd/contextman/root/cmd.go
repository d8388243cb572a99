// Package rootcmd wires the root cobra.Command for the contextman CLI binary.
package rootcmd

import (
	"github.com/spf13/cobra"

	addcmd "github.com/Rev4nchist/FastMCP/cmd/contextman/add"
	configcmd "github.com/Rev4nchist/FastMCP/cmd/contextman/config"
	detailscmd "github.com/Rev4nchist/FastMCP/cmd/contextman/details"
	mcpcmd "github.com/Rev4nchist/FastMCP/cmd/contextman/mcp"
	recentcmd "github.com/Rev4nchist/FastMCP/cmd/contextman/recent"
	searchcmd "github.com/Rev4nchist/FastMCP/cmd/contextman/search"
	"github.com/Rev4nchist/FastMCP/cmd/contextman/shared"
	statscmd "github.com/Rev4nchist/FastMCP/cmd/contextman/stats"
	updatecmd "github.com/Rev4nchist/FastMCP/cmd/contextman/update"
)

// New creates and returns the root cobra.Command for the contextman CLI.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:           "contextman",
		Short:         "ContextMan — personal context manager backed by a local JSON store",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}

	root.PersistentFlags().StringVar(
		&ctx.ContextHome, "context-home", "",
		"Override context home directory (default: $CONTEXT_HOME env → persisted config → ~/.contextman)",
	)

	root.AddCommand(
		addcmd.New(ctx).Cmd(),
		searchcmd.New(ctx).Cmd(),
		recentcmd.New(ctx).Cmd(),
		detailscmd.New(ctx).Cmd(),
		updatecmd.New(ctx).Cmd(),
		statscmd.New(ctx).Cmd(),
		configcmd.New(ctx).Cmd(),
		mcpcmd.New(ctx).Cmd(),
	)

	return root
}
