package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/parcelmerge/cmd/parcelmerge/cmd/completion"
	"github.com/agentstation/parcelmerge/cmd/parcelmerge/cmd/export"
	"github.com/agentstation/parcelmerge/cmd/parcelmerge/cmd/fields"
	"github.com/agentstation/parcelmerge/cmd/parcelmerge/cmd/merge"
	"github.com/agentstation/parcelmerge/cmd/parcelmerge/cmd/sample"
	"github.com/agentstation/parcelmerge/cmd/parcelmerge/cmd/stats"
	"github.com/agentstation/parcelmerge/cmd/parcelmerge/cmd/values"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(merge.NewCommand(a))
	rootCmd.AddCommand(export.NewCommand(a))

	// Inspection commands
	rootCmd.AddCommand(fields.NewCommand(a))
	rootCmd.AddCommand(sample.NewCommand(a))
	rootCmd.AddCommand(values.NewCommand(a))
	rootCmd.AddCommand(stats.NewCommand(a))

	rootCmd.AddCommand(completion.NewCommand())
	rootCmd.AddCommand(a.newVersionCommand())
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("parcelmerge %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit: %s\n", a.commit)
				cmd.Printf("  built:  %s\n", a.date)
			}
		},
	}
}
