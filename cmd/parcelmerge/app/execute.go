package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/parcelmerge/cmd/parcelmerge/cmd/merge"
	"github.com/agentstation/parcelmerge/internal/cmd/output"
	"github.com/agentstation/parcelmerge/pkg/errors"
)

// Execute runs the parcelmerge CLI with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	// Flags apply to this run only.
	config, logger, mc := a.config, a.logger, a.merge
	defer func() { a.config, a.logger, a.merge = config, logger, mc }()

	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	if a.out != nil {
		rootCmd.SetOut(a.out)
	}
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
// Without a subcommand the root runs a full merge.
func (a *App) createRootCommand() *cobra.Command {
	var mergeFlags *merge.Flags
	rootCmd := &cobra.Command{
		Use:     "parcelmerge",
		Short:   "Merge county parcel datasets into one metro dataset",
		Version: a.version,
		Long: `Parcelmerge combines the Anoka, Hennepin and Ramsey county parcel
datasets into one metro-wide dataset with a single canonical schema,
consistent units and a shared spatial reference.

Run without a subcommand to rebuild the combined dataset. The inspection
commands read source or combined datasets without modifying them.`,
		Args:              cobra.NoArgs,
		PersistentPreRunE: a.setupCommand,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return merge.Run(cmd.Context(), a, mergeFlags, cmd.OutOrStdout())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	mergeFlags = merge.AddFlags(rootCmd)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: "inspect", Title: "Inspection Commands:"})

	rootCmd.PersistentFlags().String("config", "", "config file (default is ./parcelmerge.yaml or $HOME/.parcelmerge.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringP("format", "o", "", "output format: table, json, yaml")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	rootCmd.PersistentFlags().String("output", "", "combined dataset path")

	rootCmd.SetVersionTemplate("parcelmerge {{.Version}}\n")
	a.registerCommands(rootCmd)
	return rootCmd
}

// setupCommand is called before any command runs. An explicit --config
// file is loaded first; flags set on the command line then override it.
// The flags modify a copy, so the loaded configuration outlives the run.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	config := *a.config
	if path := mustGetString(cmd, "config"); path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return err
		}
		config = *loaded
		config.ConfigFile = path
	}

	flags := cmd.Flags()
	verbose, quiet, noColor := config.Verbose, config.Quiet, false
	if flags.Changed("verbose") {
		verbose = mustGetBool(cmd, "verbose")
	}
	if flags.Changed("quiet") {
		quiet = mustGetBool(cmd, "quiet")
	}
	if flags.Changed("no-color") {
		noColor = mustGetBool(cmd, "no-color")
	}
	config.UpdateFromFlags(verbose, quiet, noColor,
		mustGetString(cmd, "format"),
		mustGetString(cmd, "log-level"),
		mustGetString(cmd, "output"),
	)
	a.config = &config

	if _, err := output.ParseFormat(a.config.Format); err != nil {
		return errors.WrapValidation("format", err)
	}

	logger := NewLogger(a.config)
	a.logger = &logger
	return a.refresh()
}

// ExitOnError prints an error and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
