// Package completion provides the shell completion command.
package completion

import (
	"io"

	"github.com/spf13/cobra"
)

// Shells supported by the completion command.
const (
	Bash       = "bash"
	Zsh        = "zsh"
	Fish       = "fish"
	PowerShell = "powershell"
)

type generator struct {
	shell string
	load  string
	gen   func(root *cobra.Command, w io.Writer) error
}

var generators = []generator{
	{
		shell: Bash,
		load:  "source <(parcelmerge completion bash)",
		gen:   func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	},
	{
		shell: Zsh,
		load:  "source <(parcelmerge completion zsh)",
		gen:   func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	},
	{
		shell: Fish,
		load:  "parcelmerge completion fish | source",
		gen:   func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	},
	{
		shell: PowerShell,
		load:  "parcelmerge completion powershell | Out-String | Invoke-Expression",
		gen:   func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
	},
}

// NewCommand creates the completion command. It replaces cobra's default
// so every shell gets the same help layout.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completion scripts",
		Long: `Generate the autocompletion script for parcelmerge.

Each subcommand writes a script for one shell to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	for _, g := range generators {
		cmd.AddCommand(newShellCommand(g))
	}
	return cmd
}

func newShellCommand(g generator) *cobra.Command {
	return &cobra.Command{
		Use:   g.shell,
		Short: "Generate " + g.shell + " completion script",
		Long: `Generate the autocompletion script for ` + g.shell + `.

To load completions in your current shell session:

  ` + g.load,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.gen(cmd.Root(), cmd.OutOrStdout())
		},
	}
}
