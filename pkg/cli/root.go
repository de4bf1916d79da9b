package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// NewRootCommand builds the koenote-proxy command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "koenote-proxy",
		Short: "Same-origin proxy for the koenote recording backend",
		Long: `koenote-proxy forwards the koenote UI's API calls to the recording backend
and relays the JSON responses unchanged.

In development mode a failed backend call is answered with a mock payload of
the expected shape, so the UI can be worked on without a reachable backend.

Configuration is read from koenote.yaml or koenote.toml, a .env file,
KOENOTE_* environment variables and flags, in increasing precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("json", false, "Output command results in JSON format")

	root.AddCommand(
		newServeCommand(),
		newConfigCommand(),
		newRoutesCommand(),
		newMockCommand(),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}
