// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"testgraph-cli/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "testgraph",
		Short: "Inspect junit_tests targets declared in BUILD.cue files",
		Long: TitleStyle.Render("testgraph") + SubtitleStyle.Render(" - Inspect junit_tests targets") + `

testgraph loads the junit_tests targets declared in BUILD.cue files,
checks them and shows the settings a test runner would apply.

` + SubtitleStyle.Render("Examples:") + `
  testgraph validate src/test/java/BUILD.cue
  testgraph describe src/test/java/BUILD.cue unit --output json
  testgraph deps src/test/java/BUILD.cue unit
  testgraph order src/test/java/BUILD.cue
  testgraph config show`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.cfgFile, "config", "", "config file (default is <user config dir>/testgraph/config.cue)")
	rootCmd.PersistentFlags().StringVar(&app.buildRoot, "root", ".", "build root that BUILD.cue paths are relative to")

	rootCmd.AddCommand(
		newValidateCommand(app),
		newDescribeCommand(app),
		newDepsCommand(app),
		newOrderCommand(app),
		newConfigCommand(app),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits the process. It is called by main.main().
func Execute() {
	os.Exit(Run(context.Background(), os.Args[1:]))
}

// Run executes the CLI with args and returns the process exit code.
func Run(ctx context.Context, args []string) int {
	app := NewApp(Dependencies{})
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)

	if err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		return 1
	}
	return 0
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// render their suggestions; verbose mode adds the error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
