// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"testgraph-cli/internal/issue"
	"testgraph-cli/pkg/buildfile"
	"testgraph-cli/pkg/junittests"
	"testgraph-cli/pkg/jvmplatform"
)

// errValidationFailed is reported when any build file has problems.
var errValidationFailed = errors.New("validation failed")

func newValidateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <BUILD.cue>...",
		Short: "Check junit_tests targets in build files",
		Long: `Load each build file and report every junit_tests entry that cannot be
built, including runtime platforms missing from the configuration.

Exits with status 1 when any problem is found.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(app, cmd, args)
		},
	}
}

func runValidate(app *App, cmd *cobra.Command, paths []string) error {
	s, err := app.open(cmd.Context())
	if err != nil {
		return err
	}

	var problems int
	var sawInvalid, sawUnknownPlatform bool
	var valid []*junittests.JUnitTests
	for _, relPath := range paths {
		f, err := app.loadBuildFile(s, relPath)
		if err != nil {
			problems++
			fmt.Fprintf(app.stdout, "%s %s\n", ErrorStyle.Render("✗"), relPath)
			fmt.Fprintln(app.stdout, indent(formatErrorForDisplay(err, app.verbose)))
			continue
		}

		var fileProblems []string
		for _, inv := range f.Invalid {
			sawInvalid = true
			fileProblems = append(fileProblems, inv.Error())
		}
		valid = append(valid, f.Targets...)
		for _, t := range f.Targets {
			if _, err := s.resolver.Resolve(t); err != nil {
				if errors.Is(err, jvmplatform.ErrUnknownPlatform) {
					sawUnknownPlatform = true
				}
				fileProblems = append(fileProblems, err.Error())
			}
		}

		if len(fileProblems) == 0 {
			fmt.Fprintf(app.stdout, "%s %s: %d target(s) valid\n",
				SuccessStyle.Render("✓"), relPath, len(f.Targets))
			continue
		}
		problems += len(fileProblems)
		fmt.Fprintf(app.stdout, "%s %s: %d problem(s)\n", ErrorStyle.Render("✗"), relPath, len(fileProblems))
		for _, p := range fileProblems {
			fmt.Fprintln(app.stdout, indent("- "+p))
		}
	}

	if _, err := s.resolver.Order(valid); err != nil {
		problems++
		fmt.Fprintf(app.stdout, "%s %s\n", ErrorStyle.Render("✗"), err)
	}

	if sawInvalid {
		app.renderIssue(issue.InvalidTargetId, s.cfg.UI.ColorScheme)
	}
	if sawUnknownPlatform {
		app.renderIssue(issue.UnknownPlatformId, s.cfg.UI.ColorScheme)
	}
	if problems > 0 {
		return &ExitError{Code: 1, Err: fmt.Errorf("%w: %d problem(s)", errValidationFailed, problems)}
	}
	return nil
}

// indent prefixes every line of s with two spaces.
func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}

// targetNames lists the valid targets of f for "did you mean" output.
func targetNames(f *buildfile.File) []string {
	names := make([]string, len(f.Targets))
	for i, t := range f.Targets {
		names[i] = t.Address().Name
	}
	return names
}

// writeLines prints one item per line.
func writeLines[S ~string](w io.Writer, items []S) {
	for _, item := range items {
		fmt.Fprintln(w, string(item))
	}
}
