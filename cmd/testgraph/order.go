// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"testgraph-cli/pkg/junittests"
)

func newOrderCommand(app *App) *cobra.Command {
	var dependentsOf string
	cmd := &cobra.Command{
		Use:   "order <BUILD.cue>...",
		Short: "Print targets and their dependencies in build order",
		Long: `Print every valid target of the given build files, and everything they
depend on, so that each entry comes after all of its dependencies.

With --dependents-of, print only the targets that depend on the given
address, directly or transitively.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.open(cmd.Context())
			if err != nil {
				return err
			}
			var targets []*junittests.JUnitTests
			for _, relPath := range args {
				f, err := app.loadBuildFile(s, relPath)
				if err != nil {
					return err
				}
				for _, inv := range f.Invalid {
					s.logger.Warn("skipping invalid target", "path", relPath, "error", inv.Error())
				}
				targets = append(targets, f.Targets...)
			}

			if dependentsOf != "" {
				g, err := s.resolver.Graph(targets)
				if err != nil {
					return err
				}
				writeLines(app.stdout, g.Reachable(dependentsOf))
				return nil
			}

			order, err := s.resolver.Order(targets)
			if err != nil {
				return err
			}
			writeLines(app.stdout, order)
			return nil
		},
	}
	cmd.Flags().StringVar(&dependentsOf, "dependents-of", "", "canonical address whose dependents to print, e.g. //:junit_library")
	return cmd
}
