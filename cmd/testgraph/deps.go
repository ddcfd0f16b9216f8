// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"iter"
	"slices"

	"github.com/spf13/cobra"

	"testgraph-cli/pkg/buildfile"
	"testgraph-cli/pkg/target"
)

func newDepsCommand(app *App) *cobra.Command {
	var (
		noInjected bool
		resolve    bool
	)
	cmd := &cobra.Command{
		Use:   "deps <BUILD.cue> <target>",
		Short: "List the dependencies of a target",
		Long: `List a target's declared dependencies in declaration order, followed by
the test-framework libraries injected from junit.injectables.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.open(cmd.Context())
			if err != nil {
				return err
			}
			f, err := app.loadBuildFile(s, args[0])
			if err != nil {
				return err
			}
			t, err := app.lookupTarget(s, f, args[0], args[1])
			if err != nil {
				return err
			}

			var specs iter.Seq[target.AddressSpec]
			if noInjected {
				specs = t.DependencyAddressSpecs()
			} else {
				specs = t.DependencyAddressSpecsWithInjected(s.resolver.Injector())
			}
			if !resolve {
				writeLines(app.stdout, slices.Collect(specs))
				return nil
			}

			specPath := buildfile.SpecPathOf(args[0])
			for spec := range specs {
				addr, err := target.ParseAddressSpec(spec, specPath)
				if err != nil {
					return fmt.Errorf("dependency of %s: %w", t.Address(), err)
				}
				fmt.Fprintln(app.stdout, addr.Spec())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noInjected, "no-injected", false, "omit injected test-framework libraries")
	cmd.Flags().BoolVar(&resolve, "resolve", false, "print canonical addresses, resolving relative specs")
	return cmd
}
