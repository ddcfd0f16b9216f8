// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"testgraph-cli/internal/config"
	"testgraph-cli/internal/issue"
)

// newConfigCommand creates the `testgraph config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect testgraph configuration",
		Long: `Inspect testgraph configuration.

Configuration is read from the --config file, else from config.cue in:
  - Linux: ~/.config/testgraph/
  - macOS: ~/Library/Application Support/testgraph/
  - Windows: %AppData%\testgraph\
else from ./config.cue. TESTGRAPH_* environment variables override file
values, e.g. TESTGRAPH_JUNIT_TIMEOUT_DEFAULT=300.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: app.cfgFile})
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgDir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
			fmt.Fprintf(app.stdout, "Config file: %s\n", filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, path, err := config.LoadWithPath(ctx, config.LoadOptions{ConfigFilePath: app.cfgFile})
	if err != nil {
		app.renderIssue(issue.ConfigLoadFailedId, config.ColorSchemeAuto)
		return err
	}

	w := app.stdout
	field := func(key string, value any) {
		fmt.Fprintf(w, "  %s: %s\n", KeyStyle.Render(key), SuccessStyle.Render(fmt.Sprint(value)))
	}
	section := func(name string) {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s:\n", KeyStyle.Render(name))
	}

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if path == "" {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), path)
	}

	section("junit")
	field("default_concurrency", cfg.JUnit.DefaultConcurrency)
	field("parallel_threads", cfg.JUnit.ParallelThreads)
	field("timeouts", cfg.JUnit.Timeouts)
	field("timeout_default", cfg.JUnit.TimeoutDefault)
	field("timeout_maximum", cfg.JUnit.TimeoutMaximum)
	field("cwd", cfg.JUnit.Cwd)
	keys := make([]string, 0, len(cfg.JUnit.Injectables))
	for key := range cfg.JUnit.Injectables {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		field("injectables."+key, strings.Join(cfg.JUnit.Injectables[key], ", "))
	}

	section("jvm_platform")
	names := make([]string, 0, len(cfg.JVMPlatform.Platforms))
	for name := range cfg.JVMPlatform.Platforms {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(no platforms configured)"))
	}
	for _, name := range names {
		p := cfg.JVMPlatform.Platforms[name]
		field("platforms."+name, fmt.Sprintf("source=%s target=%s args=[%s]", p.Source, p.Target, strings.Join(p.Args, " ")))
	}
	field("default_platform", cfg.JVMPlatform.DefaultPlatform)
	field("default_runtime_platform", cfg.JVMPlatform.DefaultRuntimePlatform)

	section("ui")
	field("color_scheme", cfg.UI.ColorScheme)
	field("verbose", cfg.UI.Verbose)
	return nil
}
