// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"testgraph-cli/internal/issue"
	"testgraph-cli/internal/plan"
	"testgraph-cli/pkg/buildfile"
	"testgraph-cli/pkg/junittests"
)

const (
	outputText outputFormat = "text"
	outputJSON outputFormat = "json"
	outputYAML outputFormat = "yaml"
	outputTOML outputFormat = "toml"
)

var (
	// ErrInvalidOutputFormat is returned for an unknown --output value.
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrTargetNotFound is returned when a build file has no valid target by that name.
	ErrTargetNotFound = errors.New("target not found")
)

type (
	outputFormat string

	// tomlTarget is Settings reshaped for TOML, which has no null: unset
	// environment variables are listed separately.
	tomlTarget struct {
		Target          string            `toml:"target"`
		Concurrency     string            `toml:"concurrency"`
		Threads         int               `toml:"threads"`
		Cwd             string            `toml:"cwd"`
		TimeoutSeconds  int               `toml:"timeout_seconds"`
		RuntimePlatform string            `toml:"runtime_platform,omitempty"`
		JVMOptions      []string          `toml:"jvm_options"`
		Env             map[string]string `toml:"env"`
		UnsetEnv        []string          `toml:"unset_env,omitempty"`
		Dependencies    []string          `toml:"dependencies"`
		Sources         []string          `toml:"sources"`
		Fingerprint     string            `toml:"fingerprint"`
	}

	tomlDocument struct {
		Targets []tomlTarget `toml:"targets"`
	}
)

func (f outputFormat) IsValid() (bool, []error) {
	switch f {
	case outputText, outputJSON, outputYAML, outputTOML:
		return true, nil
	default:
		return false, []error{fmt.Errorf("%w %q (valid: text, json, yaml, toml)", ErrInvalidOutputFormat, string(f))}
	}
}

func newDescribeCommand(app *App) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "describe <BUILD.cue> [target]",
		Short: "Show the effective test settings of targets",
		Long: `Show the settings a test runner applies to junit_tests targets: the
declared fields merged with the configuration defaults.

Without a target name, every valid target in the file is described.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := outputFormat(output)
			if valid, errs := format.IsValid(); !valid {
				return errs[0]
			}
			name := ""
			if len(args) == 2 {
				name = args[1]
			}
			return runDescribe(app, cmd, args[0], name, format)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", string(outputText), "output format (text, json, yaml, toml)")
	return cmd
}

func runDescribe(app *App, cmd *cobra.Command, relPath, name string, format outputFormat) error {
	s, err := app.open(cmd.Context())
	if err != nil {
		return err
	}
	f, err := app.loadBuildFile(s, relPath)
	if err != nil {
		return err
	}

	targets := f.Targets
	if name != "" {
		t, err := app.lookupTarget(s, f, relPath, name)
		if err != nil {
			return err
		}
		targets = []*junittests.JUnitTests{t}
	}

	settings := make([]*plan.Settings, 0, len(targets))
	for _, t := range targets {
		st, err := s.resolver.Resolve(t)
		if err != nil {
			return err
		}
		settings = append(settings, st)
	}
	for _, inv := range f.Invalid {
		s.logger.Warn("skipping invalid target", "path", relPath, "error", inv.Error())
	}

	return writeSettings(app.stdout, settings, format)
}

// lookupTarget finds name among the valid targets of f.
func (a *App) lookupTarget(s *session, f *buildfile.File, relPath, name string) (*junittests.JUnitTests, error) {
	if t, ok := f.Lookup(name); ok {
		return t, nil
	}
	a.renderIssue(issue.TargetNotFoundId, s.cfg.UI.ColorScheme)
	ctx := issue.NewErrorContext().
		WithOperation("find target").
		WithResource(buildfile.SpecPathOf(relPath) + ":" + name).
		Wrap(ErrTargetNotFound)
	if names := targetNames(f); len(names) > 0 {
		ctx = ctx.WithSuggestion("Valid targets: " + strings.Join(names, ", "))
	}
	return nil, ctx.BuildError()
}

func writeSettings(w io.Writer, settings []*plan.Settings, format outputFormat) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(settings)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(settings); err != nil {
			return err
		}
		return enc.Close()
	case outputTOML:
		doc := tomlDocument{Targets: make([]tomlTarget, len(settings))}
		for i, st := range settings {
			doc.Targets[i] = toTOML(st)
		}
		return toml.NewEncoder(w).Encode(doc)
	case outputText:
		for i, st := range settings {
			if i > 0 {
				fmt.Fprintln(w)
			}
			writeText(w, st)
		}
		return nil
	default:
		_, errs := format.IsValid()
		return errs[0]
	}
}

func writeText(w io.Writer, st *plan.Settings) {
	field := func(key, value string) {
		fmt.Fprintf(w, "  %s: %s\n", KeyStyle.Render(key), value)
	}
	list := func(key string, items []string) {
		if len(items) == 0 {
			field(key, SubtitleStyle.Render("(none)"))
			return
		}
		fmt.Fprintf(w, "  %s:\n", KeyStyle.Render(key))
		for _, item := range items {
			fmt.Fprintf(w, "    - %s\n", item)
		}
	}

	fmt.Fprintln(w, TitleStyle.Render(st.Target))
	field("concurrency", string(st.Concurrency))
	field("threads", fmt.Sprint(st.Threads))
	if st.Cwd == "" {
		field("cwd", SubtitleStyle.Render("(build root)"))
	} else {
		field("cwd", st.Cwd)
	}
	if st.TimeoutSeconds == 0 {
		field("timeout", SubtitleStyle.Render("(none)"))
	} else {
		field("timeout", fmt.Sprintf("%ds", st.TimeoutSeconds))
	}
	if st.RuntimePlatform != nil {
		field("runtime_platform", st.RuntimePlatform.Name)
	}
	list("jvm_options", st.JVMOptions)
	env := make([]string, len(st.Env))
	for i, e := range st.Env {
		env[i] = e.String()
	}
	list("env", env)
	deps := make([]string, len(st.Dependencies))
	for i, d := range st.Dependencies {
		deps[i] = d.String()
	}
	list("dependencies", deps)
	list("sources", st.Sources)
	field("fingerprint", st.Fingerprint)
}

func toTOML(st *plan.Settings) tomlTarget {
	t := tomlTarget{
		Target:         st.Target,
		Concurrency:    string(st.Concurrency),
		Threads:        st.Threads,
		Cwd:            st.Cwd,
		TimeoutSeconds: st.TimeoutSeconds,
		JVMOptions:     st.JVMOptions,
		Env:            make(map[string]string, len(st.Env)),
		Dependencies:   make([]string, len(st.Dependencies)),
		Sources:        st.Sources,
		Fingerprint:    st.Fingerprint,
	}
	if st.RuntimePlatform != nil {
		t.RuntimePlatform = st.RuntimePlatform.Name
	}
	for _, e := range st.Env {
		if e.Unset() {
			t.UnsetEnv = append(t.UnsetEnv, e.Name)
			continue
		}
		t.Env[e.Name] = *e.Value
	}
	for i, d := range st.Dependencies {
		t.Dependencies[i] = d.String()
	}
	if t.Sources == nil {
		t.Sources = []string{}
	}
	return t
}
