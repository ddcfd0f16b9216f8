// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"testgraph-cli/internal/issue"
	"testgraph-cli/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "testgraph"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "TESTGRAPH"
)

//go:embed config_schema.cue
var configSchema []byte

// ConfigDir returns the testgraph configuration directory inside the
// platform's user configuration directory.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// newViper returns a Viper instance holding the defaults and wired to the
// environment.
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("junit.default_concurrency", string(defaults.JUnit.DefaultConcurrency))
	v.SetDefault("junit.parallel_threads", defaults.JUnit.ParallelThreads)
	v.SetDefault("junit.timeouts", defaults.JUnit.Timeouts)
	v.SetDefault("junit.timeout_default", defaults.JUnit.TimeoutDefault)
	v.SetDefault("junit.timeout_maximum", defaults.JUnit.TimeoutMaximum)
	v.SetDefault("junit.cwd", defaults.JUnit.Cwd)
	v.SetDefault("junit.injectables", defaults.JUnit.Injectables)
	v.SetDefault("jvm_platform.platforms", defaults.JVMPlatform.Platforms)
	v.SetDefault("jvm_platform.default_platform", defaults.JVMPlatform.DefaultPlatform)
	v.SetDefault("jvm_platform.default_runtime_platform", defaults.JVMPlatform.DefaultRuntimePlatform)
	v.SetDefault("ui.color_scheme", string(defaults.UI.ColorScheme))
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// loadWithOptions performs option-driven config loading: defaults, then the
// config file, then environment overrides.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := newViper()

	resolvedPath, err := resolveConfigFile(opts)
	if err != nil {
		return nil, "", err
	}
	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Use 'testgraph config dump' to print a valid default file").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Make jvm_platform.default_platform and default_runtime_platform name platforms defined under jvm_platform.platforms").
			WithSuggestion("Check " + EnvPrefix + "_* environment overrides").
			Wrap(errors.Join(errs...)).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// resolveConfigFile picks the file to load: the explicit path, else
// config.cue in the config directory, else ./config.cue. "" means none exists.
func resolveConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'testgraph config show' to see the effective configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	cfgDir := opts.ConfigDirPath
	if cfgDir == "" {
		var err error
		if cfgDir, err = ConfigDir(); err != nil {
			return "", err
		}
	}

	name := ConfigFileName + "." + ConfigFileExt
	for _, candidate := range []string{filepath.Join(cfgDir, name), name} {
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	return "", nil
}

// loadCUEIntoViper validates the CUE file at path against #Config and merges
// it into v. Fields are optional, so values need not be concrete.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if int64(len(data)) > cueutil.DefaultMaxFileSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", path, len(data), cueutil.DefaultMaxFileSize)
	}

	unified, err := cueutil.Unify(cuecontext.New(), configSchema, data, "#Config", path)
	if err != nil {
		return err
	}
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.NewInputError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.NewInputError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// GenerateCUE renders cfg as a config file that loads back to the same values.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// testgraph configuration\n\n")

	sb.WriteString("junit: {\n")
	fmt.Fprintf(&sb, "\tdefault_concurrency: %q\n", string(cfg.JUnit.DefaultConcurrency))
	fmt.Fprintf(&sb, "\tparallel_threads:    %d\n", cfg.JUnit.ParallelThreads)
	fmt.Fprintf(&sb, "\ttimeouts:            %v\n", cfg.JUnit.Timeouts)
	fmt.Fprintf(&sb, "\ttimeout_default:     %d\n", cfg.JUnit.TimeoutDefault)
	fmt.Fprintf(&sb, "\ttimeout_maximum:     %d\n", cfg.JUnit.TimeoutMaximum)
	fmt.Fprintf(&sb, "\tcwd:                 %q\n", cfg.JUnit.Cwd)
	if len(cfg.JUnit.Injectables) > 0 {
		sb.WriteString("\tinjectables: {\n")
		for _, key := range sortedKeys(cfg.JUnit.Injectables) {
			fmt.Fprintf(&sb, "\t\t%q: %s\n", key, cueStringList(cfg.JUnit.Injectables[key]))
		}
		sb.WriteString("\t}\n")
	}
	sb.WriteString("}\n")

	sb.WriteString("\njvm_platform: {\n")
	if len(cfg.JVMPlatform.Platforms) > 0 {
		sb.WriteString("\tplatforms: {\n")
		for _, name := range sortedKeys(cfg.JVMPlatform.Platforms) {
			p := cfg.JVMPlatform.Platforms[name]
			fmt.Fprintf(&sb, "\t\t%q: {source: %q, target: %q, args: %s}\n", name, p.Source, p.Target, cueStringList(p.Args))
		}
		sb.WriteString("\t}\n")
	}
	fmt.Fprintf(&sb, "\tdefault_platform:         %q\n", cfg.JVMPlatform.DefaultPlatform)
	fmt.Fprintf(&sb, "\tdefault_runtime_platform: %q\n", cfg.JVMPlatform.DefaultRuntimePlatform)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", string(cfg.UI.ColorScheme))
	fmt.Fprintf(&sb, "\tverbose:      %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}

func cueStringList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
