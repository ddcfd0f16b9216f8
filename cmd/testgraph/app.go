// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"

	"testgraph-cli/internal/config"
	"testgraph-cli/internal/issue"
	"testgraph-cli/internal/plan"
	"testgraph-cli/pkg/buildfile"
	"testgraph-cli/pkg/cueutil"
	"testgraph-cli/pkg/deprecation"
	"testgraph-cli/pkg/junittests"
)

type (
	// App wires CLI services and shared dependencies. All Cobra handlers
	// receive an App and load configuration and build files through it.
	App struct {
		Config config.Provider
		stdout io.Writer
		stderr io.Writer

		// flags bound by the root command
		verbose   bool
		cfgFile   string
		buildRoot string
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Stdout io.Writer
		Stderr io.Writer
	}

	// session is what a command needs after configuration is loaded.
	session struct {
		cfg      *config.Config
		logger   *log.Logger
		resolver *plan.Resolver
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:    deps.Config,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
		buildRoot: ".",
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// newLogger returns the stderr logger. Warnings always show; --verbose adds
// debug output.
func (a *App) newLogger(verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(a.stderr, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
}

// open loads the configuration and builds the resolver every build-file
// command shares.
func (a *App) open(ctx context.Context) (*session, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.cfgFile})
	if err != nil {
		a.renderIssue(issue.ConfigLoadFailedId, config.ColorSchemeAuto)
		return nil, err
	}
	applyColorScheme(cfg.UI.ColorScheme)
	if !a.verbose {
		a.verbose = cfg.UI.Verbose
	}

	logger := a.newLogger(a.verbose)
	resolver, err := plan.NewResolver(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare target resolution: %w", err)
	}
	logger.Debug("configuration loaded", "build_root", a.buildRoot, "platforms", len(cfg.JVMPlatform.Platforms))
	return &session{cfg: cfg, logger: logger, resolver: resolver}, nil
}

// loadBuildFile reads relPath below the build root. Deprecated fields are
// reported on the session logger.
func (a *App) loadBuildFile(s *session, relPath string) (*buildfile.File, error) {
	f, err := buildfile.Load(a.buildRoot, relPath,
		junittests.WithDeprecationSink(deprecation.NewLogSink(s.logger)))
	if err == nil {
		s.logger.Debug("build file loaded", "path", relPath,
			"targets", len(f.Targets), "invalid", len(f.Invalid))
		return f, nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		a.renderIssue(issue.BuildFileNotFoundId, s.cfg.UI.ColorScheme)
		return nil, issue.NewErrorContext().
			WithOperation("load build file").
			WithResource(relPath).
			WithSuggestion("Check the path is relative to the build root (" + a.buildRoot + ")").
			Wrap(err).
			BuildError()
	}
	if errors.Is(err, cueutil.ErrInvalidInput) {
		a.renderIssue(issue.BuildFileParseErrorId, s.cfg.UI.ColorScheme)
		return nil, issue.NewErrorContext().
			WithOperation("parse build file").
			WithResource(relPath).
			WithSuggestion("The top level may only hold a junit_tests list").
			Wrap(err).
			BuildError()
	}
	return nil, err
}

// renderIssue prints the catalog entry for id in verbose mode.
func (a *App) renderIssue(id issue.Id, scheme config.ColorScheme) {
	if !a.verbose {
		return
	}
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, err := entry.Render(string(scheme))
	if err != nil {
		fmt.Fprintln(a.stderr, entry.Markdown())
		return
	}
	fmt.Fprint(a.stderr, rendered)
}
