// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

// Id identifies a catalog entry.
type Id int

const (
	BuildFileNotFoundId Id = iota + 1
	BuildFileParseErrorId
	InvalidTargetId
	TargetNotFoundId
	ConfigLoadFailedId
	UnknownPlatformId
	DeprecatedFieldId
)

type (
	// MarkdownMsg is the Markdown body of an issue.
	MarkdownMsg string

	// HttpLink points at further documentation.
	HttpLink string

	// Issue is a catalog entry.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

func (i *Issue) Id() Id { return i.id }

func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

func (i *Issue) DocLinks() []HttpLink { return slices.Clone(i.docLinks) }

// Markdown returns the message with a "See also" section when links exist.
func (i *Issue) Markdown() string {
	if len(i.docLinks) == 0 {
		return string(i.mdMsg)
	}
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	sb.WriteString("\n\n## See also\n")
	for _, link := range i.docLinks {
		sb.WriteString("- <" + string(link) + ">\n")
	}
	return sb.String()
}

// Render renders the issue for a terminal using the glamour style at stylePath
// (a style name such as "dark" or "notty", or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var (
	render = glamour.Render

	issues = map[Id]*Issue{
		BuildFileNotFoundId: {
			id: BuildFileNotFoundId,
			mdMsg: `
# Build file not found!

No BUILD.cue file exists at the path you gave.

## Things you can try:
- Pass the path relative to the build root, e.g. ` + "`src/test/java/BUILD.cue`" + `
- Use ` + "`--root`" + ` to point at the directory your spec paths are relative to`,
		},
		BuildFileParseErrorId: {
			id: BuildFileParseErrorId,
			mdMsg: `
# Failed to parse build file!

The file is not valid CUE, or its top level does not match the build file schema.

## Common issues:
- Missing quotes or braces
- Top-level keys other than ` + "`junit_tests`" + `
- ` + "`junit_tests`" + ` not being a list

## Example:
~~~cue
junit_tests: [
	{
		name:         "unit"
		dependencies: [":lib"]
		concurrency:  "PARALLEL_CLASSES"
		threads:      4
	},
]
~~~`,
		},
		InvalidTargetId: {
			id: InvalidTargetId,
			mdMsg: `
# Invalid junit_tests target!

A target declaration broke one of the junit_tests rules.

## Rules:
- ` + "`concurrency`" + ` must be one of SERIAL, PARALLEL_CLASSES, PARALLEL_METHODS, PARALLEL_CLASSES_AND_METHODS
- ` + "`threads`" + ` must be an integer
- ` + "`runtime_platform`" + ` and the deprecated ` + "`test_platform`" + ` cannot both be set
- every other key must be a known target field`,
		},
		TargetNotFoundId: {
			id: TargetNotFoundId,
			mdMsg: `
# Target not found!

The build file loaded, but no valid target has that name.

## Things you can try:
- List the targets with ` + "`testgraph describe <BUILD.cue>`" + `
- Check ` + "`testgraph validate`" + `: invalid targets are skipped`,
		},
		ConfigLoadFailedId: {
			id: ConfigLoadFailedId,
			mdMsg: `
# Failed to load configuration!

## Things you can try:
- Print the effective configuration with ` + "`testgraph config show`" + `
- Write a fresh default file with ` + "`testgraph config dump > config.cue`" + `
- Check environment overrides starting with ` + "`TESTGRAPH_`",
		},
		UnknownPlatformId: {
			id: UnknownPlatformId,
			mdMsg: `
# Unknown JVM platform!

A target names a platform that is not defined under ` + "`jvm_platform.platforms`" + `.

## Things you can try:
- Add the platform to your config file
- Remove ` + "`runtime_platform`" + ` to use the default runtime platform`,
		},
		DeprecatedFieldId: {
			id: DeprecatedFieldId,
			mdMsg: `
# Deprecated field in use

` + "`test_platform`" + ` is replaced by ` + "`runtime_platform`" + ` and will be removed in 1.28.0.dev0.

## Fix:
Rename the field; the value stays the same.`,
		},
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	values := maps.Values(issues)
	slices.SortFunc(values, func(a, b *Issue) int {
		return cmp.Compare(a.id, b.id)
	})
	return values
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
