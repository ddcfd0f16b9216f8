// SPDX-License-Identifier: MPL-2.0

package buildfile

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"github.com/spf13/cast"

	"testgraph-cli/pkg/cueutil"
	"testgraph-cli/pkg/junittests"
	"testgraph-cli/pkg/target"
)

// FileName is the conventional build file name.
const FileName = "BUILD.cue"

//go:embed buildfile_schema.cue
var schema []byte

// ErrDuplicateTarget is returned for the second declaration of a target name.
var ErrDuplicateTarget = errors.New("duplicate target name")

type (
	// File is a loaded build file.
	File struct {
		// Filename is the path the file was read from.
		Filename string
		// SpecPath is the file's directory relative to the build root
		// ("" for the root itself).
		SpecPath string
		// Targets holds every valid target in declaration order.
		Targets []*junittests.JUnitTests
		// Invalid holds the entries that could not be built.
		Invalid []InvalidTarget
	}

	// InvalidTarget is a junit_tests entry that failed validation.
	InvalidTarget struct {
		// Index is the entry's position under junit_tests.
		Index int
		// Name is the declared name, if one could be read.
		Name string
		Err  error
	}

	rawFile struct {
		JUnitTests []map[string]any `json:"junit_tests"`
	}
)

// Error implements the error interface for InvalidTarget.
func (t InvalidTarget) Error() string {
	return fmt.Sprintf("junit_tests[%d]: %v", t.Index, t.Err)
}

// Unwrap returns the underlying validation error.
func (t InvalidTarget) Unwrap() error { return t.Err }

// Load reads the build file at relPath below buildRoot.
func Load(buildRoot, relPath string, opts ...junittests.Option) (*File, error) {
	filename := filepath.Join(buildRoot, relPath)
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read build file at %s: %w", filename, err)
	}
	return Parse(data, filename, SpecPathOf(relPath), opts...)
}

// SpecPathOf returns the spec path of the build file at relPath.
func SpecPathOf(relPath string) string {
	dir := path.Dir(filepath.ToSlash(relPath))
	if dir == "." || dir == "/" {
		return ""
	}
	return strings.TrimPrefix(dir, "./")
}

// Parse decodes data and builds its targets. Only a malformed document is
// an error; invalid entries are collected in File.Invalid.
func Parse(data []byte, filename, specPath string, opts ...junittests.Option) (*File, error) {
	res, err := cueutil.Decode[rawFile](schema, data, "#BuildFile", cueutil.WithFilename(filename))
	if err != nil {
		return nil, err
	}

	f := &File{Filename: filename, SpecPath: specPath}
	entryDef := res.Unified.Context().CompileBytes(schema).LookupPath(cue.ParsePath("#JUnitTests"))

	tests := res.Unified.LookupPath(cue.ParsePath("junit_tests"))
	if !tests.Exists() {
		return f, nil
	}
	list, err := tests.List()
	if err != nil {
		return nil, cueutil.NewInputError(err, filename)
	}

	seen := make(map[string]bool)
	for i := 0; list.Next(); i++ {
		entry := list.Value()
		name, _ := entry.LookupPath(cue.ParsePath("name")).String()

		unified := entryDef.Unify(entry)
		if err := unified.Validate(cue.Concrete(true)); err != nil {
			f.Invalid = append(f.Invalid, InvalidTarget{Index: i, Name: name, Err: cueutil.NewInputError(err, fmt.Sprintf("%s: junit_tests[%d]", filename, i))})
			continue
		}

		address := target.Address{SpecPath: specPath, Name: name}
		if seen[name] {
			f.Invalid = append(f.Invalid, InvalidTarget{Index: i, Name: name, Err: &target.TargetDefinitionError{
				Address: address, Message: ErrDuplicateTarget.Error(), Cause: ErrDuplicateTarget,
			}})
			continue
		}
		seen[name] = true

		args, err := argsFromEntry(address, res.Value.JUnitTests[i])
		if err == nil {
			var j *junittests.JUnitTests
			if j, err = junittests.New(address, args, opts...); err == nil {
				f.Targets = append(f.Targets, j)
				continue
			}
		}
		f.Invalid = append(f.Invalid, InvalidTarget{Index: i, Name: name, Err: err})
	}
	return f, nil
}

// Lookup returns the valid target named name.
func (f *File) Lookup(name string) (*junittests.JUnitTests, bool) {
	for _, t := range f.Targets {
		if t.Address().Name == name {
			return t, true
		}
	}
	return nil, false
}

// argsFromEntry pulls the junit_tests arguments out of a decoded entry. Every
// other key is passed through as a generic field, preserving presence.
func argsFromEntry(address target.Address, entry map[string]any) (junittests.Args, error) {
	fields := target.Fields(entry).Clone()
	delete(fields, "name")

	var args junittests.Args
	var err error
	fail := func(key string, cause error) (junittests.Args, error) {
		return junittests.Args{}, &target.TargetDefinitionError{
			Address: address,
			Message: fmt.Sprintf("field %q: %v", key, cause),
			Cause:   cause,
		}
	}

	if v, ok := fields.Pop(junittests.FieldCwd); ok {
		if args.Cwd, err = cast.ToStringE(v); err != nil {
			return fail(junittests.FieldCwd, err)
		}
	}
	if v, ok := fields.Pop(junittests.FieldTimeout); ok && v != nil {
		n, err := cast.ToIntE(v)
		if err != nil {
			return fail(junittests.FieldTimeout, err)
		}
		args.Timeout = &n
	}
	if v, ok := fields.Pop(junittests.FieldExtraJVMOptions); ok {
		if args.ExtraJVMOptions, err = cast.ToStringSliceE(v); err != nil {
			return fail(junittests.FieldExtraJVMOptions, err)
		}
	}
	if v, ok := fields.Pop(junittests.FieldExtraEnvVars); ok {
		if args.ExtraEnvVars, err = cast.ToStringMapE(v); err != nil {
			return fail(junittests.FieldExtraEnvVars, err)
		}
	}
	if v, ok := fields.Pop(junittests.FieldConcurrency); ok {
		s, err := cast.ToStringE(v)
		if err != nil {
			return fail(junittests.FieldConcurrency, err)
		}
		args.Concurrency = junittests.ConcurrencyMode(s)
	}
	if v, ok := fields.Pop(junittests.FieldThreads); ok {
		args.Threads = v
	}
	if v, ok := fields.Pop(target.FieldRuntimePlatform); ok {
		if args.RuntimePlatform, err = cast.ToStringE(v); err != nil {
			return fail(target.FieldRuntimePlatform, err)
		}
	}

	args.Fields = fields
	return args, nil
}
