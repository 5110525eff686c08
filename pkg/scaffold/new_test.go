package scaffold_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grumpyproject/grumpy/pkg/cargotest"
	"github.com/grumpyproject/grumpy/pkg/catalog"
	"github.com/grumpyproject/grumpy/pkg/manifest"
	"github.com/grumpyproject/grumpy/pkg/scaffold"
)

func newTestProject(t *testing.T, name string, kind catalog.Kind, opts ...scaffold.Option) (*scaffold.Project, string) {
	t.Helper()

	base := t.TempDir()

	opts = append([]scaffold.Option{scaffold.WithCreator(&cargotest.FakeCreator{})}, opts...)

	p, err := scaffold.NewProject(base, name, kind, opts...)
	require.NoError(t, err)

	return p, base
}

func readManifest(t *testing.T, p *scaffold.Project) *manifest.Document {
	t.Helper()

	data, err := os.ReadFile(p.ManifestPath())
	require.NoError(t, err)

	doc, err := manifest.Parse(data)
	require.NoError(t, err)

	return doc
}

func TestProjectNew_Executable(t *testing.T) {
	t.Parallel()

	p, _ := newTestProject(t, "demo", catalog.KindExecutable)

	var events []any
	p.Subscribe(func(evt any) {
		events = append(events, evt)
	})

	require.NoError(t, p.New())
	assert.Equal(t, scaffold.StateDone, p.State())

	doc := readManifest(t, p)

	deps := doc.Section("dependencies")
	require.NotNil(t, deps)

	for _, d := range catalog.Dependencies {
		v, ok := deps.Get(d.Name)
		require.True(t, ok, "dependency %q should be present", d.Name)

		s, _ := v.AsString()
		assert.Equal(t, d.Version, s)
	}

	bins := doc.ArraySections("bin")
	require.Len(t, bins, 1)

	name, ok := bins[0].Get("name")
	require.True(t, ok)
	s, _ := name.AsString()
	assert.Equal(t, "demo", s, "bin target should match the project name")

	harness, err := os.ReadFile(filepath.Join(p.Root(), "src", "main.rs"))
	require.NoError(t, err)
	assert.Equal(t, catalog.HarnessSource, string(harness))

	require.NotEmpty(t, events)
	assert.IsType(t, scaffold.EventCreated{}, events[0])
	assert.IsType(t, scaffold.EventDone{}, events[len(events)-1])

	done, ok := events[len(events)-1].(scaffold.EventDone)
	require.True(t, ok)
	assert.NoError(t, done.Err)
}

func TestProjectNew_Idempotent(t *testing.T) {
	t.Parallel()

	p, _ := newTestProject(t, "demo", catalog.KindExecutable)

	require.NoError(t, p.New())

	first, err := os.ReadFile(p.ManifestPath())
	require.NoError(t, err)

	require.NoError(t, p.New())

	second, err := os.ReadFile(p.ManifestPath())
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second), "second run must not change the manifest")
}

func TestProjectNew_PreservesPinnedDependency(t *testing.T) {
	t.Parallel()

	p, base := newTestProject(t, "demo", catalog.KindExecutable)

	root := filepath.Join(base, "demo")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Cargo.toml"), []byte(`[package]
name = "demo"
version = "0.1.0"

[dependencies]
anyhow = "2.0"
`), 0o600))

	require.NoError(t, p.New())

	doc := readManifest(t, p)

	v, ok := doc.Section("dependencies").Get("anyhow")
	require.True(t, ok)

	s, _ := v.AsString()
	assert.Equal(t, "2.0", s, "pinned version must survive augmentation")
}

func TestProjectNew_HarnessConflict(t *testing.T) {
	t.Parallel()

	p, base := newTestProject(t, "demo", catalog.KindExecutable)

	root := filepath.Join(base, "demo")
	manifestText := "[package]\nname = \"demo\"\nversion = \"0.1.0\"\n"
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Cargo.toml"), []byte(manifestText), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "main.rs"), []byte("fn main() { custom() }\n"), 0o600))

	err := p.New()
	require.ErrorIs(t, err, scaffold.ErrHarnessConflict)
	assert.Equal(t, scaffold.StateFailed, p.State())

	// The run halts before the manifest-write step.
	data, readErr := os.ReadFile(p.ManifestPath())
	require.NoError(t, readErr)
	assert.Equal(t, manifestText, string(data), "manifest must be untouched on harness conflict")
}

func TestProjectNew_ReplacesFreshScaffoldEntryPoint(t *testing.T) {
	t.Parallel()

	// The fake creator writes cargo's default main.rs; a run that created
	// the scaffold itself replaces it with the harness.
	p, _ := newTestProject(t, "demo", catalog.KindExecutable)

	require.NoError(t, p.New())

	harness, err := os.ReadFile(filepath.Join(p.Root(), "src", "main.rs"))
	require.NoError(t, err)
	assert.Equal(t, catalog.HarnessSource, string(harness))
}

func TestProjectNew_Library(t *testing.T) {
	t.Parallel()

	p, _ := newTestProject(t, "mylib", catalog.KindLibrary)

	require.NoError(t, p.New())

	doc := readManifest(t, p)
	assert.Empty(t, doc.ArraySections("bin"))
	require.NotNil(t, doc.Section("dependencies"))

	assert.NoFileExists(t, filepath.Join(p.Root(), "src", "main.rs"))
	assert.FileExists(t, filepath.Join(p.Root(), "src", "lib.rs"))
}

func TestProjectNew_CreatorFailure(t *testing.T) {
	t.Parallel()

	creatorErr := errors.New("cargo exploded")

	p, base := newTestProject(t, "demo", catalog.KindExecutable,
		scaffold.WithCreator(&cargotest.FakeCreator{Err: creatorErr}))

	err := p.New()
	require.ErrorIs(t, err, creatorErr)
	assert.Equal(t, scaffold.StateFailed, p.State())

	assert.NoDirExists(t, filepath.Join(base, "demo"))
}

func TestProjectNew_MalformedManifest(t *testing.T) {
	t.Parallel()

	p, base := newTestProject(t, "demo", catalog.KindExecutable)

	root := filepath.Join(base, "demo")
	require.NoError(t, os.MkdirAll(root, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Cargo.toml"), []byte("[package\n"), 0o600))

	err := p.New()
	require.ErrorIs(t, err, manifest.ErrMalformedManifest)
}

func TestNewProject_InvalidName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", ".", "..", "a/b"} {
		_, err := scaffold.NewProject(t.TempDir(), name, catalog.KindExecutable)
		require.ErrorIs(t, err, scaffold.ErrInvalidProjectName, "name %q", name)
	}
}

func TestProjectNew_BinTargetPath(t *testing.T) {
	t.Parallel()

	p, _ := newTestProject(t, "data-loader", catalog.KindExecutable)

	require.NoError(t, p.New())

	doc := readManifest(t, p)

	bins := doc.ArraySections("bin")
	require.Len(t, bins, 1)

	name, _ := bins[0].Get("name")
	s, _ := name.AsString()
	assert.Equal(t, "data_loader", s, "target name should be the snake_cased project name")

	path, _ := bins[0].Get("path")
	ps, _ := path.AsString()
	assert.Equal(t, "src/main.rs", ps)
}
