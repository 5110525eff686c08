package cli_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grumpyproject/grumpy/internal/cli"
	"github.com/grumpyproject/grumpy/pkg/catalog"
)

// seedProject writes a minimal freshly-created project so that no external
// command needs to run.
func seedProject(t *testing.T, basePath, name string, lib bool) {
	t.Helper()

	root := filepath.Join(basePath, name)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o750))

	man := fmt.Sprintf("[package]\nname = %q\nversion = \"0.1.0\"\nedition = \"2021\"\n\n[dependencies]\n", name)
	require.NoError(t, os.WriteFile(filepath.Join(root, "Cargo.toml"), []byte(man), 0o600))

	if lib {
		require.NoError(t, os.WriteFile(filepath.Join(root, "src", "lib.rs"), []byte("pub fn lib() {}\n"), 0o600))
	}
}

func TestNewCmd(t *testing.T) {
	t.Parallel()

	basePath := t.TempDir()
	seedProject(t, basePath, "demo", false)

	tc := cli.NewRootCmd("test_new", "", "")
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	tc.SetArgs([]string{"new", "demo", "-p", basePath, "-q"})
	tc.SetOut(stdout)
	tc.SetErr(stderr)

	err := tc.Execute()
	require.NoError(t, err)
	assert.Empty(t, stderr.String(), "stderr should be empty")

	man, err := os.ReadFile(filepath.Join(basePath, "demo", "Cargo.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(man), `anyhow = "1.0"`)
	assert.Contains(t, string(man), `log4rs = "0.8"`)

	harness, err := os.ReadFile(filepath.Join(basePath, "demo", "src", "main.rs"))
	require.NoError(t, err)
	assert.Equal(t, catalog.HarnessSource, string(harness))
}

func TestNewCmd_Lib(t *testing.T) {
	t.Parallel()

	basePath := t.TempDir()
	seedProject(t, basePath, "demolib", true)

	tc := cli.NewRootCmd("test_new", "", "")
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	tc.SetArgs([]string{"new", "demolib", "--lib", "-p", basePath, "-q"})
	tc.SetOut(stdout)
	tc.SetErr(stderr)

	err := tc.Execute()
	require.NoError(t, err)

	man, err := os.ReadFile(filepath.Join(basePath, "demolib", "Cargo.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(man), `anyhow = "1.0"`)
	assert.NotContains(t, string(man), "[[bin]]")

	_, err = os.Stat(filepath.Join(basePath, "demolib", "src", "bin"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewCmd_BinLibExclusive(t *testing.T) {
	t.Parallel()

	tc := cli.NewRootCmd("test_new", "", "")
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	tc.SetArgs([]string{"new", "demo", "--bin", "--lib", "-p", t.TempDir(), "-q"})
	tc.SetOut(stdout)
	tc.SetErr(stderr)

	err := tc.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the others can be")
}

func TestNewCmd_InvalidName(t *testing.T) {
	t.Parallel()

	tc := cli.NewRootCmd("test_new", "", "")
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	tc.SetArgs([]string{"new", "bad/name", "-p", t.TempDir(), "-q"})
	tc.SetOut(stdout)
	tc.SetErr(stderr)

	err := tc.Execute()
	require.ErrorIs(t, err, cli.ErrInvalidArgument)
}

func TestNewCmd_Idempotent(t *testing.T) {
	t.Parallel()

	basePath := t.TempDir()
	seedProject(t, basePath, "demo", false)

	run := func() string {
		tc := cli.NewRootCmd("test_new", "", "")
		tc.SetArgs([]string{"new", "demo", "-p", basePath, "-q"})
		tc.SetOut(&bytes.Buffer{})
		tc.SetErr(&bytes.Buffer{})
		require.NoError(t, tc.Execute())

		man, err := os.ReadFile(filepath.Join(basePath, "demo", "Cargo.toml"))
		require.NoError(t, err)

		return string(man)
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
	assert.Equal(t, 1, strings.Count(first, "[dependencies]"))
}
