// Package cargo shells out to the external project-creation tool. The rest
// of the system only requires that after Create returns, a parseable manifest
// and the source layout exist under the project directory.
package cargo

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/grumpyproject/grumpy/pkg/catalog"
)

// Creator produces an empty project scaffold at dir/name.
type Creator interface {
	Create(ctx context.Context, dir, name string, kind catalog.Kind) error
}

// CmdError reports a failed collaborator invocation with its captured
// stderr.
type CmdError struct {
	Args   string
	Stderr string
	Cause  error
}

func (e *CmdError) Error() string {
	res := fmt.Sprintf("`%s` failed: %v", e.Args, e.Cause)
	if e.Stderr != "" {
		res = fmt.Sprintf("%s: %s", res, strings.TrimSpace(e.Stderr))
	}

	return res
}

func (e *CmdError) Unwrap() error {
	return e.Cause
}

// CLI invokes the cargo binary. The binary is taken from $CARGO when set,
// matching how cargo exposes itself to subcommands.
type CLI struct {
	Bin string
}

// DefaultCreator is the Creator used outside of tests.
var DefaultCreator Creator = NewCLI()

func NewCLI() *CLI {
	bin := os.Getenv("CARGO")
	if bin == "" {
		bin = "cargo"
	}

	return &CLI{Bin: bin}
}

func (c *CLI) Create(ctx context.Context, dir, name string, kind catalog.Kind) error {
	args := []string{"new"}

	if kind == catalog.KindLibrary {
		args = append(args, "--lib")
	} else {
		args = append(args, "--bin")
	}

	args = append(args, name)

	slog.Debug("invoking project creation",
		slog.String("bin", c.Bin),
		slog.String("args", strings.Join(args, " ")),
		slog.String("dir", dir),
	)

	cmd := exec.CommandContext(ctx, c.Bin, args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &CmdError{
			Args:   c.Bin + " " + strings.Join(args, " "),
			Stderr: stderr.String(),
			Cause:  err,
		}
	}

	return nil
}
