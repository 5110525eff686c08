// Package cargotest provides a hermetic stand-in for the cargo collaborator,
// writing the same minimal scaffold `cargo new` would.
package cargotest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grumpyproject/grumpy/pkg/catalog"
)

const libSource = `pub fn add(left: u64, right: u64) -> u64 {
    left + right
}
`

const mainSource = `fn main() {
    println!("Hello, world!");
}
`

// FakeCreator writes a minimal scaffold instead of shelling out. The zero
// value is ready to use.
type FakeCreator struct {
	// Err, when set, is returned without touching the filesystem.
	Err error

	// Calls records the project names passed to Create.
	Calls []string
}

func (f *FakeCreator) Create(_ context.Context, dir, name string, kind catalog.Kind) error {
	f.Calls = append(f.Calls, name)

	if f.Err != nil {
		return f.Err
	}

	root := filepath.Join(dir, name)
	srcDir := filepath.Join(root, "src")

	if err := os.MkdirAll(srcDir, 0o750); err != nil {
		return fmt.Errorf("create scaffold layout: %w", err)
	}

	man := fmt.Sprintf("[package]\nname = %q\nversion = \"0.1.0\"\nedition = \"2021\"\n\n[dependencies]\n", name)
	if err := os.WriteFile(filepath.Join(root, "Cargo.toml"), []byte(man), 0o600); err != nil {
		return fmt.Errorf("write scaffold manifest: %w", err)
	}

	srcFile, src := "main.rs", mainSource
	if kind == catalog.KindLibrary {
		srcFile, src = "lib.rs", libSource
	}

	if err := os.WriteFile(filepath.Join(srcDir, srcFile), []byte(src), 0o600); err != nil {
		return fmt.Errorf("write scaffold source: %w", err)
	}

	return nil
}
