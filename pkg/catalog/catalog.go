package catalog

import (
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/grumpyproject/grumpy/pkg/augment"
	"github.com/grumpyproject/grumpy/pkg/manifest"
)

// Kind selects which catalog conventions apply to a project.
type Kind int

const (
	// KindExecutable is a binary project with a main entry point.
	KindExecutable Kind = iota

	// KindLibrary is a library project; executables live under src/bin.
	KindLibrary
)

func (k Kind) String() string {
	if k == KindLibrary {
		return "library"
	}

	return "executable"
}

// HarnessSource is the verbatim entry-point source installed into every
// executable target.
const HarnessSource = `use anyhow::Error;

fn run() -> Result<(), Error> {
    println!("Hello, world!");

    Ok(())
}

fn main() -> Result<(), Error> {
    run()?;
    Ok(())
}
`

// Dependency is one fixed manifest dependency.
type Dependency struct {
	Name    string
	Version string
}

// Dependencies is the fixed dependency set, in application order.
var Dependencies = []Dependency{
	{Name: "fehler", Version: "1.0"},
	{Name: "anyhow", Version: "1.0"},
	{Name: "thiserror", Version: "1.0"},
	{Name: "log", Version: "0.4"},
	{Name: "log4rs", Version: "0.8"},
}

// Specs assembles the ordered addition list for one augmentation run.
// binName and binPath declare an executable target and are empty for
// library-only runs.
func Specs(binName, binPath string) []augment.Spec {
	specs := []augment.Spec{
		augment.KeySpec("package", "edition", manifest.String("2021")),
		augment.SectionSpec("dependencies"),
	}

	for _, d := range Dependencies {
		specs = append(specs, augment.KeySpec("dependencies", d.Name, manifest.String(d.Version)))
	}

	if binName != "" {
		specs = append(specs, augment.ArrayEntrySpec("bin", "name",
			manifest.Entry{Key: "name", Value: manifest.String(binName)},
			manifest.Entry{Key: "path", Value: manifest.String(binPath)},
		))
	}

	return specs
}

// BinTargetName normalizes a script name into a crate-style binary target
// name: the ".rs" suffix is dropped and the rest is snake_cased.
func BinTargetName(script string) string {
	name := strings.TrimSuffix(script, ".rs")

	return strcase.ToSnake(name)
}
