package scaffold

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/grumpyproject/grumpy/pkg/cargo"
	"github.com/grumpyproject/grumpy/pkg/catalog"
)

const (
	// ManifestFile is the manifest's fixed relative path within a project.
	ManifestFile = "Cargo.toml"

	// SourceDir is the source layout root within a project.
	SourceDir = "src"

	// DefaultScript is the script name used when none is given.
	DefaultScript = "main"
)

var (
	// ErrHarnessConflict indicates a non-empty, non-template file already
	// occupies the harness path. User code is never silently overwritten.
	ErrHarnessConflict = errors.New("harness write conflict")

	// ErrProjectNotFound indicates no manifest exists where a project was
	// expected.
	ErrProjectNotFound = errors.New("project not found")

	ErrInvalidProjectName = errors.New("invalid project name")
)

// HarnessConflictError names the occupied harness path.
type HarnessConflictError struct {
	Path string
}

func (e *HarnessConflictError) Error() string {
	return fmt.Sprintf("%v: %q already exists with user content", ErrHarnessConflict, e.Path)
}

func (e *HarnessConflictError) Unwrap() error {
	return ErrHarnessConflict
}

// Project drives one scaffolding run against a single project directory.
type Project struct {
	Creator  cargo.Creator
	Name     string
	BasePath string
	Script   string
	subs     []func(any)
	Timeout  time.Duration
	Kind     catalog.Kind
	state    State
	mu       sync.Mutex
}

// NewProject returns a Project for basePath/name. name must be non-empty and
// free of path separators.
func NewProject(basePath, name string, kind catalog.Kind, opts ...Option) (*Project, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProjectName, name)
	}

	p := &Project{
		Name:     name,
		BasePath: basePath,
		Kind:     kind,
		Script:   DefaultScript,
		Creator:  cargo.DefaultCreator,
		Timeout:  5 * time.Minute,
		state:    StateStart,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Option configures a Project.
type Option func(*Project)

// WithCreator replaces the external creation collaborator.
func WithCreator(c cargo.Creator) Option {
	return func(p *Project) {
		p.Creator = c
	}
}

// WithScript sets the executable script name.
func WithScript(script string) Option {
	return func(p *Project) {
		if script != "" {
			p.Script = script
		}
	}
}

// WithTimeout bounds the external creation call.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Project) {
		p.Timeout = timeout
	}
}

// Subscribe registers f to receive run events.
func (p *Project) Subscribe(f func(any)) {
	p.subs = append(p.subs, f)
}

func (p *Project) broadcastEvent(evt any) {
	for _, sub := range p.subs {
		sub(evt)
	}
}

// State reports the progress of the most recent run.
func (p *Project) State() State {
	return p.state
}

// Root returns the project directory.
func (p *Project) Root() string {
	return filepath.Join(p.BasePath, p.Name)
}

// ManifestPath returns the manifest location within the project.
func (p *Project) ManifestPath() string {
	return filepath.Join(p.Root(), ManifestFile)
}

// isLibraryLayout reports whether the project keeps a src/lib.rs, which moves
// executable scripts under src/bin.
func (p *Project) isLibraryLayout() bool {
	return fileExists(filepath.Join(p.Root(), SourceDir, "lib.rs"))
}

// scriptTarget resolves the executable target for script. Library layouts
// keep scripts under src/bin, named after the script; everything else uses
// src/main.rs with a target named after the project. rel is slash-separated
// for the manifest; abs is the filesystem path.
func (p *Project) scriptTarget(script string) (name, rel, abs string) {
	if p.isLibraryLayout() {
		name = catalog.BinTargetName(script)
		rel = "src/bin/" + name + ".rs"
		abs = filepath.Join(p.Root(), SourceDir, "bin", name+".rs")

		return name, rel, abs
	}

	name = catalog.BinTargetName(p.Name)

	return name, "src/main.rs", filepath.Join(p.Root(), SourceDir, "main.rs")
}

// writeHarness installs the verbatim template at path. An identical existing
// file is a no-op, an empty one is filled in, and anything else is a
// conflict.
func writeHarness(path string) error {
	data, err := os.ReadFile(path)

	switch {
	case err == nil:
		if string(data) == catalog.HarnessSource {
			return nil
		}

		if len(data) != 0 {
			return &HarnessConflictError{Path: path}
		}

	case os.IsNotExist(err):

	default:
		return fmt.Errorf("read existing harness %q: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create harness directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(catalog.HarnessSource), 0o600); err != nil {
		return fmt.Errorf("write harness %q: %w", path, err)
	}

	return nil
}

func fileExists(path string) bool {
	fi, err := os.Lstat(path)
	if err != nil || fi.IsDir() {
		return false
	}

	return true
}
