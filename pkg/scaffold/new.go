package scaffold

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/grumpyproject/grumpy/pkg/augment"
	"github.com/grumpyproject/grumpy/pkg/catalog"
	"github.com/grumpyproject/grumpy/pkg/manifest"
)

// New runs one full scaffolding pass: invoke the creation collaborator if the
// project does not yet exist, then augment the manifest and install the
// harness. Re-running after a partial failure is safe; already-applied
// additions are not duplicated.
func (p *Project) New() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state = StateStart

	err := p.runNew()
	if err != nil {
		p.state = StateFailed
	}

	p.broadcastEvent(EventDone{Err: err})

	return err
}

func (p *Project) runNew() error {
	ctx, cancel := context.WithTimeout(context.Background(), p.Timeout)
	defer cancel()

	logger := slog.With(
		slog.String("cmd", "new"),
		slog.String("project", p.Name),
	)

	manifestPath := p.ManifestPath()
	existed := fileExists(manifestPath)

	if !existed {
		logger.Info("creating project scaffold",
			slog.String("path", p.Root()),
			slog.String("kind", p.Kind.String()),
		)

		if err := p.Creator.Create(ctx, p.BasePath, p.Name, p.Kind); err != nil {
			return fmt.Errorf("create project %q: %w", p.Name, err)
		}

		if !fileExists(manifestPath) {
			return fmt.Errorf("%w: creation left no manifest at %q", ErrProjectNotFound, manifestPath)
		}
	} else {
		logger.Debug("project already exists", slog.String("path", p.Root()))
	}

	p.state = StateCreated
	p.broadcastEvent(EventCreated{Path: p.Root(), AlreadyExisted: existed})

	script := ""
	if p.Kind == catalog.KindExecutable {
		script = p.Script
	}

	// A scaffold created in this run may have its default entry point
	// replaced; an existing project's files are never overwritten.
	return p.augmentAndWrite(logger, script, !existed)
}

// augmentAndWrite is the shared tail of every run: parse the manifest, apply
// the catalog additions, install the harness, and write the manifest back.
// The manifest is serialized to memory in full before anything is written to
// its path.
func (p *Project) augmentAndWrite(logger *slog.Logger, script string, overwrite bool) error {
	manifestPath := p.ManifestPath()

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	doc, err := manifest.Parse(data)
	if err != nil {
		return fmt.Errorf("parse manifest %q: %w", manifestPath, err)
	}

	p.state = StateParsed
	p.broadcastEvent(EventParsed{Path: manifestPath})

	var binName, relPath, absPath string
	if script != "" {
		binName, relPath, absPath = p.scriptTarget(script)
	}

	augmented, err := augment.Apply(doc, catalog.Specs(binName, relPath))
	if err != nil {
		return fmt.Errorf("augment manifest %q: %w", manifestPath, err)
	}

	p.state = StateAugmented
	p.broadcastEvent(EventAugmented{})

	if script != "" {
		logger.Debug("installing harness", slog.String("path", absPath))

		if overwrite {
			if err := os.RemoveAll(absPath); err != nil {
				return fmt.Errorf("replace scaffold entry point: %w", err)
			}
		}

		if err := writeHarness(absPath); err != nil {
			return err
		}

		p.state = StateHarnessWritten
		p.broadcastEvent(EventHarnessWritten{Path: absPath})
	}

	out, err := manifest.Encode(augmented)
	if err != nil {
		return fmt.Errorf("serialize manifest: %w", err)
	}

	if err := os.WriteFile(manifestPath, out, 0o600); err != nil {
		return fmt.Errorf("write manifest %q: %w", manifestPath, err)
	}

	p.state = StateManifestWritten
	p.broadcastEvent(EventManifestWritten{Path: manifestPath})

	logger.Info("run complete", slog.String("path", p.Root()))
	p.state = StateDone

	return nil
}
