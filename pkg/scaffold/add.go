package scaffold

import (
	"errors"
	"fmt"
	"log/slog"
)

var ErrInvalidScriptName = errors.New("invalid script name")

// Add installs another executable target into an existing project: the
// harness source under the layout-appropriate path plus the matching manifest
// additions. Unlike [Project.New], Add never replaces an existing entry
// point.
func (p *Project) Add(script string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state = StateStart

	err := p.runAdd(script)
	if err != nil {
		p.state = StateFailed
	}

	p.broadcastEvent(EventDone{Err: err})

	return err
}

func (p *Project) runAdd(script string) error {
	if script == "" {
		return fmt.Errorf("%w: empty", ErrInvalidScriptName)
	}

	logger := slog.With(
		slog.String("cmd", "add"),
		slog.String("project", p.Name),
		slog.String("script", script),
	)

	if !fileExists(p.ManifestPath()) {
		return fmt.Errorf("%w: no manifest at %q", ErrProjectNotFound, p.ManifestPath())
	}

	p.state = StateCreated
	p.broadcastEvent(EventCreated{Path: p.Root(), AlreadyExisted: true})

	return p.augmentAndWrite(logger, script, false)
}
