package scaffoldtui

import (
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/grumpyproject/grumpy/pkg/log"
)

// Commander is the scaffolding surface the TUI drives.
type Commander interface {
	New() error
	Add(script string) error
	Subscribe(f func(any))
}

// ScaffoldTUI wraps a [Commander] and renders its events interactively. Log
// output is redirected into the UI for the duration of a run.
type ScaffoldTUI struct {
	pkg  Commander
	p    *tea.Program
	w    io.Writer
	name string
}

func NewScaffoldTUI(w io.Writer, logLevel, name string, pkg Commander) (*ScaffoldTUI, error) {
	c := &ScaffoldTUI{
		pkg:  pkg,
		w:    w,
		name: name,
	}

	c.pkg.Subscribe(c.broadcastEvent)

	handler, err := log.CreateHandler(c, logLevel, log.FormatText)
	if err != nil {
		return nil, fmt.Errorf("failed to create log handler: %w", err)
	}

	slog.SetDefault(slog.New(handler))

	return c, nil
}

func (c *ScaffoldTUI) broadcastEvent(evt any) {
	if c.p != nil {
		c.p.Send(evt)
	}
}

func (c *ScaffoldTUI) Write(p []byte) (int, error) {
	c.broadcastEvent(teaMsgWriteLog(string(p)))

	return len(p), nil
}

func (c *ScaffoldTUI) Subscribe(f func(any)) {
	c.pkg.Subscribe(f)
}

func (c *ScaffoldTUI) New() error {
	return c.run("Scaffolding", func() error {
		return c.pkg.New()
	})
}

func (c *ScaffoldTUI) Add(script string) error {
	return c.run("Adding "+script+" to", func() error {
		return c.pkg.Add(script)
	})
}

func (c *ScaffoldTUI) run(verb string, op func() error) error {
	c.p = tea.NewProgram(NewRunModel(verb, c.name), tea.WithOutput(c.w))

	errCh := make(chan error, 1)

	go func() {
		errCh <- op()
	}()

	if _, err := c.p.Run(); err != nil {
		return fmt.Errorf("failed to launch tui: %w", err)
	}

	return <-errCh
}
