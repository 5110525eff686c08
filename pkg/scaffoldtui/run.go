package scaffoldtui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/grumpyproject/grumpy/pkg/scaffold"
)

// RunModel renders one scaffolding run as a step checklist.
type RunModel struct {
	err     error
	verb    string
	name    string
	spinner spinner.Model
	width   int
	height  int
	mu      sync.RWMutex
	working bool
	done    bool
}

func NewRunModel(verb, name string) *RunModel {
	s := spinner.New()
	s.Style = spinnerStyle

	return &RunModel{
		spinner: s,
		verb:    verb,
		name:    name,
		mu:      sync.RWMutex{},
	}
}

func (m *RunModel) Init() tea.Cmd {
	m.working = true

	return m.spinner.Tick
}

//nolint:ireturn // Third-party.
func (m *RunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		if keyExits(msg) {
			return m, tea.Quit
		}

	case teaMsgWriteLog:
		return m, writeLog(msg, m.width)

	case scaffold.EventCreated:
		if msg.AlreadyExisted {
			return m, tea.Printf("%s found existing project %s", checkMark, msg.Path)
		}

		return m, tea.Printf("%s created project %s", checkMark, msg.Path)

	case scaffold.EventParsed:
		return m, tea.Printf("%s parsed manifest", checkMark)

	case scaffold.EventAugmented:
		return m, tea.Printf("%s applied standard additions", checkMark)

	case scaffold.EventHarnessWritten:
		return m, tea.Printf("%s installed harness %s", checkMark, msg.Path)

	case scaffold.EventManifestWritten:
		return m, tea.Printf("%s wrote manifest %s", checkMark, msg.Path)

	case scaffold.EventDone:
		m.working = false

		// Allow previously sent messages to be drawn.
		preQuitCmd := tea.Tick(time.Millisecond*100, func(_ time.Time) tea.Msg {
			m.mu.Lock()
			defer m.mu.Unlock()

			m.err = msg.Err
			m.done = true

			return nil
		})

		return m, tea.Sequence(preQuitCmd, teaQuit())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m *RunModel) View() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return getErrorMessage(m.err, m.width)
	}

	if m.done {
		return doneStyle.Render(fmt.Sprintf("%s %s complete.\n", m.verb, m.name))
	}

	if m.working {
		spin := m.spinner.View() + " "
		cellsAvail := max(0, m.width-lipgloss.Width(spin))

		currentName := currentNameStyle.Render(m.name)
		info := lipgloss.NewStyle().MaxWidth(cellsAvail).Render(m.verb + " " + currentName)

		cellsRemaining := max(0, m.width-lipgloss.Width(spin+info))
		gap := strings.Repeat(" ", cellsRemaining) + "\n"

		return spin + info + gap
	}

	return ""
}
