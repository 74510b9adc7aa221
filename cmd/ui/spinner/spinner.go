package spinner

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrInterrupted is returned when the user quits before the task finished
var ErrInterrupted = errors.New("interrupted")

type doneMsg struct{}

type model struct {
	spinner  spinner.Model
	message  string
	done     bool
	quitting bool
}

func initialModel(message string) model {
	s := spinner.New()
	s.Spinner = spinner.Line
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#01FAC6"))
	return model{
		spinner: s,
		message: message,
	}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		default:
			return m, nil
		}

	case doneMsg:
		m.done = true
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m model) View() string {
	if m.done {
		return ""
	}
	str := fmt.Sprintf("%s %s", m.spinner.View(), m.message)
	if m.quitting {
		return str + "\n"
	}
	return str
}

// Run shows a spinner on stderr while task runs. If the user quits first,
// cancel is called and Run waits for task to return before reporting ErrInterrupted.
func Run(message string, cancel func(), task func()) error {
	finished := make(chan struct{})

	p := tea.NewProgram(initialModel(message), tea.WithOutput(os.Stderr))

	go func() {
		defer close(finished)
		task()
		p.Send(doneMsg{})
	}()

	final, err := p.Run()
	done := err == nil && final.(model).done
	if !done && cancel != nil {
		cancel()
	}
	<-finished

	if err != nil {
		return fmt.Errorf("error running spinner: %w", err)
	}
	if !done {
		return ErrInterrupted
	}
	return nil
}
