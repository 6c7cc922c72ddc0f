package ui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrCancelled is returned when the user aborts a prompt with Esc or Ctrl-C.
var ErrCancelled = errors.New("cancelled")

var errEmpty = errors.New("a value is required")

// Prompt asks for a single non-empty line. The prompt is drawn on stderr so
// stdout stays clean for command output; leading and trailing spaces are
// trimmed from the answer.
func Prompt(label, placeholder string) (string, error) {
	return runPrompt(newPromptModel(label, placeholder, false))
}

// PromptSecret is Prompt with the input masked, for secret access keys and
// session tokens.
func PromptSecret(label string) (string, error) {
	return runPrompt(newPromptModel(label, "", true))
}

func runPrompt(m promptModel) (string, error) {
	final, err := tea.NewProgram(m, tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return "", err
	}

	fm, ok := final.(promptModel)
	if !ok {
		return "", fmt.Errorf("internal error: invalid model type")
	}
	if !fm.done {
		return "", ErrCancelled
	}
	return fm.value(), nil
}

// promptModel keeps the prompt open until a non-empty value is entered or
// the user cancels.
type promptModel struct {
	input     textinput.Model
	label     string
	err       error
	done      bool
	cancelled bool
}

func newPromptModel(label, placeholder string, secret bool) promptModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	// Session tokens run to several hundred characters.
	ti.CharLimit = 2048
	ti.Width = 48
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	ti.Focus()

	return promptModel{input: ti, label: label}
}

func (m promptModel) value() string {
	return strings.TrimSpace(m.input.Value())
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			if m.value() == "" {
				m.err = errEmpty
				return m, nil
			}
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.err = nil
	return m, cmd
}

func (m promptModel) View() string {
	switch {
	case m.done:
		return ""
	case m.cancelled:
		return quitTextStyle.Render("Cancelled.") + "\n"
	}

	view := fmt.Sprintf("\n%s\n\n%s\n", titleStyle.Render(m.label), m.input.View())
	if m.err != nil {
		view += ErrorStyle.Render(m.err.Error()) + "\n"
	}
	return view + "\n"
}
