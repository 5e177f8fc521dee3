package edit

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const defaultEditor = "vi"

// editorCommand returns the user's editor command line for path. $VISUAL
// takes precedence over $EDITOR, and either may include arguments.
func editorCommand(path string) []string {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}

	args := strings.Fields(editor)
	if len(args) == 0 {
		args = []string{defaultEditor}
	}

	return append(args, path)
}

// externalEditor writes the buffer to a temporary file and returns a command
// that suspends the program while the user's editor runs on it. The edited
// text replaces the buffer when the editor exits successfully.
func (m model) externalEditor() (tea.Cmd, error) {
	f, err := os.CreateTemp("", "sdfc-edit-*.csg")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTempFile, err)
	}

	tmpPath := f.Name()

	_, err = f.WriteString(m.editor.Value())
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		_ = os.Remove(tmpPath)

		return nil, fmt.Errorf("%w: %w", ErrTempFile, err)
	}

	args := editorCommand(tmpPath)
	cmd := exec.CommandContext(m.ctxFunc(), args[0], args[1:]...)

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		defer os.Remove(tmpPath)

		if err != nil {
			return editedMsg{err: fmt.Errorf("%w: %w", ErrEditor, err)}
		}

		data, err := os.ReadFile(tmpPath)
		if err != nil {
			return editedMsg{err: fmt.Errorf("%w: %w", ErrEditor, err)}
		}

		return editedMsg{source: string(data)}
	}), nil
}
