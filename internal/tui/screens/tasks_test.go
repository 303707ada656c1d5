package screens

import (
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// Blink ticks are not key messages; they must still reach the focused
// input or the cursor never blinks.
func TestTasksInputReceivesBlinkTicks(t *testing.T) {
	tasks := NewTasks(nil, 1, nil)

	tasks.Update(keyMsg('a'))
	require.Equal(t, tasksModeAddTitle, tasks.mode)

	cmd := tasks.Update(textinput.Blink())
	assert.NotNil(t, cmd)
}
