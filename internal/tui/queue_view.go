package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yopisonhaji/prototype-doorprize/internal/participant"
	"github.com/yopisonhaji/prototype-doorprize/internal/queue"
)

// queueEditor edits the forced-winner queue as free text.
type queueEditor struct {
	area textarea.Model
}

func newQueueEditor() *queueEditor {
	area := textarea.New()
	area.Placeholder = "One number per line, or separated by commas"
	area.ShowLineNumbers = false
	area.SetWidth(40)
	area.SetHeight(8)
	return &queueEditor{area: area}
}

func (e *queueEditor) open(entries []string) tea.Cmd {
	e.area.SetValue(queue.Format(entries))
	return e.area.Focus()
}

func (e *queueEditor) setSize(width, height int) {
	e.area.SetWidth(min(width, 60))
	e.area.SetHeight(min(height, 12))
}

func (e *queueEditor) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	e.area, cmd = e.area.Update(msg)
	return cmd
}

func (e *queueEditor) entries() []string {
	return queue.Parse(e.area.Value())
}

func (e *queueEditor) view(roster []participant.Participant) string {
	lines := []string{
		titleStyle.Render("Winner Queue"),
		dimStyle.Render("The first number wins the next spin if it is registered."),
		"",
		e.area.View(),
		"",
		titleStyle.Render("Preview"),
		queuePreview(e.entries(), roster),
		"",
		dimStyle.Render("ctrl+s save · esc menu (unsaved edits are dropped)"),
	}
	return strings.Join(lines, "\n")
}

func queuePreview(entries []string, roster []participant.Participant) string {
	if len(entries) == 0 {
		return dimStyle.Render("Queue is empty · every spin is random")
	}
	preview := queue.Preview(entries)
	for i, entry := range entries {
		if participant.IndexOf(roster, entry) < 0 {
			preview[i] += errorStyle.Render(" · not registered")
		}
	}
	return strings.Join(preview, "\n")
}

func (a *App) updateQueueEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		entries := a.editor.entries()
		if err := a.queueStore.Save(entries); err != nil {
			a.statusMsg = fmt.Sprintf("Queue not saved: %v", err)
			a.logError("Winner queue not saved: %v", err)
			return a, nil
		}
		a.statusMsg = fmt.Sprintf("Winner queue saved · %d number(s)", len(entries))
		a.logInfo("Winner queue saved · %d number(s)", len(entries))
		return a, nil
	}
	return a, a.editor.update(msg)
}
