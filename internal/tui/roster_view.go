package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yopisonhaji/prototype-doorprize/internal/participant"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDelete
	confirmClear
)

// rosterView is the paginated participant table.
type rosterView struct {
	store   *participant.Store
	perPage int
	page    int

	table table.Model
	pager paginator.Model
	items []participant.Participant
	info  participant.PageInfo

	confirm confirmKind
	target  participant.Participant
}

func newRosterView(store *participant.Store, perPage int) *rosterView {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 5},
			{Title: "No.", Width: 10},
			{Title: "Name", Width: 32},
		}),
		table.WithFocused(true),
		table.WithHeight(perPage+1),
	)
	pager := paginator.New()
	pager.Type = paginator.Dots
	pager.PerPage = perPage
	r := &rosterView{store: store, perPage: perPage, page: 1, table: t, pager: pager}
	r.refresh()
	return r
}

func (r *rosterView) refresh() {
	r.items, r.info = r.store.Page(r.page, r.perPage)
	r.page = r.info.Page
	rows := make([]table.Row, 0, len(r.items))
	for i, p := range r.items {
		rows = append(rows, table.Row{strconv.Itoa(r.info.Start + i + 1), p.Key(), p.Name})
	}
	r.table.SetRows(rows)
	// An empty table pins the cursor at -1; it must come back once rows exist.
	switch {
	case len(rows) == 0:
	case r.table.Cursor() < 0:
		r.table.SetCursor(0)
	case r.table.Cursor() >= len(rows):
		r.table.SetCursor(len(rows) - 1)
	}
	r.pager.TotalPages = r.info.Pages
	r.pager.Page = r.info.Page - 1
}

func (r *rosterView) turnPage(delta int) {
	r.page += delta
	r.refresh()
}

func (r *rosterView) selected() (participant.Participant, bool) {
	cursor := r.table.Cursor()
	if cursor < 0 || cursor >= len(r.items) {
		return participant.Participant{}, false
	}
	return r.items[cursor], true
}

func (r *rosterView) confirming() bool { return r.confirm != confirmNone }

func (r *rosterView) cancelConfirm() {
	r.confirm = confirmNone
	r.target = participant.Participant{}
}

func (r *rosterView) view() string {
	title := titleStyle.Render(fmt.Sprintf("Participants · %d registered", r.info.Total))
	if r.info.Total == 0 {
		return strings.Join([]string{title, "", dimStyle.Render("Nobody registered yet · press a to add")}, "\n")
	}
	lines := []string{
		title,
		"",
		r.table.View(),
		fmt.Sprintf("%s  page %d/%d", r.pager.View(), r.info.Page, r.info.Pages),
	}
	switch r.confirm {
	case confirmDelete:
		lines = append(lines, "", errorStyle.Render(fmt.Sprintf("Delete %s? y / n", r.target)))
	case confirmClear:
		lines = append(lines, "", errorStyle.Render(fmt.Sprintf("Remove all %d participants? y / n", r.info.Total)))
	default:
		lines = append(lines, "", dimStyle.Render("←/→ page · d delete · x clear all · a add · esc menu"))
	}
	return strings.Join(lines, "\n")
}

func (a *App) updateParticipants(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r := a.roster
	if r.confirming() {
		switch msg.String() {
		case "y", "Y":
			a.applyConfirm()
		case "n", "N":
			r.cancelConfirm()
			a.statusMsg = "Cancelled"
		}
		return a, nil
	}
	switch msg.String() {
	case "left", "h", "pgup":
		r.turnPage(-1)
	case "right", "l", "pgdown":
		r.turnPage(1)
	case "d", "delete":
		if p, ok := r.selected(); ok {
			r.confirm = confirmDelete
			r.target = p
		}
	case "x":
		if a.participants.Count() > 0 {
			r.confirm = confirmClear
		}
	case "a":
		return a.enterState(stateAddForm)
	default:
		var cmd tea.Cmd
		r.table, cmd = r.table.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) applyConfirm() {
	r := a.roster
	kind, target := r.confirm, r.target
	r.cancelConfirm()
	switch kind {
	case confirmDelete:
		if err := a.participants.Remove(target.Number); err != nil {
			a.statusMsg = fmt.Sprintf("Delete failed: %v", err)
			a.logError("Delete of %s failed: %v", target, err)
			break
		}
		a.statusMsg = fmt.Sprintf("Removed %s", target)
		a.logInfo("Removed %s", target)
	case confirmClear:
		removed := a.participants.Count()
		if err := a.participants.Clear(); err != nil {
			a.statusMsg = fmt.Sprintf("Clear failed: %v", err)
			a.logError("Clearing the registry failed: %v", err)
			break
		}
		a.statusMsg = "All participants removed"
		a.logInfo("Registry cleared · %d participant(s) removed", removed)
	}
	r.refresh()
}

// addForm collects a name and a number.
type addForm struct {
	inputs []textinput.Model
	focus  int
	err    string
}

func newAddForm() *addForm {
	name := textinput.New()
	name.Placeholder = "Full name"
	name.Prompt = "Name   › "
	name.CharLimit = 64

	number := textinput.New()
	number.Placeholder = "Ticket or employee number"
	number.Prompt = "Number › "
	number.CharLimit = 16

	return &addForm{inputs: []textinput.Model{name, number}}
}

func (f *addForm) reset() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.err = ""
	return f.setFocus(0)
}

func (f *addForm) setFocus(idx int) tea.Cmd {
	f.focus = (idx + len(f.inputs)) % len(f.inputs)
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.focus {
			cmd = f.inputs[i].Focus()
			continue
		}
		f.inputs[i].Blur()
	}
	return cmd
}

func (f *addForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *addForm) values() (name, number string) {
	return f.inputs[0].Value(), f.inputs[1].Value()
}

func (f *addForm) view() string {
	lines := []string{titleStyle.Render("Add Participant"), ""}
	for _, input := range f.inputs {
		lines = append(lines, input.View())
	}
	if f.err != "" {
		lines = append(lines, "", errorStyle.Render(f.err))
	}
	lines = append(lines, "", dimStyle.Render("tab switch field · enter save · esc menu"))
	return strings.Join(lines, "\n")
}

func (a *App) updateAddForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		return a, a.form.setFocus(a.form.focus + 1)
	case "shift+tab", "up":
		return a, a.form.setFocus(a.form.focus - 1)
	case "enter":
		if a.form.focus == 0 {
			return a, a.form.setFocus(1)
		}
		return a.submitAddForm()
	}
	return a, a.form.update(msg)
}

func (a *App) submitAddForm() (tea.Model, tea.Cmd) {
	name, number := a.form.values()
	p, err := a.participants.Add(name, number)
	switch {
	case errors.Is(err, participant.ErrInvalid):
		a.form.err = "Name and number are both required"
		return a, nil
	case errors.Is(err, participant.ErrDuplicateNumber):
		a.form.err = fmt.Sprintf("Number %s is already registered", strings.TrimSpace(number))
		return a, nil
	case err != nil:
		a.form.err = fmt.Sprintf("Could not save: %v", err)
		a.logError("Registering %s failed: %v", strings.TrimSpace(name), err)
		return a, nil
	}
	a.statusMsg = fmt.Sprintf("Added %s", p)
	a.logInfo("Registered %s", p)
	a.roster.refresh()
	a.refreshMainMenu()
	return a, a.form.reset()
}
