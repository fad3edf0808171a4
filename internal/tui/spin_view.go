package tui

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yopisonhaji/prototype-doorprize/internal/draw"
	"github.com/yopisonhaji/prototype-doorprize/internal/participant"
)

const (
	reelRows   = 7
	gaugeWidth = 20
)

var (
	markerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	sliceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	gaugeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))
)

var winnerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FFD166")).
	Border(lipgloss.DoubleBorder()).
	BorderForeground(lipgloss.Color("#FF6B6B")).
	Padding(1, 4).
	Align(lipgloss.Center)

var _ draw.Sink = (*App)(nil)

// RenderFrame implements draw.Sink.
func (a *App) RenderFrame(f draw.Frame) {
	a.lastFrame = f
}

// Reveal implements draw.Sink.
func (a *App) Reveal(r draw.Reveal) {
	a.reveal = &r
	a.statusMsg = fmt.Sprintf("Winner: %s", r.Winner)
	a.logInfo("Winner · %s · slice %d/%d · %s", r.Winner, r.Selection.Index+1, r.Plan.Slices, r.Selection.Outcome)
}

func (a *App) updateSpin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Spin):
		return a.startSpin()
	case key.Matches(msg, a.keys.PowerUp):
		a.adjustPower(a.config.PowerStep())
	case key.Matches(msg, a.keys.PowerDown):
		a.adjustPower(-a.config.PowerStep())
	case key.Matches(msg, a.keys.Reset):
		a.resetWheel()
	}
	return a, nil
}

func (a *App) adjustPower(delta float64) {
	if a.controller.Spinning() {
		return
	}
	// Round to the step grid so repeated presses land on clean values.
	next := draw.ClampPower(a.power + delta)
	a.power = math.Round(next*1000) / 1000
}

func (a *App) resetWheel() {
	if a.controller.Spinning() {
		return
	}
	a.controller.Reset()
	a.reveal = nil
	a.wheelRoster = a.participants.All()
	a.statusMsg = "Ready for the next draw"
}

// startSpin reads the registry, the queue and the lever once, hands them to
// the controller and persists the queue when a forced number was used.
func (a *App) startSpin() (tea.Model, tea.Cmd) {
	if a.controller.Spinning() {
		return a, nil
	}
	roster := a.participants.All()
	if len(roster) == 0 {
		a.statusMsg = "No participants yet · add some before spinning"
		return a, nil
	}
	pending, err := a.queueStore.Load()
	if err != nil {
		a.logWarn("Winner queue unreadable, drawing at random: %v", err)
	}
	ticket, err := a.controller.Spin(draw.SpinRequest{
		Participants: roster,
		Queue:        pending,
		Power:        a.power,
	})
	if errors.Is(err, draw.ErrEmptyRegistry) {
		a.statusMsg = "No participants yet · add some before spinning"
		return a, nil
	}
	if err != nil {
		a.statusMsg = fmt.Sprintf("Spin failed: %v", err)
		a.logError("Spin failed: %v", err)
		return a, nil
	}
	if !ticket.Accepted {
		return a, nil
	}

	sel := ticket.Selection
	switch sel.Outcome {
	case draw.OutcomeForcedHit:
		if err := a.queueStore.Save(sel.Queue); err != nil {
			a.logError("Winner queue not saved after forced draw of %s: %v", sel.ForcedNumber, err)
		}
	case draw.OutcomeForcedMissFallback:
		a.logInfo("Queued number %s is not registered; drawing at random", sel.ForcedNumber)
	}
	if a.power != a.config.DefaultPower() {
		if err := a.config.SetDefaultPower(a.power); err != nil {
			a.logWarn("Lever position not saved: %v", err)
		}
	}

	a.wheelRoster = roster
	a.reveal = nil
	a.statusMsg = fmt.Sprintf("Spinning · %d turns over %.1fs", ticket.Plan.FullTurns(), ticket.Plan.Duration.Seconds())
	a.logInfo("Spin · %d participant(s) · power %.0f%% · %d queued", len(roster), a.power*100, len(pending))
	return a, a.frameCmd()
}

func (a *App) renderSpin(width int) string {
	sections := []string{
		renderReel(a.wheelRoster, a.controller.Orientation()),
		"",
		renderGauge(a.power, a.controller.Spinning()),
	}
	if a.controller.Spinning() {
		sections = append(sections, dimStyle.Render(fmt.Sprintf("%3.0f%%", a.lastFrame.Progress*100)))
	}
	if a.reveal != nil {
		sections = append(sections, "", renderWinner(a.reveal.Winner, width))
	}
	a.help.Width = width
	sections = append(sections, "", a.help.View(a.keys))
	return strings.Join(sections, "\n")
}

// renderReel draws the slices around the marker as a vertical reel, the
// slice under the marker in the middle row.
func renderReel(roster []participant.Participant, orientation float64) string {
	if len(roster) == 0 {
		return dimStyle.Render("The wheel is empty.")
	}
	wheel, err := draw.NewWheel(len(roster))
	if err != nil {
		return dimStyle.Render(err.Error())
	}
	center := wheel.IndexAtMarker(orientation)
	half := min(reelRows/2, (len(roster)-1)/2)
	var lines []string
	for offset := -half; offset <= half; offset++ {
		idx := ((center+offset)%len(roster) + len(roster)) % len(roster)
		label := fmt.Sprintf("%-6s %s", roster[idx].Key(), roster[idx].Name)
		if offset == 0 {
			lines = append(lines, markerStyle.Render("▶ "+label+" ◀"))
			continue
		}
		lines = append(lines, sliceStyle.Render("  "+label))
	}
	degrees := draw.Normalize(orientation) * 180 / math.Pi
	lines = append(lines, dimStyle.Render(fmt.Sprintf("  %d slices · %.0f°", len(roster), degrees)))
	return strings.Join(lines, "\n")
}

func renderGauge(power float64, locked bool) string {
	filled := int(math.Round(power * gaugeWidth))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", gaugeWidth-filled)
	label := fmt.Sprintf("POWER ▕%s▏ %3.0f%% · %.1fs", bar, power*100, draw.DurationForPower(power).Seconds())
	if locked {
		return dimStyle.Render(label)
	}
	return gaugeStyle.Render(label)
}

func renderWinner(p participant.Participant, width int) string {
	body := fmt.Sprintf("WINNER\n\n%s\nNo. %s", p.Name, p.Key())
	return winnerStyle.Width(max(20, min(width-4, 40))).Render(body)
}
