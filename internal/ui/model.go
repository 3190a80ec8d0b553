// Package ui renders the live tuner display.
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/brendanciccone/tempotuner/internal/note"
	"github.com/brendanciccone/tempotuner/internal/tuner"
)

const meterWidth = 41 // odd, so the center tick is a single cell

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			PaddingLeft(2).
			PaddingRight(2).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	noteCardStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333333")).
			Padding(1, 4).
			MarginBottom(1)

	statusColors = map[note.Status]string{
		note.StatusFlat:   "#5FAFFF",
		note.StatusInTune: "#00D75F",
		note.StatusSharp:  "#FF5F5F",
		note.StatusNone:   "#888888",
	}
)

// ReadingMsg carries the latest engine output to the UI.
type ReadingMsg struct {
	Reading tuner.Reading
}

// LevelMsg carries signal level for the debug line.
type LevelMsg struct {
	RMS float64
	DB  float64
}

// Model is the bubbletea state for the tuner view.
type Model struct {
	settings *Settings
	reading  tuner.Reading
	rms      float64
	db       float64
	width    int
	height   int
}

func NewModel(settings *Settings) Model {
	return Model{settings: settings, db: -100}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "+", "=":
			m.settings.AdjustReference(1)
		case "-", "_":
			m.settings.AdjustReference(-1)
		case "f":
			m.settings.ToggleFlats()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case ReadingMsg:
		m.reading = msg.Reading

	case LevelMsg:
		m.rms = msg.RMS
		m.db = msg.DB
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("tempotuner"))
	b.WriteString("\n")

	switch {
	case m.reading.Note != nil:
		n := *m.reading.Note
		color := statusColors[n.Status]

		card := noteCardStyle.Background(lipgloss.Color(color))
		b.WriteString(card.Render(n.String()))
		b.WriteString("\n")
		b.WriteString(renderMeter(n.Cents, n.Status))
		b.WriteString("\n")

		state := "detecting…"
		if m.reading.Locked {
			state = n.Status.String()
		}
		b.WriteString(infoStyle.Render(fmt.Sprintf(
			"%.1f Hz  |  %+d cents  |  %s", n.Frequency, n.Cents, state)))

	case m.reading.SignalPresent:
		b.WriteString(infoStyle.Render("Signal detected, finding pitch…"))

	default:
		b.WriteString(infoStyle.Render("Listening…"))
	}

	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf(
		"A4 = %.1f Hz  |  %s  |  level %.1f dB",
		m.settings.ReferenceA4(), spelling(m.settings.UseFlats()), m.db)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("+/- reference  f flats/sharps  q quit"))

	return b.String()
}

// renderMeter draws a cents meter with a centered tick: the needle sits at
// the center when in tune and clips at ±50 cents.
func renderMeter(cents int, status note.Status) string {
	half := meterWidth / 2

	pos := half + cents*half/50
	if pos < 0 {
		pos = 0
	}
	if pos >= meterWidth {
		pos = meterWidth - 1
	}

	cells := make([]rune, meterWidth)
	for i := range cells {
		cells[i] = '─'
	}
	cells[half] = '┼'
	cells[pos] = '●'

	style := lipgloss.NewStyle().Foreground(lipgloss.Color(statusColors[status]))
	return style.Render("♭ "+string(cells)+" ♯")
}

func spelling(useFlats bool) string {
	if useFlats {
		return "flats"
	}
	return "sharps"
}
