package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yllada/windscribe-client/output"
)

// ErrCanceled is returned by Pick when the user leaves without choosing.
var ErrCanceled = errors.New("selection canceled")

// pickerModel lists locations in a table with a filter line above it.
// Typing edits the filter; arrow keys move the selection.
type pickerModel struct {
	locations []output.Location
	filtered  []output.Location
	filter    textinput.Model
	table     table.Model
	chosen    *output.Location
	canceled  bool
	width     int
	height    int
}

// navigationKeys are the only keys forwarded to the table, so that letters
// always reach the filter.
func navigationKeys() table.KeyMap {
	return table.KeyMap{
		LineUp:       key.NewBinding(key.WithKeys("up", "ctrl+p")),
		LineDown:     key.NewBinding(key.WithKeys("down", "ctrl+n")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		GotoTop:      key.NewBinding(key.WithKeys("home")),
		GotoBottom:   key.NewBinding(key.WithKeys("end")),
	}
}

func newPickerModel(locations []output.Location) pickerModel {
	filter := textinput.New()
	filter.Prompt = "Filter: "
	filter.Placeholder = "country, city or label"
	filter.Focus()

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Location", Width: 24},
			{Title: "Short", Width: 7},
			{Title: "City", Width: 22},
			{Title: "Label", Width: 26},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
		table.WithKeyMap(navigationKeys()),
		table.WithStyles(tableStyles()),
	)

	m := pickerModel{locations: locations, filter: filter, table: t}
	m.applyFilter()
	return m
}

// matches reports whether every word of query occurs in the location.
func matches(loc output.Location, query string) bool {
	haystack := strings.ToLower(strings.Join([]string{loc.Name, loc.Abbreviation, loc.City, loc.Label}, " "))
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if !strings.Contains(haystack, word) {
			return false
		}
	}
	return true
}

func (m *pickerModel) applyFilter() {
	query := m.filter.Value()
	var filtered []output.Location
	rows := make([]table.Row, 0, len(m.locations))
	for _, loc := range m.locations {
		if !matches(loc, query) {
			continue
		}
		filtered = append(filtered, loc)
		rows = append(rows, table.Row{loc.Name, loc.Abbreviation, loc.City, loc.Label})
	}
	m.filtered = filtered
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

// selected returns the highlighted location, if any.
func (m pickerModel) selected() (output.Location, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.filtered) {
		return output.Location{}, false
	}
	return m.filtered[i], true
}

func (m pickerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Title, filter, header and footer take about eight lines.
		if h := m.height - 8; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if loc, ok := m.selected(); ok {
				m.chosen = &loc
				return m, tea.Quit
			}
			return m, nil
		case "esc", "ctrl+c":
			m.canceled = true
			return m, tea.Quit
		case "up", "down", "pgup", "pgdown", "home", "end", "ctrl+p", "ctrl+n", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	before := m.filter.Value()
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		m.applyFilter()
	}
	return m, cmd
}

func (m pickerModel) View() string {
	if m.chosen != nil || m.canceled {
		return ""
	}

	title := titleStyle.Render(fmt.Sprintf("Choose a location (%d of %d)", len(m.filtered), len(m.locations)))

	body := m.table.View()
	if len(m.filtered) == 0 {
		body = emptyStyle.Render("No location matches the filter.")
	}

	footer := footerStyle.Render("↑/↓ move • enter connect • esc cancel")

	return lipgloss.JoinVertical(lipgloss.Left, title, m.filter.View(), "", body, footer)
}

// PickOptions adjusts how the picker program runs.
type PickOptions struct {
	// Input and Output replace the terminal when set.
	Input  io.Reader
	Output io.Writer
}

// Pick shows an interactive location picker and returns the chosen
// location. It returns ErrCanceled when the user quits without choosing.
func Pick(ctx context.Context, locations []output.Location, opts PickOptions) (output.Location, error) {
	if len(locations) == 0 {
		return output.Location{}, errors.New("no locations to choose from")
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Output))
	}

	final, err := tea.NewProgram(newPickerModel(locations), programOpts...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrInterrupted) {
			return output.Location{}, ErrCanceled
		}
		return output.Location{}, fmt.Errorf("location picker: %w", err)
	}

	m, ok := final.(pickerModel)
	if !ok || m.chosen == nil {
		return output.Location{}, ErrCanceled
	}
	return *m.chosen, nil
}
