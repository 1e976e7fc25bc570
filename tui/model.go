// Package tui is a terminal inspector for composition files: part
// list, per-part activity, and articulation usage, so a piece can be
// sanity-checked before rendering it to MIDI.
package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"orchestrion/composition"
	"orchestrion/debug"
	"orchestrion/theme"
)

// Width of the per-part activity bar in cells.
const barWidth = 48

type Model struct {
	Comp     *composition.Composition
	Theme    *theme.Theme
	selected int
	quitting bool
}

func NewModel(comp *composition.Composition, th *theme.Theme) Model {
	return Model{Comp: comp, Theme: th}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		debug.Log("tui", "key %s", msg.String())
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "j", "down":
			if m.selected < len(m.Comp.Parts)-1 {
				m.selected++
			}
		case "k", "up":
			if m.selected > 0 {
				m.selected--
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	cursorStyle := lipgloss.NewStyle().Foreground(m.Theme.Cursor())

	c := m.Comp
	title := c.Title
	if title == "" {
		title = "(untitled)"
	}
	tempo := "no tempo"
	if len(c.Tempo) > 0 {
		tempo = fmt.Sprintf("%g bpm", c.Tempo[0].BPM)
		if len(c.Tempo) > 1 {
			tempo += fmt.Sprintf(" (%d changes)", len(c.Tempo)-1)
		}
	}
	header := headerStyle.Render(fmt.Sprintf("%s  %s  %d/%d  %s  %.1fs  %d notes",
		title, c.Key, c.Time.Numerator, c.Time.Denominator, tempo,
		c.Duration(), c.NoteCount()))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")

	total := c.Duration()
	for i, part := range c.Parts {
		cursor := m.Theme.Symbols.Unselected
		style := lipgloss.NewStyle().Foreground(m.Theme.FG())
		if i == m.selected {
			cursor = m.Theme.Symbols.Selected
			style = cursorStyle
		}
		hue := 0.3 + 0.6*float64(i)/float64(max(1, len(c.Parts)-1))
		bar := lipgloss.NewStyle().Foreground(m.Theme.Color(hue)).Render(m.densityBar(part, total))
		row := fmt.Sprintf("%c %-16s ch%02d %s %4d", cursor, part.Name, part.Channel, bar, len(part.Notes))
		out.WriteString(style.Render(row))
		out.WriteString("\n")
	}

	if len(c.Parts) > 0 {
		out.WriteString("\n")
		out.WriteString(m.partDetail(c.Parts[m.selected]))
	}

	out.WriteString("\n")
	out.WriteString(dimStyle.Render("j/k:part  q:quit"))
	return out.String()
}

// densityBar draws note activity across the piece in fixed-width
// buckets, using the theme's density ramp.
func (m Model) densityBar(part *composition.InstrumentPart, total float64) string {
	if total <= 0 {
		return strings.Repeat(" ", barWidth)
	}
	counts := make([]int, barWidth)
	peak := 0
	for _, n := range part.Notes {
		b := int(n.Start / total * barWidth)
		if b >= barWidth {
			b = barWidth - 1
		}
		counts[b]++
		if counts[b] > peak {
			peak = counts[b]
		}
	}
	var bar strings.Builder
	for _, count := range counts {
		if count == 0 {
			bar.WriteRune(' ')
			continue
		}
		level := (count*len(m.Theme.Symbols.Density) - 1) / max(1, peak)
		if level >= len(m.Theme.Symbols.Density) {
			level = len(m.Theme.Symbols.Density) - 1
		}
		bar.WriteRune(m.Theme.Symbols.Density[level])
	}
	return bar.String()
}

func (m Model) partDetail(part *composition.InstrumentPart) string {
	style := lipgloss.NewStyle().Foreground(m.Theme.FG())
	var out strings.Builder
	out.WriteString(style.Render(fmt.Sprintf("%s  instrument:%s  program:%d",
		part.Name, part.Instrument, part.Program)))
	out.WriteString("\n")

	arts := make(map[composition.Articulation]int)
	for _, n := range part.Notes {
		if n.Articulation != composition.NoArticulation {
			arts[n.Articulation]++
		}
	}
	if len(arts) > 0 {
		var tags []string
		for a, count := range arts {
			tags = append(tags, fmt.Sprintf("%s:%d", a, count))
		}
		sort.Strings(tags)
		out.WriteString(style.Render("articulations " + strings.Join(tags, " ")))
		out.WriteString("\n")
	}
	if n := len(part.ControlChanges); n > 0 {
		out.WriteString(style.Render(fmt.Sprintf("%d control changes", n)))
		out.WriteString("\n")
	}
	if n := len(part.PitchBends); n > 0 {
		out.WriteString(style.Render(fmt.Sprintf("%d pitch bends", n)))
		out.WriteString("\n")
	}
	return out.String()
}
