// Package viz renders a live terminal view of a running simulation.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ionsim/internal/engine"
)

const (
	historyCapacity = 600
	stepsPerFrame   = 5
	graphWidth      = 60
	graphHeight     = 6
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(40)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

type TickMsg time.Time

// Model drives one trajectory cursor and plots its traces.
type Model struct {
	cursor    *engine.Cursor
	title     string
	openState string
	openIdx   int

	running bool
	failed  error
	last    engine.Sample

	currentHist []float64
	openHist    []float64
}

// NewModel wraps a cursor for display. openState/openIdx name the
// state whose occupancy is plotted alongside the current.
func NewModel(cursor *engine.Cursor, title, openState string, openIdx int) Model {
	return Model{
		cursor:      cursor,
		title:       title,
		openState:   openState,
		openIdx:     openIdx,
		running:     true,
		last:        cursor.Now(),
		currentHist: make([]float64, 0, historyCapacity),
		openHist:    make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		}
	case TickMsg:
		if m.running && m.failed == nil {
			m.step()
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) step() {
	for i := 0; i < stepsPerFrame; i++ {
		s, err := m.cursor.Step()
		if err != nil {
			m.failed = err
			m.running = false
			return
		}
		m.last = s
	}
	m.currentHist = appendCapped(m.currentHist, m.last.TotalCurrentPA)
	open := 0.0
	if m.openIdx < len(m.last.Probabilities) {
		open = m.last.Probabilities[m.openIdx]
	}
	m.openHist = appendCapped(m.openHist, open)
}

func (m *Model) reset() {
	m.cursor.Reset()
	m.last = m.cursor.Now()
	m.currentHist = m.currentHist[:0]
	m.openHist = m.openHist[:0]
	m.failed = nil
	m.running = true
}

func appendCapped(hist []float64, v float64) []float64 {
	hist = append(hist, v)
	if len(hist) > historyCapacity {
		hist = hist[1:]
	}
	return hist
}

func (m Model) View() string {
	var plots strings.Builder
	plots.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")
	if len(m.currentHist) > 1 {
		chart := asciigraph.Plot(m.currentHist,
			asciigraph.Height(graphHeight), asciigraph.Width(graphWidth),
			asciigraph.Caption("current (pA)"))
		plots.WriteString(graphStyle.Render(chart) + "\n")
	}
	if len(m.openHist) > 1 {
		chart := asciigraph.Plot(m.openHist,
			asciigraph.Height(graphHeight), asciigraph.Width(graphWidth),
			asciigraph.Caption(fmt.Sprintf("p(%s)", m.openState)))
		plots.WriteString(graphStyle.Render(chart) + "\n")
	}
	if m.failed != nil {
		plots.WriteString(errorStyle.Render("integration failed: "+m.failed.Error()) + "\n")
	}

	var stats strings.Builder
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	stats.WriteString(status + "\n\n")
	row := func(label, format string, v float64) {
		stats.WriteString(labelStyle.Render(label) + valueStyle.Render(fmt.Sprintf(format, v)) + "\n")
	}
	row("Time", "%.1f ms", m.last.TimeMS)
	row("Voltage", "%.1f mV", m.last.VoltageMV)
	row("Current", "%.3f pA", m.last.TotalCurrentPA)
	row("Conductance", "%.4f nS", m.last.TotalConductanceNS)
	row("E_K", "%.2f mV", m.last.NernstPotentialMV)
	row("[K+] in", "%.4f mM", m.last.InternalKMM)
	row("[K+] out", "%.4f mM", m.last.ExternalKMM)
	stats.WriteString(helpStyle.Render("\nSP:Pause  R:Reset  Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, plots.String(), statsStyle.Render(stats.String()))
}

// RunLive blocks inside the TUI until the user quits.
func RunLive(cursor *engine.Cursor, title, openState string, openIdx int) error {
	p := tea.NewProgram(NewModel(cursor, title, openState, openIdx))
	_, err := p.Run()
	return err
}
