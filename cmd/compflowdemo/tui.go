package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/opsloop/compflow"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	nameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	filledDot  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render("●")
)

// componentDoneMsg is sent into the bubbletea program each time a
// component finishes, via a Broker observer registered in runProgressTUI.
type componentDoneMsg struct {
	name string
	line string
}

type progressModel struct {
	total     int
	completed []string
	events    <-chan componentDoneMsg
	spin      spinner.Model
	done      bool
}

func newProgressModel(total int, events <-chan componentDoneMsg) progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = nameStyle
	return progressModel{total: total, events: events, spin: s}
}

func waitForNext(events <-chan componentDoneMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return tea.Quit()
		}
		return msg
	}
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(waitForNext(m.events), m.spin.Tick)
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case componentDoneMsg:
		m.completed = append(m.completed, msg.line)
		if len(m.completed) >= m.total {
			m.done = true
			return m, tea.Quit
		}
		return m, waitForNext(m.events)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m progressModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("compflow run") + "\n\n")
	for i := 0; i < m.total; i++ {
		if i < len(m.completed) {
			b.WriteString(filledDot + " " + doneStyle.Render(m.completed[i]) + "\n")
		} else if i == len(m.completed) && !m.done {
			b.WriteString(m.spin.View() + " " + nameStyle.Render("running...") + "\n")
		} else {
			b.WriteString("  pending\n")
		}
	}
	if m.done {
		b.WriteString("\n" + doneStyle.Render(fmt.Sprintf("finished %d/%d components", len(m.completed), m.total)) + "\n")
	}
	return b.String()
}

// runProgressTUI subscribes an observer to every component in reg so
// each completion is fed into the returned channel as it happens, for a
// bubbletea program to consume while a run is in progress elsewhere.
func runProgressTUI(reg *compflow.Registry, total int) chan componentDoneMsg {
	events := make(chan componentDoneMsg, total)
	reg.AddObserver(compflow.AnyType, func(c compflow.Component, broker *compflow.Broker) {
		events <- componentDoneMsg{
			name: reg.GetSimpleName(c),
			line: describeOutcome(reg, broker, c),
		}
	})
	return events
}

