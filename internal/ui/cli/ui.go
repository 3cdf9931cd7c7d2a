package cli

import (
	"fmt"
	coreapp "hdrgen/internal/core/app"
	"hdrgen/internal/data/history"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxUIItems = 200

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
	failed      bool
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list       list.Model
	lastUpdate time.Time
	written    int
	removed    int
	failed     int
	lastErr    string
}

type updateMsg struct {
	at      time.Time
	results []coreapp.FileResult
	err     error
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.lastUpdate = msg.at
		m.lastErr = ""
		if msg.err != nil {
			m.lastErr = msg.err.Error()
		}

		fresh := make([]list.Item, 0, len(msg.results))
		for _, r := range msg.results {
			it, ok := resultItem(r, msg.at)
			if !ok {
				continue
			}
			switch r.Status {
			case history.StatusWritten:
				m.written++
			case history.StatusRemoved:
				m.removed++
			case history.StatusFailed:
				m.failed++
			}
			fresh = append(fresh, it)
		}

		items := append(fresh, m.list.Items()...)
		if len(items) > maxUIItems {
			items = items[:maxUIItems]
		}
		cmd := m.list.SetItems(items)
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// resultItem turns a result into a list entry. Up-to-date and export-free
// sources are not shown.
func resultItem(r coreapp.FileResult, at time.Time) (item, bool) {
	stamp := at.Format("15:04:05")
	switch r.Status {
	case history.StatusWritten:
		return item{
			title: r.Output,
			desc:  fmt.Sprintf("%s | %d prototypes from %s", stamp, r.Prototypes, r.Source),
		}, true
	case history.StatusRemoved:
		return item{
			title: r.Output,
			desc:  fmt.Sprintf("%s | removed, %s was deleted", stamp, r.Source),
		}, true
	case history.StatusFailed:
		desc := stamp + " | failed"
		if r.Err != nil {
			desc = fmt.Sprintf("%s | %v", stamp, r.Err)
		}
		return item{title: r.Source, desc: desc, failed: true}, true
	default:
		return item{}, false
	}
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d written | %d removed",
		m.lastUpdate.Format("15:04:05"), m.written, m.removed))

	var summary string
	if m.lastErr == "" {
		summary = successStyle.Render("Headers up to date")
	} else {
		summary = failureStyle.Render(fmt.Sprintf("%d failures | %s", m.failed, m.lastErr))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("C Header Generator"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Generated Headers"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
	}
}
