package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"savedfile/cmd/savedfile/store"
)

type browseState int

const (
	browseList browseState = iota
	browseConfirm
	browseResult
)

var (
	browseBase = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	browseTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			Padding(0, 1)

	browseHelp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	browseOverlay = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(1, 3).
			MarginLeft(2)

	browseOverlayTitle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("214"))

	browseKey = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))

	browseOK = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Padding(0, 1)

	browseErr = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Padding(0, 1)
)

// browseModel is a table of every saved file; d forgets the highlighted one.
type browseModel struct {
	table     table.Model
	registry  *store.Registry
	entries   []store.Entry
	state     browseState
	resultMsg string
	resultErr error
}

func newBrowseModel(reg *store.Registry) browseModel {
	columns := []table.Column{
		{Title: "NAME", Width: 20},
		{Title: "VERSION", Width: 12},
		{Title: "SAVE AS", Width: 20},
		{Title: "ORIGINAL", Width: 40},
	}

	entries := sortedEntries(reg)
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(toBrowseRows(entries)),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color("99"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return browseModel{
		table:    t,
		registry: reg,
		entries:  entries,
		state:    browseList,
	}
}

func toBrowseRows(entries []store.Entry) []table.Row {
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		version := e.VersionString()
		if version == "" {
			version = "(default)"
		}
		rows[i] = table.Row{e.Name, version, e.DefaultSaveName, e.OriginalPath}
	}
	return rows
}

// selected returns the highlighted entry.
func (m browseModel) selected() (store.Entry, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.entries) {
		return store.Entry{}, false
	}
	return m.entries[idx], true
}

func (m *browseModel) reload() {
	m.entries = sortedEntries(m.registry)
	m.table.SetRows(toBrowseRows(m.entries))
	if m.table.Cursor() >= len(m.entries) && len(m.entries) > 0 {
		m.table.SetCursor(len(m.entries) - 1)
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case browseList:
		return m.updateList(msg)
	case browseConfirm:
		return m.updateConfirm(msg)
	case browseResult:
		return m.updateResult(msg)
	}
	return m, nil
}

func (m browseModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "d", "delete":
			if len(m.entries) > 0 {
				m.state = browseConfirm
			}
			return m, nil
		case "r":
			m.reload()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m browseModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch strings.ToLower(msg.String()) {
		case "y":
			if e, ok := m.selected(); ok {
				_, err := forget(m.registry, e.Name, e.VersionString())
				m.resultErr = err
				if err == nil {
					m.resultMsg = fmt.Sprintf("Removed %s.", e.Key())
				} else {
					m.resultMsg = fmt.Sprintf("Could not remove %s: %v", e.Key(), err)
				}
			}
			m.state = browseResult
			return m, nil
		case "n", "esc", "q":
			m.state = browseList
			return m, nil
		}
	}
	return m, nil
}

func (m browseModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc", "enter", "r":
			m.reload()
			m.state = browseList
			return m, nil
		}
	}
	return m, nil
}

func (m browseModel) View() string {
	title := browseTitle.Render(fmt.Sprintf("%s  %d saved files", strings.ToUpper(appName), len(m.entries)))
	tableView := browseBase.Render(m.table.View())

	switch m.state {
	case browseConfirm:
		var target string
		if e, ok := m.selected(); ok {
			target = e.Key()
		}
		overlay := browseOverlay.Render(
			browseOverlayTitle.Render("Remove "+target+" ?") + "\n\n" +
				browseKey.Render("y") + " confirm    " +
				browseKey.Render("n") + " cancel",
		)
		return title + "\n" + tableView + "\n" + overlay

	case browseResult:
		var msg string
		if m.resultErr != nil {
			msg = browseErr.Render(m.resultMsg)
		} else {
			msg = browseOK.Render(m.resultMsg)
		}
		help := browseHelp.Render("enter / r  continue    q  quit")
		return title + "\n" + tableView + "\n" + msg + "\n" + help

	default:
		var help string
		if len(m.entries) == 0 {
			help = browseHelp.Render("No saved files.  r  refresh    q  quit")
		} else {
			help = browseHelp.Render("↑/↓  navigate    d  remove    r  refresh    q  quit")
		}
		return title + "\n" + tableView + "\n" + help
	}
}
