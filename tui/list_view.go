package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/outpostdigital/roma/db"
)

func (m Model) renderListView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("ROMA DASHBOARD"))
	s.WriteString("\n\n")

	s.WriteString(m.renderCompaniesTable())
	s.WriteString("\n\n")

	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderCompaniesTable() string {
	companies, err := db.FindCompanies(m.db, m.searchQuery, 100)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	columns := []table.Column{
		{Title: "Name", Width: 30},
		{Title: "Slug", Width: 25},
		{Title: "Status", Width: 10},
		{Title: "Last Run", Width: 10},
		{Title: "Last Synced", Width: 17},
	}

	var rows []table.Row
	for _, company := range companies {
		lastRun := "-"
		if run, err := db.LatestSyncRun(m.db, company.ID); err == nil && run != nil {
			lastRun = run.Status
		}

		lastSynced := "never"
		if company.LastSyncedAt != nil {
			lastSynced = company.LastSyncedAt.Format("2006-01-02 15:04")
		}

		rows = append(rows, table.Row{
			company.Name,
			company.Slug,
			company.Status,
			lastRun,
			lastSynced,
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(m.height-10),
	)

	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

func (m Model) renderListHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"Enter: Company detail",
		"r: Sync runs",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		m.selectedRow++
	case "enter":
		m.viewMode = ViewDetail
		m.selectedSlug = m.getSelectedSlug()
	case "r":
		m.viewMode = ViewRuns
		m.selectedSlug = m.getSelectedSlug()
	}

	return m, nil
}

func (m Model) getSelectedSlug() string {
	companies, _ := db.FindCompanies(m.db, m.searchQuery, 100)
	if m.selectedRow < len(companies) {
		return companies[m.selectedRow].Slug
	}
	return ""
}
