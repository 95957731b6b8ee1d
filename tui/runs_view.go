package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/outpostdigital/roma/db"
	"github.com/outpostdigital/roma/publish"
)

func (m Model) renderRunsView() string {
	var s strings.Builder

	company, err := db.FindCompanyBySlug(m.db, m.selectedSlug)
	if err != nil || company == nil {
		return fmt.Sprintf("Error loading company %q\n\n%s",
			m.selectedSlug, helpStyle.Render("Esc: Back • q: Quit"))
	}

	s.WriteString(titleStyle.Render(fmt.Sprintf("SYNC RUNS — %s", company.Name)))
	s.WriteString("\n\n")

	runs, err := db.ListSyncRuns(m.db, company.ID, 20)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	if len(runs) == 0 {
		s.WriteString("No sync runs yet\n")
	} else {
		columns := []table.Column{
			{Title: "Run", Width: 28},
			{Title: "Status", Width: 9},
			{Title: "OK", Width: 5},
			{Title: "Fail", Width: 5},
			{Title: "Started", Width: 17},
		}

		var rows []table.Row
		for _, run := range runs {
			rows = append(rows, table.Row{
				run.ID,
				run.Status,
				fmt.Sprintf("%d", run.Succeeded),
				fmt.Sprintf("%d", run.Failed),
				run.StartedAt.Format("2006-01-02 15:04"),
			})
		}

		t := table.New(
			table.WithColumns(columns),
			table.WithRows(rows),
			table.WithFocused(true),
			table.WithHeight(min(len(rows)+1, m.height-12)),
		)
		s.WriteString(t.View())
		s.WriteString("\n\n")
		s.WriteString(m.renderLatestFailures(&runs[0]))
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("Esc: Back • q: Quit"))

	return s.String()
}

// renderLatestFailures shows the failure lines from the most recent run's
// stored report, so a partial run can be diagnosed without leaving the TUI.
func (m Model) renderLatestFailures(run *db.SyncRun) string {
	report, err := publish.ParseReport([]byte(run.Report))
	if err != nil || len(report.Failures) == 0 {
		return ""
	}

	var s strings.Builder
	s.WriteString(statusBadStyle.Render(fmt.Sprintf("%d failure(s) in latest run:", len(report.Failures))))
	s.WriteString("\n")
	for _, f := range report.Failures {
		s.WriteString(fmt.Sprintf("  %s/%s: %s\n", f.Collection, f.Slug, f.Error))
	}
	return s.String()
}

func (m Model) handleRunsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.viewMode = ViewList
	}
	return m, nil
}
