package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/outpostdigital/roma/db"
)

func (m Model) renderDetailView() string {
	var s strings.Builder

	company, err := db.FindCompanyBySlug(m.db, m.selectedSlug)
	if err != nil || company == nil {
		return fmt.Sprintf("Error loading company %q\n\n%s",
			m.selectedSlug, helpStyle.Render("Esc: Back • q: Quit"))
	}

	s.WriteString(titleStyle.Render(company.Name))
	s.WriteString("\n\n")

	s.WriteString(fmt.Sprintf("Slug:     %s\n", company.Slug))
	s.WriteString(fmt.Sprintf("Status:   %s\n", company.Status))
	if company.Plan != "" {
		s.WriteString(fmt.Sprintf("Plan:     %s\n", company.Plan))
	}
	if company.City != "" {
		s.WriteString(fmt.Sprintf("Location: %s, %s\n", company.City, company.State))
	}
	if company.Email != "" {
		s.WriteString(fmt.Sprintf("Email:    %s\n", company.Email))
	}

	s.WriteString("\n")
	if company.LastSyncedAt != nil {
		s.WriteString(statusOKStyle.Render(
			fmt.Sprintf("Last synced %s", company.LastSyncedAt.Format("2006-01-02 15:04:05"))))
		if company.ProfileItemID != "" {
			s.WriteString(fmt.Sprintf("\nProfile item: %s", company.ProfileItemID))
		}
	} else {
		s.WriteString(statusBadStyle.Render("Never synced"))
	}
	s.WriteString("\n\n")

	intake, err := db.GetIntake(m.db, company.ID)
	if err == nil && intake != nil {
		s.WriteString(fmt.Sprintf("Intake: %d bytes, updated %s\n",
			len(intake.RawData), intake.UpdatedAt.Format("2006-01-02 15:04")))
	} else {
		s.WriteString("Intake: none\n")
	}

	media, _ := db.ListMediaItems(m.db, company.ID)
	reviews, _ := db.ListReviews(m.db, company.ID)
	s.WriteString(fmt.Sprintf("Media: %d • Reviews: %d\n", len(media), len(reviews)))

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("r: Sync runs • Esc: Back • q: Quit"))

	return s.String()
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
	case "r":
		m.viewMode = ViewRuns
	}
	return m, nil
}
