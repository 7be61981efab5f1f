package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"callforscience/i18n"
	"callforscience/models"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("178")).
			Padding(0, 1).
			Width(72)
	cardTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("178"))
	cardJournalStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245"))
	chipStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("178")).Background(lipgloss.Color("236")).Padding(0, 1)
	splashStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("178")).Padding(0, 1)
	mutedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// RenderCards writes one bordered card per listing on the page, followed by
// the found counter and page position, using the labels for lang.
func RenderCards(w io.Writer, page *models.Page, bundle *i18n.Bundle, lang string) {
	for _, l := range page.Items {
		fmt.Fprintln(w, renderCard(l, bundle, lang))
	}

	fmt.Fprintln(w, mutedStyle.Render(bundle.Tf(lang, "encontrados", page.Total)))
	if page.Total > 0 {
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%s: %d · %d / %d",
			bundle.T(lang, "perPage"), page.PerPage, page.Page, page.TotalPages)))
	}
}

func renderCard(l *models.Listing, bundle *i18n.Bundle, lang string) string {
	var b strings.Builder

	if IsAbstractOnly(l) {
		b.WriteString(splashStyle.Render(bundle.T(lang, "resumenSplash")))
		b.WriteString("\n")
	}
	b.WriteString(cardTitleStyle.Render(l.CFPName))
	b.WriteString("\n")
	b.WriteString(cardJournalStyle.Render(l.Journal))
	b.WriteString("\n\n")

	chips := make([]string, 0, 8)
	for _, kw := range Keywords(l, lang) {
		chips = append(chips, chipStyle.Render(kw))
	}
	fmt.Fprintf(&b, "🎯 %s: %s\n", bundle.T(lang, "tematicasLabel"), strings.Join(chips, " "))
	fmt.Fprintf(&b, "📅 %s: %s\n", bundle.T(lang, "deadlineLabel"), bundle.FormatDeadline(l.DeadlineRaw, lang))
	fmt.Fprintf(&b, "📊 %s: %s\n", bundle.T(lang, "cuartilLabel"), l.Quartile)
	fmt.Fprintf(&b, "💰 %s: $%s\n", bundle.T(lang, "pagoLabel"), l.Fee)
	fmt.Fprintf(&b, "🔗 %s: %s", bundle.T(lang, "seeCFP"), l.Link)

	return cardStyle.Render(b.String())
}
