package kiosk

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderResult() string {
	width := 60
	if a.width > 10 && a.width-10 < width {
		width = a.width - 10
	}
	wrapped := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	b.WriteString(styleTitle.Render("Thank you, " + a.result.FirstName + "!"))
	b.WriteString("\n\n")
	b.WriteString(wrapped.Render(a.result.WelcomeMessage))
	b.WriteString("\n\n")
	b.WriteString(styleLabelFocused.Render("A prayer for you"))
	b.WriteString("\n")
	b.WriteString(wrapped.Inherit(stylePrayer).Render(a.result.Prayer))
	b.WriteString("\n\n")
	b.WriteString(styleSubtitle.Render(a.church.Name))
	b.WriteString("\n\n")
	b.WriteString(styleHelp.Render(keys.Reset.Help().Key + " " + keys.Reset.Help().Desc + " • " +
		keys.Quit.Help().Key + " " + keys.Quit.Help().Desc))

	return styleBox.Render(b.String())
}
