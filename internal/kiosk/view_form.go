package kiosk

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wolfman30/connection-card/internal/visitor"
)

var fieldLabels = map[visitor.Field]string{
	visitor.FieldFirstName:          "First name *",
	visitor.FieldLastName:           "Last name *",
	visitor.FieldEmail:              "Email",
	visitor.FieldAddress:            "Street address",
	visitor.FieldCityOrRegion:       "City / State / ZIP",
	visitor.FieldAgeRange:           "Age range",
	visitor.FieldPrayerRequest:      "Prayer request",
	visitor.FieldMembershipInterest: "Interested in joining?",
}

func (a *App) renderForm() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Welcome to " + a.church.Name))
	b.WriteString("\n")
	if a.church.Address != "" {
		b.WriteString(styleSubtitle.Render(a.church.Address))
		b.WriteString("\n")
	}
	b.WriteString(styleSubtitle.Render("We're glad you're here. Please fill out a connection card."))
	b.WriteString("\n\n")

	for i, f := range a.rows {
		b.WriteString(a.renderRow(f, i == a.focus))
		b.WriteString("\n")
	}

	if a.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(styleError.Render(a.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if a.busy {
		b.WriteString(a.spinner.View() + " Preparing your welcome...")
	} else {
		b.WriteString(a.formHelp())
	}

	return styleBox.Render(b.String())
}

func (a *App) renderRow(f visitor.Field, focused bool) string {
	label := styleLabel.Render(fieldLabels[f])
	if focused {
		label = styleLabelFocused.Render(fieldLabels[f])
	}

	switch f {
	case visitor.FieldAgeRange:
		labels := make([]string, 0, len(visitor.AgeRanges()))
		for _, r := range visitor.AgeRanges() {
			labels = append(labels, r.String())
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, label, renderChoices(labels, a.ageIdx, focused))
	case visitor.FieldMembershipInterest:
		labels := make([]string, 0, len(visitor.MembershipInterests()))
		for _, m := range visitor.MembershipInterests() {
			labels = append(labels, m.String())
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, label, renderChoices(labels, a.joinIdx, focused))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, label, a.inputs[f].View())
}

func renderChoices(labels []string, selected int, focused bool) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		switch {
		case i == selected && focused:
			parts[i] = styleChoiceFocused.Render("[" + l + "]")
		case i == selected:
			parts[i] = styleChoice.Render("[" + l + "]")
		default:
			parts[i] = styleSubtitle.Render(" " + l + " ")
		}
	}
	return strings.Join(parts, " ")
}

func (a *App) formHelp() string {
	bindings := []string{
		keys.Next.Help().Key + " " + keys.Next.Help().Desc,
		keys.Prev.Help().Key + " " + keys.Prev.Help().Desc,
	}
	if isSelector(a.rows[a.focus]) {
		bindings = append(bindings, "←/→ choose")
	}
	bindings = append(bindings,
		keys.Submit.Help().Key+" "+keys.Submit.Help().Desc,
		keys.Reset.Help().Key+" "+keys.Reset.Help().Desc,
		keys.Quit.Help().Key+" "+keys.Quit.Help().Desc,
	)
	return styleHelp.Render(strings.Join(bindings, " • "))
}
