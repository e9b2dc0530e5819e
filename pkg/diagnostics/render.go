package diagnostics

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	salmonPink = lipgloss.Color("#FFB3BA")
	mintGreen  = lipgloss.Color("#A8E6CF")
	mutedGray  = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(salmonPink)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Width(14)

	okStyle = lipgloss.NewStyle().
		Foreground(mintGreen)

	warnStyle = lipgloss.NewStyle().
			Foreground(salmonPink)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(salmonPink).
			Padding(0, 1)
)

// Render formats the report for a terminal.
func Render(r *Report) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Annotation diagnostics"))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value))
		b.WriteString("\n")
	}

	row("viewport", fmt.Sprintf("%.0fx%.0f at (%.0f, %.0f)", r.Page.ViewportWidth, r.Page.ViewportHeight, r.Page.ScrollX, r.Page.ScrollY))
	row("document", fmt.Sprintf("%.0fx%.0f", r.Page.DocumentWidth, r.Page.DocumentHeight))
	row("annotations", fmt.Sprintf("%d (%d highlights, %d labels, %d comments)",
		r.Inventory.Total, r.Inventory.Highlights, r.Inventory.Labels, r.Inventory.Comments))
	row("executions", fmt.Sprintf("%d recent", len(r.ExecutionRecords)))

	if len(r.DuplicateIDs) > 0 {
		row("duplicates", warnStyle.Render(strings.Join(r.DuplicateIDs, ", ")))
	}
	for _, issue := range r.PositionIssues {
		row("position", warnStyle.Render(fmt.Sprintf("%s: %s", issue.ID, issue.Issue)))
	}

	style := warnStyle
	if r.Healthy() {
		style = okStyle
	}
	lines := make([]string, len(r.Suggestions))
	for i, s := range r.Suggestions {
		lines[i] = style.Render("• " + s)
	}
	b.WriteString("\n")
	b.WriteString(boxStyle.Render(strings.Join(lines, "\n")))
	b.WriteString("\n")

	return b.String()
}
