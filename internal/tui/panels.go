package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tatianab/text-rpg/internal/models"
)

var (
	upper = cases.Upper(language.English)
	title = cases.Title(language.English)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3F3F46")).
			Padding(0, 1)

	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717A")).
			Bold(true)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)

	classStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#818CF8"))

	questStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FDE68A")).
			Italic(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717A")).
			Italic(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#27272A"))
)

func heading(s string) string {
	return headingStyle.Render(upper.String(s))
}

// gaugeRatio is the fill fraction of a bar, 0 when the maximum is unknown.
func gaugeRatio(g models.Gauge) float64 {
	if g.Max <= 0 {
		return 0
	}
	return float64(min(max(g.Current, 0), g.Max)) / float64(g.Max)
}

func renderCharacterSheet(c *models.Character, width int, hpBar, spBar progress.Model) string {
	if c == nil {
		return panelStyle.Width(width).Render(dimStyle.Render("No character yet."))
	}
	inner := max(10, width-4)
	hpBar.Width = inner
	spBar.Width = inner

	var b strings.Builder
	b.WriteString(nameStyle.Render(c.Name) + "\n")
	b.WriteString(classStyle.Render(wordwrap.String(c.ClassTitle, inner)) + "\n\n")

	b.WriteString(heading("hp") + fmt.Sprintf(" %d / %d\n", c.HP.Current, c.HP.Max))
	b.WriteString(hpBar.ViewAs(gaugeRatio(c.HP)) + "\n")
	b.WriteString(heading("sp") + fmt.Sprintf(" %d / %d\n", c.SP.Current, c.SP.Max))
	b.WriteString(spBar.ViewAs(gaugeRatio(c.SP)) + "\n\n")

	b.WriteString(heading("attributes") + "\n")
	for _, s := range c.Stats {
		b.WriteString(fmt.Sprintf("%-*s %d/%d\n", max(1, inner-6), s.Name, s.Value, models.StatMax))
	}

	b.WriteString("\n" + heading("active quest") + "\n")
	b.WriteString(questStyle.Render(wordwrap.String(c.ActiveQuest, inner)) + "\n\n")

	b.WriteString(heading("inventory") + "\n")
	if len(c.Inventory) == 0 {
		b.WriteString(dimStyle.Render("Empty..."))
	} else {
		for _, item := range c.Inventory {
			b.WriteString("• " + item + "\n")
		}
	}

	return panelStyle.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

// scoreColor buckets a relationship score into its display color.
func scoreColor(score int) lipgloss.Color {
	switch {
	case score >= 80:
		return lipgloss.Color("#22C55E")
	case score >= 60:
		return lipgloss.Color("#84CC16")
	case score >= 40:
		return lipgloss.Color("#EAB308")
	case score >= 20:
		return lipgloss.Color("#F97316")
	default:
		return lipgloss.Color("#EF4444")
	}
}

func renderRelationshipPanel(rels []models.Relationship, selected int, detailID string, width int) string {
	inner := max(10, width-4)
	if detailID != "" {
		if rel, ok := models.FindRelationship(rels, detailID); ok {
			return panelStyle.Width(width).Render(renderRelationshipDetail(rel, inner))
		}
	}

	var b strings.Builder
	b.WriteString(heading("relationships") + "\n\n")
	if len(rels) == 0 {
		b.WriteString(dimStyle.Render("You haven't met anyone yet."))
		return panelStyle.Width(width).Render(b.String())
	}

	for i, rel := range models.SortByRecency(rels) {
		score := lipgloss.NewStyle().Foreground(scoreColor(rel.RelationshipScore)).
			Render(fmt.Sprintf("%3d", rel.RelationshipScore))
		line := fmt.Sprintf("%s %s (%s)", score, rel.FullName, rel.Role)
		if i == selected {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("enter: details · esc: close"))
	return panelStyle.Width(width).Render(b.String())
}

func renderRelationshipDetail(rel models.Relationship, width int) string {
	var b strings.Builder
	b.WriteString(nameStyle.Render(rel.FullName) + "\n")
	b.WriteString(classStyle.Render(rel.Role) + "\n\n")

	score := lipgloss.NewStyle().Foreground(scoreColor(rel.RelationshipScore)).Bold(true).
		Render(fmt.Sprintf("%d", rel.RelationshipScore))
	b.WriteString(heading("score") + " " + score + "\n")
	b.WriteString(heading("attitude") + " " + title.String(rel.Attitude) + "\n")
	b.WriteString(heading("last seen") + fmt.Sprintf(" turn %d", rel.LastInteractionTime) + "\n\n")

	b.WriteString(heading("last interaction") + "\n")
	b.WriteString(wordwrap.String(rel.LastInteractionSummary, width) + "\n\n")

	if len(rel.ImportantFlags) > 0 {
		b.WriteString(heading("flags") + "\n")
		b.WriteString(strings.Join(rel.ImportantFlags, ", ") + "\n\n")
	}

	b.WriteString(heading("history") + "\n")
	if len(rel.History) == 0 {
		b.WriteString(dimStyle.Render("No history recorded yet."))
	} else {
		for _, h := range rel.History {
			b.WriteString(wordwrap.String("- "+h, width) + "\n")
		}
	}
	b.WriteString("\n\n" + dimStyle.Render("esc: back"))
	return b.String()
}
