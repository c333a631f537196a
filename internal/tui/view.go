package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/example/vocabot/pkg/models"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Margin(0, 1, 0, 0).
			Bold(true).
			Foreground(lipgloss.Color("15")). // Bright white
			Background(lipgloss.Color("27")). // Blue background
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("51"))

	tabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Margin(0, 1, 0, 0).
			Italic(true).
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("237")).
			Border(lipgloss.NormalBorder(), true).
			BorderForeground(lipgloss.Color("244"))

	wordStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226"))
	labelStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51"))
	textStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func (m UiModel) View() string {
	var content strings.Builder

	// Tab bar
	tabViews := make([]string, len(m.tabs))
	for i, tab := range m.tabs {
		label := fmt.Sprintf("%d %s", i+1, tab)
		if i == m.currentTab {
			tabViews[i] = activeTabStyle.Render(label)
		} else {
			tabViews[i] = tabStyle.Render(label)
		}
	}
	tabBar := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("244")).
		Render(lipgloss.JoinHorizontal(lipgloss.Left, tabViews...))
	content.WriteString(tabBar + "\n")

	switch m.currentTab {
	case tabStudy:
		content.WriteString(m.renderStudy())
	case tabQuiz:
		content.WriteString(m.renderQuiz())
	case tabReview:
		content.WriteString(m.renderReview())
	default:
		content.WriteString(m.renderDashboard())
	}
	content.WriteString("\n")

	if m.showNameDialog {
		content.WriteString(m.renderNameDialog() + "\n")
	}

	content.WriteString(m.renderStatus())
	return content.String()
}

func (m UiModel) renderStudy() string {
	if m.loading {
		return textStyle.Render("Generating words...")
	}
	if len(m.study) == 0 {
		return textStyle.Render("Generate a set of words to start studying.") + "\n\n" +
			helpStyle.Render("g generate")
	}

	w := m.study[m.studyIdx]
	var sb strings.Builder
	sb.WriteString(wordStyle.Render(w.Word))
	sb.WriteString(helpStyle.Render(fmt.Sprintf("  %d/%d", m.studyIdx+1, len(m.study))) + "\n\n")
	sb.WriteString(labelStyle.Render("Definition:") + "\n")
	for _, d := range w.Definitions {
		sb.WriteString(textStyle.Render("- "+d) + "\n")
	}
	if w.Example != nil {
		sb.WriteString("\n" + labelStyle.Render("Example:") + "\n" + textStyle.Render(*w.Example) + "\n")
	}
	if w.Mnemonic != nil {
		sb.WriteString("\n" + labelStyle.Render("Mnemonic:") + "\n" + textStyle.Render(*w.Mnemonic) + "\n")
	}
	sb.WriteString("\n" + progressBar(m.studyIdx+1, len(m.study), 30) + "\n\n")
	sb.WriteString(helpStyle.Render("y known • n unknown • ←/→ prev/next • g new set"))
	return sb.String()
}

func (m UiModel) renderQuiz() string {
	if m.loading {
		return textStyle.Render("Preparing quiz...")
	}
	if !m.quizActive() {
		return textStyle.Render("Start a quiz to test yourself.") + "\n\n" + helpStyle.Render("g start quiz")
	}

	idx := len(m.answers)
	q := m.questions[idx]
	var sb strings.Builder
	sb.WriteString(labelStyle.Render(fmt.Sprintf("Q%d: %s", idx+1, q.Question)) + "\n\n")
	for i, o := range q.Options {
		if i == m.optionIdx {
			sb.WriteString(selectedStyle.Render("> "+o) + "\n")
		} else {
			sb.WriteString(textStyle.Render("  "+o) + "\n")
		}
	}
	sb.WriteString("\n" + helpStyle.Render("j/k choose • enter submit"))
	return sb.String()
}

func (m UiModel) renderReview() string {
	if m.loading {
		return textStyle.Render("Loading due words...")
	}
	if len(m.review) == 0 {
		return textStyle.Render("No words are due for review, great work!")
	}

	var sb strings.Builder
	sb.WriteString(labelStyle.Render(fmt.Sprintf("%d words due for review", m.reviewTotal)) + "\n\n")
	for i, info := range m.review {
		line := fmt.Sprintf("%s: %s", info.Word, info.FirstDefinition())
		if i == m.reviewIdx {
			sb.WriteString(selectedStyle.Render(line) + "\n")
			if info.Example != nil {
				sb.WriteString(textStyle.Render("    "+*info.Example) + "\n")
			}
		} else {
			sb.WriteString(textStyle.Render("  "+line) + "\n")
		}
	}
	sb.WriteString("\n" + helpStyle.Render("j/k select • y mark known • r refresh"))
	return sb.String()
}

func (m UiModel) renderDashboard() string {
	if m.record == nil {
		return textStyle.Render("Loading...")
	}

	u := m.record.User
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Name:"), u.Name))
	sb.WriteString(fmt.Sprintf("%s %d\n", labelStyle.Render("Points:"), u.Points))
	sb.WriteString(fmt.Sprintf("%s %d\n", labelStyle.Render("Streak:"), u.Streak))
	sb.WriteString(fmt.Sprintf("%s %d\n", labelStyle.Render("Tracked words:"), m.record.Words.Len()))
	sb.WriteString(fmt.Sprintf("%s %d\n", labelStyle.Render("Due now:"), m.due))

	if m.showDetails {
		if data, err := json.MarshalIndent(m.record, "", "  "); err == nil {
			sb.WriteString("\n" + textStyle.Render(string(data)) + "\n")
		}
	}
	sb.WriteString("\n" + helpStyle.Render("e edit name • d detailed progress • r refresh"))
	return sb.String()
}

func (m UiModel) renderNameDialog() string {
	return lipgloss.NewStyle().
		Width(40).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(0, 1).
		Render(fmt.Sprintf("Your name: %s_\n\n", m.nameInput) + helpStyle.Render("enter save • esc cancel"))
}

func (m UiModel) renderStatus() string {
	var info string
	if m.record != nil {
		info = fmt.Sprintf("%s | %d pts | streak %d", m.record.User.Name, m.record.User.Points, m.record.User.Streak)
	}
	if m.status != "" {
		info += " | " + m.status
	}

	return lipgloss.NewStyle().
		Padding(0, 1).
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("234")).
		Width(m.width).
		Render(strings.TrimPrefix(info, " | ") + helpStyle.Render("  q quit"))
}

// progressBar renders done/total as a bar of width cells
func progressBar(done, total, width int) string {
	if total <= 0 {
		return ""
	}
	filled := done * width / total
	return lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render(strings.Repeat("█", filled)) +
		helpStyle.Render(strings.Repeat("░", width-filled))
}

// wordsOf returns the words of a set, in order
func wordsOf(set []models.WordInfo) []string {
	out := make([]string, len(set))
	for i, w := range set {
		out[i] = w.Word
	}
	return out
}
