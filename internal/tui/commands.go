package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/vocabot/internal/agents"
	"github.com/example/vocabot/pkg/models"
)

// reviewLimit bounds the number of due words fetched for the Review tab
const reviewLimit = 20

type recordMsg struct {
	rec *models.Record
	due int
}

type wordSetMsg struct {
	level models.Level
	words []models.WordInfo
}

type quizMsg struct {
	questions []models.QuizQuestion
}

type reviewMsg struct {
	total int
	items []models.WordInfo
}

type markedMsg struct {
	rec *models.Record
	err error
}

type nameSavedMsg struct {
	name string
	err  error
}

// Commands run outside Update, so they only capture copies of model fields.

func (m UiModel) loadRecord() tea.Cmd {
	ctx, p := m.ctx, m.progress
	return func() tea.Msg {
		rec, _ := p.Load(ctx)
		return recordMsg{rec: rec, due: len(p.DueWords(ctx))}
	}
}

func (m UiModel) generateStudy() tea.Cmd {
	ctx, p, s := m.ctx, m.progress, m.sessions
	recent := append([]string(nil), m.recent...)
	return func() tea.Msg {
		rec, _ := p.Load(ctx)
		r := agents.RecommendNext(rec, recent)
		return wordSetMsg{level: r.Level, words: s.GenerateWordSet(ctx, r.Count, r.Level)}
	}
}

func (m UiModel) startQuiz() tea.Cmd {
	ctx, s := m.ctx, m.sessions
	size, level := m.opts.QuizSize, m.opts.QuizLevel
	return func() tea.Msg {
		words := s.GenerateWordSet(ctx, size, level)
		return quizMsg{questions: s.GenerateQuiz(words, size)}
	}
}

func (m UiModel) loadReview() tea.Cmd {
	ctx, p, w := m.ctx, m.progress, m.words
	return func() tea.Msg {
		due := p.DueWords(ctx)
		items := make([]models.WordInfo, 0, min(len(due), reviewLimit))
		for _, word := range due[:min(len(due), reviewLimit)] {
			info, _ := w.FetchDefinition(ctx, word)
			info.Word = word
			items = append(items, info)
		}
		return reviewMsg{total: len(due), items: items}
	}
}

func (m UiModel) markSeen(word string, known bool) tea.Cmd {
	ctx, p := m.ctx, m.progress
	return func() tea.Msg {
		rec, err := p.MarkSeen(ctx, word, known)
		return markedMsg{rec: rec, err: err}
	}
}

func (m UiModel) saveName(name string) tea.Cmd {
	ctx, p := m.ctx, m.progress
	return func() tea.Msg {
		return nameSavedMsg{name: name, err: p.SetName(ctx, name)}
	}
}
