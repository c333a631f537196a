package tui

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabot/internal/agents"
	"github.com/example/vocabot/internal/dictionary"
	"github.com/example/vocabot/internal/progress"
	"github.com/example/vocabot/internal/wordlist"
)

func newTestModel(t *testing.T) (UiModel, *progress.Store) {
	t.Helper()

	entries := make([]wordlist.Entry, 10)
	for i := range entries {
		entries[i] = wordlist.Entry{
			Word:        fmt.Sprintf("word%02d", i),
			Definitions: []string{fmt.Sprintf("meaning number %d", i)},
		}
	}

	store := progress.New(progress.NewFileStorage(filepath.Join(t.TempDir(), "progress.json")))
	source := dictionary.NewSource(nil, entries, dictionary.WithRand(rand.New(rand.NewSource(1))))
	ag := agents.New(store, source, agents.WithRand(rand.New(rand.NewSource(2))))

	m := New(context.Background(), store, ag, source, Options{QuizSize: 2})
	return m, store
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and runs the resulting command, feeding its message back
func press(t *testing.T, m UiModel, keys ...string) UiModel {
	t.Helper()
	for _, k := range keys {
		next, cmd := m.Update(key(k))
		m = drain(t, next.(UiModel), cmd)
	}
	return m
}

func drain(t *testing.T, m UiModel, cmd tea.Cmd) UiModel {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if _, ok := msg.(tea.QuitMsg); ok {
			return m
		}
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(UiModel)
	}
	return m
}

func TestModel_Init(t *testing.T) {
	m, _ := newTestModel(t)
	m = drain(t, m, m.Init())

	require.NotNil(t, m.record)
	assert.Equal(t, "Learner", m.record.User.Name)
	assert.Contains(t, m.View(), "1 Study")
}

func TestModel_SwitchTabs(t *testing.T) {
	m, _ := newTestModel(t)

	for i, k := range []string{"2", "3", "4", "1"} {
		m = press(t, m, k)
		assert.Equal(t, []int{tabQuiz, tabReview, tabDashboard, tabStudy}[i], m.currentTab)
	}
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_Study(t *testing.T) {
	ctx := context.Background()
	m, store := newTestModel(t)

	m = press(t, m, "y")
	assert.Equal(t, "Generate a set of words to start studying.", m.status)

	m = press(t, m, "g")
	// a new learner gets five easy words
	require.Len(t, m.study, 5)
	assert.Equal(t, "5 easy words", m.status)
	assert.Contains(t, m.View(), m.study[0].Word)

	first := m.study[0].Word
	m = press(t, m, "y")
	assert.Equal(t, 10, m.record.User.Points)

	m = press(t, m, "l", "l", "n", "h")
	assert.Equal(t, 1, m.studyIdx)

	rec, _ := store.Load(ctx)
	assert.Equal(t, 1, rec.Words.Get(first).Correct)
	assert.Equal(t, 1, rec.Words.Get(m.study[2].Word).Incorrect)

	m = press(t, m, "l", "l", "l", "l", "l")
	assert.Equal(t, 4, m.studyIdx)
}

func TestModel_Quiz(t *testing.T) {
	m, store := newTestModel(t)

	m = press(t, m, "2", "enter")
	assert.Empty(t, m.answers, "enter without a quiz does nothing")

	m = press(t, m, "g")
	require.Len(t, m.questions, 2)
	assert.Contains(t, m.View(), m.questions[0].Question)

	// answer the first question correctly
	q0 := m.questions[0]
	for m.questions[0].Options[m.optionIdx] != q0.Answer {
		m = press(t, m, "j")
	}
	m = press(t, m, "enter")
	assert.Equal(t, "Correct!", m.status)
	assert.Equal(t, 0, m.optionIdx)

	// and the second one wrong
	q1 := m.questions[1]
	if q1.Options[0] == q1.Answer {
		m = press(t, m, "j")
	}
	m = press(t, m, "enter")
	assert.Contains(t, m.status, "Incorrect, correct: "+q1.Answer)
	assert.Contains(t, m.status, "Quiz complete, score: 1/2")
	assert.False(t, m.quizActive())

	rec, _ := store.Load(context.Background())
	assert.Equal(t, 1, rec.Words.Get(q0.Word).Correct)
	assert.Equal(t, 1, rec.Words.Get(q1.Word).Incorrect)
}

func TestModel_Review(t *testing.T) {
	ctx := context.Background()
	m, store := newTestModel(t)

	m = press(t, m, "3")
	assert.Contains(t, m.View(), "No words are due")

	rec, _ := store.Load(ctx)
	rec.Words.GetOrCreate("word01")
	rec.Words.GetOrCreate("word07")
	require.NoError(t, store.Save(ctx, rec))

	m = press(t, m, "r")
	require.Len(t, m.review, 2)
	assert.Equal(t, "meaning number 7", m.review[1].FirstDefinition())
	assert.Contains(t, m.View(), "2 words due for review")

	m = press(t, m, "j", "y")
	assert.Equal(t, "Marked word07 known, +10 points", m.status)
	require.Len(t, m.review, 1)
	assert.Equal(t, "word01", m.review[0].Word)
	assert.Equal(t, []string{"word01"}, store.DueWords(ctx))
}

func TestModel_DashboardEditName(t *testing.T) {
	m, store := newTestModel(t)

	m = press(t, m, "4")
	assert.Contains(t, m.View(), "Tracked words:")

	m = press(t, m, "e")
	require.True(t, m.showNameDialog)
	assert.Equal(t, "Learner", m.nameInput)

	// keys go to the dialog, not to the tab bar
	for range "Learner" {
		m = press(t, m, "backspace")
	}
	m = press(t, m, "K", "i", "m", "1")
	assert.Equal(t, tabDashboard, m.currentTab)
	m = press(t, m, "backspace", "enter")

	assert.False(t, m.showNameDialog)
	assert.Equal(t, "Profile saved. Hello, Kim!", m.status)
	assert.Equal(t, "Kim", m.record.User.Name)

	rec, _ := store.Load(context.Background())
	assert.Equal(t, "Kim", rec.User.Name)

	m = press(t, m, "d")
	assert.Contains(t, m.View(), `"name": "Kim"`)
}

func TestModel_DialogEscape(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "4", "e", "x", "esc")

	assert.False(t, m.showNameDialog)
	assert.Empty(t, m.nameInput)
}

func TestProgressBar(t *testing.T) {
	assert.Empty(t, progressBar(1, 0, 10))
	assert.Contains(t, progressBar(5, 10, 10), "█████")
}
