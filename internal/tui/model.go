// Package tui is the terminal surface: Study, Quiz, Review and Dashboard tabs
// on top of the progress store and the session agents.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/vocabot/internal/agents"
	"github.com/example/vocabot/internal/dictionary"
	"github.com/example/vocabot/internal/progress"
	"github.com/example/vocabot/pkg/models"
)

const (
	tabStudy = iota
	tabQuiz
	tabReview
	tabDashboard
)

// Progress is the learner's persisted record
type Progress interface {
	Load(ctx context.Context) (*models.Record, progress.Outcome)
	MarkSeen(ctx context.Context, word string, known bool) (*models.Record, error)
	DueWords(ctx context.Context) []string
	SetName(ctx context.Context, name string) error
}

// Sessions builds word sets and quizzes
type Sessions interface {
	GenerateWordSet(ctx context.Context, count int, level models.Level) []models.WordInfo
	GenerateQuiz(items []models.WordInfo, n int) []models.QuizQuestion
}

// Definitions looks up word content for review
type Definitions interface {
	FetchDefinition(ctx context.Context, word string) (models.WordInfo, dictionary.Outcome)
}

// Options holds quiz settings
type Options struct {
	QuizSize  int
	QuizLevel models.Level
}

type UiModel struct {
	ctx      context.Context
	progress Progress
	sessions Sessions
	words    Definitions
	opts     Options

	tabs          []string
	currentTab    int
	width, height int
	status        string
	loading       bool

	study    []models.WordInfo
	studyIdx int
	recent   []string

	questions []models.QuizQuestion
	answers   []string
	optionIdx int

	review      []models.WordInfo
	reviewTotal int
	reviewIdx   int

	record      *models.Record
	due         int
	showDetails bool

	showNameDialog bool
	nameInput      string
}

// New creates the model. ctx bounds every store and network call.
func New(ctx context.Context, p Progress, s Sessions, w Definitions, opts Options) UiModel {
	if opts.QuizSize < 1 {
		opts.QuizSize = 5
	}
	if opts.QuizLevel == "" {
		opts.QuizLevel = models.LevelMedium
	}
	return UiModel{
		ctx:      ctx,
		progress: p,
		sessions: s,
		words:    w,
		opts:     opts,
		tabs:     []string{"Study", "Quiz", "Review", "Dashboard"},
		status:   "Press g to generate a set of words",
	}
}

func (m UiModel) Init() tea.Cmd {
	return m.loadRecord()
}

func (m UiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case recordMsg:
		m.record = msg.rec
		m.due = msg.due

	case wordSetMsg:
		m.loading = false
		m.study = msg.words
		m.studyIdx = 0
		m.recent = wordsOf(msg.words)
		if len(msg.words) == 0 {
			m.status = "No words available. Add a word list and try again."
		} else {
			m.status = fmt.Sprintf("%d %s words", len(msg.words), msg.level)
		}

	case quizMsg:
		m.loading = false
		m.questions = msg.questions
		m.answers = nil
		m.optionIdx = 0
		if len(msg.questions) == 0 {
			m.status = "No words available for a quiz."
		} else {
			m.status = "Choose with j/k, answer with enter"
		}

	case reviewMsg:
		m.loading = false
		m.review = msg.items
		m.reviewTotal = msg.total
		m.reviewIdx = 0

	case markedMsg:
		if msg.rec != nil {
			m.record = msg.rec
		}
		if msg.err != nil {
			m.status = fmt.Sprintf("Could not save progress: %v", msg.err)
		}

	case nameSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Could not save profile: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Profile saved. Hello, %s!", msg.name)
		}
		return m, m.loadRecord()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m UiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showNameDialog {
		switch msg.Type {
		case tea.KeyEsc:
			m.showNameDialog = false
			m.nameInput = ""
		case tea.KeyEnter:
			name := m.nameInput
			m.showNameDialog = false
			m.nameInput = ""
			return m, m.saveName(name)
		case tea.KeyBackspace:
			if r := []rune(m.nameInput); len(r) > 0 {
				m.nameInput = string(r[:len(r)-1])
			}
		case tea.KeySpace:
			m.nameInput += " "
		case tea.KeyRunes:
			m.nameInput += string(msg.Runes)
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "1":
		m.currentTab = tabStudy
		return m, nil
	case "2":
		m.currentTab = tabQuiz
		return m, nil
	case "3":
		m.currentTab = tabReview
		m.loading = true
		return m, m.loadReview()
	case "4":
		m.currentTab = tabDashboard
		return m, m.loadRecord()
	}

	switch m.currentTab {
	case tabStudy:
		return m.updateStudy(msg.String())
	case tabQuiz:
		return m.updateQuiz(msg.String())
	case tabReview:
		return m.updateReview(msg.String())
	default:
		return m.updateDashboard(msg.String())
	}
}

func (m UiModel) updateStudy(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "g":
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.status = "Generating words..."
		return m, m.generateStudy()
	case "y", "n":
		if len(m.study) == 0 {
			m.status = "Generate a set of words to start studying."
			return m, nil
		}
		known := key == "y"
		if known {
			m.status = fmt.Sprintf("Marked as known, +%d points", progress.PointsPerKnown)
		} else {
			m.status = "Marked for review"
		}
		return m, m.markSeen(m.study[m.studyIdx].Word, known)
	case "left", "h":
		m.studyIdx = max(0, m.studyIdx-1)
	case "right", "l":
		m.studyIdx = max(0, min(len(m.study)-1, m.studyIdx+1))
	}
	return m, nil
}

func (m UiModel) quizActive() bool {
	return len(m.questions) > 0 && len(m.answers) < len(m.questions)
}

func (m UiModel) updateQuiz(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "g":
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.status = "Preparing quiz..."
		return m, m.startQuiz()
	case "up", "k":
		m.optionIdx = max(0, m.optionIdx-1)
	case "down", "j":
		if m.quizActive() {
			m.optionIdx = min(len(m.questions[len(m.answers)].Options)-1, m.optionIdx+1)
		}
	case "enter":
		if !m.quizActive() {
			return m, nil
		}
		q := m.questions[len(m.answers)]
		choice := q.Options[m.optionIdx]
		m.answers = append(m.answers, choice)
		m.optionIdx = 0

		correct := q.IsCorrect(choice)
		if correct {
			m.status = "Correct!"
		} else {
			m.status = fmt.Sprintf("Incorrect, correct: %s", q.Answer)
		}
		if len(m.answers) == len(m.questions) {
			m.status += fmt.Sprintf("  Quiz complete, score: %d/%d",
				agents.Score(m.questions, m.answers), len(m.questions))
		}
		return m, m.markSeen(q.Word, correct)
	}
	return m, nil
}

func (m UiModel) updateReview(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		m.reviewIdx = max(0, m.reviewIdx-1)
	case "down", "j":
		m.reviewIdx = max(0, min(len(m.review)-1, m.reviewIdx+1))
	case "r":
		m.loading = true
		return m, m.loadReview()
	case "y":
		if len(m.review) == 0 {
			return m, nil
		}
		word := m.review[m.reviewIdx].Word
		m.review = append(m.review[:m.reviewIdx:m.reviewIdx], m.review[m.reviewIdx+1:]...)
		m.reviewTotal--
		m.reviewIdx = max(0, min(m.reviewIdx, len(m.review)-1))
		m.status = fmt.Sprintf("Marked %s known, +%d points", word, progress.PointsPerKnown)
		return m, m.markSeen(word, true)
	}
	return m, nil
}

func (m UiModel) updateDashboard(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "e":
		m.showNameDialog = true
		if m.record != nil {
			m.nameInput = m.record.User.Name
		}
	case "d":
		m.showDetails = !m.showDetails
	case "r":
		return m, m.loadRecord()
	}
	return m, nil
}
