package bot

import (
	"sync"

	"github.com/google/uuid"

	"github.com/example/vocabot/pkg/models"
)

// chatSession is the conversation state of one chat. Handlers hold mu for
// the whole update so taps in the same chat are applied in order.
type chatSession struct {
	mu sync.Mutex

	study    []models.WordInfo
	studyIdx int
	recent   []string

	quiz *quizSession

	review *reviewSession

	awaitingName bool
}

// quizSession is a running quiz. The id goes into callback data so taps on
// an old quiz message can be told apart from the current one.
type quizSession struct {
	id        uuid.UUID
	questions []models.QuizQuestion
	answers   []string
}

func newQuizSession(questions []models.QuizQuestion) *quizSession {
	return &quizSession{
		id:        uuid.New(),
		questions: questions,
		answers:   make([]string, 0, len(questions)),
	}
}

// current returns the index of the unanswered question
func (q *quizSession) current() int {
	return len(q.answers)
}

func (q *quizSession) done() bool {
	return len(q.answers) >= len(q.questions)
}

// reviewSession is one listing of due words. Like quizSession its id is
// part of the callback data, so buttons of an older listing are rejected.
type reviewSession struct {
	id    uuid.UUID
	words []string
}

func newReviewSession(words []string) *reviewSession {
	return &reviewSession{id: uuid.New(), words: words}
}

// session returns the state of chatID, creating it on first use
func (b *Bot) session(chatID int64) *chatSession {
	b.sessionsMu.Lock()
	defer b.sessionsMu.Unlock()

	s, ok := b.chats[chatID]
	if !ok {
		s = &chatSession{}
		b.chats[chatID] = s
	}
	return s
}
