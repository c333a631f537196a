package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/example/vocabot/internal/agents"
	"github.com/example/vocabot/internal/progress"
	"github.com/example/vocabot/pkg/models"
)

// Constants for callback data
const (
	cbMenu         = "menu"
	cbStudy        = "study"
	cbStudyKnown   = "study_known"
	cbStudyUnknown = "study_unknown"
	cbStudyNext    = "study_next"
	cbStudyPrev    = "study_prev"
	cbQuiz         = "quiz"
	cbReview       = "review"
	cbDashboard    = "dashboard"
	cbDetails      = "details"
	cbSetName      = "set_name"

	// qa:<quiz id>:<question>:<option>
	prefixQuizAnswer = "qa:"
	// rk:<review id>:<index in the review list>
	prefixReviewKnown = "rk:"
)

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	s := b.session(chatID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if message.IsCommand() {
		s.awaitingName = false
		switch message.Command() {
		case "start", "menu":
			b.showMainMenu(chatID)
		case "help":
			b.sendText(chatID, helpText, MainMenuButtons())
		case "study":
			b.startStudy(ctx, chatID, s, parseCount(message.CommandArguments()))
		case "quiz":
			b.startQuiz(ctx, chatID, s, parseCount(message.CommandArguments()))
		case "review":
			b.showReview(ctx, chatID, s)
		case "stats", "dashboard":
			b.showDashboard(ctx, chatID)
		case "name":
			b.handleName(ctx, chatID, s, message.CommandArguments())
		default:
			b.sendText(chatID, "Unknown command. Use /menu to show the main menu.", MainMenuButtons())
		}
		return
	}

	if s.awaitingName {
		b.saveName(ctx, chatID, s, message.Text)
		return
	}
	b.sendText(chatID, "I don't understand. Use /menu to show the main menu.", MainMenuButtons())
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	s := b.session(chatID)
	s.mu.Lock()
	defer s.mu.Unlock()

	switch data := cb.Data; {
	case data == cbMenu:
		b.answer(cb, "")
		b.showMainMenu(chatID)
	case data == cbStudy:
		b.answer(cb, "")
		b.startStudy(ctx, chatID, s, 0)
	case data == cbStudyKnown, data == cbStudyUnknown:
		b.markStudyWord(ctx, cb, s, data == cbStudyKnown)
	case data == cbStudyNext, data == cbStudyPrev:
		b.moveStudy(cb, s, data == cbStudyNext)
	case data == cbQuiz:
		b.answer(cb, "")
		b.startQuiz(ctx, chatID, s, 0)
	case data == cbReview:
		b.answer(cb, "")
		b.showReview(ctx, chatID, s)
	case data == cbDashboard:
		b.answer(cb, "")
		b.showDashboard(ctx, chatID)
	case data == cbDetails:
		b.answer(cb, "")
		b.showDetails(ctx, chatID)
	case data == cbSetName:
		b.answer(cb, "")
		s.awaitingName = true
		b.sendText(chatID, "Send me your name.", nil)
	case strings.HasPrefix(data, prefixQuizAnswer):
		b.handleQuizAnswer(ctx, cb, s, strings.TrimPrefix(data, prefixQuizAnswer))
	case strings.HasPrefix(data, prefixReviewKnown):
		b.handleReviewKnown(ctx, cb, s, strings.TrimPrefix(data, prefixReviewKnown))
	default:
		b.answer(cb, "Unknown action")
	}
}

// showMainMenu shows the main menu
func (b *Bot) showMainMenu(chatID int64) {
	b.sendText(chatID, "Main Menu - choose a mode:", MainMenuButtons())
}

// startStudy generates a word set at the recommended level. count 0 uses
// the recommended session size.
func (b *Bot) startStudy(ctx context.Context, chatID int64, s *chatSession, count int) {
	rec, _ := b.progress.Load(ctx)
	r := agents.RecommendNext(rec, s.recent)
	if count == 0 {
		count = r.Count
	}

	set := b.sessions.GenerateWordSet(ctx, count, r.Level)
	if len(set) == 0 {
		b.sendText(chatID, "No words available. Add a word list and try again.", MainMenuButtons())
		return
	}

	s.study = set
	s.studyIdx = 0
	s.recent = s.recent[:0]
	for _, w := range set {
		s.recent = append(s.recent, w.Word)
	}

	b.log.InfoContext(ctx, "study session started",
		slog.Int64("chat_id", chatID),
		slog.String("level", string(r.Level)),
		slog.Int("words", len(set)),
	)
	b.showStudyCard(chatID, s)
}

func (b *Bot) showStudyCard(chatID int64, s *chatSession) {
	info := s.study[s.studyIdx]
	b.sendText(chatID, wordCard(info, s.studyIdx, len(s.study)), [][]Button{
		{
			{Text: "✅ Known", CallbackData: cbStudyKnown},
			{Text: "❌ Unknown", CallbackData: cbStudyUnknown},
		},
		{
			{Text: "⬅️ Prev", CallbackData: cbStudyPrev},
			{Text: "Next ➡️", CallbackData: cbStudyNext},
		},
		{{Text: "« Menu", CallbackData: cbMenu}},
	})
}

// markStudyWord records the current card and moves on to the next one
func (b *Bot) markStudyWord(ctx context.Context, cb *tgbotapi.CallbackQuery, s *chatSession, known bool) {
	chatID := cb.Message.Chat.ID
	if len(s.study) == 0 {
		b.answer(cb, "Start a study session first")
		return
	}

	word := s.study[s.studyIdx].Word
	rec := b.markSeen(ctx, word, known)
	if rec == nil {
		b.answer(cb, "Could not load your progress, try again")
		return
	}

	if known {
		b.answer(cb, fmt.Sprintf("Marked as known, +%d points", progress.PointsPerKnown))
	} else {
		b.answer(cb, "Marked for review")
	}

	if s.studyIdx < len(s.study)-1 {
		s.studyIdx++
		b.showStudyCard(chatID, s)
		return
	}
	b.sendText(chatID, fmt.Sprintf("🎉 Session complete. Points: %d, streak: %d", rec.User.Points, rec.User.Streak),
		MainMenuButtons())
}

func (b *Bot) moveStudy(cb *tgbotapi.CallbackQuery, s *chatSession, forward bool) {
	if len(s.study) == 0 {
		b.answer(cb, "Start a study session first")
		return
	}
	b.answer(cb, "")

	if forward {
		s.studyIdx = min(len(s.study)-1, s.studyIdx+1)
	} else {
		s.studyIdx = max(0, s.studyIdx-1)
	}
	b.showStudyCard(cb.Message.Chat.ID, s)
}

// startQuiz builds a quiz of count questions, QuizSize when count is 0
func (b *Bot) startQuiz(ctx context.Context, chatID int64, s *chatSession, count int) {
	if count == 0 {
		count = b.config.QuizSize
	}

	words := b.sessions.GenerateWordSet(ctx, count, b.config.QuizLevel)
	questions := b.sessions.GenerateQuiz(words, count)
	if len(questions) == 0 {
		b.sendText(chatID, "No words available for a quiz.", MainMenuButtons())
		return
	}

	s.quiz = newQuizSession(questions)
	b.log.InfoContext(ctx, "quiz started",
		slog.Int64("chat_id", chatID),
		slog.String("quiz_id", s.quiz.id.String()),
		slog.Int("questions", len(questions)),
	)
	b.showQuestion(chatID, s.quiz)
}

func (b *Bot) showQuestion(chatID int64, q *quizSession) {
	idx := q.current()
	question := q.questions[idx]

	row := make([]Button, 0, len(question.Options))
	for i := range question.Options {
		row = append(row, Button{
			Text:         strconv.Itoa(i + 1),
			CallbackData: quizAnswerData(q.id, idx, i),
		})
	}
	b.sendText(chatID, questionText(question, idx, len(q.questions)), [][]Button{row})
}

func quizAnswerData(id uuid.UUID, question, option int) string {
	return fmt.Sprintf("%s%s:%d:%d", prefixQuizAnswer, id, question, option)
}

// parseQuizAnswer разбирает "<id>:<question>:<option>"
func parseQuizAnswer(data string) (id uuid.UUID, question, option int, err error) {
	parts := strings.Split(data, ":")
	if len(parts) != 3 {
		return uuid.Nil, 0, 0, fmt.Errorf("malformed quiz answer %q", data)
	}
	if id, err = uuid.Parse(parts[0]); err != nil {
		return uuid.Nil, 0, 0, fmt.Errorf("quiz id: %w", err)
	}
	if question, err = strconv.Atoi(parts[1]); err != nil {
		return uuid.Nil, 0, 0, fmt.Errorf("question index: %w", err)
	}
	if option, err = strconv.Atoi(parts[2]); err != nil {
		return uuid.Nil, 0, 0, fmt.Errorf("option index: %w", err)
	}
	return id, question, option, nil
}

func (b *Bot) handleQuizAnswer(ctx context.Context, cb *tgbotapi.CallbackQuery, s *chatSession, data string) {
	chatID := cb.Message.Chat.ID

	id, qIdx, opt, err := parseQuizAnswer(data)
	if err != nil {
		b.log.Warn("bad quiz callback", slog.String("data", cb.Data), slog.Any("error", err))
		b.answer(cb, "Unknown action")
		return
	}

	q := s.quiz
	if q == nil || q.id != id || q.done() || qIdx != q.current() {
		b.answer(cb, "This question is no longer active")
		return
	}
	question := q.questions[qIdx]
	if opt < 0 || opt >= len(question.Options) {
		b.answer(cb, "Unknown option")
		return
	}

	choice := question.Options[opt]
	q.answers = append(q.answers, choice)
	correct := question.IsCorrect(choice)
	b.markSeen(ctx, question.Word, correct)

	if correct {
		b.answer(cb, "Correct!")
	} else {
		b.answer(cb, "Incorrect")
		b.sendText(chatID, fmt.Sprintf("❌ Incorrect, correct: %s", question.Answer), nil)
	}

	if !q.done() {
		b.showQuestion(chatID, q)
		return
	}

	score := agents.Score(q.questions, q.answers)
	b.log.InfoContext(ctx, "quiz finished",
		slog.String("quiz_id", q.id.String()),
		slog.Int("score", score),
		slog.Int("questions", len(q.questions)),
	)
	s.quiz = nil
	b.sendText(chatID, quizResultText(score, len(q.questions)), MainMenuButtons())
}

// showReview lists the first reviewPageSize due words with a button each
func (b *Bot) showReview(ctx context.Context, chatID int64, s *chatSession) {
	due := b.progress.DueWords(ctx)
	if len(due) == 0 {
		s.review = nil
		b.sendText(chatID, "✨ No words are due for review, great work!", MainMenuButtons())
		return
	}

	r := newReviewSession(append([]string(nil), due[:min(len(due), reviewPageSize)]...))
	s.review = r
	b.sendText(chatID, fmt.Sprintf("%d words due for review", len(due)), nil)

	for i, w := range r.words {
		info, _ := b.words.FetchDefinition(ctx, w)
		b.sendText(chatID, reviewCard(info), [][]Button{
			{{Text: fmt.Sprintf("✅ Mark %s known", truncate(w, 24)), CallbackData: reviewKnownData(r.id, i)}},
		})
	}
}

func reviewKnownData(id uuid.UUID, idx int) string {
	return fmt.Sprintf("%s%s:%d", prefixReviewKnown, id, idx)
}

// parseReviewKnown разбирает "<id>:<index>"
func parseReviewKnown(data string) (uuid.UUID, int, error) {
	rawID, rawIdx, ok := strings.Cut(data, ":")
	if !ok {
		return uuid.Nil, 0, fmt.Errorf("malformed review callback %q", data)
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, 0, fmt.Errorf("review id: %w", err)
	}
	idx, err := strconv.Atoi(rawIdx)
	if err != nil {
		return uuid.Nil, 0, fmt.Errorf("review index: %w", err)
	}
	return id, idx, nil
}

func (b *Bot) handleReviewKnown(ctx context.Context, cb *tgbotapi.CallbackQuery, s *chatSession, data string) {
	id, idx, err := parseReviewKnown(data)
	if err != nil {
		b.log.Warn("bad review callback", slog.String("data", cb.Data), slog.Any("error", err))
		b.answer(cb, "Unknown action")
		return
	}
	if s.review == nil || s.review.id != id || idx < 0 || idx >= len(s.review.words) {
		b.answer(cb, "This review list is no longer active")
		return
	}

	word := s.review.words[idx]
	if word == "" {
		b.answer(cb, "Already marked")
		return
	}

	if b.markSeen(ctx, word, true) == nil {
		b.answer(cb, "Could not load your progress, try again")
		return
	}
	s.review.words[idx] = ""
	b.answer(cb, fmt.Sprintf("Marked %s known, +%d points", word, progress.PointsPerKnown))
}

func (b *Bot) showDashboard(ctx context.Context, chatID int64) {
	rec, _ := b.progress.Load(ctx)
	due := len(b.progress.DueWords(ctx))

	b.sendText(chatID, dashboardText(rec, due), [][]Button{
		{
			{Text: "🔍 Detailed progress", CallbackData: cbDetails},
			{Text: "✏️ Change name", CallbackData: cbSetName},
		},
		{{Text: "« Menu", CallbackData: cbMenu}},
	})
}

// showDetails sends the raw progress record
func (b *Bot) showDetails(ctx context.Context, chatID int64) {
	rec, _ := b.progress.Load(ctx)
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		b.log.Error("marshal record", slog.Any("error", err))
		b.sendText(chatID, "Progress is not available right now.", MainMenuButtons())
		return
	}
	b.sendText(chatID, truncate(string(data), maxMessageLen), nil)
}

func (b *Bot) handleName(ctx context.Context, chatID int64, s *chatSession, args string) {
	if strings.TrimSpace(args) == "" {
		s.awaitingName = true
		b.sendText(chatID, "Send me your name.", nil)
		return
	}
	b.saveName(ctx, chatID, s, args)
}

func (b *Bot) saveName(ctx context.Context, chatID int64, s *chatSession, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		b.sendText(chatID, "Name cannot be empty, try again.", nil)
		return
	}
	s.awaitingName = false

	if err := b.progress.SetName(ctx, name); err != nil {
		b.log.Error("save profile", slog.Any("error", err))
		b.sendText(chatID, "Could not save your profile, please try again later.", MainMenuButtons())
		return
	}
	b.sendText(chatID, fmt.Sprintf("Profile saved. Hello, %s!", name), MainMenuButtons())
}

// markSeen records a review. A failed save is logged; the in-memory record is
// still used. The record is nil when the stored one could not be read.
func (b *Bot) markSeen(ctx context.Context, word string, known bool) *models.Record {
	rec, err := b.progress.MarkSeen(ctx, word, known)
	if err != nil {
		b.log.Error("save progress", slog.String("word", word), slog.Any("error", err))
	}
	return rec
}

// parseCount reads an optional session size argument. 0 means "not given".
func parseCount(args string) int {
	n, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil || n < 1 {
		return 0
	}
	return min(n, maxSessionWords)
}
