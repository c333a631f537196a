package bot

import (
	"fmt"
	"strings"

	"github.com/example/vocabot/pkg/models"
)

// wordCard renders one word of a study session
func wordCard(info models.WordInfo, idx, total int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📖 %s  (%d/%d)\n\n", info.Word, idx+1, total)

	sb.WriteString("Definition:\n")
	for _, d := range info.Definitions {
		fmt.Fprintf(&sb, "• %s\n", d)
	}
	if info.Example != nil {
		fmt.Fprintf(&sb, "\nExample:\n%s\n", *info.Example)
	}
	if info.Mnemonic != nil {
		fmt.Fprintf(&sb, "\nMnemonic:\n%s\n", *info.Mnemonic)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// reviewCard renders a due word without the mnemonic
func reviewCard(info models.WordInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🔁 %s\n", info.Word)
	for _, d := range info.Definitions {
		fmt.Fprintf(&sb, "• %s\n", d)
	}
	if info.Example != nil {
		fmt.Fprintf(&sb, "\n%s\n", *info.Example)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// questionText renders a quiz question with numbered options
func questionText(q models.QuizQuestion, idx, total int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Q%d/%d: %s\n", idx+1, total, q.Question)
	for i, o := range q.Options {
		fmt.Fprintf(&sb, "\n%d. %s", i+1, o)
	}
	return sb.String()
}

func quizResultText(score, total int) string {
	return fmt.Sprintf("🏁 Quiz complete, score: %d/%d", score, total)
}

func dashboardText(rec *models.Record, due int) string {
	return fmt.Sprintf("📊 Dashboard\n\n"+
		"Name: %s\n"+
		"Points: %d\n"+
		"Streak: %d\n"+
		"Tracked words: %d\n"+
		"Due now: %d",
		rec.User.Name, rec.User.Points, rec.User.Streak, rec.Words.Len(), due)
}

// reminderText формирует текст напоминания с учетом количества слов
func reminderText(count int) string {
	wordForm := "words"
	if count == 1 {
		wordForm = "word"
	}
	return fmt.Sprintf("⏰ You have %d %s due for review! Tap Review to start.", count, wordForm)
}

// truncate cuts s to at most n runes
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

const helpText = "📖 Vocabulary trainer\n\n" +
	"/study [n] - study a set of words\n" +
	"/quiz [n] - multiple choice quiz\n" +
	"/review - words due for review\n" +
	"/stats - points, streak and tracked words\n" +
	"/name <name> - set your profile name\n" +
	"/menu - main menu\n\n" +
	"A known word waits twice as long before its next review, " +
	"an unknown word comes back tomorrow."
