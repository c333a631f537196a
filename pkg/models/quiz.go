package models

// QuizQuestion is a multiple choice question about a single word
type QuizQuestion struct {
	Word     string   `json:"word"`
	Question string   `json:"question"`
	Options  []string `json:"options"` // Four options, one equals Answer
	Answer   string   `json:"answer"`
}

// IsCorrect reports whether choice matches the recorded answer
func (q QuizQuestion) IsCorrect(choice string) bool {
	return choice == q.Answer
}
