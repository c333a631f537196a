package agents

import (
	"fmt"

	"github.com/example/vocabot/pkg/models"
)

// OptionsPerQuestion is the number of choices in every quiz question
const OptionsPerQuestion = 4

// GenerateQuiz builds one multiple choice question for each of the first n
// items. Wrong options are definitions of the other items, padded with
// filler when there are not enough of them.
func (ag *Agents) GenerateQuiz(items []models.WordInfo, n int) []models.QuizQuestion {
	if n > len(items) {
		n = len(items)
	}
	if n <= 0 {
		return []models.QuizQuestion{}
	}

	// one definition per distinct word, the last occurrence wins
	order := make([]string, 0, len(items))
	defs := make(map[string]string, len(items))
	for _, it := range items {
		if _, ok := defs[it.Word]; !ok {
			order = append(order, it.Word)
		}
		defs[it.Word] = it.FirstDefinition()
	}

	ag.mu.Lock()
	defer ag.mu.Unlock()

	questions := make([]models.QuizQuestion, 0, n)
	for _, it := range items[:n] {
		answer := it.FirstDefinition()

		others := make([]string, 0, len(order))
		for _, w := range order {
			if w != it.Word && defs[w] != answer {
				others = append(others, defs[w])
			}
		}
		ag.rnd.Shuffle(len(others), func(i, j int) {
			others[i], others[j] = others[j], others[i]
		})

		options := make([]string, 0, OptionsPerQuestion)
		options = append(options, answer)
		for _, d := range others {
			if len(options) == OptionsPerQuestion {
				break
			}
			options = append(options, d)
		}
		for len(options) < OptionsPerQuestion {
			options = append(options, fmt.Sprintf("Not quite: related idea for %s", it.Word))
		}
		ag.rnd.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})

		questions = append(questions, models.QuizQuestion{
			Word:     it.Word,
			Question: fmt.Sprintf("Which definition best fits '%s'?", it.Word),
			Options:  options,
			Answer:   answer,
		})
	}
	return questions
}

// Score counts the answers that match their question. Missing answers are wrong.
func Score(questions []models.QuizQuestion, answers []string) int {
	score := 0
	for i, q := range questions {
		if i < len(answers) && q.IsCorrect(answers[i]) {
			score++
		}
	}
	return score
}

// RecommendNext picks the level and size of the next session from the
// learner's points. Every recent word that is already tracked shrinks the
// session, down to a floor of three.
func RecommendNext(rec *models.Record, recent []string) models.Recommendation {
	var r models.Recommendation
	switch points := rec.User.Points; {
	case points < 100:
		r = models.Recommendation{Level: models.LevelEasy, Count: 5}
	case points < 500:
		r = models.Recommendation{Level: models.LevelMedium, Count: 6}
	default:
		r = models.Recommendation{Level: models.LevelHard, Count: 8}
	}

	tracked := 0
	for _, w := range recent {
		if rec.Words != nil && rec.Words.Has(w) {
			tracked++
		}
	}
	if tracked > 0 {
		r.Count = max(3, r.Count-tracked)
	}
	return r
}
