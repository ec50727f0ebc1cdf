package scoring

import (
	"sort"
	"time"

	"practice-quiz-service/internal/domain"
)

// Clock is overridable in tests.
var Clock = time.Now

// Score grades an attempt. A question counts only when the selected set
// equals its correct set exactly; unanswered questions count as wrong.
func Score(quiz domain.Quiz, selections map[int][]int) (domain.Result, error) {
	total := len(quiz.Questions)
	if total == 0 {
		return domain.Result{}, domain.ErrEmptyQuiz
	}

	verdicts := make([]domain.Verdict, 0, total)
	correct := 0
	for q, question := range quiz.Questions {
		selected := toSet(selections[q])
		want := question.CorrectIndices()
		ok := setEqual(selected, toSet(want))
		if ok {
			correct++
		}
		verdicts = append(verdicts, domain.Verdict{
			QuestionIndex: q,
			Selected:      sortedKeys(selected),
			Correct:       want,
			Answered:      len(selected) > 0,
			IsCorrect:     ok,
		})
	}

	pct := Percentage(correct, total)
	return domain.Result{
		Correct:    correct,
		Total:      total,
		Percentage: pct,
		Message:    Message(pct),
		Verdicts:   verdicts,
		ScoredAt:   Clock(),
	}, nil
}

// Percentage rounds 100*correct/total half up. total must be positive.
func Percentage(correct, total int) int {
	return (200*correct + total) / (2 * total)
}

// Message is the encouragement line shown with the results.
func Message(percentage int) string {
	switch {
	case percentage >= 80:
		return "Great job!"
	case percentage >= 60:
		return "Good effort!"
	default:
		return "Keep practicing!"
	}
}

func toSet(arr []int) map[int]struct{} {
	m := make(map[int]struct{}, len(arr))
	for _, v := range arr {
		m[v] = struct{}{}
	}
	return m
}

func setEqual(a, b map[int]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func sortedKeys(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
