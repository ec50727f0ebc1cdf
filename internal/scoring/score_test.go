package scoring

import (
	"errors"
	"testing"

	"practice-quiz-service/internal/domain"
)

func TestScoreExampleScenario(t *testing.T) {
	quiz := twoQuestionQuiz()
	res, err := Score(quiz, map[int][]int{
		0: {1},
		1: {0, 1},
	})
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if res.Correct != 1 || res.Total != 2 || res.Percentage != 50 {
		t.Fatalf("expected 1/2 50%%, got %d/%d %d%%", res.Correct, res.Total, res.Percentage)
	}
	if !res.Verdicts[0].IsCorrect || res.Verdicts[1].IsCorrect {
		t.Fatalf("unexpected verdicts %+v", res.Verdicts)
	}
	if res.Message != "Keep practicing!" {
		t.Fatalf("unexpected message %q", res.Message)
	}
}

func TestScoreAllCorrect(t *testing.T) {
	quiz := twoQuestionQuiz()
	selections := map[int][]int{}
	for q, question := range quiz.Questions {
		selections[q] = question.CorrectIndices()
	}
	res, err := Score(quiz, selections)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if res.Correct != res.Total || res.Percentage != 100 {
		t.Fatalf("expected perfect score, got %+v", res)
	}
	if res.Message != "Great job!" {
		t.Fatalf("unexpected message %q", res.Message)
	}
}

func TestScoreUnansweredCountsAsWrong(t *testing.T) {
	res, err := Score(twoQuestionQuiz(), nil)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if res.Correct != 0 || res.Total != 2 || res.Percentage != 0 {
		t.Fatalf("expected 0/2, got %+v", res)
	}
	for _, v := range res.Verdicts {
		if v.Answered || v.IsCorrect {
			t.Fatalf("unanswered question scored %+v", v)
		}
	}
}

func TestScoreMultiAnswerExactMatch(t *testing.T) {
	tests := []struct {
		name     string
		selected []int
		correct  bool
	}{
		{name: "subset", selected: []int{0}, correct: false},
		{name: "superset", selected: []int{0, 1, 2}, correct: false},
		{name: "overlap", selected: []int{2, 3}, correct: false},
		{name: "exact", selected: []int{2, 0}, correct: true},
		{name: "duplicates collapse", selected: []int{0, 2, 2}, correct: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Score(twoQuestionQuiz(), map[int][]int{1: tc.selected})
			if err != nil {
				t.Fatalf("score: %v", err)
			}
			if got := res.Verdicts[1].IsCorrect; got != tc.correct {
				t.Fatalf("selected %v: expected correct=%v, got %v", tc.selected, tc.correct, got)
			}
		})
	}
}

func TestScoreEmptyQuiz(t *testing.T) {
	if _, err := Score(domain.Quiz{Title: "empty"}, nil); !errors.Is(err, domain.ErrEmptyQuiz) {
		t.Fatalf("expected ErrEmptyQuiz, got %v", err)
	}
}

func TestPercentageRoundsHalfUp(t *testing.T) {
	tests := []struct{ correct, total, want int }{
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},  // 12.5
		{1, 200, 1}, // 0.5
		{0, 5, 0},
		{5, 5, 100},
	}
	for _, tc := range tests {
		if got := Percentage(tc.correct, tc.total); got != tc.want {
			t.Fatalf("Percentage(%d, %d) = %d, want %d", tc.correct, tc.total, got, tc.want)
		}
	}
}

func TestMessageTiers(t *testing.T) {
	tests := map[int]string{100: "Great job!", 80: "Great job!", 79: "Good effort!", 60: "Good effort!", 59: "Keep practicing!"}
	for pct, want := range tests {
		if got := Message(pct); got != want {
			t.Fatalf("Message(%d) = %q, want %q", pct, got, want)
		}
	}
}

func twoQuestionQuiz() domain.Quiz {
	return domain.Quiz{
		Title: "Sample",
		Questions: []domain.Question{
			{
				Prompt: "Single",
				Options: []domain.Option{
					{Index: 0, Text: "a"},
					{Index: 1, Text: "b", IsCorrect: true},
					{Index: 2, Text: "c"},
				},
			},
			{
				Prompt:         "Multi",
				MultipleAnswer: true,
				Options: []domain.Option{
					{Index: 0, Text: "a", IsCorrect: true},
					{Index: 1, Text: "b"},
					{Index: 2, Text: "c", IsCorrect: true},
					{Index: 3, Text: "d"},
				},
			},
		},
	}
}
