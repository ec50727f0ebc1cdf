package domain

import "time"

// Option is one selectable choice. Index is its position in the uploaded
// document and is the only key used for selections and scoring.
type Option struct {
	Index     int    `json:"index"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question models a prompt with ordered options, one or more of them correct.
type Question struct {
	ID             string   `json:"id,omitempty"`
	Prompt         string   `json:"question"`
	Options        []Option `json:"options"`
	Explanation    string   `json:"explanation,omitempty"`
	MultipleAnswer bool     `json:"multipleAnswer"`
}

// CorrectIndices returns the stable indices of the options marked correct.
func (q Question) CorrectIndices() []int {
	out := make([]int, 0, len(q.Options))
	for _, opt := range q.Options {
		if opt.IsCorrect {
			out = append(out, opt.Index)
		}
	}
	return out
}

// Quiz is a validated, immutable quiz document.
type Quiz struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Questions   []Question `json:"questions"`
}

// QuizSummary is the listing view of a stored quiz.
type QuizSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	QuestionCount int    `json:"questionCount"`
}

// Summary builds the listing view for q.
func (q Quiz) Summary() QuizSummary {
	return QuizSummary{
		ID:            q.ID,
		Title:         q.Title,
		Description:   q.Description,
		QuestionCount: len(q.Questions),
	}
}

// RevealMode selects when a question's correctness and explanation are shown.
type RevealMode string

const (
	// RevealOnSubmit is the two-phase flow: select, then submit to lock and reveal.
	RevealOnSubmit RevealMode = "onSubmit"
	// RevealImmediate reveals as soon as a selection exists.
	RevealImmediate RevealMode = "immediate"
)

// ParseRevealMode maps a config value to a RevealMode, defaulting to RevealOnSubmit.
func ParseRevealMode(raw string) RevealMode {
	if RevealMode(raw) == RevealImmediate {
		return RevealImmediate
	}
	return RevealOnSubmit
}

// QuestionState is the per-question progress of a session.
type QuestionState string

const (
	StateUnanswered QuestionState = "unanswered"
	StateSelected   QuestionState = "selected"
	StateSubmitted  QuestionState = "submitted"
)

// Verdict is the scoring outcome for one question.
type Verdict struct {
	QuestionIndex int   `json:"questionIndex"`
	Selected      []int `json:"selected"`
	Correct       []int `json:"correct"`
	Answered      bool  `json:"answered"`
	IsCorrect     bool  `json:"isCorrect"`
}

// Result summarizes a finished attempt.
type Result struct {
	Correct    int       `json:"correct"`
	Total      int       `json:"total"`
	Percentage int       `json:"percentage"`
	Message    string    `json:"message"`
	Verdicts   []Verdict `json:"verdicts"`
	ScoredAt   time.Time `json:"scoredAt"`
}
