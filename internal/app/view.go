package app

import (
	"practice-quiz-service/internal/domain"
	"practice-quiz-service/internal/session"
)

// SessionView is what presentation code renders for a session.
type SessionView struct {
	SessionID     string            `json:"sessionId"`
	QuizID        string            `json:"quizId"`
	QuizTitle     string            `json:"quizTitle"`
	Description   string            `json:"description,omitempty"`
	Phase         session.Phase     `json:"phase"`
	RevealMode    domain.RevealMode `json:"revealMode"`
	Position      int               `json:"position"`
	Total         int               `json:"total"`
	AnsweredCount int               `json:"answeredCount"`
	Question      *QuestionView     `json:"question,omitempty"`
}

// QuestionView is the current question with options in display order.
// Correctness and explanation are only filled once the question is revealed.
type QuestionView struct {
	Index          int                  `json:"index"`
	Prompt         string               `json:"prompt"`
	MultipleAnswer bool                 `json:"multipleAnswer"`
	State          domain.QuestionState `json:"state"`
	Revealed       bool                 `json:"revealed"`
	Locked         bool                 `json:"locked"`
	Selected       []int                `json:"selected"`
	Options        []OptionView         `json:"options"`
	IsCorrect      *bool                `json:"isCorrect,omitempty"`
	Explanation    string               `json:"explanation,omitempty"`
}

type OptionView struct {
	Index     int    `json:"index"`
	Text      string `json:"text"`
	Selected  bool   `json:"selected"`
	IsCorrect *bool  `json:"isCorrect,omitempty"`
}

func newSessionView(e *Entry) SessionView {
	s := e.session
	q := s.Quiz()

	answered := 0
	for i := range q.Questions {
		if s.IsAnswered(i) {
			answered++
		}
	}

	view := SessionView{
		SessionID:     e.ID,
		QuizID:        e.QuizID,
		QuizTitle:     q.Title,
		Description:   q.Description,
		Phase:         s.Phase(),
		RevealMode:    s.RevealMode(),
		Position:      s.Position(),
		Total:         s.Len(),
		AnsweredCount: answered,
	}
	if !s.Complete() && s.Len() > 0 {
		qv := newQuestionView(s, s.Current())
		view.Question = &qv
	}
	return view
}

func newQuestionView(s *session.Session, idx int) QuestionView {
	question := s.Quiz().Questions[idx]
	selected := s.Selected(idx)
	chosen := make(map[int]bool, len(selected))
	for _, o := range selected {
		chosen[o] = true
	}

	revealed := s.Revealed(idx)
	qv := QuestionView{
		Index:          idx,
		Prompt:         question.Prompt,
		MultipleAnswer: question.MultipleAnswer,
		State:          s.State(idx),
		Revealed:       revealed,
		Locked:         s.Locked(idx),
		Selected:       selected,
		Options:        make([]OptionView, 0, len(question.Options)),
	}

	allRight := true
	for _, o := range s.OptionOrder(idx) {
		opt := question.Options[o]
		ov := OptionView{Index: opt.Index, Text: opt.Text, Selected: chosen[o]}
		if revealed {
			correct := opt.IsCorrect
			ov.IsCorrect = &correct
		}
		if opt.IsCorrect != chosen[o] {
			allRight = false
		}
		qv.Options = append(qv.Options, ov)
	}
	if revealed {
		qv.IsCorrect = &allRight
		qv.Explanation = question.Explanation
	}
	return qv
}
