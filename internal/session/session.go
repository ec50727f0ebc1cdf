// Package session holds the per-attempt state of a quiz: which question is
// shown, what the player selected and which questions are locked.
//
// A Session is single-owner and not safe for concurrent use.
package session

import (
	"sort"

	"practice-quiz-service/internal/domain"
)

// Phase is the coarse state of a session.
type Phase string

const (
	PhaseInProgress Phase = "inProgress"
	PhaseResults    Phase = "results"
)

// Option configures a new Session.
type Option func(*settings)

type settings struct {
	mode             domain.RevealMode
	seed             int64
	shuffleQuestions bool
	shuffleOptions   bool
}

// WithRevealMode picks the reveal policy. The default is domain.RevealOnSubmit.
func WithRevealMode(mode domain.RevealMode) Option {
	return func(s *settings) { s.mode = mode }
}

// WithShuffle randomizes display order with a deterministic seed.
func WithShuffle(seed int64, questions, options bool) Option {
	return func(s *settings) {
		s.seed = seed
		s.shuffleQuestions = questions
		s.shuffleOptions = options
	}
}

// Session is the state machine driving one attempt at a quiz.
type Session struct {
	quiz     domain.Quiz
	settings settings

	order       []int
	optionOrder [][]int

	pos        int
	selections []map[int]struct{}
	submitted  []bool
	phase      Phase
}

// New starts a session at the first position with nothing selected.
func New(quiz domain.Quiz, opts ...Option) *Session {
	cfg := settings{mode: domain.RevealOnSubmit}
	for _, o := range opts {
		o(&cfg)
	}

	n := len(quiz.Questions)
	s := &Session{
		quiz:        quiz,
		settings:    cfg,
		order:       identity(n),
		optionOrder: make([][]int, n),
		selections:  make([]map[int]struct{}, n),
		submitted:   make([]bool, n),
		phase:       PhaseInProgress,
	}
	if cfg.shuffleQuestions {
		s.order = Shuffle(s.order, cfg.seed)
	}
	for q, question := range quiz.Questions {
		s.selections[q] = make(map[int]struct{})
		s.optionOrder[q] = identity(len(question.Options))
		if cfg.shuffleOptions {
			s.optionOrder[q] = Shuffle(s.optionOrder[q], cfg.seed+int64(q)+1)
		}
	}
	return s
}

// Restart returns a fresh session over the same quiz and settings, reshuffled with seed.
func (s *Session) Restart(seed int64) *Session {
	return New(s.quiz,
		WithRevealMode(s.settings.mode),
		WithShuffle(seed, s.settings.shuffleQuestions, s.settings.shuffleOptions),
	)
}

func (s *Session) Quiz() domain.Quiz { return s.quiz }
func (s *Session) RevealMode() domain.RevealMode { return s.settings.mode }
func (s *Session) Phase() Phase { return s.phase }
func (s *Session) Complete() bool { return s.phase == PhaseResults }
func (s *Session) Len() int { return len(s.order) }
func (s *Session) Position() int { return s.pos }

// Current returns the quiz index of the question at the current position.
func (s *Session) Current() int {
	if len(s.order) == 0 {
		return 0
	}
	return s.order[s.pos]
}

// QuestionOrder returns the display order of question indices.
func (s *Session) QuestionOrder() []int {
	return append([]int(nil), s.order...)
}

// OptionOrder returns the display order of option indices for question q.
func (s *Session) OptionOrder(q int) []int {
	if !s.validQuestion(q) {
		return nil
	}
	return append([]int(nil), s.optionOrder[q]...)
}

// SelectOption records a choice. Locked questions and finished sessions
// ignore it. Single-answer questions replace the selection and ignore
// deselection; multi-answer questions add or remove o.
func (s *Session) SelectOption(q, o int, selected bool) error {
	if !s.validQuestion(q) {
		return domain.ErrQuestionOutOfRange
	}
	question := s.quiz.Questions[q]
	if o < 0 || o >= len(question.Options) {
		return domain.ErrOptionOutOfRange
	}
	if s.submitted[q] || s.phase == PhaseResults {
		return nil
	}

	if !question.MultipleAnswer {
		if !selected {
			return nil
		}
		s.selections[q] = map[int]struct{}{o: {}}
		if s.settings.mode == domain.RevealImmediate {
			s.submitted[q] = true
		}
		return nil
	}

	if selected {
		s.selections[q][o] = struct{}{}
	} else {
		delete(s.selections[q], o)
	}
	return nil
}

// Submit locks question q. It reports false and changes nothing when the
// selection is empty or q is out of range.
func (s *Session) Submit(q int) bool {
	if !s.validQuestion(q) || s.phase == PhaseResults {
		return false
	}
	if s.submitted[q] {
		return true
	}
	if len(s.selections[q]) == 0 {
		return false
	}
	s.submitted[q] = true
	return true
}

// Advance moves to the next position. From the last position it enters
// PhaseResults and reports true.
func (s *Session) Advance() bool {
	if s.phase == PhaseResults {
		return true
	}
	s.leave()
	if s.pos >= len(s.order)-1 {
		s.phase = PhaseResults
		return true
	}
	s.pos++
	return false
}

// Retreat moves back one position. It never unlocks a question.
func (s *Session) Retreat() {
	if s.phase == PhaseResults || s.pos == 0 {
		return
	}
	s.leave()
	s.pos--
}

// leave locks a multi-answer question with a selection when the player
// navigates away from it in immediate mode.
func (s *Session) leave() {
	if s.settings.mode != domain.RevealImmediate || len(s.order) == 0 {
		return
	}
	q := s.Current()
	if len(s.selections[q]) > 0 {
		s.submitted[q] = true
	}
}

// IsAnswered follows the reveal mode: submitted in onSubmit mode, any
// selection in immediate mode.
func (s *Session) IsAnswered(q int) bool {
	if !s.validQuestion(q) {
		return false
	}
	if s.settings.mode == domain.RevealImmediate {
		return s.submitted[q] || len(s.selections[q]) > 0
	}
	return s.submitted[q]
}

// Revealed reports whether correctness and explanation of q may be shown.
func (s *Session) Revealed(q int) bool {
	if s.phase == PhaseResults {
		return true
	}
	return s.IsAnswered(q)
}

// Locked reports whether q accepts no further edits.
func (s *Session) Locked(q int) bool {
	return s.validQuestion(q) && (s.submitted[q] || s.phase == PhaseResults)
}

func (s *Session) State(q int) domain.QuestionState {
	switch {
	case !s.validQuestion(q):
		return domain.StateUnanswered
	case s.submitted[q]:
		return domain.StateSubmitted
	case len(s.selections[q]) > 0:
		return domain.StateSelected
	default:
		return domain.StateUnanswered
	}
}

// Selected returns the sorted option indices chosen for q.
func (s *Session) Selected(q int) []int {
	if !s.validQuestion(q) {
		return nil
	}
	return sortedKeys(s.selections[q])
}

// Selections returns every non-empty selection keyed by question index.
func (s *Session) Selections() map[int][]int {
	out := make(map[int][]int, len(s.selections))
	for q, set := range s.selections {
		if len(set) > 0 {
			out[q] = sortedKeys(set)
		}
	}
	return out
}

func (s *Session) validQuestion(q int) bool {
	return q >= 0 && q < len(s.quiz.Questions)
}

func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func sortedKeys(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
