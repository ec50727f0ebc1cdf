package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuiz matches every *ValidationError via errors.Is.
	ErrInvalidQuiz = errors.New("invalid quiz document")
	// ErrEmptyQuiz indicates scoring was asked for a quiz without questions.
	ErrEmptyQuiz = errors.New("quiz has no questions")
	// ErrQuizNotFound indicates the quiz is not in the collection.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrSessionNotFound is returned when a play session does not exist.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrQuestionOutOfRange indicates a question index outside the quiz.
	ErrQuestionOutOfRange = errors.New("question index out of range")
	// ErrOptionOutOfRange indicates an option index outside the question.
	ErrOptionOutOfRange = errors.New("option index out of range")
	// ErrNotFinished is returned when results are requested before the quiz is complete.
	ErrNotFinished = errors.New("quiz not finished")
	// ErrLoad wraps failures of the quiz text loader.
	ErrLoad = errors.New("load quiz text")
)

// ValidationKind tags the reason a document was rejected.
type ValidationKind string

const (
	MissingField       ValidationKind = "MissingField"
	WrongType          ValidationKind = "WrongType"
	EmptyOptions       ValidationKind = "EmptyOptions"
	NoCorrectAnswer    ValidationKind = "NoCorrectAnswer"
	AmbiguousAnswerKey ValidationKind = "AmbiguousAnswerKey"
)

// ValidationError describes the first problem found in a quiz document.
// QuestionIndex is -1 when the problem is not tied to a question.
type ValidationError struct {
	Kind          ValidationKind
	Path          string
	Expected      string
	QuestionIndex int
	Detail        string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingField:
		return fmt.Sprintf("missing field %s", e.Path)
	case WrongType:
		return fmt.Sprintf("field %s must be %s", e.Path, e.Expected)
	case EmptyOptions:
		return fmt.Sprintf("question %d needs at least two options", e.QuestionIndex)
	case NoCorrectAnswer:
		return fmt.Sprintf("question %d has no correct option", e.QuestionIndex)
	case AmbiguousAnswerKey:
		return fmt.Sprintf("question %d has an ambiguous answer key: %s", e.QuestionIndex, e.Detail)
	}
	return string(e.Kind)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidQuiz
}

func NewMissingField(path string, questionIndex int) *ValidationError {
	return &ValidationError{Kind: MissingField, Path: path, QuestionIndex: questionIndex}
}

func NewWrongType(path, expected string, questionIndex int) *ValidationError {
	return &ValidationError{Kind: WrongType, Path: path, Expected: expected, QuestionIndex: questionIndex}
}

func NewEmptyOptions(questionIndex int) *ValidationError {
	return &ValidationError{
		Kind:          EmptyOptions,
		Path:          fmt.Sprintf("questions[%d].options", questionIndex),
		QuestionIndex: questionIndex,
	}
}

func NewNoCorrectAnswer(questionIndex int) *ValidationError {
	return &ValidationError{
		Kind:          NoCorrectAnswer,
		Path:          fmt.Sprintf("questions[%d].options", questionIndex),
		QuestionIndex: questionIndex,
	}
}

func NewAmbiguousAnswerKey(path string, questionIndex int, detail string) *ValidationError {
	return &ValidationError{Kind: AmbiguousAnswerKey, Path: path, QuestionIndex: questionIndex, Detail: detail}
}
