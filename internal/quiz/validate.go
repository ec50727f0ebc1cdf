// Package quiz turns uploaded quiz documents into validated domain.Quiz values.
//
// Three answer-key shapes are accepted and normalized to per-option booleans:
//
//	{"options": [{"text": "Paris", "isCorrect": true}, ...]}
//	{"options": [{"id": "a", "text": "Paris"}, ...], "correctOptionId": "a"}
//	{"options": ["Paris", "London"], "correctAnswer": 0}
//
// When any option carries an explicit isCorrect flag the flags win and the
// id or positional keys are ignored.
package quiz

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"practice-quiz-service/internal/domain"
)

const minOptions = 2

// Parse decodes JSON bytes and validates the result.
func Parse(data []byte) (domain.Quiz, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.Quiz{}, &domain.ValidationError{
			Kind:          domain.WrongType,
			Path:          "$",
			Expected:      "JSON object",
			QuestionIndex: -1,
			Detail:        err.Error(),
		}
	}
	return Validate(raw)
}

// Validate checks a decoded document and builds the canonical Quiz.
// It stops at the first problem and never returns a partial Quiz.
func Validate(raw any) (domain.Quiz, error) {
	doc, ok := raw.(map[string]any)
	if !ok {
		return domain.Quiz{}, domain.NewWrongType("$", "object", -1)
	}

	title, err := requiredString(doc, "title", "title", -1)
	if err != nil {
		return domain.Quiz{}, err
	}
	description, err := optionalString(doc, "description", "description", -1)
	if err != nil {
		return domain.Quiz{}, err
	}
	id, err := optionalString(doc, "id", "id", -1)
	if err != nil {
		return domain.Quiz{}, err
	}

	rawQuestions, present := doc["questions"]
	if !present || rawQuestions == nil {
		return domain.Quiz{}, domain.NewMissingField("questions", -1)
	}
	list, ok := rawQuestions.([]any)
	if !ok || len(list) == 0 {
		return domain.Quiz{}, domain.NewWrongType("questions", "non-empty array", -1)
	}

	questions := make([]domain.Question, 0, len(list))
	for i, rq := range list {
		q, err := validateQuestion(i, rq)
		if err != nil {
			return domain.Quiz{}, err
		}
		questions = append(questions, q)
	}

	return domain.Quiz{
		ID:          id,
		Title:       title,
		Description: description,
		Questions:   questions,
	}, nil
}

type rawOption struct {
	id       string
	text     string
	flagged  bool
	explicit bool
}

func validateQuestion(i int, raw any) (domain.Question, error) {
	base := fmt.Sprintf("questions[%d]", i)
	obj, ok := raw.(map[string]any)
	if !ok {
		return domain.Question{}, domain.NewWrongType(base, "object", i)
	}

	promptKey := "question"
	if _, ok := obj[promptKey]; !ok {
		if _, legacy := obj["text"]; legacy {
			promptKey = "text"
		}
	}
	prompt, err := requiredString(obj, promptKey, base+"."+promptKey, i)
	if err != nil {
		return domain.Question{}, err
	}
	id, err := optionalString(obj, "id", base+".id", i)
	if err != nil {
		return domain.Question{}, err
	}
	explanation, err := optionalString(obj, "explanation", base+".explanation", i)
	if err != nil {
		return domain.Question{}, err
	}

	rawOptions, present := obj["options"]
	if !present || rawOptions == nil {
		return domain.Question{}, domain.NewMissingField(base+".options", i)
	}
	list, ok := rawOptions.([]any)
	if !ok {
		return domain.Question{}, domain.NewWrongType(base+".options", "array", i)
	}
	if len(list) < minOptions {
		return domain.Question{}, domain.NewEmptyOptions(i)
	}

	opts := make([]rawOption, 0, len(list))
	anyExplicit := false
	for j, ro := range list {
		opt, err := parseOption(i, j, base, ro)
		if err != nil {
			return domain.Question{}, err
		}
		anyExplicit = anyExplicit || opt.explicit
		opts = append(opts, opt)
	}

	if !anyExplicit {
		if err := applyLegacyKey(i, base, obj, opts); err != nil {
			return domain.Question{}, err
		}
	}

	options := make([]domain.Option, len(opts))
	correct := 0
	for j, opt := range opts {
		options[j] = domain.Option{Index: j, Text: opt.text, IsCorrect: opt.flagged}
		if opt.flagged {
			correct++
		}
	}
	if correct == 0 {
		return domain.Question{}, domain.NewNoCorrectAnswer(i)
	}

	return domain.Question{
		ID:             id,
		Prompt:         prompt,
		Options:        options,
		Explanation:    explanation,
		MultipleAnswer: correct > 1,
	}, nil
}

func parseOption(i, j int, base string, raw any) (rawOption, error) {
	path := fmt.Sprintf("%s.options[%d]", base, j)
	switch v := raw.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return rawOption{}, domain.NewMissingField(path, i)
		}
		return rawOption{text: v}, nil
	case map[string]any:
		text, err := requiredString(v, "text", path+".text", i)
		if err != nil {
			return rawOption{}, err
		}
		id, err := optionalString(v, "id", path+".id", i)
		if err != nil {
			return rawOption{}, err
		}
		opt := rawOption{id: id, text: text}
		if flag, ok := v["isCorrect"]; ok && flag != nil {
			b, ok := flag.(bool)
			if !ok {
				return rawOption{}, domain.NewWrongType(path+".isCorrect", "boolean", i)
			}
			opt.flagged = b
			opt.explicit = true
		}
		return opt, nil
	default:
		return rawOption{}, domain.NewWrongType(path, "object or string", i)
	}
}

// applyLegacyKey marks options from correctOptionIds, correctOptionId or
// correctAnswer, in that order of preference.
func applyLegacyKey(i int, base string, obj map[string]any, opts []rawOption) error {
	if raw, ok := obj["correctOptionIds"]; ok && raw != nil {
		path := base + ".correctOptionIds"
		list, ok := raw.([]any)
		if !ok {
			return domain.NewWrongType(path, "array of strings", i)
		}
		ids := make([]string, 0, len(list))
		for k, item := range list {
			s, ok := item.(string)
			if !ok || s == "" {
				return domain.NewWrongType(fmt.Sprintf("%s[%d]", path, k), "non-empty string", i)
			}
			ids = append(ids, s)
		}
		return markByID(i, path, ids, opts)
	}

	if raw, ok := obj["correctOptionId"]; ok && raw != nil {
		path := base + ".correctOptionId"
		s, ok := raw.(string)
		if !ok {
			return domain.NewWrongType(path, "string", i)
		}
		if s == "" {
			return domain.NewMissingField(path, i)
		}
		return markByID(i, path, []string{s}, opts)
	}

	if raw, ok := obj["correctAnswer"]; ok && raw != nil {
		path := base + ".correctAnswer"
		switch v := raw.(type) {
		case float64:
			if v != math.Trunc(v) || v < 0 || v >= float64(len(opts)) {
				return domain.NewAmbiguousAnswerKey(path, i, fmt.Sprintf("no option at position %v", v))
			}
			opts[int(v)].flagged = true
			return nil
		case string:
			match := -1
			for j, opt := range opts {
				if opt.text != v {
					continue
				}
				if match >= 0 {
					return domain.NewAmbiguousAnswerKey(path, i, fmt.Sprintf("several options read %q", v))
				}
				match = j
			}
			if match < 0 {
				return domain.NewAmbiguousAnswerKey(path, i, fmt.Sprintf("no option reads %q", v))
			}
			opts[match].flagged = true
			return nil
		default:
			return domain.NewWrongType(path, "number or string", i)
		}
	}

	return nil
}

func markByID(i int, path string, ids []string, opts []rawOption) error {
	byID := make(map[string]int, len(opts))
	for j, opt := range opts {
		if opt.id == "" {
			continue
		}
		if _, dup := byID[opt.id]; dup {
			return domain.NewAmbiguousAnswerKey(path, i, fmt.Sprintf("option id %q is used twice", opt.id))
		}
		byID[opt.id] = j
	}
	for _, id := range ids {
		j, ok := byID[id]
		if !ok {
			return domain.NewAmbiguousAnswerKey(path, i, fmt.Sprintf("unknown option id %q", id))
		}
		opts[j].flagged = true
	}
	return nil
}

func requiredString(obj map[string]any, key, path string, questionIndex int) (string, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return "", domain.NewMissingField(path, questionIndex)
	}
	s, ok := raw.(string)
	if !ok {
		return "", domain.NewWrongType(path, "string", questionIndex)
	}
	if strings.TrimSpace(s) == "" {
		return "", domain.NewMissingField(path, questionIndex)
	}
	return s, nil
}

func optionalString(obj map[string]any, key, path string, questionIndex int) (string, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", domain.NewWrongType(path, "string", questionIndex)
	}
	return s, nil
}
