// Package xlsx converts spreadsheets to quiz documents and results to spreadsheets.
//
// Import layout, first sheet, one question per row after the header:
//
//	question | explanation | correct | option 1 | option 2 | ...
//
// "correct" lists 1-based option column numbers separated by commas. Blank
// option cells are skipped but keep their column number. The sheet name
// becomes the quiz title.
package xlsx

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"practice-quiz-service/internal/domain"
)

// ImportWorkbook reads a workbook into a raw quiz document for quiz.Validate.
func ImportWorkbook(r io.Reader) (map[string]any, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open excel: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("excel sheet is empty")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, errors.New("no data rows found")
	}

	header := map[string]int{}
	var optionCols []int
	for i, h := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(h))
		if strings.HasPrefix(key, "option") {
			optionCols = append(optionCols, i)
			continue
		}
		header[key] = i
	}
	for _, col := range []string{"question", "correct"} {
		if _, ok := header[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	questions := make([]any, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		get := func(idx int) string {
			if idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		if strings.Join(row, "") == "" {
			continue
		}

		correct, err := parseCorrect(get(header["correct"]), len(optionCols))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		options := make([]any, 0, len(optionCols))
		for k, col := range optionCols {
			text := get(col)
			if text == "" {
				if correct[k+1] {
					return nil, fmt.Errorf("row %d: correct option %d is blank", i+1, k+1)
				}
				continue
			}
			options = append(options, map[string]any{
				"text":      text,
				"isCorrect": correct[k+1],
			})
		}

		q := map[string]any{
			"question": get(header["question"]),
			"options":  options,
		}
		if idx, ok := header["explanation"]; ok {
			if explanation := get(idx); explanation != "" {
				q["explanation"] = explanation
			}
		}
		questions = append(questions, q)
	}

	return map[string]any{
		"title":     sheets[0],
		"questions": questions,
	}, nil
}

// parseCorrect reads 1-based option column numbers, each at most limit.
func parseCorrect(raw string, limit int) (map[int]bool, error) {
	out := map[int]bool{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid correct option number %q", part)
		}
		if n > limit {
			return nil, fmt.Errorf("correct option %d is beyond the %d option columns", n, limit)
		}
		out[n] = true
	}
	return out, nil
}

// ExportResult writes a per-question review sheet for a scored attempt.
func ExportResult(quiz domain.Quiz, result domain.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	headers := []string{"#", "question", "selected", "correct", "result"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for i, v := range result.Verdicts {
		row := i + 2
		question := quiz.Questions[v.QuestionIndex]
		verdict := "wrong"
		switch {
		case v.IsCorrect:
			verdict = "correct"
		case !v.Answered:
			verdict = "unanswered"
		}
		values := []any{
			v.QuestionIndex + 1,
			question.Prompt,
			optionTexts(question, v.Selected),
			optionTexts(question, v.Correct),
			verdict,
		}
		for col, val := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, val)
		}
	}
	summaryRow := len(result.Verdicts) + 3
	cell, _ := excelize.CoordinatesToCellName(1, summaryRow)
	_ = f.SetCellValue(sheet, cell, fmt.Sprintf("%d / %d (%d%%) %s", result.Correct, result.Total, result.Percentage, result.Message))
	_ = f.SetColWidth(sheet, "B", "D", 40)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func optionTexts(q domain.Question, indices []int) string {
	texts := make([]string, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(q.Options) {
			texts = append(texts, q.Options[idx].Text)
		}
	}
	return strings.Join(texts, ", ")
}
