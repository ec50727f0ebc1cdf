package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"practice-quiz-service/internal/domain"
	"practice-quiz-service/internal/infra/loader"
	"practice-quiz-service/internal/quiz"
)

// NewValidateCmd checks a quiz document without storing it.
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file|url>",
		Short: "Validate a quiz document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), loader.New(), args[0], cmd.OutOrStdout())
		},
	}
}

func runValidate(ctx context.Context, l *loader.Loader, source string, out io.Writer) error {
	text, err := l.LoadText(ctx, source)
	if err != nil {
		return err
	}
	q, err := quiz.Parse([]byte(text))
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) && verr.QuestionIndex >= 0 {
			return fmt.Errorf("%s: question %d: %w", source, verr.QuestionIndex+1, err)
		}
		return fmt.Errorf("%s: %w", source, err)
	}

	multi := 0
	for _, question := range q.Questions {
		if question.MultipleAnswer {
			multi++
		}
	}
	fmt.Fprintf(out, "%s: ok\n", source)
	fmt.Fprintf(out, "title: %s\n", q.Title)
	fmt.Fprintf(out, "questions: %d (%d multiple-answer)\n", len(q.Questions), multi)
	return nil
}
