package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"practice-quiz-service/internal/app"
	"practice-quiz-service/internal/config"
	"practice-quiz-service/internal/domain"
	"practice-quiz-service/internal/infra/loader"
	"practice-quiz-service/internal/infra/memory"
)

const playHelp = "option numbers toggle a choice, s submit, n next, p previous, r restart, q quit"

// NewPlayCmd plays a quiz document in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var reveal string
	cmd := &cobra.Command{
		Use:   "play <file|url>",
		Short: "Play a quiz in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if reveal != "" {
				cfg.Quiz.RevealMode = reveal
			}
			text, err := loader.New().LoadText(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			service := app.NewPlayService(memory.NewCollectionStore(), memory.NewSessionStore(), app.Settings{
				RevealMode:       cfg.RevealMode(),
				ShuffleQuestions: cfg.Quiz.ShuffleQuestions,
				ShuffleOptions:   cfg.Quiz.ShuffleOptions,
			})
			return runPlay(cmd.Context(), service, []byte(text), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&reveal, "reveal", "", "reveal mode: onSubmit or immediate")
	return cmd
}

func runPlay(ctx context.Context, service *app.PlayService, doc []byte, in io.Reader, out io.Writer) error {
	q, err := service.Upload(ctx, doc)
	if err != nil {
		return err
	}
	view, err := service.Start(ctx, q.ID)
	if err != nil {
		return err
	}
	id := view.SessionID
	defer service.End(ctx, id)

	fmt.Fprintf(out, "%s\n%s\n", view.QuizTitle, playHelp)
	renderQuestion(out, view)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		cmd := strings.TrimSpace(scanner.Text())

		switch cmd {
		case "":
			continue
		case "q":
			fmt.Fprintln(out, "bye")
			return nil
		case "s":
			var accepted bool
			view, accepted, err = service.Submit(ctx, id, view.Question.Index)
			if err == nil && !accepted {
				fmt.Fprintln(out, "select an option first")
				continue
			}
		case "n":
			var complete bool
			view, complete, err = service.Advance(ctx, id)
			if err == nil && complete {
				res, err := service.Results(ctx, id)
				if err != nil {
					return err
				}
				renderResult(out, res)
				return nil
			}
		case "p":
			view, err = service.Retreat(ctx, id)
		case "r":
			view, err = service.Restart(ctx, id)
		default:
			n, convErr := strconv.Atoi(cmd)
			if convErr != nil || n < 1 || n > len(view.Question.Options) {
				fmt.Fprintln(out, playHelp)
				continue
			}
			opt := view.Question.Options[n-1]
			view, err = service.Select(ctx, id, view.Question.Index, opt.Index, !opt.Selected)
		}
		if err != nil {
			return err
		}
		renderQuestion(out, view)
	}
}

func renderQuestion(out io.Writer, view app.SessionView) {
	qv := view.Question
	if qv == nil {
		return
	}
	fmt.Fprintf(out, "\nQuestion %d/%d: %s\n", view.Position+1, view.Total, qv.Prompt)
	if qv.MultipleAnswer {
		fmt.Fprintln(out, "(select all that apply)")
	}
	for i, opt := range qv.Options {
		mark := " "
		if opt.Selected {
			mark = "x"
		}
		suffix := ""
		if opt.IsCorrect != nil && *opt.IsCorrect {
			suffix = "  (correct)"
		}
		fmt.Fprintf(out, "  %d. [%s] %s%s\n", i+1, mark, opt.Text, suffix)
	}
	if qv.IsCorrect != nil {
		if *qv.IsCorrect {
			fmt.Fprintln(out, "Correct!")
		} else {
			fmt.Fprintln(out, "Incorrect.")
		}
		if qv.Explanation != "" {
			fmt.Fprintf(out, "Explanation: %s\n", qv.Explanation)
		}
	}
}

func renderResult(out io.Writer, res domain.Result) {
	fmt.Fprintf(out, "\nYou scored %d out of %d (%d%%)\n%s\n", res.Correct, res.Total, res.Percentage, res.Message)
}
