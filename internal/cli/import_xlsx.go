package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"practice-quiz-service/internal/infra/xlsx"
	"practice-quiz-service/internal/quiz"
)

// NewImportXLSXCmd converts a workbook into a canonical quiz document.
func NewImportXLSXCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "import-xlsx <file.xlsx>",
		Short: "Convert an Excel workbook into a quiz JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			out := cmd.OutOrStdout()
			if output != "" {
				dst, err := os.Create(output)
				if err != nil {
					return err
				}
				defer dst.Close()
				out = dst
			}
			return runImportXLSX(f, out)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the document to this file instead of stdout")
	return cmd
}

func runImportXLSX(in io.Reader, out io.Writer) error {
	doc, err := xlsx.ImportWorkbook(in)
	if err != nil {
		return err
	}
	q, err := quiz.Validate(doc)
	if err != nil {
		return fmt.Errorf("workbook: %w", err)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(q)
}
