package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/f3rmion/emoreflect/internal/classifier"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text...]",
	Short: "Analyze a single reflection and print the detected emotion",
	Long: `Send one reflection to the classifier and print the result.

The arguments are joined with spaces. With no arguments the reflection is
read from standard input.

Example:
  emoreflect analyze "I feel nervous about my first job interview"
  echo "what a day" | emoreflect analyze --json`,
	SilenceUsage: true,
	RunE:         runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().Bool("json", false, "print the decoded result as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	text, err := readReflection(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	return analyze(cmd, newClient(), text, asJSON)
}

// readReflection joins args, or reads r when there are none.
func readReflection(args []string, r io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

// analyze runs one submission and writes the outcome to cmd's output.
// Failures are returned with the same text the form would show.
func analyze(cmd *cobra.Command, a classifier.Analyzer, text string, asJSON bool) error {
	result, err := a.Analyze(cmd.Context(), text)
	if err != nil {
		return errors.New(classifier.Message(err))
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintf(out, "Detected Emotion: %s\n", result.Emotion)
	fmt.Fprintf(out, "Confidence Level: %d%%\n", result.Percent())
	return nil
}
