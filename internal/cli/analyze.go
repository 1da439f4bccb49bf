package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yildizm/SentiDash/internal/common"
	"github.com/yildizm/SentiDash/internal/formatter"
	"github.com/yildizm/SentiDash/internal/viewmodel"
)

// maxReviewBytes bounds review text read from stdin
const maxReviewBytes = 64 << 10

type analyzeFlags struct {
	category string
	rating   int
	sample   int
}

func newAnalyzeCommand(g *globals) *cobra.Command {
	flags := analyzeFlags{}

	cmd := &cobra.Command{
		Use:   "analyze [text]",
		Short: "Classify the sentiment of one review",
		Long: `Submit one product review to the sentiment server and print the result.

If no text is given, the review is read from stdin. The result is added to
the local history the same way the dashboard's Analyze view does it.

Examples:
  sentidash analyze "Battery lasts all day, love it" --category Electronics --rating 5
  echo "Fell apart after a week" | sentidash analyze --category Clothing --rating 1
  sentidash analyze --sample 2 -o json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, g, flags, args)
		},
	}

	cmd.Flags().StringVar(&flags.category, "category", common.DefaultCategory,
		"product category ("+strings.Join(common.Categories, ", ")+")")
	cmd.Flags().IntVar(&flags.rating, "rating", common.MaxRating, "star rating 1-5")
	cmd.Flags().IntVar(&flags.sample, "sample", 0, "submit sample review n (1-5) instead of text")

	return cmd
}

func runAnalyze(cmd *cobra.Command, g *globals, flags analyzeFlags, args []string) error {
	s, err := g.newSession(cmd, false)
	if err != nil {
		return err
	}
	vm := viewmodel.NewAnalysis(s.client, s.deps)

	if flags.sample > 0 {
		if err := vm.UseSample(flags.sample - 1); err != nil {
			return fmt.Errorf("invalid --sample %d: %w", flags.sample, err)
		}
	} else {
		text := strings.Join(args, " ")
		if len(args) == 0 {
			if text, err = readReview(cmd.InOrStdin()); err != nil {
				return err
			}
		}
		if err := validateRating(flags.rating); err != nil {
			return err
		}
		vm.SetText(text)
		vm.SetCategory(flags.category)
		vm.SetRating(flags.rating)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	if err := vm.Submit(ctx); err != nil {
		return err
	}

	result, ok := vm.Result()
	if !ok {
		return fmt.Errorf("analysis produced no result")
	}
	return g.writeReport(cmd, &formatter.Report{
		Title:    "Sentiment Analysis",
		Analysis: &result.Record,
	})
}

func readReview(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxReviewBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read review from stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// validateRating rejects a --rating outside the star range
func validateRating(rating int) error {
	if rating < common.MinRating || rating > common.MaxRating {
		return fmt.Errorf("rating must be between %d and %d", common.MinRating, common.MaxRating)
	}
	return nil
}
