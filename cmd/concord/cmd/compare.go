package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/chainscribe/concord/internal/core"
	"github.com/chainscribe/concord/internal/core/match"
	"github.com/chainscribe/concord/internal/report"
	"github.com/chainscribe/concord/internal/semantic"
)

var (
	useSemantic bool
	narrative   bool
)

var compareCmd = &cobra.Command{
	Use:   "compare <e-contract.json> <smart-contract.json>",
	Short: "Compare two contract graphs",
	Long: `Compare an e-contract graph against a smart-contract graph and print
the comparison report as JSON.

Examples:
  concord compare lease.json lease_contract.json
  concord compare --semantic --narrative lease.json lease_contract.json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		a, err := loadGraph(args[0])
		if err != nil {
			return err
		}
		b, err := loadGraph(args[1])
		if err != nil {
			return err
		}

		var gen semantic.Generator
		var lexicon match.Lexicon
		if useSemantic || narrative {
			g, embedder, err := semantic.NewClient(ctx, cfg.Semantic)
			if err != nil {
				return err
			}
			gen = g
			if useSemantic && embedder != nil {
				lex, err := semantic.BuildLexicon(ctx, embedder, semantic.GraphLabels(a, b))
				if err != nil {
					return err
				}
				lexicon = lex
			}
		}

		cmp, err := core.NewComparator(cfg.Engine, lexicon, logger)
		if err != nil {
			return err
		}
		result, err := cmp.Compare(ctx, a, b)
		if err != nil {
			return err
		}

		var writer *report.Writer
		if narrative {
			writer = report.NewWriter(gen, logger)
		} else {
			writer = report.NewWriter(nil, logger)
		}
		return printJSON(writer.Build(ctx, result))
	},
}

func init() {
	compareCmd.Flags().BoolVar(&useSemantic, "semantic", false, "match with the configured embedding provider")
	compareCmd.Flags().BoolVar(&narrative, "narrative", false, "add a generated prose summary to the report")
	rootCmd.AddCommand(compareCmd)
}
