package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chainscribe/concord/internal/core"
	"github.com/chainscribe/concord/internal/core/model"
)

var comparisonFile string

var assessCmd = &cobra.Command{
	Use:   "assess <e-contract.json> <contract.sol>",
	Short: "Score generated contract code against its source graph",
	Long: `Assess how accurately generated smart-contract code preserves the
content of the e-contract graph it was generated from.

Passing --comparison with a prior compare result for the same pair arms the
consistency check between accuracy and overall similarity.

Examples:
  concord assess lease.json LeaseContract.sol
  concord assess --comparison report.json lease.json LeaseContract.sol`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		g, err := loadGraph(args[0])
		if err != nil {
			return err
		}
		code, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}

		var prior *model.ComparisonResult
		if comparisonFile != "" {
			data, err := os.ReadFile(comparisonFile)
			if err != nil {
				return err
			}
			prior = &model.ComparisonResult{}
			if err := json.Unmarshal(data, prior); err != nil {
				return fmt.Errorf("parse comparison %s: %w", comparisonFile, err)
			}
		}

		cmp, err := core.NewComparator(cfg.Engine, nil, logger)
		if err != nil {
			return err
		}
		rep, err := cmp.AssessGeneration(ctx, g, string(code), prior)
		if err != nil {
			return err
		}
		return printJSON(rep)
	},
}

func init() {
	assessCmd.Flags().StringVar(&comparisonFile, "comparison", "", "JSON file with a prior compare result")
	rootCmd.AddCommand(assessCmd)
}
