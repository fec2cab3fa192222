package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chainscribe/concord/internal/core/quality"
)

var (
	topK           int
	candidatesFile string
)

var filterCmd = &cobra.Command{
	Use:   "filter <graph.json>",
	Short: "Select the top relationships to implement",
	Long: `Deduplicate and rank a graph's relationships by implementation priority
(payment first, then ownership, obligation, temporal) and keep the top K.

With --candidates the raw extractor output is filtered instead of a graph.

Examples:
  concord filter lease.json
  concord filter --candidates extracted.json --top-k 10 lease.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var candidates []quality.Candidate

		switch {
		case candidatesFile != "":
			data, err := os.ReadFile(candidatesFile)
			if err != nil {
				return err
			}
			if err := json.Unmarshal(data, &candidates); err != nil {
				return fmt.Errorf("parse candidates %s: %w", candidatesFile, err)
			}
		case len(args) == 1:
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			candidates = quality.CandidatesFromGraph(g)
		default:
			return fmt.Errorf("provide a graph file or --candidates")
		}

		k := cfg.Engine.TopKRelationships
		if topK > 0 {
			k = topK
		}
		selected := quality.NewFilter(k).Select(candidates)
		return printJSON(map[string]interface{}{
			"relationships": selected,
			"total":         len(candidates),
			"selected":      len(selected),
		})
	},
}

func init() {
	filterCmd.Flags().IntVar(&topK, "top-k", 0, "override the configured relationship cap")
	filterCmd.Flags().StringVar(&candidatesFile, "candidates", "", "JSON file of raw extractor candidates")
	rootCmd.AddCommand(filterCmd)
}
