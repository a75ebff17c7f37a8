package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Inspect and rebuild the in-memory encoding index",
}

var indexStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show encoding index statistics",
	RunE:  runIndexStats,
}

var indexRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the encoding index from the database",
	Long: `Rebuild the in-memory encoding index from persisted encodings.

Useful after an enrollment reported a stale index, or to verify that
every persisted encoding has the configured dimensionality.`,
	RunE: runIndexRebuild,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(indexStatsCmd)
	indexCmd.AddCommand(indexRebuildCmd)
}

func runIndexStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	c, err := newCore(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	fmt.Printf("Encodings indexed: %d\n", c.index.Count())
	fmt.Printf("Dimensionality:    %d\n", c.index.Dim())
	fmt.Printf("Match threshold:   %.4f\n", c.cfg.Matching.Threshold)
	fmt.Printf("HNSW accelerator:  %v\n", c.cfg.Matching.HNSWEnabled)
	return nil
}

func runIndexRebuild(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	c, err := newCore(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	count, err := c.enrollment.ReloadIndex(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Index rebuilt with %d encodings\n", count)
	return nil
}
