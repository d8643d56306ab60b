package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fpang/product-studio-cli/internal/trends"
)

var trendsCmd = &cobra.Command{
	Use:   "trends <category>",
	Short: "Show current visual trends for a product category",
	Long: `Runs the same trend research express mode performs before planning,
and prints the summary. Research degrades to generic guidance when the
search-backed lookup fails, so this command always produces output.`,
	Args: cobra.ExactArgs(1),
	Run:  runTrends,
}

func init() {
	rootCmd.AddCommand(trendsCmd)
}

func runTrends(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	app, err := newCapabilityApp(ctx)
	if err != nil {
		fail("%v", err)
	}

	summary := trends.NewResearcher(app.text).Research(ctx, args[0])
	fmt.Println(summary)
}
