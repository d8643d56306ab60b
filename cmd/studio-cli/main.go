package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fpang/product-studio-cli/internal/logging"
)

// rootCmd is the main Cobra command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "studio-cli",
	Short: "AI marketing-image studio for product photos",
	Long: `Studio CLI turns product photos into a set of marketing images.

Express mode researches current visual trends for your product category,
plans a varied set of image concepts, and generates them one by one.
Studio mode generates a single fully-specified product shot. Results land
in a session gallery and a persisted 20-item history that regenerate and
download operate on.

Examples:
  studio-cli express --image product.jpg --category "craft coffee" --tone vibrant
  studio-cli express --pick --category skincare --tone luxury --notes "summer launch"
  studio-cli studio --image product.jpg --theme outdoor --lighting golden_hour
  studio-cli regenerate 4f7c... --prompt "same scene, but at night"
  studio-cli history list
  studio-cli download 4f7c... --out hero.png`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional; environment variables win when both are present.
		_ = godotenv.Load()
		logging.Init()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
