package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect or clear the persisted generation history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the persisted history, most recent first",
	Run:   runHistoryList,
}

var historyClearYes bool

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the persisted history",
	Run:   runHistoryClear,
}

func init() {
	historyClearCmd.Flags().BoolVarP(&historyClearYes, "yes", "y", false, "Skip the confirmation prompt")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) {
	app, err := newStateApp()
	if err != nil {
		fail("%v", err)
	}

	history := app.store.History()
	if len(history) == 0 {
		fmt.Println("History is empty.")
		return
	}

	for _, asset := range history {
		status := ""
		if asset.Regenerating {
			status = "  [regenerating]"
		}
		fmt.Printf("%s  %s  %s (%s)%s\n",
			asset.CreatedAt.Format("2006-01-02 15:04"),
			asset.ID, asset.Category, asset.Layout, status)
		fmt.Printf("    %s\n", firstLine(asset.Prompt))
	}
}

func runHistoryClear(cmd *cobra.Command, args []string) {
	app, err := newStateApp()
	if err != nil {
		fail("%v", err)
	}

	count := len(app.store.History())
	if count == 0 {
		fmt.Println("History is already empty.")
		return
	}

	if !historyClearYes {
		fmt.Printf("Delete %d history entries? [y/N] ", count)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.TrimSpace(strings.ToLower(answer)) != "y" {
			fmt.Println("Canceled.")
			return
		}
	}

	app.store.ClearHistory()
	fmt.Println("History cleared.")
}

// firstLine trims a prompt to a single display line.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 100 {
		s = s[:100] + "..."
	}
	return s
}
