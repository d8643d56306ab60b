package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var guidelinesFile string

var guidelinesCmd = &cobra.Command{
	Use:   "guidelines",
	Short: "Manage persisted brand guidelines",
	Long: `Brand guidelines are free text that planning injects into every
express run, and that studio mode applies when --brand-vibe is set. They
persist across sessions until cleared.`,
}

var guidelinesSetCmd = &cobra.Command{
	Use:   "set [text]",
	Short: "Save brand guidelines from an argument or a file",
	Args:  cobra.MaximumNArgs(1),
	Run:   runGuidelinesSet,
}

var guidelinesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved brand guidelines",
	Run:   runGuidelinesShow,
}

var guidelinesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the saved brand guidelines",
	Run:   runGuidelinesClear,
}

func init() {
	guidelinesSetCmd.Flags().StringVarP(&guidelinesFile, "file", "f", "", "Read guidelines from a file instead of an argument")
	guidelinesCmd.AddCommand(guidelinesSetCmd)
	guidelinesCmd.AddCommand(guidelinesShowCmd)
	guidelinesCmd.AddCommand(guidelinesClearCmd)
	rootCmd.AddCommand(guidelinesCmd)
}

func runGuidelinesSet(cmd *cobra.Command, args []string) {
	var text string
	switch {
	case guidelinesFile != "":
		data, err := os.ReadFile(guidelinesFile)
		if err != nil {
			fail("failed to read %s: %v", guidelinesFile, err)
		}
		text = string(data)
	case len(args) == 1:
		text = args[0]
	default:
		fail("provide guidelines text as an argument or with --file")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		fail("guidelines text is empty")
	}

	app, err := newStateApp()
	if err != nil {
		fail("%v", err)
	}
	if err := app.state.SetGuidelines(text); err != nil {
		fail("%v", err)
	}
	fmt.Println("Guidelines saved.")
}

func runGuidelinesShow(cmd *cobra.Command, args []string) {
	app, err := newStateApp()
	if err != nil {
		fail("%v", err)
	}

	guidelines := app.state.Guidelines()
	if guidelines == "" {
		fmt.Println("No guidelines set.")
		return
	}
	fmt.Println(guidelines)
}

func runGuidelinesClear(cmd *cobra.Command, args []string) {
	app, err := newStateApp()
	if err != nil {
		fail("%v", err)
	}
	if err := app.state.ClearGuidelines(); err != nil {
		fail("%v", err)
	}
	fmt.Println("Guidelines cleared.")
}
