package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ncruces/zenity"
	"github.com/spf13/cobra"

	"github.com/fpang/product-studio-cli/internal/imagecodec"
)

var downloadOut string

var downloadCmd = &cobra.Command{
	Use:   "download <asset-id>",
	Short: "Save one asset's full-size image to disk",
	Args:  cobra.ExactArgs(1),
	Run:   runDownload,
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadOut, "out", "o", "", "Output file (default: native save dialog)")
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) {
	id := args[0]

	app, err := newStateApp()
	if err != nil {
		fail("%v", err)
	}

	asset, ok := app.store.Get(id)
	if !ok {
		fail("unknown asset id %s", id)
	}

	data, mime, err := imagecodec.DecodeDataURI(asset.ImageURI)
	if err != nil {
		fail("asset %s has an unreadable image: %v", id, err)
	}

	ext := ".png"
	if mime == "image/jpeg" {
		ext = ".jpg"
	}

	path := downloadOut
	if path == "" {
		path, err = zenity.SelectFileSave(
			zenity.Title("Save image"),
			zenity.Filename(asset.ID+ext),
			zenity.ConfirmOverwrite(),
		)
		if err != nil {
			if errors.Is(err, zenity.ErrCanceled) {
				fmt.Println("Canceled.")
				return
			}
			fail("save dialog failed: %v", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		fail("failed to write %s: %v", path, err)
	}
	fmt.Printf("Saved %s\n", path)
}
