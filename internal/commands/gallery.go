package commands

import (
	"fmt"

	"github.com/nulzo/image-playground/internal/cli"
	"github.com/nulzo/image-playground/internal/playground"
	"github.com/nulzo/image-playground/internal/tui"
	"github.com/spf13/cobra"
)

var galleryPlain bool

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Browse previously generated images",
	Args:  cobra.NoArgs,
	RunE:  runGallery,
}

func init() {
	rootCmd.AddCommand(galleryCmd)
	galleryCmd.Flags().BoolVar(&galleryPlain, "plain", false, "Print the list instead of starting the viewer")
}

func runGallery(cmd *cobra.Command, _ []string) error {
	gallery := playground.NewGallery(cmd.Context(), newClient(), log)
	if !galleryPlain {
		return tui.Run(cmd.Context(), tui.NewGalleryView(gallery))
	}

	playground.Drive(gallery.Load(), gallery.Update)

	out := cmd.OutOrStdout()
	if gallery.Empty() {
		fmt.Fprintln(out, playground.EmptyMessage)
		return nil
	}
	for _, item := range gallery.Items() {
		fmt.Fprintf(out, "%s  %s\n  %s\n", cli.Style(item.Key, cli.BoldCode), cli.Style(item.Uploaded, cli.DimCode), item.URL)
	}
	return nil
}
