package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ecobasket/ecobasket/pkg/browse"
	"github.com/ecobasket/ecobasket/pkg/listing"
)

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search the catalog for products",
	Long:  "Searches the catalog for a term. A category-style query runs first; when it finds nothing the raw free-text search takes over. At most 24 results are shown.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		term := strings.TrimSpace(strings.Join(args, " "))
		if term == "" {
			return nil
		}

		am, err := openAuth()
		if err != nil {
			return err
		}
		defer am.Close()

		store, err := listing.Open(defaultDBPath())
		if err != nil {
			return err
		}
		defer store.Close()

		ctrl := newController(am, store)
		surface := newTerminalSurface(os.Stdout)
		browse.Apply(surface, ctrl.Search(cmd.Context(), term))
		surface.Flush()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
