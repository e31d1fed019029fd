package cmd

import (
	"os"

	"github.com/spf13/cobra"

	internalauth "github.com/ecobasket/ecobasket/internal/auth"
	"github.com/ecobasket/ecobasket/pkg/browse"
	"github.com/ecobasket/ecobasket/pkg/listing"
)

// browseCmd shows random picks for a category, the way the home page
// grid does: category chips, then up to eight sampled product cards.
var browseCmd = &cobra.Command{
	Use:   "browse [category]",
	Short: "Browse random picks from a product category",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		ctx := cmd.Context()
		ctrl := newController(am, store)
		surface := newTerminalSurface(os.Stdout)
		am.OnChange(func(u *internalauth.User) {
			browse.Apply(surface, ctrl.HandleSessionChange(u != nil))
		})

		// Browsing requires a live session.
		user, err := am.Current(ctx)
		if err != nil {
			return err
		}
		if user == nil {
			browse.Apply(surface, ctrl.HandleSessionChange(false))
			return nil
		}

		surface.SetChips(ctrl.Chips())

		var instructions []browse.Instruction
		if len(args) == 1 {
			instructions = ctrl.SelectCategory(ctx, args[0])
		}
		if instructions == nil {
			instructions = ctrl.LoadCategory(ctx, ctrl.ActiveCategory())
		}
		browse.Apply(surface, instructions)
		surface.Flush()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
