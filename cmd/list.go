package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ecobasket/ecobasket/pkg/browse"
	"github.com/ecobasket/ecobasket/pkg/listing"
	"github.com/ecobasket/ecobasket/pkg/off"
)

// listCmd groups the shopping list subcommands.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Manage your shopping list",
}

func listDBPath() string {
	if p, _ := listCmd.PersistentFlags().GetString("dbpath"); p != "" {
		return p
	}
	return defaultDBPath()
}

var listShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print your shopping list",
	RunE: func(cmd *cobra.Command, args []string) error {
		am, err := openAuth()
		if err != nil {
			return err
		}
		defer am.Close()

		user, err := am.Current(cmd.Context())
		if err != nil {
			return err
		}
		if user == nil {
			fmt.Println("You are signed out. Run 'ecobasket login' first.")
			return nil
		}

		store, err := listing.Open(listDBPath())
		if err != nil {
			return err
		}
		defer store.Close()

		items, err := store.List(cmd.Context(), user.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("Your shopping list is empty.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tQTY\tECO\tNOTES\tADDED\t")
		for _, it := range items {
			eco := strings.ToUpper(it.Ecoscore)
			if eco == "" {
				eco = "?"
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\t\n",
				it.ID, it.ProductName, it.Quantity, eco, it.Notes, it.AddedAt.Format("2006-01-02"))
		}
		w.Flush()
		return nil
	},
}

// listAddCmd is the card's "Add" action: look the product up, then
// persist a normalized item. Signed-out users are sent to the entry
// page without any persistence call.
var listAddCmd = &cobra.Command{
	Use:   "add <barcode>",
	Short: "Add a product to your shopping list by barcode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		am, err := openAuth()
		if err != nil {
			return err
		}
		defer am.Close()

		catalog := newCatalog()
		p, err := catalog.ProductByBarcode(cmd.Context(), args[0], off.BarcodeOptions{})
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("no product with barcode %s", args[0])
		}

		store, err := listing.Open(listDBPath())
		if err != nil {
			return err
		}
		defer store.Close()

		ctrl := newController(am, store)
		surface := newTerminalSurface(os.Stdout)
		browse.Apply(surface, ctrl.Add(cmd.Context(), *p))
		surface.Flush()
		return nil
	},
}

var listRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove an item from your shopping list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withListItem(cmd, func(store *listing.DB, userID string) error {
			err := store.Delete(cmd.Context(), userID, args[0])
			if errors.Is(err, listing.ErrNotFound) {
				return fmt.Errorf("no item with id %s", args[0])
			}
			return err
		})
	},
}

var listNoteCmd = &cobra.Command{
	Use:   "note <id> <text>",
	Short: "Set the note on a shopping list item",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		note := strings.Join(args[1:], " ")
		return withListItem(cmd, func(store *listing.DB, userID string) error {
			err := store.Update(cmd.Context(), userID, args[0], listing.Update{Notes: &note})
			if errors.Is(err, listing.ErrNotFound) {
				return fmt.Errorf("no item with id %s", args[0])
			}
			return err
		})
	},
}

var listQtyCmd = &cobra.Command{
	Use:   "qty <id> <count>",
	Short: "Set the quantity of a shopping list item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		qty, err := strconv.Atoi(args[1])
		if err != nil || qty < 1 {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
		return withListItem(cmd, func(store *listing.DB, userID string) error {
			err := store.Update(cmd.Context(), userID, args[0], listing.Update{Quantity: &qty})
			if errors.Is(err, listing.ErrNotFound) {
				return fmt.Errorf("no item with id %s", args[0])
			}
			return err
		})
	},
}

// withListItem opens the auth manager and store, requires a live
// session and hands both to fn.
func withListItem(cmd *cobra.Command, fn func(store *listing.DB, userID string) error) error {
	am, err := openAuth()
	if err != nil {
		return err
	}
	defer am.Close()

	user, err := am.Current(cmd.Context())
	if err != nil {
		return err
	}
	if user == nil {
		fmt.Println("You are signed out. Run 'ecobasket login' first.")
		return nil
	}

	store, err := listing.Open(listDBPath())
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(store, user.ID)
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.AddCommand(listShowCmd)
	listCmd.AddCommand(listAddCmd)
	listCmd.AddCommand(listRmCmd)
	listCmd.AddCommand(listNoteCmd)
	listCmd.AddCommand(listQtyCmd)
	listCmd.PersistentFlags().String("dbpath", "", "Path to SQLite DB file (default $HOME/.ecobasket.sqlite)")
}
