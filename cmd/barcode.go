package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ecobasket/ecobasket/pkg/off"
)

var barcodeCmd = &cobra.Command{
	Use:   "barcode <code>",
	Short: "Look up a single product by barcode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := newCatalog()
		p, err := catalog.ProductByBarcode(cmd.Context(), args[0], off.BarcodeOptions{})
		if err != nil {
			return err
		}
		if p == nil {
			fmt.Println("Product not found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintf(w, "Name\t%s\t\n", p.DisplayName())
		fmt.Fprintf(w, "Code\t%s\t\n", p.Code)
		fmt.Fprintf(w, "Brands\t%s\t\n", p.Brands)
		fmt.Fprintf(w, "Ecoscore\t%s\t\n", strings.ToUpper(p.EcoscoreGrade))
		if p.Packaging != "" {
			fmt.Fprintf(w, "Packaging\t%s\t\n", p.Packaging)
		}
		if len(p.CategoriesTags) > 0 {
			fmt.Fprintf(w, "Categories\t%s\t\n", strings.Join(p.CategoriesTags, ", "))
		}
		if len(p.Nutriments) > 0 {
			fmt.Fprintf(w, "Nutriments\t%d values\t\n", len(p.Nutriments))
		}
		fmt.Fprintf(w, "View\t%s\t\n", off.ProductURL(p.Code))
		w.Flush()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(barcodeCmd)
}
