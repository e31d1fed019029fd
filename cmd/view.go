package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecobasket/ecobasket/internal/utils"
	"github.com/ecobasket/ecobasket/pkg/fetch"
	"github.com/ecobasket/ecobasket/pkg/off"
)

// viewCmd is the card's "View" action: the public catalog page for a
// product, with its title fetched for context.
var viewCmd = &cobra.Command{
	Use:   "view <code>",
	Short: "Show the public catalog page for a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pageURL := off.ProductURL(args[0])

		req := &fetch.Request{URL: pageURL}
		if ua := userAgent(); ua != "" {
			req.Headers = append(req.Headers, fetch.Header{Name: "User-Agent", Value: ua})
		}
		res, err := fetch.Send(cmd.Context(), req, nil)
		if err != nil {
			utils.Log.WithError(err).Warn("could not fetch product page")
			fmt.Println(pageURL)
			return nil
		}
		if res.Title != "" {
			fmt.Println(res.Title)
		}
		fmt.Println(pageURL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
