package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/ecobasket/ecobasket/internal/auth"
	"github.com/ecobasket/ecobasket/pkg/browse"
	"github.com/ecobasket/ecobasket/pkg/cache"
	"github.com/ecobasket/ecobasket/pkg/off"
)

func defaultDBPath() string {
	if p := viper.GetString("dbpath"); p != "" {
		return p
	}
	home, err := homedir.Dir()
	if err != nil {
		return "ecobasket.sqlite"
	}
	return filepath.Join(home, ".ecobasket.sqlite")
}

// userAgent honors the catalog operators' request that API consumers
// identify themselves with a contact address.
func userAgent() string {
	if contact := viper.GetString("catalog.contact"); contact != "" {
		return fmt.Sprintf("ecobasket/1.0 (%s)", contact)
	}
	return ""
}

func newCatalog() *off.Client {
	var opts []off.ClientOption
	if ua := userAgent(); ua != "" {
		opts = append(opts, off.WithUserAgent(ua))
	}
	return off.NewClient(cache.New(), opts...)
}

func openAuth() (*auth.Manager, error) {
	return auth.Open(defaultDBPath(), "")
}

func newController(am *auth.Manager, store browse.ListStore) *browse.Controller {
	var opts []browse.Option
	if country := viper.GetString("catalog.country"); country != "" {
		opts = append(opts, browse.WithCountry(country))
	}
	if categories := viper.GetStringSlice("categories"); len(categories) > 0 {
		opts = append(opts, browse.WithCategories(categories))
	}
	return browse.New(newCatalog(), sessionAdapter{am}, store, opts...)
}

// sessionAdapter narrows the auth manager to what the browse
// controller needs.
type sessionAdapter struct {
	m *auth.Manager
}

func (a sessionAdapter) CurrentUserID(ctx context.Context) (string, bool) {
	u, err := a.m.Current(ctx)
	if err != nil || u == nil {
		return "", false
	}
	return u.ID, true
}
