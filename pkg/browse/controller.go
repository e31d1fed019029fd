package browse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ecobasket/ecobasket/internal/utils"
	"github.com/ecobasket/ecobasket/pkg/listing"
	"github.com/ecobasket/ecobasket/pkg/off"
)

// EntryPage is where unauthenticated users are sent.
const EntryPage = "/"

// FeedbackDuration is how long the transient "Added" label stays on a
// card's add control before reverting.
const FeedbackDuration = 1200 * time.Millisecond

// DefaultCategories are the chips shown before any user input.
var DefaultCategories = []string{"Fruits", "Vegetables", "Bakery", "Snacks", "Beverages", "Dairy"}

const (
	randomCardCount  = 8
	categoryPageSize = 100
	searchPageSize   = 40
	maxSearchCards   = 24
)

// Catalog is the slice of the catalog client the controller needs.
type Catalog interface {
	ProductsByCategory(ctx context.Context, category string, pageSize int, opts off.CategoryOptions) ([]off.Product, error)
	RandomProducts(ctx context.Context, category string, count, pageSize int, opts off.CategoryOptions) ([]off.Product, error)
	Search(ctx context.Context, term string, pageSize int) ([]off.Product, error)
}

// Session exposes the current authenticated user, if any.
type Session interface {
	CurrentUserID(ctx context.Context) (string, bool)
}

// ListStore is the slice of the saved-list store the controller needs.
type ListStore interface {
	Add(ctx context.Context, userID string, item listing.Item) (string, error)
}

// Controller drives the browse/search experience. It holds the active
// category chip and turns user actions into ordered render
// instructions; catalog failures degrade to status messages and never
// propagate past it.
type Controller struct {
	catalog Catalog
	session Session
	store   ListStore

	categories []string
	active     string
	country    string
	log        *logrus.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithCategories replaces the default category chips. The first entry
// becomes the initially active chip.
func WithCategories(categories []string) Option {
	return func(c *Controller) {
		if len(categories) > 0 {
			c.categories = categories
			c.active = categories[0]
		}
	}
}

// WithCountry narrows category loads to one country tag.
func WithCountry(country string) Option {
	return func(c *Controller) { c.country = country }
}

func New(catalog Catalog, session Session, store ListStore, opts ...Option) *Controller {
	c := &Controller{
		catalog:    catalog,
		session:    session,
		store:      store,
		categories: DefaultCategories,
		active:     DefaultCategories[0],
		log:        utils.Log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ActiveCategory returns the currently selected chip.
func (c *Controller) ActiveCategory() string { return c.active }

// Chips returns the category selector with the active chip marked.
func (c *Controller) Chips() []Chip {
	chips := make([]Chip, 0, len(c.categories))
	for _, name := range c.categories {
		chips = append(chips, Chip{Name: name, Active: name == c.active})
	}
	return chips
}

// SelectCategory handles a chip click. Clicking the active chip is a
// no-op; anything else re-highlights the chips and reloads the grid.
// The name is matched case-insensitively against the configured chips
// so typed input still highlights the right one.
func (c *Controller) SelectCategory(ctx context.Context, name string) []Instruction {
	for _, cat := range c.categories {
		if strings.EqualFold(cat, name) {
			name = cat
			break
		}
	}
	if name == c.active {
		return nil
	}
	c.active = name
	instructions := []Instruction{{Op: OpSetChips, Chips: c.Chips()}}
	return append(instructions, c.LoadCategory(ctx, name)...)
}

// LoadCategory clears the grid and fills it with a random sample from
// the category.
func (c *Controller) LoadCategory(ctx context.Context, name string) []Instruction {
	instructions := []Instruction{
		{Op: OpClearCards},
		{Op: OpSetStatus, Status: fmt.Sprintf("Loading %s...", name)},
	}

	prods, err := c.catalog.RandomProducts(ctx, name, randomCardCount, categoryPageSize, off.CategoryOptions{Country: c.country})
	if err != nil {
		c.log.WithError(err).Warn("category load failed")
		return append(instructions, Instruction{Op: OpSetStatus, Status: "Error loading products."})
	}
	if len(prods) == 0 {
		return append(instructions, Instruction{Op: OpSetStatus, Status: "No products found for that category."})
	}

	instructions = append(instructions, Instruction{Op: OpSetStatus})
	for _, p := range prods {
		card := newCard(p)
		instructions = append(instructions, Instruction{Op: OpAddCard, Card: &card})
	}
	return instructions
}

// Search runs the typed term through a category-style query first and
// falls back to a raw free-text search when that yields nothing. At
// most 24 cards are shown.
func (c *Controller) Search(ctx context.Context, term string) []Instruction {
	instructions := []Instruction{
		{Op: OpClearCards},
		{Op: OpSetStatus, Status: fmt.Sprintf("Searching for %q...", term)},
	}

	results, err := c.catalog.ProductsByCategory(ctx, term, searchPageSize, off.CategoryOptions{})
	if err != nil || len(results) == 0 {
		results, err = c.catalog.Search(ctx, term, searchPageSize)
		if err != nil {
			c.log.WithError(err).Warn("search failed")
			return append(instructions, Instruction{Op: OpSetStatus, Status: "Search error"})
		}
	}

	filtered := off.FilterDisplayable(results)
	if len(filtered) == 0 {
		return append(instructions, Instruction{Op: OpSetStatus, Status: "No results"})
	}
	if len(filtered) > maxSearchCards {
		filtered = filtered[:maxSearchCards]
	}

	instructions = append(instructions, Instruction{Op: OpSetStatus})
	for _, p := range filtered {
		card := newCard(p)
		instructions = append(instructions, Instruction{Op: OpAddCard, Card: &card})
	}
	return instructions
}

// Add handles the card's add action. Without a live session nothing is
// persisted and the user is sent to the entry page. Store failures
// surface as an alert; the control reverts either way.
func (c *Controller) Add(ctx context.Context, p off.Product) []Instruction {
	userID, ok := c.session.CurrentUserID(ctx)
	if !ok {
		return []Instruction{{Op: OpNavigate, Target: EntryPage}}
	}

	item := listing.Item{
		Code:        p.Code,
		ProductName: p.DisplayName(),
		Brands:      p.Brands,
		Image:       p.Image(),
		Ecoscore:    p.EcoscoreGrade,
		Nutriments:  p.Nutriments,
		AddedAt:     time.Now().UTC(),
	}
	if _, err := c.store.Add(ctx, userID, item); err != nil {
		c.log.WithError(err).Error("saving product failed")
		return []Instruction{{Op: OpAlert, Message: "Failed to add item: " + err.Error()}}
	}
	return []Instruction{{
		Op:       OpCardFeedback,
		Code:     p.Code,
		Feedback: "Added",
		Revert:   FeedbackDuration,
	}}
}

// HandleSessionChange maps a session-change notification to render
// instructions. Losing the session sends the user to the entry page;
// browsing requires being signed in.
func (c *Controller) HandleSessionChange(signedIn bool) []Instruction {
	if signedIn {
		return nil
	}
	return []Instruction{{Op: OpNavigate, Target: EntryPage}}
}
