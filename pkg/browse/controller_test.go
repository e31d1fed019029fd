package browse

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ecobasket/ecobasket/pkg/listing"
	"github.com/ecobasket/ecobasket/pkg/off"
)

type fakeCatalog struct {
	categoryProducts []off.Product
	categoryErr      error
	randomProducts   []off.Product
	randomErr        error
	searchProducts   []off.Product
	searchErr        error
	searchCalls      int
}

func (f *fakeCatalog) ProductsByCategory(ctx context.Context, category string, pageSize int, opts off.CategoryOptions) ([]off.Product, error) {
	return f.categoryProducts, f.categoryErr
}

func (f *fakeCatalog) RandomProducts(ctx context.Context, category string, count, pageSize int, opts off.CategoryOptions) ([]off.Product, error) {
	return f.randomProducts, f.randomErr
}

func (f *fakeCatalog) Search(ctx context.Context, term string, pageSize int) ([]off.Product, error) {
	f.searchCalls++
	return f.searchProducts, f.searchErr
}

type fakeSession struct {
	userID string
}

func (f *fakeSession) CurrentUserID(ctx context.Context) (string, bool) {
	return f.userID, f.userID != ""
}

type fakeStore struct {
	added []listing.Item
	err   error
}

func (f *fakeStore) Add(ctx context.Context, userID string, item listing.Item) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.added = append(f.added, item)
	return "1", nil
}

func displayableProducts(n int) []off.Product {
	out := make([]off.Product, n)
	for i := range out {
		out[i] = off.Product{
			Code:          fmt.Sprintf("c%02d", i),
			Name:          fmt.Sprintf("Product %d", i),
			ImageSmallURL: fmt.Sprintf("http://img/%d", i),
		}
	}
	return out
}

func cardCount(instructions []Instruction) int {
	n := 0
	for _, in := range instructions {
		if in.Op == OpAddCard {
			n++
		}
	}
	return n
}

func lastStatus(instructions []Instruction) string {
	status := ""
	for _, in := range instructions {
		if in.Op == OpSetStatus {
			status = in.Status
		}
	}
	return status
}

func TestLoadCategoryRendersCards(t *testing.T) {
	cat := &fakeCatalog{randomProducts: displayableProducts(8)}
	c := New(cat, &fakeSession{}, &fakeStore{})

	ins := c.LoadCategory(context.Background(), "Fruits")
	if got := cardCount(ins); got != 8 {
		t.Fatalf("expected 8 cards, got %d", got)
	}
	if lastStatus(ins) != "" {
		t.Fatalf("status should be cleared after a successful load, got %q", lastStatus(ins))
	}
}

func TestLoadCategoryEmptyShowsStatus(t *testing.T) {
	c := New(&fakeCatalog{}, &fakeSession{}, &fakeStore{})

	ins := c.LoadCategory(context.Background(), "Snacks")
	if got := cardCount(ins); got != 0 {
		t.Fatalf("expected no cards, got %d", got)
	}
	if lastStatus(ins) != "No products found for that category." {
		t.Fatalf("unexpected status %q", lastStatus(ins))
	}
}

func TestLoadCategoryErrorDegradesToStatus(t *testing.T) {
	cat := &fakeCatalog{randomErr: &off.FetchError{StatusCode: 503}}
	c := New(cat, &fakeSession{}, &fakeStore{})

	ins := c.LoadCategory(context.Background(), "Fruits")
	if lastStatus(ins) != "Error loading products." {
		t.Fatalf("unexpected status %q", lastStatus(ins))
	}
	if cardCount(ins) != 0 {
		t.Fatal("no cards should render on error")
	}
}

func TestSelectCategoryActiveIsNoop(t *testing.T) {
	c := New(&fakeCatalog{}, &fakeSession{}, &fakeStore{})

	if ins := c.SelectCategory(context.Background(), c.ActiveCategory()); len(ins) != 0 {
		t.Fatalf("clicking the active chip must be a no-op, got %v", ins)
	}
}

func TestSelectCategorySwitchesAndLoads(t *testing.T) {
	cat := &fakeCatalog{randomProducts: displayableProducts(3)}
	c := New(cat, &fakeSession{}, &fakeStore{})

	ins := c.SelectCategory(context.Background(), "Dairy")
	if c.ActiveCategory() != "Dairy" {
		t.Fatalf("active category not updated: %q", c.ActiveCategory())
	}
	if ins[0].Op != OpSetChips {
		t.Fatalf("expected chip re-render first, got %v", ins[0].Op)
	}
	foundActive := false
	for _, chip := range ins[0].Chips {
		if chip.Name == "Dairy" && chip.Active {
			foundActive = true
		}
	}
	if !foundActive {
		t.Fatal("new category chip should be highlighted")
	}
	if cardCount(ins) != 3 {
		t.Fatalf("expected 3 cards after switching, got %d", cardCount(ins))
	}
}

func TestSelectCategoryIsCaseInsensitive(t *testing.T) {
	cat := &fakeCatalog{randomProducts: displayableProducts(2)}
	c := New(cat, &fakeSession{}, &fakeStore{})

	ins := c.SelectCategory(context.Background(), "dairy")
	if c.ActiveCategory() != "Dairy" {
		t.Fatalf("typed category should resolve to the configured chip, got %q", c.ActiveCategory())
	}
	foundActive := false
	for _, chip := range ins[0].Chips {
		if chip.Name == "Dairy" && chip.Active {
			foundActive = true
		}
	}
	if !foundActive {
		t.Fatal("resolved category chip should be highlighted")
	}

	// Typing the active chip in another case is still a no-op.
	if ins := c.SelectCategory(context.Background(), "DAIRY"); len(ins) != 0 {
		t.Fatalf("re-selecting the active chip must be a no-op, got %v", ins)
	}
}

// Category-style search finds nothing; the raw free-text fallback
// returns 30 entries of which 24 survive the displayable filter. All
// 24 render, nothing more.
func TestSearchFallsBackAndCapsCards(t *testing.T) {
	raw := displayableProducts(24)
	for i := 0; i < 6; i++ {
		raw = append(raw, off.Product{Code: fmt.Sprintf("x%d", i), Name: "no image"})
	}
	cat := &fakeCatalog{searchProducts: raw}
	c := New(cat, &fakeSession{}, &fakeStore{})

	ins := c.Search(context.Background(), "beans")
	if cat.searchCalls != 1 {
		t.Fatalf("fallback search should run once, ran %d times", cat.searchCalls)
	}
	if got := cardCount(ins); got != 24 {
		t.Fatalf("expected 24 cards, got %d", got)
	}
}

func TestSearchCategoryErrorTriggersFallback(t *testing.T) {
	cat := &fakeCatalog{
		categoryErr:    &off.FetchError{StatusCode: 500},
		searchProducts: displayableProducts(2),
	}
	c := New(cat, &fakeSession{}, &fakeStore{})

	ins := c.Search(context.Background(), "beans")
	if cat.searchCalls != 1 {
		t.Fatal("category error should fall back to free-text search")
	}
	if cardCount(ins) != 2 {
		t.Fatalf("expected 2 cards, got %d", cardCount(ins))
	}
}

func TestSearchNoResults(t *testing.T) {
	c := New(&fakeCatalog{}, &fakeSession{}, &fakeStore{})

	ins := c.Search(context.Background(), "zzz")
	if lastStatus(ins) != "No results" {
		t.Fatalf("unexpected status %q", lastStatus(ins))
	}
}

func TestSearchBothPathsFail(t *testing.T) {
	cat := &fakeCatalog{
		categoryErr: errors.New("down"),
		searchErr:   errors.New("down too"),
	}
	c := New(cat, &fakeSession{}, &fakeStore{})

	ins := c.Search(context.Background(), "beans")
	if lastStatus(ins) != "Search error" {
		t.Fatalf("unexpected status %q", lastStatus(ins))
	}
}

func TestAddUnauthenticatedNavigatesWithoutPersisting(t *testing.T) {
	store := &fakeStore{}
	c := New(&fakeCatalog{}, &fakeSession{}, store)

	ins := c.Add(context.Background(), off.Product{Code: "1", Name: "Beans"})
	if len(ins) != 1 || ins[0].Op != OpNavigate || ins[0].Target != EntryPage {
		t.Fatalf("expected a navigate to the entry page, got %v", ins)
	}
	if len(store.added) != 0 {
		t.Fatal("no persistence call may happen while signed out")
	}
}

func TestAddPersistsAndConfirms(t *testing.T) {
	store := &fakeStore{}
	c := New(&fakeCatalog{}, &fakeSession{userID: "u1"}, store)

	p := off.Product{
		Code:          "3017620422003",
		Name:          "Nutella",
		Brands:        "Ferrero",
		ImageSmallURL: "http://img/n",
		EcoscoreGrade: "d",
		Nutriments:    map[string]interface{}{"sugars_100g": 56.3},
	}
	ins := c.Add(context.Background(), p)

	if len(store.added) != 1 {
		t.Fatalf("expected one persisted item, got %d", len(store.added))
	}
	saved := store.added[0]
	if saved.Code != p.Code || saved.ProductName != "Nutella" || saved.Image != "http://img/n" {
		t.Fatalf("unexpected saved item: %+v", saved)
	}
	if len(ins) != 1 || ins[0].Op != OpCardFeedback || ins[0].Feedback != "Added" {
		t.Fatalf("expected Added feedback, got %v", ins)
	}
	if ins[0].Revert != FeedbackDuration {
		t.Fatalf("feedback should revert after %v, got %v", FeedbackDuration, ins[0].Revert)
	}
}

func TestAddStoreFailureAlerts(t *testing.T) {
	store := &fakeStore{err: errors.New("quota exceeded")}
	c := New(&fakeCatalog{}, &fakeSession{userID: "u1"}, store)

	ins := c.Add(context.Background(), off.Product{Code: "1", Name: "Beans"})
	if len(ins) != 1 || ins[0].Op != OpAlert {
		t.Fatalf("expected an alert, got %v", ins)
	}
	if ins[0].Message != "Failed to add item: quota exceeded" {
		t.Fatalf("unexpected alert message %q", ins[0].Message)
	}
}

func TestHandleSessionChange(t *testing.T) {
	c := New(&fakeCatalog{}, &fakeSession{}, &fakeStore{})

	if ins := c.HandleSessionChange(true); len(ins) != 0 {
		t.Fatalf("staying signed in needs no instructions, got %v", ins)
	}
	ins := c.HandleSessionChange(false)
	if len(ins) != 1 || ins[0].Op != OpNavigate || ins[0].Target != EntryPage {
		t.Fatalf("losing the session must navigate to the entry page, got %v", ins)
	}
}

func TestNewCardDefaults(t *testing.T) {
	card := newCard(off.Product{Code: "1"})
	if card.Title != "No name" {
		t.Fatalf("want fallback title, got %q", card.Title)
	}
	if card.Image != PlaceholderImage {
		t.Fatalf("want placeholder image, got %q", card.Image)
	}
	if card.EcoColor != ecoNeutral {
		t.Fatalf("missing grade should be neutral, got %q", card.EcoColor)
	}
	if card.ViewURL != off.ProductURL("1") {
		t.Fatalf("unexpected view URL %q", card.ViewURL)
	}
}

func TestEcoColorLookup(t *testing.T) {
	cases := []struct {
		grade string
		want  string
	}{
		{"A", ecoGreen},
		{"B", ecoGreen},
		{"C", ecoAmber},
		{"D", ecoRed},
		{"E", ecoRed},
		{"", ecoNeutral},
		{"X", ecoNeutral},
	}
	for _, tc := range cases {
		if got := ecoColor(tc.grade); got != tc.want {
			t.Fatalf("grade %q: want %q, got %q", tc.grade, tc.want, got)
		}
	}
}

func TestApplyWithoutSurface(t *testing.T) {
	// Must log and skip, not panic.
	Apply(nil, []Instruction{{Op: OpSetStatus, Status: "hi"}})
}
