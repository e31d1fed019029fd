package listing

import "time"

// Item is one saved product on a user's shopping list. The ID is
// assigned by the store on Add.
type Item struct {
	ID          string
	Code        string
	ProductName string
	Brands      string
	Image       string
	Ecoscore    string
	Nutriments  map[string]interface{}
	Notes       string
	Quantity    int
	AddedAt     time.Time
}

// Update is a partial change to an existing item. Nil fields keep the
// stored value (merge-preserving).
type Update struct {
	Notes    *string
	Quantity *int
}

// ValidationError reports a malformed call, such as a missing item id
// or an item without a product code. These are programmer errors and
// propagate to the caller.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "listing: missing required " + e.Field
}
