package listing

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when an update or delete names an item the
// user does not have.
var ErrNotFound = errors.New("listing: item not found")

// Store persists per-user shopping list items.
type Store interface {
	Add(ctx context.Context, userID string, item Item) (string, error)
	Update(ctx context.Context, userID, itemID string, upd Update) error
	Delete(ctx context.Context, userID, itemID string) error
	List(ctx context.Context, userID string) ([]Item, error)
}

// DB is the SQLite-backed Store.
type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS list_items (
  id           INTEGER PRIMARY KEY,
  user_id      TEXT NOT NULL,
  code         TEXT NOT NULL,
  product_name TEXT,
  brands       TEXT,
  image        TEXT,
  ecoscore     TEXT,
  nutriments   TEXT,
  notes        TEXT,
  quantity     INTEGER NOT NULL DEFAULT 1,
  added_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_list_user ON list_items(user_id);
	`); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// Add persists a new item and returns the assigned id. Items without a
// product code are rejected before they reach the database: a saved
// product must stay identifiable.
func (d *DB) Add(ctx context.Context, userID string, item Item) (string, error) {
	if userID == "" {
		return "", &ValidationError{Field: "user id"}
	}
	if item.Code == "" {
		return "", &ValidationError{Field: "product code"}
	}

	nutriments := "{}"
	if len(item.Nutriments) > 0 {
		b, err := json.Marshal(item.Nutriments)
		if err != nil {
			return "", err
		}
		nutriments = string(b)
	}
	addedAt := item.AddedAt
	if addedAt.IsZero() {
		addedAt = time.Now().UTC()
	}
	quantity := item.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	res, err := d.sql.ExecContext(ctx,
		`INSERT INTO list_items(user_id, code, product_name, brands, image, ecoscore, nutriments, notes, quantity, added_at) VALUES(?,?,?,?,?,?,?,?,?,?)`,
		userID, item.Code, item.ProductName, item.Brands, item.Image, item.Ecoscore, nutriments, item.Notes, quantity, addedAt.Format("2006-01-02 15:04:05"))
	if err != nil {
		return "", err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(id, 10), nil
}

// Update applies a merge-preserving partial update: only the fields
// set on upd change, everything else keeps its stored value.
func (d *DB) Update(ctx context.Context, userID, itemID string, upd Update) error {
	if userID == "" {
		return &ValidationError{Field: "user id"}
	}
	if itemID == "" {
		return &ValidationError{Field: "item id"}
	}

	var set []string
	var args []interface{}
	if upd.Notes != nil {
		set = append(set, "notes = ?")
		args = append(args, *upd.Notes)
	}
	if upd.Quantity != nil {
		set = append(set, "quantity = ?")
		args = append(args, *upd.Quantity)
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, itemID, userID)

	res, err := d.sql.ExecContext(ctx, "UPDATE list_items SET "+strings.Join(set, ", ")+" WHERE id = ? AND user_id = ?", args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DB) Delete(ctx context.Context, userID, itemID string) error {
	if userID == "" {
		return &ValidationError{Field: "user id"}
	}
	if itemID == "" {
		return &ValidationError{Field: "item id"}
	}

	res, err := d.sql.ExecContext(ctx, "DELETE FROM list_items WHERE id = ? AND user_id = ?", itemID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all of the user's items, newest first.
func (d *DB) List(ctx context.Context, userID string) ([]Item, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, code, product_name, brands, image, ecoscore, nutriments, notes, quantity, added_at FROM list_items WHERE user_id = ? ORDER BY added_at DESC, id DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var (
			it         Item
			id         int64
			nutriments string
			addedAtStr string
		)
		if err := rows.Scan(&id, &it.Code, &it.ProductName, &it.Brands, &it.Image, &it.Ecoscore, &nutriments, &it.Notes, &it.Quantity, &addedAtStr); err != nil {
			return nil, err
		}
		it.ID = strconv.FormatInt(id, 10)
		if nutriments != "" && nutriments != "{}" {
			if err := json.Unmarshal([]byte(nutriments), &it.Nutriments); err != nil {
				return nil, err
			}
		}
		it.AddedAt = parseStoredTime(addedAtStr)
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// parseStoredTime handles both SQLite's CURRENT_TIMESTAMP format and
// RFC3339 values written by older builds.
func parseStoredTime(s string) time.Time {
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
