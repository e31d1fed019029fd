package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	homedir "github.com/mitchellh/go-homedir"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
	ErrEmailTaken         = errors.New("auth: email already registered")
)

// User is the authenticated-user context handed to callers and
// session-change subscribers.
type User struct {
	ID          string
	Email       string
	DisplayName string
}

// Manager owns accounts and the current session: sign-up, sign-in,
// sign-out, current-session access and session-change notification.
// Accounts live in SQLite; the active session token is kept in a file
// under the user's home directory so it survives between CLI runs.
type Manager struct {
	sql         *sql.DB
	sessionFile string

	mu   sync.Mutex
	subs []func(*User)
}

// Open opens (and bootstraps) the account database at path. An empty
// sessionFile defaults to ~/.ecobasket-session.
func Open(path, sessionFile string) (*Manager, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS users (
  id            TEXT PRIMARY KEY,
  email         TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  display_name  TEXT,
  created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS sessions (
  token      TEXT PRIMARY KEY,
  user_id    TEXT NOT NULL,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
	`); err != nil {
		return nil, err
	}

	if sessionFile == "" {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}
		sessionFile = filepath.Join(home, ".ecobasket-session")
	}
	return &Manager{sql: db, sessionFile: sessionFile}, nil
}

func (m *Manager) Close() error {
	if m == nil || m.sql == nil {
		return nil
	}
	return m.sql.Close()
}

// SignUp registers a new account. First and last name are merged into
// a display name, either may be empty.
func (m *Manager) SignUp(ctx context.Context, email, password, firstName, lastName string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, errors.New("auth: email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	displayName := strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName))
	id := newID()

	_, err = m.sql.ExecContext(ctx,
		"INSERT INTO users(id, email, password_hash, display_name) VALUES(?,?,?,?)",
		id, email, string(hash), displayName)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &User{ID: id, Email: email, DisplayName: displayName}, nil
}

// SignIn verifies the credentials, starts a session and notifies
// subscribers.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var (
		id, hash    string
		displayName sql.NullString
	)
	err := m.sql.QueryRowContext(ctx,
		"SELECT id, password_hash, display_name FROM users WHERE email = ?", email).
		Scan(&id, &hash, &displayName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token := newID()
	if _, err := m.sql.ExecContext(ctx, "INSERT INTO sessions(token, user_id) VALUES(?,?)", token, id); err != nil {
		return nil, err
	}
	if err := os.WriteFile(m.sessionFile, []byte(token), 0600); err != nil {
		return nil, err
	}

	u := &User{ID: id, Email: email, DisplayName: displayName.String}
	m.notify(u)
	return u, nil
}

// SignOut ends the current session, if any, and notifies subscribers.
func (m *Manager) SignOut(ctx context.Context) error {
	token, err := m.readToken()
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}
	if _, err := m.sql.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token); err != nil {
		return err
	}
	if err := os.Remove(m.sessionFile); err != nil && !os.IsNotExist(err) {
		return err
	}
	m.notify(nil)
	return nil
}

// Current returns the signed-in user, or nil when there is no live
// session.
func (m *Manager) Current(ctx context.Context) (*User, error) {
	token, err := m.readToken()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}

	var u User
	var displayName sql.NullString
	err = m.sql.QueryRowContext(ctx,
		"SELECT u.id, u.email, u.display_name FROM sessions s JOIN users u ON u.id = s.user_id WHERE s.token = ?", token).
		Scan(&u.ID, &u.Email, &displayName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.DisplayName = displayName.String
	return &u, nil
}

// OnChange registers fn to run whenever the session changes. The
// callback receives the new user, or nil when signed out.
func (m *Manager) OnChange(fn func(*User)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

func (m *Manager) notify(u *User) {
	m.mu.Lock()
	subs := make([]func(*User), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()
	for _, fn := range subs {
		fn(u)
	}
}

func (m *Manager) readToken() (string, error) {
	b, err := os.ReadFile(m.sessionFile)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func newID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
