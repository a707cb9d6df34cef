package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/dkellerny/Fire-Watch-GUI/models"
)

// ErrUsernameTaken is returned when registering an already used username.
var ErrUsernameTaken = errors.New("username already taken")

// DB represents a database connection
type DB struct {
	*sql.DB
}

// ConnectionParams holds PostgreSQL connection parameters
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// New creates a new database connection
func New(params ConnectionParams) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		params.Host, params.Port, params.User, params.Password, params.DBName, params.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Check connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// createTables creates the necessary tables if they don't exist
func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS watchlist_symbols (
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			symbol TEXT NOT NULL,
			added_at TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, symbol)
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMP NOT NULL,
			expires_at TIMESTAMP NOT NULL
		)
	`)
	return err
}

// CreateUser inserts a new account and returns it with its assigned ID.
func (db *DB) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	user := &models.User{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	err := db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, user.Username, user.PasswordHash, user.CreatedAt).Scan(&user.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return user, nil
}

// GetUserByUsername retrieves a user account, nil if it does not exist.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User

	err := db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE username = $1
	`, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No user found
		}
		return nil, err
	}

	return &user, nil
}

// UpdatePassword replaces a user's password hash.
func (db *DB) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	_, err := db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = $1
		WHERE id = $2
	`, passwordHash, userID)

	return err
}

// AddSymbol adds a symbol to a user's watchlist. Re-adding an existing symbol
// is a no-op; the returned flag reports whether a row was inserted.
func (db *DB) AddSymbol(ctx context.Context, userID int64, symbol string) (bool, error) {
	res, err := db.ExecContext(ctx, `
		INSERT INTO watchlist_symbols (user_id, symbol, added_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, symbol) DO NOTHING
	`, userID, symbol, time.Now().UTC())
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RemoveSymbol removes a symbol from a user's watchlist.
func (db *DB) RemoveSymbol(ctx context.Context, userID int64, symbol string) (bool, error) {
	res, err := db.ExecContext(ctx, `
		DELETE FROM watchlist_symbols
		WHERE user_id = $1 AND symbol = $2
	`, userID, symbol)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListSymbols returns a user's watchlist in alphabetical order.
func (db *DB) ListSymbols(ctx context.Context, userID int64) ([]models.WatchlistEntry, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT symbol, added_at
		FROM watchlist_symbols
		WHERE user_id = $1
		ORDER BY symbol
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.WatchlistEntry
	for rows.Next() {
		var entry models.WatchlistEntry
		if err := rows.Scan(&entry.Symbol, &entry.AddedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// CreateSession stores a login session.
func (db *DB) CreateSession(ctx context.Context, session *models.Session) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`, session.Token, session.UserID, session.CreatedAt, session.ExpiresAt)

	return err
}

// GetSession retrieves a session by token, nil if it does not exist.
func (db *DB) GetSession(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session

	err := db.QueryRowContext(ctx, `
		SELECT token, user_id, created_at, expires_at
		FROM sessions
		WHERE token = $1
	`, token).Scan(&session.Token, &session.UserID, &session.CreatedAt, &session.ExpiresAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No session found
		}
		return nil, err
	}

	return &session, nil
}

// DeleteSession removes a session by token.
func (db *DB) DeleteSession(ctx context.Context, token string) error {
	_, err := db.ExecContext(ctx, `
		DELETE FROM sessions
		WHERE token = $1
	`, token)

	return err
}

// DeleteExpiredSessions prunes sessions past their expiry.
func (db *DB) DeleteExpiredSessions(ctx context.Context) error {
	_, err := db.ExecContext(ctx, `
		DELETE FROM sessions
		WHERE expires_at <= NOW()
	`)

	return err
}
