package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roomtalk/roomtalk-server/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	content      TEXT NOT NULL,
	from_user    TEXT NOT NULL,
	to_room      TEXT NOT NULL,
	sent_time    TEXT NOT NULL,
	sent_date    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_to_room ON messages(to_room);

CREATE TABLE IF NOT EXISTS users (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	name         TEXT NOT NULL UNIQUE,
	status       TEXT NOT NULL DEFAULT 'online',
	new_messages TEXT NOT NULL DEFAULT '{}'
);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== MessageStore implementation ====

// InsertMessage appends a message and fills in its assigned ID.
func (s *SQLiteStore) InsertMessage(ctx context.Context, msg *store.Message) error {
	query := `
		INSERT INTO messages (content, from_user, to_room, sent_time, sent_date)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query, msg.Content, msg.From, msg.To, msg.Time, msg.Date)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	msg.ID = id

	return nil
}

// GroupRoomMessagesByDate scans the room's full history in insertion
// order and buckets it by literal date string. Group order is the order
// each date string was first seen.
func (s *SQLiteStore) GroupRoomMessagesByDate(ctx context.Context, room string) ([]store.DateGroup, error) {
	query := `
		SELECT id, content, from_user, to_room, sent_time, sent_date
		FROM messages
		WHERE to_room = ?
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query, room)
	if err != nil {
		return nil, fmt.Errorf("query room messages: %w", err)
	}
	defer rows.Close()

	groups := make([]store.DateGroup, 0)
	index := make(map[string]int)

	for rows.Next() {
		var msg store.Message
		if err := rows.Scan(&msg.ID, &msg.Content, &msg.From, &msg.To, &msg.Time, &msg.Date); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}

		i, ok := index[msg.Date]
		if !ok {
			i = len(groups)
			index[msg.Date] = i
			groups = append(groups, store.DateGroup{Date: msg.Date})
		}
		groups[i].Messages = append(groups[i].Messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate room messages: %w", err)
	}

	return groups, nil
}

// ==== UserStore implementation ====

// CreateUser inserts a new online user.
func (s *SQLiteStore) CreateUser(ctx context.Context, name string) (*store.User, error) {
	query := `
		INSERT INTO users (name, status, new_messages)
		VALUES (?, ?, '{}')
	`
	result, err := s.db.ExecContext(ctx, query, name, store.UserStatusOnline)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return s.GetUserByID(ctx, id)
}

// GetUserByID retrieves a user by ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (*store.User, error) {
	query := `
		SELECT id, name, status, new_messages
		FROM users
		WHERE id = ?
	`
	var (
		user     store.User
		counters string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Status,
		&counters,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	if err := json.Unmarshal([]byte(counters), &user.NewMessages); err != nil {
		return nil, fmt.Errorf("decode unread counters: %w", err)
	}

	return &user, nil
}

// ListUsers returns the full user directory ordered by name.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*store.User, error) {
	query := `
		SELECT id, name, status, new_messages
		FROM users
		ORDER BY name
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]*store.User, 0)
	for rows.Next() {
		var (
			user     store.User
			counters string
		)
		if err := rows.Scan(&user.ID, &user.Name, &user.Status, &counters); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		if err := json.Unmarshal([]byte(counters), &user.NewMessages); err != nil {
			return nil, fmt.Errorf("decode unread counters: %w", err)
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// SetUserOffline marks the user offline and replaces their unread counters.
func (s *SQLiteStore) SetUserOffline(ctx context.Context, id int64, newMessages map[string]int) error {
	if newMessages == nil {
		newMessages = map[string]int{}
	}
	counters, err := json.Marshal(newMessages)
	if err != nil {
		return fmt.Errorf("encode unread counters: %w", err)
	}

	query := `
		UPDATE users
		SET status = ?, new_messages = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query, store.UserStatusOffline, string(counters), id)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrUserNotFound
	}

	return nil
}
