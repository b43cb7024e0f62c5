package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/englearn/internal/database"
)

// DBStore keeps progress in the user_progress table.
type DBStore struct {
	db *sqlx.DB
}

func NewDBStore(db *sqlx.DB) *DBStore {
	return &DBStore{db: db}
}

const upsertProgressQuery = `INSERT INTO user_progress (user_id, data_key, value) VALUES (?, ?, ?)
	ON DUPLICATE KEY UPDATE value = VALUES(value)`

func (s *DBStore) Get(ctx context.Context, userID, key string) ([]byte, error) {
	var value []byte
	err := s.db.GetContext(ctx, &value,
		"SELECT value FROM user_progress WHERE user_id = ? AND data_key = ?",
		userID, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, userID, key)
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(user_progress) > %w", err)
	}
	return value, nil
}

func (s *DBStore) Put(ctx context.Context, userID, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, upsertProgressQuery, userID, key, value); err != nil {
		return fmt.Errorf("db.ExecContext(upsert user_progress) > %w", err)
	}
	return nil
}

// Update locks the row with SELECT ... FOR UPDATE for the duration of fn.
func (s *DBStore) Update(ctx context.Context, userID, key string, fn func(current []byte) ([]byte, error)) error {
	return database.RunInTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		var current []byte
		err := tx.GetContext(ctx, &current,
			"SELECT value FROM user_progress WHERE user_id = ? AND data_key = ? FOR UPDATE",
			userID, key)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("tx.GetContext(user_progress) > %w", err)
		}

		updated, err := fn(current)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, upsertProgressQuery, userID, key, updated); err != nil {
			return fmt.Errorf("tx.ExecContext(upsert user_progress) > %w", err)
		}
		return nil
	})
}

// Users lists every user with stored progress, sorted by id.
func (s *DBStore) Users(ctx context.Context) ([]string, error) {
	var users []string
	if err := s.db.SelectContext(ctx, &users, "SELECT DISTINCT user_id FROM user_progress ORDER BY user_id"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(user_progress) > %w", err)
	}
	return users, nil
}
