package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"blogapp/internal/domain"
	"blogapp/internal/repository"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	email TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
`

const createLoginHistoryTable = `
CREATE TABLE IF NOT EXISTS login_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id),
	occurred_at DATETIME NOT NULL,
	user_agent TEXT NOT NULL
);
`

const createLoginHistoryIndex = `
CREATE INDEX IF NOT EXISTS idx_login_history_user ON login_history(user_id, occurred_at);
`

// loginHistoryCap bounds the audit trail kept per user; older entries are
// dropped on append.
const loginHistoryCap = 50

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createLoginHistoryTable); err != nil {
		return fmt.Errorf("create login history table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createLoginHistoryIndex); err != nil {
		return fmt.Errorf("create login history index: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO users (username, password_hash, email, created_at)
VALUES (?, ?, ?, ?)`,
		user.Username,
		user.PasswordHash,
		user.Email,
		user.CreatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return 0, fmt.Errorf("insert user %q: %w", user.Username, repository.ErrDuplicate)
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user last insert id: %w", err)
	}
	user.ID = id
	return id, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, username, password_hash, email, created_at
FROM users
WHERE username = ?`,
		username,
	)

	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Email,
		&user.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	history, err := r.ListLoginRecords(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.LoginHistory = history
	return &user, nil
}

func (r *UserRepository) AppendLoginRecord(ctx context.Context, userID int64, record domain.LoginRecord) error {
	if _, err := r.db.ExecContext(ctx, `
INSERT INTO login_history (user_id, occurred_at, user_agent)
VALUES (?, ?, ?)`,
		userID,
		record.OccurredAt,
		record.UserAgent,
	); err != nil {
		return fmt.Errorf("insert login record: %w", err)
	}

	// keep only the most recent entries per user
	if _, err := r.db.ExecContext(ctx, `
DELETE FROM login_history
WHERE user_id = ?
  AND id NOT IN (
	SELECT id FROM login_history
	WHERE user_id = ?
	ORDER BY occurred_at DESC, id DESC
	LIMIT ?
  )`,
		userID, userID, loginHistoryCap,
	); err != nil {
		return fmt.Errorf("trim login history: %w", err)
	}
	return nil
}

func (r *UserRepository) ListLoginRecords(ctx context.Context, userID int64) ([]domain.LoginRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, occurred_at, user_agent
FROM login_history
WHERE user_id = ?
ORDER BY occurred_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query login history: %w", err)
	}
	defer rows.Close()

	var records []domain.LoginRecord
	for rows.Next() {
		var rec domain.LoginRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.OccurredAt, &rec.UserAgent); err != nil {
			return nil, fmt.Errorf("scan login record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate login history: %w", err)
	}
	return records, nil
}
