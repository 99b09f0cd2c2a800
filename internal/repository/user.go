package repository

import (
	"context"

	"blogapp/internal/domain"
)

// UserRepository defines persistence operations for User entities and
// their login audit trail.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	AppendLoginRecord(ctx context.Context, userID int64, record domain.LoginRecord) error
	ListLoginRecords(ctx context.Context, userID int64) ([]domain.LoginRecord, error)
}
