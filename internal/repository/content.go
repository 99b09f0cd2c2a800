package repository

import (
	"context"

	"blogapp/internal/domain"
)

// PostRepository exposes persistence operations for Post records.
type PostRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, post *domain.Post) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Post, error)
	List(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error)
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository manages category labels. Deleting a category never
// touches the posts that reference it.
type CategoryRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, category *domain.Category) (int64, error)
	List(ctx context.Context) ([]domain.Category, error)
	Delete(ctx context.Context, id int64) error
}
