package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"blogapp/internal/domain"
	"blogapp/internal/repository"
)

var (
	// ErrPostNotFound indicates the requested post does not exist.
	ErrPostNotFound = errors.New("post not found")
	// ErrCategoryNotFound indicates the requested category does not exist.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrTitleRequired rejects posts submitted without a title.
	ErrTitleRequired = errors.New("post title is required")
	// ErrLabelRequired rejects categories submitted without a label.
	ErrLabelRequired = errors.New("category label is required")
)

// PostInput carries the raw form values for a new post. Empty strings are
// treated as absent and stored as NULL.
type PostInput struct {
	Title        string
	Body         string
	CategoryID   *int64
	FeatureImage string
	Published    bool
}

// BlogService coordinates post and category operations.
type BlogService interface {
	ListPosts(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error)
	GetPost(ctx context.Context, id int64) (*domain.Post, error)
	CreatePost(ctx context.Context, input PostInput) (*domain.Post, error)
	DeletePost(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, label string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type blogService struct {
	posts      repository.PostRepository
	categories repository.CategoryRepository
}

func NewBlogService(posts repository.PostRepository, categories repository.CategoryRepository) BlogService {
	return &blogService{
		posts:      posts,
		categories: categories,
	}
}

func (s *blogService) ListPosts(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error) {
	return s.posts.List(ctx, filter)
}

func (s *blogService) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// CreatePost normalizes the input and assigns the publish date server-side;
// whatever date the caller supplied is ignored.
func (s *blogService) CreatePost(ctx context.Context, input PostInput) (*domain.Post, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	post := &domain.Post{
		Title:        title,
		Body:         strings.TrimSpace(input.Body),
		CategoryID:   input.CategoryID,
		FeatureImage: strings.TrimSpace(input.FeatureImage),
		Published:    input.Published,
		PostDate:     time.Now().UTC(),
	}

	if _, err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *blogService) DeletePost(ctx context.Context, id int64) error {
	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	return nil
}

func (s *blogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *blogService) CreateCategory(ctx context.Context, label string) (*domain.Category, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, ErrLabelRequired
	}

	category := &domain.Category{Label: label}
	if _, err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes only the category record; posts referencing it are
// left with an orphaned category id.
func (s *blogService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}
