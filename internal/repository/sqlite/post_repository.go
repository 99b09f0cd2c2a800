package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"blogapp/internal/domain"
	"blogapp/internal/repository"
)

const createPostsTable = `
CREATE TABLE IF NOT EXISTS posts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	body TEXT,
	category_id INTEGER,
	post_date DATETIME NOT NULL,
	feature_image TEXT,
	published INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);
`

const postColumns = `
p.id, p.title, p.body, p.category_id, c.label, p.post_date, p.feature_image, p.published, p.created_at`

// Posts are read through a LEFT JOIN so entries referencing a deleted
// category still come back, with an empty category label.
const selectPosts = `
SELECT` + postColumns + `
FROM posts p
LEFT JOIN categories c ON c.id = p.category_id`

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) repository.PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createPostsTable); err != nil {
		return fmt.Errorf("create posts table: %w", err)
	}
	return nil
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (int64, error) {
	now := time.Now().UTC()
	post.CreatedAt = now
	if post.PostDate.IsZero() {
		post.PostDate = now
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO posts (title, body, category_id, post_date, feature_image, published, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		post.Title,
		nullString(post.Body),
		nullInt64(post.CategoryID),
		post.PostDate,
		nullString(post.FeatureImage),
		post.Published,
		post.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert post: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("post last insert id: %w", err)
	}
	post.ID = id
	return id, nil
}

func (r *PostRepository) Get(ctx context.Context, id int64) (*domain.Post, error) {
	row := r.db.QueryRowContext(ctx, selectPosts+`
WHERE p.id = ?`,
		id,
	)
	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post %d: %w", id, repository.ErrNotFound)
		}
		return nil, err
	}
	return post, nil
}

func (r *PostRepository) List(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error) {
	query := selectPosts
	var args []any

	switch filter.Kind {
	case domain.FilterPublished:
		query += `
WHERE p.published = 1`
	case domain.FilterPublishedByCategory:
		query += `
WHERE p.published = 1 AND p.category_id = ?`
		args = append(args, filter.CategoryID)
	case domain.FilterByCategory:
		query += `
WHERE p.category_id = ?`
		args = append(args, filter.CategoryID)
	case domain.FilterMinDate:
		query += `
WHERE p.post_date >= ?`
		args = append(args, filter.MinDate)
	case domain.FilterAll, "":
		// no predicate
	default:
		return nil, fmt.Errorf("unknown post filter %q", filter.Kind)
	}

	query += `
ORDER BY p.post_date DESC, p.id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("post %d: %w", id, repository.ErrNotFound)
	}
	return nil
}

func scanPost(row interface {
	Scan(dest ...any) error
}) (*domain.Post, error) {
	var (
		post         domain.Post
		body         sql.NullString
		categoryID   sql.NullInt64
		categoryName sql.NullString
		featureImage sql.NullString
	)
	if err := row.Scan(
		&post.ID,
		&post.Title,
		&body,
		&categoryID,
		&categoryName,
		&post.PostDate,
		&featureImage,
		&post.Published,
		&post.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}

	post.Body = body.String
	post.FeatureImage = featureImage.String
	post.CategoryName = categoryName.String
	if categoryID.Valid {
		id := categoryID.Int64
		post.CategoryID = &id
	}
	return &post, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
