package domain

import "time"

type PostFilterKind string

const (
	FilterAll                 PostFilterKind = "all"
	FilterPublished           PostFilterKind = "published"
	FilterPublishedByCategory PostFilterKind = "published_by_category"
	FilterByCategory          PostFilterKind = "by_category"
	FilterMinDate             PostFilterKind = "min_date"
)

// PostFilter selects exactly one listing predicate per query.
type PostFilter struct {
	Kind       PostFilterKind
	CategoryID int64
	MinDate    time.Time
}

// Post is a single blog entry. CategoryID may outlive the category it
// references; CategoryName is filled on read and empty for orphans.
type Post struct {
	ID           int64
	Title        string
	Body         string
	CategoryID   *int64
	CategoryName string
	PostDate     time.Time
	FeatureImage string
	Published    bool
	CreatedAt    time.Time
}

// Category labels a group of posts.
type Category struct {
	ID        int64
	Label     string
	CreatedAt time.Time
}
