package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogapp/internal/domain"
	"blogapp/internal/repository/sqlite"
	"blogapp/internal/service"
)

func newBlogService(t *testing.T) service.BlogService {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	posts := sqlite.NewPostRepository(db)
	categories := sqlite.NewCategoryRepository(db)
	require.NoError(t, posts.Init(context.Background()))
	require.NoError(t, categories.Init(context.Background()))

	return service.NewBlogService(posts, categories)
}

func TestCreatePost(t *testing.T) {
	ctx := context.Background()
	blog := newBlogService(t)

	before := time.Now().UTC()
	post, err := blog.CreatePost(ctx, service.PostInput{
		Title: "First Post",
		Body:  "hello",
	})
	require.NoError(t, err)

	assert.NotZero(t, post.ID)
	assert.False(t, post.Published, "published defaults to false when absent")
	assert.False(t, post.PostDate.Before(before), "post date is server-assigned")
	assert.Nil(t, post.CategoryID)

	// empty optional fields round-trip as empty, not garbage
	stored, err := blog.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.FeatureImage)
	assert.Empty(t, stored.CategoryName)
}

func TestCreatePostRequiresTitle(t *testing.T) {
	ctx := context.Background()
	blog := newBlogService(t)

	_, err := blog.CreatePost(ctx, service.PostInput{Title: "   "})
	assert.ErrorIs(t, err, service.ErrTitleRequired)
}

func TestGetPostNotFound(t *testing.T) {
	ctx := context.Background()
	blog := newBlogService(t)

	_, err := blog.GetPost(ctx, 42)
	assert.ErrorIs(t, err, service.ErrPostNotFound)
}

func TestListPostsPublishedOnly(t *testing.T) {
	ctx := context.Background()
	blog := newBlogService(t)

	_, err := blog.CreatePost(ctx, service.PostInput{Title: "draft"})
	require.NoError(t, err)
	_, err = blog.CreatePost(ctx, service.PostInput{Title: "live", Published: true})
	require.NoError(t, err)

	posts, err := blog.ListPosts(ctx, domain.PostFilter{Kind: domain.FilterPublished})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	for _, p := range posts {
		assert.True(t, p.Published)
	}

	all, err := blog.ListPosts(ctx, domain.PostFilter{Kind: domain.FilterAll})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListPostsByCategory(t *testing.T) {
	ctx := context.Background()
	blog := newBlogService(t)

	news, err := blog.CreateCategory(ctx, "News")
	require.NoError(t, err)
	other, err := blog.CreateCategory(ctx, "Other")
	require.NoError(t, err)

	_, err = blog.CreatePost(ctx, service.PostInput{Title: "in news", CategoryID: &news.ID, Published: true})
	require.NoError(t, err)
	_, err = blog.CreatePost(ctx, service.PostInput{Title: "news draft", CategoryID: &news.ID})
	require.NoError(t, err)
	_, err = blog.CreatePost(ctx, service.PostInput{Title: "elsewhere", CategoryID: &other.ID, Published: true})
	require.NoError(t, err)

	published, err := blog.ListPosts(ctx, domain.PostFilter{
		Kind:       domain.FilterPublishedByCategory,
		CategoryID: news.ID,
	})
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "in news", published[0].Title)
	assert.Equal(t, "News", published[0].CategoryName)

	inCategory, err := blog.ListPosts(ctx, domain.PostFilter{
		Kind:       domain.FilterByCategory,
		CategoryID: news.ID,
	})
	require.NoError(t, err)
	assert.Len(t, inCategory, 2)
}

func TestListPostsMinDate(t *testing.T) {
	ctx := context.Background()
	blog := newBlogService(t)

	_, err := blog.CreatePost(ctx, service.PostInput{Title: "recent"})
	require.NoError(t, err)

	posts, err := blog.ListPosts(ctx, domain.PostFilter{
		Kind:    domain.FilterMinDate,
		MinDate: time.Now().UTC().Add(-time.Hour),
	})
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	posts, err = blog.ListPosts(ctx, domain.PostFilter{
		Kind:    domain.FilterMinDate,
		MinDate: time.Now().UTC().Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestDeleteCategoryOrphansPosts(t *testing.T) {
	ctx := context.Background()
	blog := newBlogService(t)

	category, err := blog.CreateCategory(ctx, "Doomed")
	require.NoError(t, err)

	post, err := blog.CreatePost(ctx, service.PostInput{
		Title:      "survivor",
		CategoryID: &category.ID,
		Published:  true,
	})
	require.NoError(t, err)

	require.NoError(t, blog.DeleteCategory(ctx, category.ID))

	// the post survives with a stale category reference and no label
	stored, err := blog.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CategoryID)
	assert.Equal(t, category.ID, *stored.CategoryID)
	assert.Empty(t, stored.CategoryName)

	posts, err := blog.ListPosts(ctx, domain.PostFilter{Kind: domain.FilterAll})
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestDeletePost(t *testing.T) {
	ctx := context.Background()
	blog := newBlogService(t)

	post, err := blog.CreatePost(ctx, service.PostInput{Title: "gone soon"})
	require.NoError(t, err)

	require.NoError(t, blog.DeletePost(ctx, post.ID))
	assert.ErrorIs(t, blog.DeletePost(ctx, post.ID), service.ErrPostNotFound)
	_, err = blog.GetPost(ctx, post.ID)
	assert.ErrorIs(t, err, service.ErrPostNotFound)
}

func TestCreateCategoryValidation(t *testing.T) {
	ctx := context.Background()
	blog := newBlogService(t)

	_, err := blog.CreateCategory(ctx, "  ")
	assert.ErrorIs(t, err, service.ErrLabelRequired)

	assert.ErrorIs(t, blog.DeleteCategory(ctx, 99), service.ErrCategoryNotFound)
}
