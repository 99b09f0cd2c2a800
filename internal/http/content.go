package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"blogapp/internal/domain"
	"blogapp/internal/service"
)

func (h *Handler) blogFeed(c *gin.Context) {
	data := h.feedData(c, 0)

	if posts, ok := data["Posts"].([]domain.Post); ok && len(posts) > 0 {
		data["Post"] = posts[0]
	} else {
		data["Message"] = "Please try another post / category"
	}

	c.HTML(http.StatusOK, "blog.html", data)
}

func (h *Handler) blogPost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.HTML(http.StatusNotFound, "404.html", h.view(c, gin.H{}))
		return
	}

	data := h.feedData(c, id)
	c.HTML(http.StatusOK, "blog.html", data)
}

// feedData assembles the published-posts feed shared by the blog pages.
// Each section degrades to a message on failure instead of failing the
// whole page.
func (h *Handler) feedData(c *gin.Context, postID int64) gin.H {
	ctx := c.Request.Context()
	data := h.view(c, gin.H{})

	filter := domain.PostFilter{Kind: domain.FilterPublished}
	if raw := c.Query("category"); raw != "" {
		categoryID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			data["Message"] = "no results"
			filter = domain.PostFilter{}
		} else {
			filter = domain.PostFilter{Kind: domain.FilterPublishedByCategory, CategoryID: categoryID}
		}
	}

	if filter.Kind != "" {
		posts, err := h.blog.ListPosts(ctx, filter)
		if err != nil {
			h.logger.Errorf("list published posts: %v", err)
			data["Message"] = "no results"
		} else {
			data["Posts"] = posts
		}
	}

	if postID > 0 {
		post, err := h.blog.GetPost(ctx, postID)
		if err != nil {
			data["Message"] = "no results"
		} else {
			data["Post"] = *post
		}
	}

	categories, err := h.blog.ListCategories(ctx)
	if err != nil {
		h.logger.Errorf("list categories: %v", err)
		data["CategoriesMessage"] = "no results"
	} else {
		data["Categories"] = categories
	}

	return data
}

func (h *Handler) listPosts(c *gin.Context) {
	filter := domain.PostFilter{Kind: domain.FilterAll}

	if raw := c.Query("category"); raw != "" {
		categoryID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.HTML(http.StatusOK, "posts.html", h.view(c, gin.H{"Message": "No Results"}))
			return
		}
		filter = domain.PostFilter{Kind: domain.FilterPublishedByCategory, CategoryID: categoryID}
	} else if raw := c.Query("minDate"); raw != "" {
		minDate, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.HTML(http.StatusOK, "posts.html", h.view(c, gin.H{"Message": "No Results"}))
			return
		}
		filter = domain.PostFilter{Kind: domain.FilterMinDate, MinDate: minDate}
	}

	posts, err := h.blog.ListPosts(c.Request.Context(), filter)
	if err != nil {
		h.logger.Errorf("list posts: %v", err)
		c.HTML(http.StatusOK, "posts.html", h.view(c, gin.H{"Message": "no results"}))
		return
	}
	if len(posts) == 0 {
		c.HTML(http.StatusOK, "posts.html", h.view(c, gin.H{"Message": "No Results"}))
		return
	}

	c.HTML(http.StatusOK, "posts.html", h.view(c, gin.H{"Posts": posts}))
}

func (h *Handler) addPostForm(c *gin.Context) {
	categories, err := h.blog.ListCategories(c.Request.Context())
	if err != nil {
		h.logger.Errorf("list categories: %v", err)
		categories = nil
	}
	c.HTML(http.StatusOK, "addPost.html", h.view(c, gin.H{"Categories": categories}))
}

func (h *Handler) addPost(c *gin.Context) {
	featureImage, err := h.uploadFeatureImage(c)
	if err != nil {
		h.logger.Errorf("upload feature image: %v", err)
		h.renderError(c, "Unable to upload the feature image")
		return
	}

	var categoryID *int64
	if raw := c.PostForm("category"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			categoryID = &id
		}
	}

	input := service.PostInput{
		Title:        c.PostForm("title"),
		Body:         c.PostForm("body"),
		CategoryID:   categoryID,
		FeatureImage: featureImage,
		Published:    c.PostForm("published") != "",
	}

	if _, err := h.blog.CreatePost(c.Request.Context(), input); err != nil {
		if errors.Is(err, service.ErrTitleRequired) {
			categories, _ := h.blog.ListCategories(c.Request.Context())
			c.HTML(http.StatusOK, "addPost.html", h.view(c, gin.H{
				"Categories":   categories,
				"ErrorMessage": "A title is required",
			}))
			return
		}
		h.logger.Errorf("create post: %v", err)
		h.renderError(c, "Unable to create post")
		return
	}

	c.Redirect(http.StatusSeeOther, "/posts")
}

// uploadFeatureImage pushes an attached image to object storage and returns
// its URL. A missing file field or an unconfigured storage service yields an
// empty URL, not an error.
func (h *Handler) uploadFeatureImage(c *gin.Context) (string, error) {
	fileHeader, err := c.FormFile("featureImage")
	if err != nil || fileHeader == nil || fileHeader.Size == 0 {
		return "", nil
	}
	if h.storage == nil {
		h.logger.Warn("image storage not configured, dropping feature image")
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	return h.storage.UploadImage(c.Request.Context(), file, fileHeader.Filename, h.upload)
}

func (h *Handler) deletePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/posts")
		return
	}

	if err := h.blog.DeletePost(c.Request.Context(), id); err != nil && !errors.Is(err, service.ErrPostNotFound) {
		h.logger.Errorf("delete post %d: %v", id, err)
		h.renderError(c, "Unable to remove post")
		return
	}

	c.Redirect(http.StatusSeeOther, "/posts")
}

func (h *Handler) rawPost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	post, err := h.blog.GetPost(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, postToResponse(*post))
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.blog.ListCategories(c.Request.Context())
	if err != nil {
		h.logger.Errorf("list categories: %v", err)
		c.HTML(http.StatusOK, "categories.html", h.view(c, gin.H{"Message": "no results"}))
		return
	}
	if len(categories) == 0 {
		c.HTML(http.StatusOK, "categories.html", h.view(c, gin.H{"Message": "No Results"}))
		return
	}

	c.HTML(http.StatusOK, "categories.html", h.view(c, gin.H{"Categories": categories}))
}

func (h *Handler) addCategoryForm(c *gin.Context) {
	c.HTML(http.StatusOK, "addCategory.html", h.view(c, gin.H{}))
}

func (h *Handler) addCategory(c *gin.Context) {
	if _, err := h.blog.CreateCategory(c.Request.Context(), c.PostForm("category")); err != nil {
		if errors.Is(err, service.ErrLabelRequired) {
			c.HTML(http.StatusOK, "addCategory.html", h.view(c, gin.H{
				"ErrorMessage": "A category name is required",
			}))
			return
		}
		h.logger.Errorf("create category: %v", err)
		h.renderError(c, "Unable to create category")
		return
	}

	c.Redirect(http.StatusSeeOther, "/categories")
}

func (h *Handler) deleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/categories")
		return
	}

	if err := h.blog.DeleteCategory(c.Request.Context(), id); err != nil && !errors.Is(err, service.ErrCategoryNotFound) {
		h.logger.Errorf("delete category %d: %v", id, err)
		h.renderError(c, "Unable to remove category")
		return
	}

	c.Redirect(http.StatusSeeOther, "/categories")
}

func (h *Handler) renderError(c *gin.Context, message string) {
	c.HTML(http.StatusInternalServerError, "error.html", h.view(c, gin.H{
		"Message": message,
	}))
}

type PostResponse struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Body         string `json:"body"`
	CategoryID   *int64 `json:"category_id,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
	PostDate     string `json:"post_date"`
	FeatureImage string `json:"feature_image,omitempty"`
	Published    bool   `json:"published"`
}

func postToResponse(post domain.Post) PostResponse {
	return PostResponse{
		ID:           post.ID,
		Title:        post.Title,
		Body:         post.Body,
		CategoryID:   post.CategoryID,
		CategoryName: post.CategoryName,
		PostDate:     post.PostDate.Format(time.RFC3339),
		FeatureImage: post.FeatureImage,
		Published:    post.Published,
	}
}
