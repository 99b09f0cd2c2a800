package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"blogapp/internal/service"
	"blogapp/internal/session"
	"blogapp/internal/storage"
)

// Handler wires HTTP routes to domain services and renders HTML pages.
type Handler struct {
	users    service.UserService
	blog     service.BlogService
	sessions *session.Manager
	storage  storage.Service
	upload   storage.UploadOptions
	logger   *logrus.Logger
}

func NewHandler(users service.UserService, blog service.BlogService, sessions *session.Manager, store storage.Service, upload storage.UploadOptions, logger *logrus.Logger) *Handler {
	return &Handler{
		users:    users,
		blog:     blog,
		sessions: sessions,
		storage:  store,
		upload:   upload,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(h.sessions.Middleware())

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/blog")
	})
	router.GET("/about", h.about)
	router.GET("/blog", h.blogFeed)
	router.GET("/login", h.loginForm)
	router.POST("/login", h.login)
	router.GET("/register", h.registerForm)
	router.POST("/register", h.register)

	authed := router.Group("/", session.RequireSession())
	{
		authed.GET("/blog/:id", h.blogPost)
		authed.GET("/posts", h.listPosts)
		authed.GET("/posts/add", h.addPostForm)
		authed.POST("/posts/add", h.addPost)
		authed.GET("/posts/delete/:id", h.deletePost)
		authed.GET("/post/:id", h.rawPost)
		authed.GET("/categories", h.listCategories)
		authed.GET("/categories/add", h.addCategoryForm)
		authed.POST("/categories/add", h.addCategory)
		authed.GET("/categories/delete/:id", h.deleteCategory)
		authed.GET("/logout", h.logout)
		authed.GET("/userHistory", h.userHistory)
	}

	router.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "404.html", h.view(c, gin.H{}))
	})
}

func (h *Handler) about(c *gin.Context) {
	c.HTML(http.StatusOK, "about.html", h.view(c, gin.H{}))
}

// view builds the base render data every page receives: the current session
// (if any), the active navigation route derived from the request path, and
// the category being viewed. Nothing here is shared between requests.
func (h *Handler) view(c *gin.Context, data gin.H) gin.H {
	claims, _ := session.Current(c)
	data["Session"] = claims
	data["Active"] = activeRoute(c.Request.URL.Path)
	data["ViewingCategory"] = c.Query("category")
	return data
}

// activeRoute reduces a request path to the navigation entry it belongs to:
// paths whose second segment is numeric collapse to the first segment
// ("/blog/12" -> "/blog"), everything else keeps its full path.
func activeRoute(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "/"
	}
	segments := strings.Split(trimmed, "/")
	if len(segments) > 1 {
		if _, err := strconv.Atoi(segments[1]); err == nil {
			return "/" + segments[0]
		}
	}
	return "/" + trimmed
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
