package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"blogapp/internal/service"
	"blogapp/internal/session"
)

func (h *Handler) loginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", h.view(c, gin.H{"Username": ""}))
}

func (h *Handler) login(c *gin.Context) {
	username := c.PostForm("userName")
	password := c.PostForm("password")

	user, err := h.users.Verify(c.Request.Context(), username, password, c.Request.UserAgent())
	if err != nil {
		c.HTML(http.StatusOK, "login.html", h.view(c, gin.H{
			"ErrorMessage": loginErrorMessage(err, username),
			"Username":     username,
		}))
		return
	}

	if err := h.sessions.Issue(c, user.Username, user.Email); err != nil {
		h.logger.Errorf("issue session for %s: %v", user.Username, err)
		c.HTML(http.StatusInternalServerError, "login.html", h.view(c, gin.H{
			"ErrorMessage": "There was an error signing you in",
			"Username":     username,
		}))
		return
	}

	c.Redirect(http.StatusSeeOther, "/posts")
}

func (h *Handler) registerForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", h.view(c, gin.H{"Username": ""}))
}

func (h *Handler) register(c *gin.Context) {
	username := c.PostForm("userName")
	password := c.PostForm("password")
	confirm := c.PostForm("password2")
	email := c.PostForm("email")

	if _, err := h.users.Register(c.Request.Context(), username, password, confirm, email); err != nil {
		c.HTML(http.StatusOK, "register.html", h.view(c, gin.H{
			"ErrorMessage": registerErrorMessage(err),
			"Username":     username,
		}))
		return
	}

	c.HTML(http.StatusOK, "register.html", h.view(c, gin.H{
		"SuccessMessage": "User created",
		"Username":       "",
	}))
}

func (h *Handler) logout(c *gin.Context) {
	h.sessions.Clear(c)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) userHistory(c *gin.Context) {
	claims, _ := session.Current(c)

	history, err := h.users.GetHistory(c.Request.Context(), claims.Username)
	if err != nil {
		h.logger.Errorf("load login history for %s: %v", claims.Username, err)
		c.HTML(http.StatusOK, "userHistory.html", h.view(c, gin.H{
			"Message": "no results",
		}))
		return
	}

	c.HTML(http.StatusOK, "userHistory.html", h.view(c, gin.H{
		"History": history,
	}))
}

func loginErrorMessage(err error, username string) string {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return fmt.Sprintf("Unable to find user: %s", username)
	case errors.Is(err, service.ErrWrongPassword):
		return fmt.Sprintf("Incorrect Password for user: %s", username)
	default:
		return fmt.Sprintf("There was an error verifying the user: %v", err)
	}
}

func registerErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrPasswordMismatch):
		return "Passwords do not match"
	case errors.Is(err, service.ErrUsernameTaken):
		return "User Name already taken"
	default:
		return fmt.Sprintf("There was an error creating the user: %v", err)
	}
}
