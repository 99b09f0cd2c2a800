package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"blogapp/internal/domain"
	"blogapp/internal/repository"
)

var (
	// ErrPasswordMismatch indicates the password and its confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("user name already taken")
	// ErrUserNotFound indicates no account exists for the given username.
	ErrUserNotFound = errors.New("unable to find user")
	// ErrWrongPassword indicates the password did not match the stored hash.
	ErrWrongPassword = errors.New("incorrect password")
)

const bcryptCost = 10

// UserService describes account lifecycle and credential verification.
type UserService interface {
	Register(ctx context.Context, username, password, confirm, email string) (*domain.User, error)
	Verify(ctx context.Context, username, password, userAgent string) (*domain.User, error)
	GetHistory(ctx context.Context, username string) ([]domain.LoginRecord, error)
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Register(ctx context.Context, username, password, confirm, email string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return nil, errors.New("username is required")
	}
	if password == "" {
		return nil, errors.New("password is required")
	}
	if email == "" {
		return nil, errors.New("email is required")
	}
	// compared before any hashing happens
	if password != confirm {
		return nil, ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Email:        email,
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

// Verify checks the supplied credentials and, only after a successful
// password comparison, records a login-history entry. A failed append fails
// the login so the audit trail never lags a reported success.
func (s *userService) Verify(ctx context.Context, username, password, userAgent string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrWrongPassword
	}

	record := domain.LoginRecord{
		UserID:     user.ID,
		OccurredAt: time.Now().UTC(),
		UserAgent:  userAgent,
	}
	if err := s.users.AppendLoginRecord(ctx, user.ID, record); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}

	history, err := s.users.ListLoginRecords(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.LoginHistory = history

	return sanitizeUser(user), nil
}

func (s *userService) GetHistory(ctx context.Context, username string) ([]domain.LoginRecord, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user.LoginHistory, nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		CreatedAt:    user.CreatedAt,
		LoginHistory: user.LoginHistory,
	}
}
