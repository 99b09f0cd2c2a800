package domain

import "time"

// User represents a registered account of the blog platform.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Email        string
	CreatedAt    time.Time
	LoginHistory []LoginRecord
}

// LoginRecord is a single entry in a user's login audit trail.
type LoginRecord struct {
	ID         int64
	UserID     int64
	OccurredAt time.Time
	UserAgent  string
}
