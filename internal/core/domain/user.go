package domain

import (
	"errors"
	"time"
)

// User models a registered account. The password hash never leaves the
// server: it is excluded from JSON rendering entirely.
type User struct {
	ID           string    `json:"id"`
	Fullname     string    `json:"fullname"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TokenPair is the pair of signed tokens that makes up an active session.
// Both are handed to the client as HTTP-only cookies; the server keeps no
// copy, so a token stays valid until its natural expiry.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrEmailTaken = errors.New("email already in use")
var ErrUserNotFound = errors.New("user not found")
var ErrUserGone = errors.New("user no longer exists")
var ErrRefreshTokenMissing = errors.New("refresh token not found")
var ErrRefreshTokenInvalid = errors.New("invalid or expired refresh token")
