package domain

import "time"

// User is an authenticated incident reporter. Created at registration and
// immutable afterwards; incidents reference users by id.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
