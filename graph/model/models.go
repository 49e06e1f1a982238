package model

import "time"

// User is the client-facing user shape. It deliberately has no password
// field: whatever the store returns, nothing password-shaped can cross
// this boundary.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Book struct {
	ID          string    `json:"id"`
	BookID      string    `json:"bookId"`
	Title       string    `json:"title"`
	Authors     []string  `json:"authors"`
	Description *string   `json:"description"`
	Image       *string   `json:"image"`
	Link        *string   `json:"link"`
	Username    string    `json:"username"`
	CreatedAt   time.Time `json:"createdAt"`
}

type AuthPayload struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type AddUserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AddBookInput struct {
	BookID      *string  `json:"bookId"`
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
	Link        *string  `json:"link"`
}
