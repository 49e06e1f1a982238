package repo

import "github.com/jackc/pgx/v5/pgtype"

// User mirrors the users table. PasswordHash is only populated by
// GetUserByEmail; every other user query projects it out.
type User struct {
	ID           pgtype.UUID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

// Book mirrors the books table. BookID is the external identifier clients
// address books by; ID is the store's own key.
type Book struct {
	ID          pgtype.UUID
	BookID      string
	Title       string
	Authors     []string
	Description *string
	Image       *string
	Link        *string
	Username    string
	CreatedAt   pgtype.Timestamptz
}

type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
}

type CreateBookParams struct {
	BookID      string
	Title       string
	Authors     []string
	Description *string
	Image       *string
	Link        *string
	Username    string
}

type SaveBookParams struct {
	UserID pgtype.UUID
	BookID string
}

type UnsaveBookParams struct {
	UserID pgtype.UUID
	BookID string
}
