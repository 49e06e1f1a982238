package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"bookshelf/internal/db/repo"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)
)

const minPasswordLength = 8

type AddUserInput struct {
	Username string
	Email    string
	Password string
}

type AddBookInput struct {
	BookID      *string
	Title       string
	Authors     []string
	Description *string
	Image       *string
	Link        *string
}

// AuthResult pairs a freshly signed token with the user it belongs to.
type AuthResult struct {
	Token string
	User  repo.User
}

func parseUUID(input string, fieldName string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(input))
	if err != nil {
		return uuid.Nil, NewBadInput(fmt.Sprintf("%s must be a valid UUID", fieldName))
	}
	return id, nil
}

func toPgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: [16]byte(id), Valid: true}
}

func fromPgUUID(v pgtype.UUID) uuid.UUID {
	if !v.Valid {
		return uuid.Nil
	}
	return uuid.UUID(v.Bytes)
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func validateNewUser(in AddUserInput) error {
	if !usernamePattern.MatchString(in.Username) {
		return NewBadInput("username must be 3-30 characters of letters, digits or underscores")
	}
	if !emailPattern.MatchString(in.Email) {
		return NewBadInput("email must be a valid address")
	}
	if len(in.Password) < minPasswordLength {
		return NewBadInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	return nil
}
