package graph

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"bookshelf/graph/model"
	"bookshelf/internal/db/repo"
	"bookshelf/internal/service"
)

func uuidString(v pgtype.UUID) string {
	if !v.Valid {
		return ""
	}
	return uuid.UUID(v.Bytes).String()
}

func timeValue(v pgtype.Timestamptz) (out time.Time) {
	if !v.Valid {
		return out
	}
	return v.Time.UTC()
}

func stringPtr(v *string) *string {
	if v == nil {
		return nil
	}
	s := *v
	return &s
}

// toModelUser never copies the password hash; model.User has no field for
// it and the hash stops here.
func toModelUser(u repo.User) *model.User {
	return &model.User{
		ID:        uuidString(u.ID),
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: timeValue(u.CreatedAt),
		UpdatedAt: timeValue(u.UpdatedAt),
	}
}

func toModelBook(b repo.Book) *model.Book {
	authors := make([]string, len(b.Authors))
	copy(authors, b.Authors)

	return &model.Book{
		ID:          uuidString(b.ID),
		BookID:      b.BookID,
		Title:       b.Title,
		Authors:     authors,
		Description: stringPtr(b.Description),
		Image:       stringPtr(b.Image),
		Link:        stringPtr(b.Link),
		Username:    b.Username,
		CreatedAt:   timeValue(b.CreatedAt),
	}
}

func toModelBooks(books []repo.Book) []*model.Book {
	out := make([]*model.Book, 0, len(books))
	for _, b := range books {
		out = append(out, toModelBook(b))
	}
	return out
}

func toAuthPayload(res service.AuthResult) *model.AuthPayload {
	return &model.AuthPayload{
		Token: res.Token,
		User:  toModelUser(res.User),
	}
}
