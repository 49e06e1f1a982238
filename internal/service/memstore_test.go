package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"bookshelf/internal/db/repo"
)

// memStore is an in-memory repo.Store used to exercise service semantics
// without a database. WithTx snapshots state and restores it on error, so
// rollback behavior can be asserted; writes counts every mutating call.
type memStore struct {
	users   map[string]repo.User           // keyed by username
	books   map[string]repo.Book           // keyed by external book id
	saved   map[string]map[string]struct{} // user id -> saved book ids
	writes  int
	linkErr error // forced failure for SaveBookForUser
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[string]repo.User),
		books: make(map[string]repo.Book),
		saved: make(map[string]map[string]struct{}),
	}
}

func pgNow() pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true}
}

// stripped mimics the projection of the SQL user queries: everything but
// GetUserByEmail leaves the password hash behind.
func stripped(u repo.User) repo.User {
	u.PasswordHash = ""
	return u
}

func (m *memStore) CreateUser(_ context.Context, arg repo.CreateUserParams) (repo.User, error) {
	for _, u := range m.users {
		if u.Username == arg.Username || u.Email == arg.Email {
			return repo.User{}, &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
		}
	}
	m.writes++
	u := repo.User{
		ID:           toPgUUID(uuid.New()),
		Username:     arg.Username,
		Email:        arg.Email,
		PasswordHash: arg.PasswordHash,
		CreatedAt:    pgNow(),
		UpdatedAt:    pgNow(),
	}
	m.users[u.Username] = u
	return stripped(u), nil
}

func (m *memStore) GetUserByID(_ context.Context, id pgtype.UUID) (repo.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return stripped(u), nil
		}
	}
	return repo.User{}, pgx.ErrNoRows
}

func (m *memStore) GetUserByUsername(_ context.Context, username string) (repo.User, error) {
	if u, ok := m.users[username]; ok {
		return stripped(u), nil
	}
	return repo.User{}, pgx.ErrNoRows
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (repo.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return repo.User{}, pgx.ErrNoRows
}

func (m *memStore) ListUsers(_ context.Context) ([]repo.User, error) {
	var out []repo.User
	for _, u := range m.users {
		out = append(out, stripped(u))
	}
	return out, nil
}

func (m *memStore) CreateBook(_ context.Context, arg repo.CreateBookParams) (repo.Book, error) {
	if _, ok := m.books[arg.BookID]; ok {
		return repo.Book{}, &pgconn.PgError{Code: "23505", ConstraintName: "books_book_id_key"}
	}
	m.writes++
	b := repo.Book{
		ID:          toPgUUID(uuid.New()),
		BookID:      arg.BookID,
		Title:       arg.Title,
		Authors:     arg.Authors,
		Description: arg.Description,
		Image:       arg.Image,
		Link:        arg.Link,
		Username:    arg.Username,
		CreatedAt:   pgNow(),
	}
	m.books[b.BookID] = b
	return b, nil
}

func (m *memStore) GetBookByBookID(_ context.Context, bookID string) (repo.Book, error) {
	if b, ok := m.books[bookID]; ok {
		return b, nil
	}
	return repo.Book{}, pgx.ErrNoRows
}

func (m *memStore) ListBooks(_ context.Context) ([]repo.Book, error) {
	var out []repo.Book
	for _, b := range m.books {
		out = append(out, b)
	}
	return out, nil
}

func (m *memStore) ListBooksByUsername(_ context.Context, username string) ([]repo.Book, error) {
	var out []repo.Book
	for _, b := range m.books {
		if b.Username == username {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) DeleteBookByBookID(_ context.Context, bookID string) (repo.Book, error) {
	b, ok := m.books[bookID]
	if !ok {
		return repo.Book{}, pgx.ErrNoRows
	}
	m.writes++
	delete(m.books, bookID)
	return b, nil
}

func (m *memStore) SaveBookForUser(_ context.Context, arg repo.SaveBookParams) error {
	if m.linkErr != nil {
		return m.linkErr
	}
	m.writes++
	key := fromPgUUID(arg.UserID).String()
	if m.saved[key] == nil {
		m.saved[key] = make(map[string]struct{})
	}
	m.saved[key][arg.BookID] = struct{}{}
	return nil
}

func (m *memStore) UnsaveBookForUser(_ context.Context, arg repo.UnsaveBookParams) error {
	m.writes++
	delete(m.saved[fromPgUUID(arg.UserID).String()], arg.BookID)
	return nil
}

func (m *memStore) ListSavedBooks(_ context.Context, userID pgtype.UUID) ([]repo.Book, error) {
	var out []repo.Book
	for bookID := range m.saved[fromPgUUID(userID).String()] {
		if b, ok := m.books[bookID]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) CountSavedBooks(_ context.Context, userID pgtype.UUID) (int64, error) {
	return int64(len(m.saved[fromPgUUID(userID).String()])), nil
}

func (m *memStore) WithTx(_ context.Context, fn func(repo.Store) error) error {
	snapshot := m.clone()
	if err := fn(m); err != nil {
		m.users = snapshot.users
		m.books = snapshot.books
		m.saved = snapshot.saved
		m.writes = snapshot.writes
		return err
	}
	return nil
}

func (m *memStore) clone() *memStore {
	c := newMemStore()
	c.writes = m.writes
	for k, v := range m.users {
		c.users[k] = v
	}
	for k, v := range m.books {
		c.books[k] = v
	}
	for k, set := range m.saved {
		inner := make(map[string]struct{}, len(set))
		for id := range set {
			inner[id] = struct{}{}
		}
		c.saved[k] = inner
	}
	return c
}

var errForcedLink = errors.New("forced link failure")
