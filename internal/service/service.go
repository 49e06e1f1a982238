package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"bookshelf/internal/auth"
	"bookshelf/internal/config"
	"bookshelf/internal/db/repo"
)

type Service struct {
	store        repo.Store
	queryTimeout time.Duration
	tokenSecret  string
	tokenTTL     time.Duration
}

func New(store repo.Store, cfg config.Config) *Service {
	return &Service{
		store:        store,
		queryTimeout: cfg.QueryTimeout,
		tokenSecret:  cfg.JWTSecret,
		tokenTTL:     cfg.TokenTTL,
	}
}

// viewer resolves the authenticated identity on the context. The message is
// surfaced verbatim to the client, so each operation supplies its own.
func (s *Service) viewer(ctx context.Context, msg string) (auth.Identity, uuid.UUID, error) {
	id, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return auth.Identity{}, uuid.Nil, NewUnauthenticated(msg)
	}
	uid, err := uuid.Parse(id.ID)
	if err != nil {
		return auth.Identity{}, uuid.Nil, NewUnauthenticated(msg)
	}
	return id, uid, nil
}

func (s *Service) Me(ctx context.Context) (repo.User, error) {
	_, uid, err := s.viewer(ctx, "you must be logged in to view this data")
	if err != nil {
		return repo.User{}, err
	}

	tctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	user, err := s.store.GetUserByID(tctx, toPgUUID(uid))
	if err != nil {
		return repo.User{}, s.wrapDBError(err, "user not found")
	}
	return user, nil
}

func (s *Service) Users(ctx context.Context) ([]repo.User, error) {
	tctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	users, err := s.store.ListUsers(tctx)
	if err != nil {
		return nil, s.wrapDBError(err, "failed to list users")
	}
	return users, nil
}

func (s *Service) User(ctx context.Context, username string) (*repo.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, NewBadInput("username is required")
	}

	tctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	user, err := s.store.GetUserByUsername(tctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, s.wrapDBError(err, "failed to fetch user")
	}
	return &user, nil
}

func (s *Service) Books(ctx context.Context, username *string) ([]repo.Book, error) {
	tctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if username != nil && strings.TrimSpace(*username) != "" {
		books, err := s.store.ListBooksByUsername(tctx, strings.TrimSpace(*username))
		if err != nil {
			return nil, s.wrapDBError(err, "failed to list books")
		}
		return books, nil
	}

	books, err := s.store.ListBooks(tctx)
	if err != nil {
		return nil, s.wrapDBError(err, "failed to list books")
	}
	return books, nil
}

func (s *Service) Book(ctx context.Context, bookID string) (*repo.Book, error) {
	bookID = strings.TrimSpace(bookID)
	if bookID == "" {
		return nil, NewBadInput("bookId is required")
	}

	tctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	book, err := s.store.GetBookByBookID(tctx, bookID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, s.wrapDBError(err, "failed to fetch book")
	}
	return &book, nil
}

func (s *Service) AddUser(ctx context.Context, in AddUserInput) (AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	if err := validateNewUser(in); err != nil {
		return AuthResult{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return AuthResult{}, NewInternal("failed to hash password", err)
	}

	tctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	user, err := s.store.CreateUser(tctx, repo.CreateUserParams{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		return AuthResult{}, s.wrapDBError(err, "failed to create user")
	}

	token, err := s.signToken(user)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: token, User: user}, nil
}

// Login deliberately reports the same error for an unknown email and a wrong
// password so callers cannot probe which accounts exist.
func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return AuthResult{}, NewUnauthenticated("invalid credentials")
	}

	tctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	user, err := s.store.GetUserByEmail(tctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AuthResult{}, NewUnauthenticated("invalid credentials")
		}
		return AuthResult{}, s.wrapDBError(err, "failed to fetch user")
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		return AuthResult{}, NewUnauthenticated("invalid credentials")
	}

	token, err := s.signToken(user)
	if err != nil {
		return AuthResult{}, err
	}

	user.PasswordHash = ""
	return AuthResult{Token: token, User: user}, nil
}

// AddBook creates the book stamped with the viewer's username and links it
// into the viewer's saved set, both inside one transaction.
func (s *Service) AddBook(ctx context.Context, in AddBookInput) (repo.Book, error) {
	viewer, uid, err := s.viewer(ctx, "you must be logged in to add a book")
	if err != nil {
		return repo.Book{}, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return repo.Book{}, NewBadInput("book title is required")
	}

	bookID := ""
	if in.BookID != nil {
		bookID = strings.TrimSpace(*in.BookID)
	}
	if bookID == "" {
		bookID = uuid.NewString()
	}

	authors := make([]string, 0, len(in.Authors))
	for _, a := range in.Authors {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}

	tctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var created repo.Book
	err = s.store.WithTx(tctx, func(q repo.Store) error {
		created, err = q.CreateBook(tctx, repo.CreateBookParams{
			BookID:      bookID,
			Title:       title,
			Authors:     authors,
			Description: in.Description,
			Image:       in.Image,
			Link:        in.Link,
			Username:    viewer.Username,
		})
		if err != nil {
			return s.wrapDBError(err, "failed to create book")
		}

		if err := q.SaveBookForUser(tctx, repo.SaveBookParams{
			UserID: toPgUUID(uid),
			BookID: created.BookID,
		}); err != nil {
			return s.wrapDBError(err, "failed to link book to user")
		}
		return nil
	})
	if err != nil {
		return repo.Book{}, err
	}
	return created, nil
}

// DeleteBook removes the book matching bookID and unlinks it from the
// viewer's saved set. There is no ownership check: any authenticated user
// can delete any book by id. Returns nil when no book matched.
func (s *Service) DeleteBook(ctx context.Context, bookID string) (*repo.Book, error) {
	_, uid, err := s.viewer(ctx, "you must be logged in to delete a book")
	if err != nil {
		return nil, err
	}

	bookID = strings.TrimSpace(bookID)
	if bookID == "" {
		return nil, NewBadInput("bookId is required")
	}

	tctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var deleted *repo.Book
	err = s.store.WithTx(tctx, func(q repo.Store) error {
		book, err := q.DeleteBookByBookID(tctx, bookID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return s.wrapDBError(err, "failed to delete book")
		}

		if err := q.UnsaveBookForUser(tctx, repo.UnsaveBookParams{
			UserID: toPgUUID(uid),
			BookID: bookID,
		}); err != nil {
			return s.wrapDBError(err, "failed to unlink book from user")
		}

		deleted = &book
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// SavedBooks expands a user's saved set into full book records.
func (s *Service) SavedBooks(ctx context.Context, userID string) ([]repo.Book, error) {
	uid, err := parseUUID(userID, "user id")
	if err != nil {
		return nil, err
	}

	tctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	books, err := s.store.ListSavedBooks(tctx, toPgUUID(uid))
	if err != nil {
		return nil, s.wrapDBError(err, "failed to load saved books")
	}
	return books, nil
}

func (s *Service) SavedBookCount(ctx context.Context, userID string) (int64, error) {
	uid, err := parseUUID(userID, "user id")
	if err != nil {
		return 0, err
	}

	tctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	count, err := s.store.CountSavedBooks(tctx, toPgUUID(uid))
	if err != nil {
		return 0, s.wrapDBError(err, "failed to count saved books")
	}
	return count, nil
}

func (s *Service) signToken(user repo.User) (string, error) {
	token, err := auth.SignToken(s.tokenSecret, s.tokenTTL, fromPgUUID(user.ID).String(), user.Username, user.Email)
	if err != nil {
		return "", NewInternal("failed to sign token", err)
	}
	return token, nil
}

func (s *Service) wrapDBError(err error, fallback string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewNotFound(fallback)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return NewConflict("already in use", err)
		case "23503", "23514":
			return NewBadInput("request violates data constraints")
		}
	}
	return NewInternal(fallback, err)
}
