package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the persistence surface the service layer depends on. The pgx
// implementation below is the only one outside tests.
type Store interface {
	CreateUser(ctx context.Context, arg CreateUserParams) (User, error)
	GetUserByID(ctx context.Context, id pgtype.UUID) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)

	CreateBook(ctx context.Context, arg CreateBookParams) (Book, error)
	GetBookByBookID(ctx context.Context, bookID string) (Book, error)
	ListBooks(ctx context.Context) ([]Book, error)
	ListBooksByUsername(ctx context.Context, username string) ([]Book, error)
	DeleteBookByBookID(ctx context.Context, bookID string) (Book, error)

	SaveBookForUser(ctx context.Context, arg SaveBookParams) error
	UnsaveBookForUser(ctx context.Context, arg UnsaveBookParams) error
	ListSavedBooks(ctx context.Context, userID pgtype.UUID) ([]Book, error)
	CountSavedBooks(ctx context.Context, userID pgtype.UUID) (int64, error)

	WithTx(ctx context.Context, fn func(Store) error) error
}

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so the same query
// methods run inside and outside transactions.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SQLStore implements Store on PostgreSQL.
type SQLStore struct {
	db   DBTX
	pool *pgxpool.Pool
}

var _ Store = (*SQLStore)(nil)

func New(pool *pgxpool.Pool) *SQLStore {
	return &SQLStore{db: pool, pool: pool}
}

// WithTx runs fn against a store bound to a single transaction. A nested
// call reuses the current transaction instead of opening another.
func (s *SQLStore) WithTx(ctx context.Context, fn func(Store) error) error {
	if s.pool == nil {
		return fn(s)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(&SQLStore{db: tx}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
