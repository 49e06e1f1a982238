package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

func (s *SQLStore) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	const query = `
	INSERT INTO users (id, username, email, password_hash)
	VALUES (gen_random_uuid(), $1, $2, $3)
	RETURNING id, username, email, created_at, updated_at
	`
	var u User
	err := s.db.QueryRow(ctx, query, arg.Username, arg.Email, arg.PasswordHash).Scan(
		&u.ID, &u.Username, &u.Email, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func (s *SQLStore) GetUserByID(ctx context.Context, id pgtype.UUID) (User, error) {
	const query = `
	SELECT id, username, email, created_at, updated_at
	FROM users
	WHERE id = $1
	`
	var u User
	err := s.db.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Username, &u.Email, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func (s *SQLStore) GetUserByUsername(ctx context.Context, username string) (User, error) {
	const query = `
	SELECT id, username, email, created_at, updated_at
	FROM users
	WHERE username = $1
	`
	var u User
	err := s.db.QueryRow(ctx, query, username).Scan(
		&u.ID, &u.Username, &u.Email, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

// GetUserByEmail is the one user query that returns the password hash; it
// exists for login and nothing else.
func (s *SQLStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	const query = `
	SELECT id, username, email, password_hash, created_at, updated_at
	FROM users
	WHERE email = $1
	`
	var u User
	err := s.db.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func (s *SQLStore) ListUsers(ctx context.Context) ([]User, error) {
	const query = `
	SELECT id, username, email, created_at, updated_at
	FROM users
	ORDER BY username ASC
	`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *SQLStore) SaveBookForUser(ctx context.Context, arg SaveBookParams) error {
	const query = `
	INSERT INTO user_books (user_id, book_id)
	VALUES ($1, $2)
	ON CONFLICT (user_id, book_id) DO NOTHING
	`
	_, err := s.db.Exec(ctx, query, arg.UserID, arg.BookID)
	return err
}

func (s *SQLStore) UnsaveBookForUser(ctx context.Context, arg UnsaveBookParams) error {
	const query = `
	DELETE FROM user_books
	WHERE user_id = $1 AND book_id = $2
	`
	_, err := s.db.Exec(ctx, query, arg.UserID, arg.BookID)
	return err
}

func (s *SQLStore) ListSavedBooks(ctx context.Context, userID pgtype.UUID) ([]Book, error) {
	const query = `
	SELECT b.id, b.book_id, b.title, b.authors, b.description, b.image, b.link, b.username, b.created_at
	FROM user_books ub
	JOIN books b ON b.book_id = ub.book_id
	WHERE ub.user_id = $1
	ORDER BY b.created_at ASC, b.book_id ASC
	`
	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBooks(rows)
}

func (s *SQLStore) CountSavedBooks(ctx context.Context, userID pgtype.UUID) (int64, error) {
	const query = `
	SELECT COUNT(*)
	FROM user_books
	WHERE user_id = $1
	`
	var count int64
	err := s.db.QueryRow(ctx, query, userID).Scan(&count)
	return count, err
}

func scanBooks(rows pgx.Rows) ([]Book, error) {
	var books []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(
			&b.ID, &b.BookID, &b.Title, &b.Authors, &b.Description,
			&b.Image, &b.Link, &b.Username, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}
