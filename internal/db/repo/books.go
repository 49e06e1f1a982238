package repo

import "context"

const bookColumns = `id, book_id, title, authors, description, image, link, username, created_at`

func (s *SQLStore) CreateBook(ctx context.Context, arg CreateBookParams) (Book, error) {
	const query = `
	INSERT INTO books (id, book_id, title, authors, description, image, link, username)
	VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
	RETURNING ` + bookColumns
	var b Book
	err := s.db.QueryRow(ctx, query,
		arg.BookID, arg.Title, arg.Authors, arg.Description, arg.Image, arg.Link, arg.Username,
	).Scan(
		&b.ID, &b.BookID, &b.Title, &b.Authors, &b.Description,
		&b.Image, &b.Link, &b.Username, &b.CreatedAt,
	)
	return b, err
}

func (s *SQLStore) GetBookByBookID(ctx context.Context, bookID string) (Book, error) {
	const query = `
	SELECT ` + bookColumns + `
	FROM books
	WHERE book_id = $1
	`
	var b Book
	err := s.db.QueryRow(ctx, query, bookID).Scan(
		&b.ID, &b.BookID, &b.Title, &b.Authors, &b.Description,
		&b.Image, &b.Link, &b.Username, &b.CreatedAt,
	)
	return b, err
}

func (s *SQLStore) ListBooks(ctx context.Context) ([]Book, error) {
	const query = `
	SELECT ` + bookColumns + `
	FROM books
	ORDER BY created_at ASC, book_id ASC
	`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBooks(rows)
}

func (s *SQLStore) ListBooksByUsername(ctx context.Context, username string) ([]Book, error) {
	const query = `
	SELECT ` + bookColumns + `
	FROM books
	WHERE username = $1
	ORDER BY created_at ASC, book_id ASC
	`
	rows, err := s.db.Query(ctx, query, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBooks(rows)
}

// DeleteBookByBookID removes the row and hands it back, the SQL analogue
// of findOneAndDelete.
func (s *SQLStore) DeleteBookByBookID(ctx context.Context, bookID string) (Book, error) {
	const query = `
	DELETE FROM books
	WHERE book_id = $1
	RETURNING ` + bookColumns
	var b Book
	err := s.db.QueryRow(ctx, query, bookID).Scan(
		&b.ID, &b.BookID, &b.Title, &b.Authors, &b.Description,
		&b.Image, &b.Link, &b.Username, &b.CreatedAt,
	)
	return b, err
}
