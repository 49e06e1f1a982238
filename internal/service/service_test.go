package service

import (
	"context"
	"testing"
	"time"

	"bookshelf/internal/auth"
	"bookshelf/internal/config"
)

func newTestService(store *memStore) *Service {
	return New(store, config.Config{
		QueryTimeout: time.Second,
		JWTSecret:    "test-secret",
		TokenTTL:     time.Hour,
	})
}

func asAlice(t *testing.T, svc *Service) context.Context {
	t.Helper()
	res, err := svc.AddUser(context.Background(), AddUserInput{
		Username: "alice",
		Email:    "a@x.com",
		Password: "secret-password-1",
	})
	if err != nil {
		t.Fatalf("AddUser: unexpected error: %v", err)
	}
	return auth.WithIdentity(context.Background(), auth.Identity{
		ID:       fromPgUUID(res.User.ID).String(),
		Username: res.User.Username,
	})
}

func TestMeUnauthenticated(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	_, err := svc.Me(context.Background())
	if !IsAppErrorCode(err, CodeUnauthenticated) {
		t.Fatalf("Me without identity: got %v, want UNAUTHENTICATED", err)
	}
}

func TestMutationsUnauthenticatedWriteNothing(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.AddBook(ctx, AddBookInput{Title: "Dune"}); !IsAppErrorCode(err, CodeUnauthenticated) {
		t.Fatalf("AddBook without identity: got %v, want UNAUTHENTICATED", err)
	}
	if _, err := svc.DeleteBook(ctx, "b1"); !IsAppErrorCode(err, CodeUnauthenticated) {
		t.Fatalf("DeleteBook without identity: got %v, want UNAUTHENTICATED", err)
	}
	if store.writes != 0 {
		t.Fatalf("unauthenticated mutations performed %d writes, want 0", store.writes)
	}
}

func TestLoginErrorsAreIndistinguishable(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	asAlice(t, svc)

	_, errUnknown := svc.Login(context.Background(), "nobody@x.com", "secret-password-1")
	_, errWrongPw := svc.Login(context.Background(), "a@x.com", "wrong-password")

	if !IsAppErrorCode(errUnknown, CodeUnauthenticated) {
		t.Fatalf("login with unknown email: got %v, want UNAUTHENTICATED", errUnknown)
	}
	if !IsAppErrorCode(errWrongPw, CodeUnauthenticated) {
		t.Fatalf("login with wrong password: got %v, want UNAUTHENTICATED", errWrongPw)
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Fatalf("login errors differ: %q vs %q", errUnknown.Error(), errWrongPw.Error())
	}
}

func TestAddUserThenLogin(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	created, err := svc.AddUser(ctx, AddUserInput{
		Username: "alice",
		Email:    "A@X.com",
		Password: "secret-password-1",
	})
	if err != nil {
		t.Fatalf("AddUser: unexpected error: %v", err)
	}
	if created.Token == "" {
		t.Fatal("AddUser: expected non-empty token")
	}
	if created.User.Username != "alice" {
		t.Fatalf("AddUser: username = %q, want alice", created.User.Username)
	}
	if created.User.Email != "a@x.com" {
		t.Fatalf("AddUser: email not normalized: %q", created.User.Email)
	}
	if created.User.PasswordHash != "" {
		t.Fatal("AddUser: result must not carry a password hash")
	}

	if _, err := svc.Login(ctx, "a@x.com", "wrong"); !IsAppErrorCode(err, CodeUnauthenticated) {
		t.Fatalf("login with wrong password: got %v, want UNAUTHENTICATED", err)
	}

	logged, err := svc.Login(ctx, "a@x.com", "secret-password-1")
	if err != nil {
		t.Fatalf("Login: unexpected error: %v", err)
	}
	if logged.Token == "" {
		t.Fatal("Login: expected non-empty token")
	}
	if fromPgUUID(logged.User.ID) != fromPgUUID(created.User.ID) {
		t.Fatalf("Login: user id %s differs from created %s",
			fromPgUUID(logged.User.ID), fromPgUUID(created.User.ID))
	}
	if logged.User.PasswordHash != "" {
		t.Fatal("Login: result must not carry a password hash")
	}
}

func TestAddUserConflict(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	in := AddUserInput{Username: "alice", Email: "a@x.com", Password: "secret-password-1"}
	if _, err := svc.AddUser(ctx, in); err != nil {
		t.Fatalf("first AddUser: unexpected error: %v", err)
	}
	if _, err := svc.AddUser(ctx, in); !IsAppErrorCode(err, CodeConflict) {
		t.Fatalf("duplicate AddUser: got %v, want CONFLICT", err)
	}
}

func TestAddUserValidation(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	tests := []struct {
		name string
		in   AddUserInput
	}{
		{name: "short password", in: AddUserInput{Username: "alice", Email: "a@x.com", Password: "short"}},
		{name: "bad email", in: AddUserInput{Username: "alice", Email: "not-an-email", Password: "secret-password-1"}},
		{name: "bad username", in: AddUserInput{Username: "a!", Email: "a@x.com", Password: "secret-password-1"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.AddUser(ctx, tc.in); !IsAppErrorCode(err, CodeBadUserInput) {
				t.Fatalf("got %v, want BAD_USER_INPUT", err)
			}
		})
	}
	if store.writes != 0 {
		t.Fatalf("invalid inputs reached the store: %d writes", store.writes)
	}
}

func TestAddBookAndDeleteBookFlow(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := asAlice(t, svc)

	bookID := "b1"
	created, err := svc.AddBook(ctx, AddBookInput{BookID: &bookID, Title: "Dune", Authors: []string{"Frank Herbert"}})
	if err != nil {
		t.Fatalf("AddBook: unexpected error: %v", err)
	}
	if created.BookID != "b1" || created.Username != "alice" {
		t.Fatalf("AddBook: got bookId=%q username=%q, want b1/alice", created.BookID, created.Username)
	}

	fetched, err := svc.Book(ctx, "b1")
	if err != nil {
		t.Fatalf("Book: unexpected error: %v", err)
	}
	if fetched == nil || fetched.BookID != "b1" {
		t.Fatalf("Book after AddBook: got %+v, want bookId b1", fetched)
	}

	user, err := svc.User(ctx, "alice")
	if err != nil {
		t.Fatalf("User: unexpected error: %v", err)
	}
	saved, err := svc.SavedBooks(ctx, fromPgUUID(user.ID).String())
	if err != nil {
		t.Fatalf("SavedBooks: unexpected error: %v", err)
	}
	if len(saved) != 1 || saved[0].BookID != "b1" {
		t.Fatalf("saved set after AddBook: got %+v, want [b1]", saved)
	}

	deleted, err := svc.DeleteBook(ctx, "b1")
	if err != nil {
		t.Fatalf("DeleteBook: unexpected error: %v", err)
	}
	if deleted == nil || deleted.BookID != "b1" {
		t.Fatalf("DeleteBook: got %+v, want bookId b1", deleted)
	}

	gone, err := svc.Book(ctx, "b1")
	if err != nil {
		t.Fatalf("Book after delete: unexpected error: %v", err)
	}
	if gone != nil {
		t.Fatalf("Book after delete: got %+v, want nil", gone)
	}

	saved, err = svc.SavedBooks(ctx, fromPgUUID(user.ID).String())
	if err != nil {
		t.Fatalf("SavedBooks after delete: unexpected error: %v", err)
	}
	if len(saved) != 0 {
		t.Fatalf("saved set after delete: got %+v, want empty", saved)
	}
}

func TestDeleteBookNoMatch(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := asAlice(t, svc)

	deleted, err := svc.DeleteBook(ctx, "missing")
	if err != nil {
		t.Fatalf("DeleteBook on missing id: unexpected error: %v", err)
	}
	if deleted != nil {
		t.Fatalf("DeleteBook on missing id: got %+v, want nil", deleted)
	}
}

func TestAddBookRollsBackWhenLinkFails(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := asAlice(t, svc)

	store.linkErr = errForcedLink

	bookID := "b1"
	if _, err := svc.AddBook(ctx, AddBookInput{BookID: &bookID, Title: "Dune"}); err == nil {
		t.Fatal("AddBook: expected error when linking fails")
	}

	book, err := svc.Book(ctx, "b1")
	if err != nil {
		t.Fatalf("Book after failed AddBook: unexpected error: %v", err)
	}
	if book != nil {
		t.Fatalf("book row survived a rolled-back AddBook: %+v", book)
	}
}

func TestAddBookGeneratesBookID(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := asAlice(t, svc)

	created, err := svc.AddBook(ctx, AddBookInput{Title: "Dune"})
	if err != nil {
		t.Fatalf("AddBook: unexpected error: %v", err)
	}
	if created.BookID == "" {
		t.Fatal("AddBook without bookId: expected a generated id")
	}
}

func TestUsersNeverExposePasswordHash(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := asAlice(t, svc)

	me, err := svc.Me(ctx)
	if err != nil {
		t.Fatalf("Me: unexpected error: %v", err)
	}
	if me.PasswordHash != "" {
		t.Fatal("Me returned a password hash")
	}

	users, err := svc.Users(ctx)
	if err != nil {
		t.Fatalf("Users: unexpected error: %v", err)
	}
	for _, u := range users {
		if u.PasswordHash != "" {
			t.Fatalf("Users returned a password hash for %q", u.Username)
		}
	}

	user, err := svc.User(ctx, "alice")
	if err != nil {
		t.Fatalf("User: unexpected error: %v", err)
	}
	if user.PasswordHash != "" {
		t.Fatal("User returned a password hash")
	}
}

func TestBooksFilterByUsername(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := asAlice(t, svc)

	for _, id := range []string{"b1", "b2"} {
		bookID := id
		if _, err := svc.AddBook(ctx, AddBookInput{BookID: &bookID, Title: "Book " + id}); err != nil {
			t.Fatalf("AddBook %s: unexpected error: %v", id, err)
		}
	}

	all, err := svc.Books(ctx, nil)
	if err != nil {
		t.Fatalf("Books: unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Books: got %d, want 2", len(all))
	}

	owner := "alice"
	mine, err := svc.Books(ctx, &owner)
	if err != nil {
		t.Fatalf("Books(alice): unexpected error: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("Books(alice): got %d, want 2", len(mine))
	}

	other := "bob"
	none, err := svc.Books(ctx, &other)
	if err != nil {
		t.Fatalf("Books(bob): unexpected error: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("Books(bob): got %d, want 0", len(none))
	}
}

func TestUserAbsentIsNil(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	user, err := svc.User(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("User on missing username: unexpected error: %v", err)
	}
	if user != nil {
		t.Fatalf("User on missing username: got %+v, want nil", user)
	}
}
