package graph

// This file will be automatically regenerated based on the schema, any resolver implementations
// will be copied through when generating and any unknown code will be moved to the end.
// Code generated by github.com/99designs/gqlgen version v0.17.49

import (
	"bookshelf/graph/model"
	"bookshelf/internal/service"
	"context"
)

// AddUser is the resolver for the addUser field.
func (r *mutationResolver) AddUser(ctx context.Context, input model.AddUserInput) (*model.AuthPayload, error) {
	res, err := r.Service.AddUser(ctx, service.AddUserInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		return nil, asGraphQLError(err)
	}
	return toAuthPayload(res), nil
}

// Login is the resolver for the login field.
func (r *mutationResolver) Login(ctx context.Context, email string, password string) (*model.AuthPayload, error) {
	res, err := r.Service.Login(ctx, email, password)
	if err != nil {
		return nil, asGraphQLError(err)
	}
	return toAuthPayload(res), nil
}

// AddBook is the resolver for the addBook field.
func (r *mutationResolver) AddBook(ctx context.Context, input model.AddBookInput) (*model.Book, error) {
	book, err := r.Service.AddBook(ctx, service.AddBookInput{
		BookID:      input.BookID,
		Title:       input.Title,
		Authors:     input.Authors,
		Description: input.Description,
		Image:       input.Image,
		Link:        input.Link,
	})
	if err != nil {
		return nil, asGraphQLError(err)
	}
	return toModelBook(book), nil
}

// DeleteBook is the resolver for the deleteBook field.
func (r *mutationResolver) DeleteBook(ctx context.Context, bookID string) (*model.Book, error) {
	book, err := r.Service.DeleteBook(ctx, bookID)
	if err != nil {
		return nil, asGraphQLError(err)
	}
	if book == nil {
		return nil, nil
	}
	return toModelBook(*book), nil
}

// Me is the resolver for the me field.
func (r *queryResolver) Me(ctx context.Context) (*model.User, error) {
	user, err := r.Service.Me(ctx)
	if err != nil {
		return nil, asGraphQLError(err)
	}
	return toModelUser(user), nil
}

// Users is the resolver for the users field.
func (r *queryResolver) Users(ctx context.Context) ([]*model.User, error) {
	users, err := r.Service.Users(ctx)
	if err != nil {
		return nil, asGraphQLError(err)
	}
	out := make([]*model.User, 0, len(users))
	for _, u := range users {
		out = append(out, toModelUser(u))
	}
	return out, nil
}

// User is the resolver for the user field.
func (r *queryResolver) User(ctx context.Context, username string) (*model.User, error) {
	user, err := r.Service.User(ctx, username)
	if err != nil {
		return nil, asGraphQLError(err)
	}
	if user == nil {
		return nil, nil
	}
	return toModelUser(*user), nil
}

// Books is the resolver for the books field.
func (r *queryResolver) Books(ctx context.Context, username *string) ([]*model.Book, error) {
	books, err := r.Service.Books(ctx, username)
	if err != nil {
		return nil, asGraphQLError(err)
	}
	return toModelBooks(books), nil
}

// Book is the resolver for the book field.
func (r *queryResolver) Book(ctx context.Context, bookID string) (*model.Book, error) {
	book, err := r.Service.Book(ctx, bookID)
	if err != nil {
		return nil, asGraphQLError(err)
	}
	if book == nil {
		return nil, nil
	}
	return toModelBook(*book), nil
}

// BookCount is the resolver for the bookCount field.
func (r *userResolver) BookCount(ctx context.Context, obj *model.User) (int, error) {
	count, err := r.Service.SavedBookCount(ctx, obj.ID)
	if err != nil {
		return 0, asGraphQLError(err)
	}
	return int(count), nil
}

// Books is the resolver for the books field.
func (r *userResolver) Books(ctx context.Context, obj *model.User) ([]*model.Book, error) {
	books, err := r.Service.SavedBooks(ctx, obj.ID)
	if err != nil {
		return nil, asGraphQLError(err)
	}
	return toModelBooks(books), nil
}

// Mutation returns MutationResolver implementation.
func (r *Resolver) Mutation() MutationResolver { return &mutationResolver{r} }

// Query returns QueryResolver implementation.
func (r *Resolver) Query() QueryResolver { return &queryResolver{r} }

// User returns UserResolver implementation.
func (r *Resolver) User() UserResolver { return &userResolver{r} }

type mutationResolver struct{ *Resolver }
type queryResolver struct{ *Resolver }
type userResolver struct{ *Resolver }
