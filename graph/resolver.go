package graph

import "bookshelf/internal/service"

// Resolver wires GraphQL resolvers to application services.
type Resolver struct {
	Service *service.Service
}
