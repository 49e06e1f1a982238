package graph

import (
	"errors"

	"github.com/vektah/gqlparser/v2/gqlerror"

	"bookshelf/internal/service"
)

func asGraphQLError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *service.AppError
	if errors.As(err, &appErr) {
		return &gqlerror.Error{
			Message: appErr.Message,
			Extensions: map[string]interface{}{
				"code": string(appErr.Code),
			},
		}
	}

	return &gqlerror.Error{
		Message: "internal server error",
		Extensions: map[string]interface{}{
			"code": string(service.CodeInternal),
		},
	}
}
