package v0

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/oneai-dev/oneai/internal/catalog/auth"
	"github.com/oneai-dev/oneai/internal/catalog/database"
)

// translateError maps service errors to HTTP status errors. fallback is the
// message used for unexpected failures so internals never leak to clients.
func translateError(err error, fallback string) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return huma.Error404NotFound("Agent not found")
	case errors.Is(err, database.ErrAlreadyExists):
		return huma.Error409Conflict(err.Error(), err)
	case errors.Is(err, database.ErrInvalidInput):
		return huma.Error400BadRequest(err.Error(), err)
	case errors.Is(err, database.ErrConnection):
		return huma.Error503ServiceUnavailable("Catalog store temporarily unavailable, retry later", err)
	case errors.Is(err, auth.ErrForbidden):
		return huma.Error403Forbidden("Operation not permitted")
	default:
		return huma.Error500InternalServerError(fallback, err)
	}
}
