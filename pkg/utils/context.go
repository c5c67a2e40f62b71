package utils

import (
	"context"

	"inventory-system/pkg/contextkeys"
	apperrors "inventory-system/pkg/errors"
)

// UserIDFromContext extracts the authenticated user's id placed there by the
// auth middleware.
func UserIDFromContext(ctx context.Context) (uint64, error) {
	id, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok || id == 0 {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return id, nil
}
