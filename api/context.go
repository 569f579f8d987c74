package api

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

type keyType string

const (
	userIDKey keyType = "userID"
)

// ctxWithUserID adds a user ID to the context
func ctxWithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// ctxGetUserID retrieves the authenticated user ID from the context
func ctxGetUserID(ctx context.Context) (uuid.UUID, error) {
	ctxValue := ctx.Value(userIDKey)
	if ctxValue == nil {
		return uuid.Nil, errors.New("user ID not found in context")
	}
	userID, ok := ctxValue.(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("user ID in context is not a uuid")
	}
	return userID, nil
}
