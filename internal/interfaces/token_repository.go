package interfaces

import (
	"context"

	"github.com/MaratulyTemirbolat/roommate-back/internal/models"
)

// TokenRepository defines the interface for token persistence (Redis).
// An issued token pair is valid only while its UUIDs are present in the store.
type TokenRepository interface {
	// SetToken stores the Access & Refresh UUIDs mapped to the UserID with
	// TTLs matching the token lifetimes.
	SetToken(ctx context.Context, userID int64, td *models.TokenDetails) error

	// DeleteTokens removes the specified token UUIDs from the store.
	// Returns the number of keys deleted.
	DeleteTokens(ctx context.Context, userID int64, accessUUID, refreshUUID string) (int64, error)

	// GetUserIDByAccessUUID returns the UserID for a live access UUID, or
	// models.ErrTokenNotFound if the token is absent or expired.
	GetUserIDByAccessUUID(ctx context.Context, accessUUID string) (int64, error)

	// GetUserIDByRefreshUUID returns the UserID for a live refresh UUID, or
	// models.ErrTokenNotFound if the token is absent or expired.
	GetUserIDByRefreshUUID(ctx context.Context, refreshUUID string) (int64, error)
}
