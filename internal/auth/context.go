package auth

import (
	"context"

	"dealership/internal/models"
)

type ctxKey string

const profileKey ctxKey = "accountProfile"

func WithProfile(ctx context.Context, p models.Profile) context.Context {
	return context.WithValue(ctx, profileKey, p)
}

// ProfileFrom returns the profile attached by a valid session token.
func ProfileFrom(ctx context.Context) (models.Profile, bool) {
	p, ok := ctx.Value(profileKey).(models.Profile)
	return p, ok
}

// OptionalProfile is ProfileFrom as a pointer, nil when anonymous.
func OptionalProfile(ctx context.Context) *models.Profile {
	if p, ok := ProfileFrom(ctx); ok {
		return &p
	}
	return nil
}
