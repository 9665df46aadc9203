package ports

import (
	"context"

	"github.com/suitewaste/deskshell/internal/core/domain"
)

// AuthService authenticates terminal users by PIN and mints bearer tokens.
type AuthService interface {
	Login(ctx context.Context, pin string) (string, *domain.User, error)
}

// Classifier estimates listing details from an uploaded photo.
type Classifier interface {
	Classify(ctx context.Context, image string) (ClassificationResult, error)
}
