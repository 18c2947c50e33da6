package http

import (
	"context"

	"github.com/go-verify-reset/internal/domain"
)

// UserRepository is the minimal interface the router requires from the user
// store: the find/patch contract the verification engine runs on, plus Get
// for resolving authenticated callers.
type UserRepository interface {
	Find(ctx context.Context, query map[string]string) ([]domain.User, error)
	Patch(ctx context.Context, userID string, updates map[string]interface{}) error
	Get(ctx context.Context, userID string) (*domain.User, error)
}
