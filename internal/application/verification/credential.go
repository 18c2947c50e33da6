package verification

import (
	"context"
	"fmt"

	"github.com/go-verify-reset/internal/domain"
)

// PasswordChange replaces the password of an authenticated caller after
// re-proving the current one. The caller record is re-fetched so the
// comparison runs against the stored hash, not a possibly-stale snapshot.
func (s *service) PasswordChange(ctx context.Context, caller *domain.User, oldPassword, password string) (*domain.SafeUser, error) {
	if caller == nil {
		return nil, fmt.Errorf("authenticated user required: %w", domain.ErrUnauthorized)
	}
	if err := ensureNonEmpty("oldPassword", oldPassword); err != nil {
		return nil, err
	}
	if err := ensureNonEmpty("password", password); err != nil {
		return nil, err
	}

	u, err := s.findOne(ctx, map[string]string{"email": caller.Email})
	if err != nil {
		return nil, err
	}

	if err := s.hasher.Compare(oldPassword, u.PasswordHash); err != nil {
		return nil, fmt.Errorf("current password is incorrect: %w", domain.ErrCredentialMismatch)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	u, err = s.patch(ctx, u, map[string]interface{}{fieldPasswordHash: hash})
	if err != nil {
		return nil, err
	}

	if err := s.notify(ctx, domain.NotifyPasswordChange, u, domain.NotifierOptions{}, ""); err != nil {
		return nil, err
	}
	return domain.Sanitize(u), nil
}

// EmailChange updates the email of an authenticated caller after re-proving
// the password. The notification goes out before the patch so it reaches the
// old address, which is the one the account owner still controls if the
// change is hostile.
func (s *service) EmailChange(ctx context.Context, caller *domain.User, password, newEmail string) (*domain.SafeUser, error) {
	if caller == nil {
		return nil, fmt.Errorf("authenticated user required: %w", domain.ErrUnauthorized)
	}
	if err := ensureNonEmpty("password", password); err != nil {
		return nil, err
	}
	if err := ensureNonEmpty("email", newEmail); err != nil {
		return nil, err
	}

	u, err := s.findOne(ctx, map[string]string{"id": caller.UserID})
	if err != nil {
		return nil, err
	}

	if err := s.hasher.Compare(password, u.PasswordHash); err != nil {
		return nil, fmt.Errorf("password is incorrect: %w", domain.ErrCredentialMismatch)
	}

	if err := s.notify(ctx, domain.NotifyEmailChange, u, domain.NotifierOptions{}, newEmail); err != nil {
		return nil, err
	}

	u, err = s.patch(ctx, u, map[string]interface{}{fieldEmail: newEmail})
	if err != nil {
		return nil, err
	}
	return domain.Sanitize(u), nil
}
