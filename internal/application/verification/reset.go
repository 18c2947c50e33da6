package verification

import (
	"context"
	"fmt"

	"github.com/go-verify-reset/internal/domain"
)

// SendResetPwd starts a forgotten-password flow for a verified user: issues a
// reset token pair with the configured short expiry and notifies the account.
func (s *service) SendResetPwd(ctx context.Context, email string, opts domain.NotifierOptions) (*domain.SafeUser, error) {
	if err := ensureNonEmpty("email", email); err != nil {
		return nil, err
	}

	u, err := s.findOneWithChecks(ctx, map[string]string{"email": email}, checkIsVerified)
	if err != nil {
		return nil, err
	}

	long, short, err := s.newTokenPair()
	if err != nil {
		return nil, err
	}

	u, err = s.patch(ctx, u, map[string]interface{}{
		fieldResetToken:      long,
		fieldResetShortToken: short,
		fieldResetExpires:    s.now().Add(s.cfg.ResetDelay).UnixMilli(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.notify(ctx, domain.NotifySendResetPwd, u, opts, ""); err != nil {
		return nil, err
	}
	return domain.Sanitize(u), nil
}

// ResetPwdLong consumes a long reset token and sets the new password.
func (s *service) ResetPwdLong(ctx context.Context, resetToken, password string) (*domain.SafeUser, error) {
	if err := ensureNonEmpty("token", resetToken); err != nil {
		return nil, err
	}
	if err := ensureNonEmpty("password", password); err != nil {
		return nil, err
	}
	return s.resetPassword(ctx, map[string]string{"resetToken": resetToken}, resetToken, false, password)
}

// ResetPwdShort consumes a short reset token. As with verification, a short
// token only validates together with an allow-listed identifying query.
func (s *service) ResetPwdShort(ctx context.Context, shortToken string, identify map[string]string, password string) (*domain.SafeUser, error) {
	if err := ensureNonEmpty("token", shortToken); err != nil {
		return nil, err
	}
	if err := ensureNonEmpty("password", password); err != nil {
		return nil, err
	}
	if err := ensureProps(identify, s.cfg.ShortTokenFields); err != nil {
		return nil, err
	}
	query := map[string]string{"resetShortToken": shortToken}
	for k, v := range identify {
		query[k] = v
	}
	return s.resetPassword(ctx, query, shortToken, true, password)
}

// CheckResetTokenValid reports whether a long reset token currently resolves
// to a verified user with an unexpired grant. Read-only: the token is not
// consumed and nothing is mutated, so a UI can pre-flight its reset form.
func (s *service) CheckResetTokenValid(ctx context.Context, resetToken string) (*Validity, error) {
	if err := ensureNonEmpty("token", resetToken); err != nil {
		return nil, err
	}
	_, err := s.findOneWithChecks(ctx, map[string]string{"resetToken": resetToken}, checkIsVerified, checkResetNotExpired)
	if err != nil {
		return nil, err
	}
	return &Validity{Valid: true}, nil
}

// resetPassword is the shared consumption path. A mismatched token clears the
// reset trio before failing; success writes the new hash and retires the
// grant in the same patch.
func (s *service) resetPassword(ctx context.Context, query map[string]string, claimed string, short bool, password string) (*domain.SafeUser, error) {
	u, err := s.findOneWithChecks(ctx, query, checkIsVerified, checkResetNotExpired)
	if err != nil {
		return nil, err
	}

	stored := u.ResetToken
	if short {
		stored = u.ResetShortToken
	}
	if stored == nil || *stored != claimed {
		if _, perr := s.patch(ctx, u, clearReset()); perr != nil {
			return nil, perr
		}
		return nil, fmt.Errorf("reset token does not match, request a new one: %w", domain.ErrInvalidToken)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	updates := clearReset()
	updates[fieldPasswordHash] = hash

	u, err = s.patch(ctx, u, updates)
	if err != nil {
		return nil, err
	}

	if err := s.notify(ctx, domain.NotifyResetPwd, u, domain.NotifierOptions{}, ""); err != nil {
		return nil, err
	}
	return domain.Sanitize(u), nil
}
