package verification

import (
	"context"
	"fmt"

	"github.com/go-verify-reset/internal/domain"
)

// Properties accepted when identifying the user for a verification resend.
var resendIdentifyProps = []string{"email", "verifyToken", "verifyShortToken"}

// ResendVerifySignup issues a fresh verification token pair for an
// unverified user and notifies them. The user is identified by email and/or
// an outstanding token; any previous verification cycle is superseded.
func (s *service) ResendVerifySignup(ctx context.Context, identify map[string]string, opts domain.NotifierOptions) (*domain.SafeUser, error) {
	if err := ensureProps(identify, resendIdentifyProps); err != nil {
		return nil, err
	}

	u, err := s.findOneWithChecks(ctx, identify, checkIsNotVerified)
	if err != nil {
		return nil, err
	}

	long, short, err := s.newTokenPair()
	if err != nil {
		return nil, err
	}

	u, err = s.patch(ctx, u, map[string]interface{}{
		fieldIsVerified:       false,
		fieldVerifyToken:      long,
		fieldVerifyShortToken: short,
		fieldVerifyExpires:    s.now().Add(s.cfg.VerifyDelay).UnixMilli(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.notify(ctx, domain.NotifyResendVerifySignup, u, opts, ""); err != nil {
		return nil, err
	}
	return domain.Sanitize(u), nil
}

// VerifySignupLong consumes a long verification token. Long tokens carry
// enough entropy to be validated alone.
func (s *service) VerifySignupLong(ctx context.Context, verifyToken string) (*domain.SafeUser, error) {
	if err := ensureNonEmpty("token", verifyToken); err != nil {
		return nil, err
	}
	return s.verifySignup(ctx, map[string]string{"verifyToken": verifyToken}, verifyToken, false)
}

// VerifySignupShort consumes a short verification token. Short tokens are
// guessable, so the caller must also identify the user through the configured
// allow-listed properties; both conditions apply to the same lookup.
func (s *service) VerifySignupShort(ctx context.Context, shortToken string, identify map[string]string) (*domain.SafeUser, error) {
	if err := ensureNonEmpty("token", shortToken); err != nil {
		return nil, err
	}
	if err := ensureProps(identify, s.cfg.ShortTokenFields); err != nil {
		return nil, err
	}
	query := map[string]string{"verifyShortToken": shortToken}
	for k, v := range identify {
		query[k] = v
	}
	return s.verifySignup(ctx, query, shortToken, true)
}

// verifySignup is the shared consumption path. Any mismatch between the
// claimed and stored token clears the verification trio before failing, so a
// failed attempt always forces fresh-token issuance. Success also clears any
// outstanding reset grant: a freshly-verified account should not carry one.
func (s *service) verifySignup(ctx context.Context, query map[string]string, claimed string, short bool) (*domain.SafeUser, error) {
	u, err := s.findOneWithChecks(ctx, query, checkIsNotVerified, checkVerifyNotExpired)
	if err != nil {
		return nil, err
	}

	stored := u.VerifyToken
	if short {
		stored = u.VerifyShortToken
	}
	if stored == nil || *stored != claimed {
		// Possible only when the record mutated between lookup and here.
		if _, perr := s.patch(ctx, u, clearVerify()); perr != nil {
			return nil, perr
		}
		return nil, fmt.Errorf("verification token does not match, request a new one: %w", domain.ErrInvalidToken)
	}

	updates := clearVerify()
	for k, v := range clearReset() {
		updates[k] = v
	}
	updates[fieldIsVerified] = u.VerifyExpires != nil && *u.VerifyExpires > s.now().UnixMilli()

	u, err = s.patch(ctx, u, updates)
	if err != nil {
		return nil, err
	}

	if err := s.notify(ctx, domain.NotifyVerifySignup, u, domain.NotifierOptions{}, ""); err != nil {
		return nil, err
	}
	return domain.Sanitize(u), nil
}
