package verification

import (
	"context"
	"fmt"
	"time"

	"github.com/go-verify-reset/internal/domain"
)

// DynamoDB attribute names used in query and partial-update maps.
const (
	fieldEmail            = "email"
	fieldUsername         = "username"
	fieldPhone            = "phone"
	fieldPasswordHash     = "password_hash"
	fieldIsVerified       = "is_verified"
	fieldVerifyToken      = "verify_token"
	fieldVerifyShortToken = "verify_short_token"
	fieldVerifyExpires    = "verify_expires"
	fieldResetToken       = "reset_token"
	fieldResetShortToken  = "reset_short_token"
	fieldResetExpires     = "reset_expires"
)

// User-facing property names accepted in identifying queries, mapped to the
// store attribute they query. Every lookup passes through this table, so a
// caller can never probe an attribute outside it.
var propAttrs = map[string]string{
	"id":               "user_id",
	"email":            fieldEmail,
	"username":         fieldUsername,
	"phone":            fieldPhone,
	"verifyToken":      fieldVerifyToken,
	"verifyShortToken": fieldVerifyShortToken,
	"resetToken":       fieldResetToken,
	"resetShortToken":  fieldResetShortToken,
}

// Named predicate checks applied by findOneWithChecks, in caller order.
type check string

const (
	checkIsVerified       check = "isVerified"
	checkIsNotVerified    check = "isNotVerified"
	checkVerifyNotExpired check = "verifyNotExpired"
	checkResetNotExpired  check = "resetNotExpired"
)

// storeQuery translates user-facing property names to store attributes,
// rejecting anything outside the allow-list.
func storeQuery(props map[string]string) (map[string]string, error) {
	query := make(map[string]string, len(props))
	for k, v := range props {
		attr, ok := propAttrs[k]
		if !ok {
			return nil, fmt.Errorf("property %q is not queryable: %w", k, domain.ErrInvalidInput)
		}
		query[attr] = v
	}
	return query, nil
}

// findOne looks up exactly one user by the AND of props. Zero matches is
// ErrNotFound; more than one signals a data-integrity problem upstream and is
// ErrAmbiguous.
func (s *service) findOne(ctx context.Context, props map[string]string) (*domain.User, error) {
	query, err := storeQuery(props)
	if err != nil {
		return nil, err
	}
	users, err := s.users.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if len(users) > 1 {
		return nil, fmt.Errorf("more than one user matched: %w", domain.ErrAmbiguous)
	}
	u := users[0]
	return &u, nil
}

// findOneWithChecks runs findOne and then the named checks in order; the
// first failing check decides the error.
func (s *service) findOneWithChecks(ctx context.Context, props map[string]string, checks ...check) (*domain.User, error) {
	u, err := s.findOne(ctx, props)
	if err != nil {
		return nil, err
	}
	for _, c := range checks {
		switch c {
		case checkIsVerified:
			if !u.IsVerified {
				return nil, fmt.Errorf("user is not verified: %w", domain.ErrNotVerified)
			}
		case checkIsNotVerified:
			if u.IsVerified {
				return nil, fmt.Errorf("user is already verified: %w", domain.ErrAlreadyVerified)
			}
		case checkVerifyNotExpired:
			if expired(u.VerifyExpires, s.now()) {
				return nil, fmt.Errorf("verification token has expired: %w", domain.ErrExpired)
			}
		case checkResetNotExpired:
			if expired(u.ResetExpires, s.now()) {
				return nil, fmt.Errorf("password reset token has expired: %w", domain.ErrExpired)
			}
		}
	}
	return u, nil
}

// expired treats a missing expiry as expired: a token without an expiry is an
// inconsistent record and must not validate.
func expired(expiresAt *int64, now time.Time) bool {
	return expiresAt == nil || *expiresAt < now.UnixMilli()
}

// patch applies a partial update to the store and returns the user merged
// with the patch, so callers can chain without re-fetching. Exactly one store
// write per call.
func (s *service) patch(ctx context.Context, u *domain.User, updates map[string]interface{}) (*domain.User, error) {
	if err := s.users.Patch(ctx, u.UserID, updates); err != nil {
		return nil, err
	}
	return applyUpdates(u, updates), nil
}

// applyUpdates merges a partial-update map into a copy of u. Only fields this
// service patches are recognized.
func applyUpdates(u *domain.User, updates map[string]interface{}) *domain.User {
	merged := *u
	for k, v := range updates {
		switch k {
		case fieldIsVerified:
			merged.IsVerified, _ = v.(bool)
		case fieldPasswordHash:
			merged.PasswordHash, _ = v.(string)
		case fieldEmail:
			merged.Email, _ = v.(string)
		case fieldVerifyToken:
			merged.VerifyToken = strPtrOrNil(v)
		case fieldVerifyShortToken:
			merged.VerifyShortToken = strPtrOrNil(v)
		case fieldVerifyExpires:
			merged.VerifyExpires = int64PtrOrNil(v)
		case fieldResetToken:
			merged.ResetToken = strPtrOrNil(v)
		case fieldResetShortToken:
			merged.ResetShortToken = strPtrOrNil(v)
		case fieldResetExpires:
			merged.ResetExpires = int64PtrOrNil(v)
		}
	}
	merged.UpdatedAt = time.Now().UTC()
	return &merged
}

func strPtrOrNil(v interface{}) *string {
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}

func int64PtrOrNil(v interface{}) *int64 {
	if n, ok := v.(int64); ok {
		return &n
	}
	return nil
}

// clearVerify returns the partial update that retires the verification token
// trio. The trio is always set and cleared together.
func clearVerify() map[string]interface{} {
	return map[string]interface{}{
		fieldVerifyToken:      nil,
		fieldVerifyShortToken: nil,
		fieldVerifyExpires:    nil,
	}
}

// clearReset mirrors clearVerify for the password-reset trio.
func clearReset() map[string]interface{} {
	return map[string]interface{}{
		fieldResetToken:      nil,
		fieldResetShortToken: nil,
		fieldResetExpires:    nil,
	}
}

// ensureProps validates an identifying-query object: non-empty, every key in
// allowed, every value a non-empty string.
func ensureProps(props map[string]string, allowed []string) error {
	if len(props) == 0 {
		return fmt.Errorf("identifying query is empty: %w", domain.ErrInvalidInput)
	}
	for k, v := range props {
		if !containsString(allowed, k) {
			return fmt.Errorf("property %q is not allowed here: %w", k, domain.ErrInvalidInput)
		}
		if v == "" {
			return fmt.Errorf("property %q is empty: %w", k, domain.ErrInvalidInput)
		}
	}
	return nil
}

func ensureNonEmpty(name, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required: %w", name, domain.ErrInvalidInput)
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
