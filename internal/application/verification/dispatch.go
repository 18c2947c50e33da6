package verification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-verify-reset/internal/domain"
)

// Request is the single-envelope form of a verify-reset call: an action name
// plus an action-shaped value. Legacy action aliases are accepted and
// normalized before dispatch.
type Request struct {
	Action   string                 `json:"action" validate:"required"`
	Value    json.RawMessage        `json:"value"`
	OwnID    string                 `json:"ownId"`
	Meta     Meta                   `json:"meta"`
	Notifier domain.NotifierOptions `json:"notifier"`
}

type Meta struct {
	NoErrMsg bool `json:"noErrMsg"`
}

// AuthContext carries the already-authenticated caller for the actions that
// require one. The dispatcher trusts it; establishing it is the transport's
// job.
type AuthContext struct {
	User *domain.User
}

// Validity is the result of a read-only token check.
type Validity struct {
	Valid bool `json:"valid"`
}

// Ack is the empty success result for actions with nothing to return.
type Ack struct {
	OK bool `json:"ok"`
}

// Dispatch routes a Request to the matching operation. It is the only entry
// point that accepts loosely-typed values; everything past it is typed.
func (s *service) Dispatch(ctx context.Context, req Request, auth *AuthContext) (interface{}, error) {
	action, ok := domain.NormalizeAction(req.Action)
	if !ok {
		return nil, fmt.Errorf("unknown action %q: %w", req.Action, domain.ErrInvalidInput)
	}
	if action.RequiresAuth() && (auth == nil || auth.User == nil) {
		return nil, fmt.Errorf("action %s requires an authenticated user: %w", action, domain.ErrUnauthorized)
	}

	switch action {
	case domain.ActionCheckUnique:
		candidates, err := decodeCandidates(req.Value)
		if err != nil {
			return nil, err
		}
		if err := s.CheckUnique(ctx, candidates, req.OwnID, req.Meta.NoErrMsg); err != nil {
			return nil, err
		}
		return Ack{OK: true}, nil

	case domain.ActionResendVerifySignup:
		identify, err := decodeIdentify(req.Value)
		if err != nil {
			return nil, err
		}
		return s.ResendVerifySignup(ctx, identify, req.Notifier)

	case domain.ActionVerifySignupLong:
		tok, err := decodeString(req.Value)
		if err != nil {
			return nil, err
		}
		return s.VerifySignupLong(ctx, tok)

	case domain.ActionVerifySignupShort:
		var v struct {
			Token string            `json:"token"`
			User  map[string]string `json:"user"`
		}
		if err := decodeValue(req.Value, &v); err != nil {
			return nil, err
		}
		return s.VerifySignupShort(ctx, v.Token, v.User)

	case domain.ActionSendResetPwd:
		email, err := decodeEmail(req.Value)
		if err != nil {
			return nil, err
		}
		return s.SendResetPwd(ctx, email, req.Notifier)

	case domain.ActionResetPwdLong:
		var v struct {
			Token    string `json:"token"`
			Password string `json:"password"`
		}
		if err := decodeValue(req.Value, &v); err != nil {
			return nil, err
		}
		return s.ResetPwdLong(ctx, v.Token, v.Password)

	case domain.ActionResetPwdShort:
		var v struct {
			Token    string            `json:"token"`
			Password string            `json:"password"`
			User     map[string]string `json:"user"`
		}
		if err := decodeValue(req.Value, &v); err != nil {
			return nil, err
		}
		return s.ResetPwdShort(ctx, v.Token, v.User, v.Password)

	case domain.ActionCheckResetTokenValid:
		tok, err := decodeString(req.Value)
		if err != nil {
			return nil, err
		}
		return s.CheckResetTokenValid(ctx, tok)

	case domain.ActionPasswordChange:
		var v struct {
			OldPassword string `json:"oldPassword"`
			Password    string `json:"password"`
		}
		if err := decodeValue(req.Value, &v); err != nil {
			return nil, err
		}
		return s.PasswordChange(ctx, auth.User, v.OldPassword, v.Password)

	case domain.ActionEmailChange:
		var v struct {
			Password string `json:"password"`
			Email    string `json:"email"`
		}
		if err := decodeValue(req.Value, &v); err != nil {
			return nil, err
		}
		return s.EmailChange(ctx, auth.User, v.Password, v.Email)
	}

	return nil, fmt.Errorf("unhandled action %q: %w", action, domain.ErrInternal)
}

func decodeValue(raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("value is required: %w", domain.ErrInvalidInput)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("malformed value: %v: %w", err, domain.ErrInvalidInput)
	}
	return nil
}

func decodeString(raw json.RawMessage) (string, error) {
	var s string
	if err := decodeValue(raw, &s); err != nil {
		return "", err
	}
	return s, nil
}

// decodeIdentify accepts either a bare email string or an identifying-query
// object.
func decodeIdentify(raw json.RawMessage) (map[string]string, error) {
	if s, err := decodeString(raw); err == nil {
		return map[string]string{"email": s}, nil
	}
	var m map[string]string
	if err := decodeValue(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// decodeEmail accepts either a bare email string or {"email": ...}.
func decodeEmail(raw json.RawMessage) (string, error) {
	if s, err := decodeString(raw); err == nil {
		return s, nil
	}
	var v struct {
		Email string `json:"email"`
	}
	if err := decodeValue(raw, &v); err != nil {
		return "", err
	}
	return v.Email, nil
}

// decodeCandidates drops JSON nulls instead of treating them as empty
// strings, so a client can send an unedited form object.
func decodeCandidates(raw json.RawMessage) (map[string]string, error) {
	var m map[string]*string
	if err := decodeValue(raw, &m); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		if v == nil {
			continue
		}
		out[k] = *v
	}
	return out, nil
}
