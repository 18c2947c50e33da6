package verification

import (
	"context"
	"fmt"
	"time"

	"github.com/go-verify-reset/internal/domain"
	"github.com/go-verify-reset/internal/pkg/token"
)

// Service is the account-verification and credential-recovery engine. Every
// method returns the sanitized user (where one applies) or an error wrapping
// a domain sentinel.
type Service interface {
	CheckUnique(ctx context.Context, candidates map[string]string, ownID string, noErrMsg bool) error
	ResendVerifySignup(ctx context.Context, identify map[string]string, opts domain.NotifierOptions) (*domain.SafeUser, error)
	VerifySignupLong(ctx context.Context, verifyToken string) (*domain.SafeUser, error)
	VerifySignupShort(ctx context.Context, shortToken string, identify map[string]string) (*domain.SafeUser, error)
	SendResetPwd(ctx context.Context, email string, opts domain.NotifierOptions) (*domain.SafeUser, error)
	ResetPwdLong(ctx context.Context, resetToken, password string) (*domain.SafeUser, error)
	ResetPwdShort(ctx context.Context, shortToken string, identify map[string]string, password string) (*domain.SafeUser, error)
	CheckResetTokenValid(ctx context.Context, resetToken string) (*Validity, error)
	PasswordChange(ctx context.Context, caller *domain.User, oldPassword, password string) (*domain.SafeUser, error)
	EmailChange(ctx context.Context, caller *domain.User, password, newEmail string) (*domain.SafeUser, error)
	Dispatch(ctx context.Context, req Request, auth *AuthContext) (interface{}, error)
}

// userStore is the minimal contract required of the external user record
// store: an equality find and a partial patch. No transactions, no locks.
type userStore interface {
	Find(ctx context.Context, query map[string]string) ([]domain.User, error)
	Patch(ctx context.Context, userID string, updates map[string]interface{}) error
}

// passwordHasher is the external one-way hash and constant-time comparator.
type passwordHasher interface {
	Hash(plaintext string) (string, error)
	Compare(plaintext, hash string) error
}

// Notifier delivers the post-action notification. A returned error fails the
// enclosing action; the already-committed record mutation is not rolled back.
type Notifier interface {
	Notify(ctx context.Context, action string, user *domain.User, opts domain.NotifierOptions, newEmail string) error
}

// Config carries the token lifecycle knobs. Construct once and pass to
// NewService; there is no mutable package state.
type Config struct {
	LongTokenLen     int           // random bytes; hex token is twice this
	ShortTokenLen    int
	ShortTokenDigits bool
	VerifyDelay      time.Duration
	ResetDelay       time.Duration
	ShortTokenFields []string // user properties allowed in short-token identifying queries
}

func (c Config) withDefaults() Config {
	if c.LongTokenLen <= 0 {
		c.LongTokenLen = 15
	}
	if c.ShortTokenLen <= 0 {
		c.ShortTokenLen = 6
	}
	if c.VerifyDelay <= 0 {
		c.VerifyDelay = 5 * 24 * time.Hour
	}
	if c.ResetDelay <= 0 {
		c.ResetDelay = 2 * time.Hour
	}
	if len(c.ShortTokenFields) == 0 {
		c.ShortTokenFields = []string{"email"}
	}
	return c
}

type service struct {
	users    userStore
	hasher   passwordHasher
	notifier Notifier
	cfg      Config
	now      func() time.Time
}

type ServiceDeps struct {
	Users    userStore
	Hasher   passwordHasher
	Notifier Notifier
	Config   Config
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:    deps.Users,
		hasher:   deps.Hasher,
		notifier: deps.Notifier,
		cfg:      deps.Config.withDefaults(),
		now:      time.Now,
	}
}

// newTokenPair generates a fresh long+short token pair per the configured
// lengths.
func (s *service) newTokenPair() (long, short string, err error) {
	long, err = token.Long(s.cfg.LongTokenLen)
	if err != nil {
		return "", "", fmt.Errorf("token generation: %v: %w", err, domain.ErrInternal)
	}
	short, err = token.Short(s.cfg.ShortTokenLen, s.cfg.ShortTokenDigits)
	if err != nil {
		return "", "", fmt.Errorf("token generation: %v: %w", err, domain.ErrInternal)
	}
	return long, short, nil
}

// notify strips the password from u and invokes the notifier. Failure maps to
// ErrNotifierFailure so the caller surfaces it as the action's error.
func (s *service) notify(ctx context.Context, action string, u *domain.User, opts domain.NotifierOptions, newEmail string) error {
	if err := s.notifier.Notify(ctx, action, domain.SanitizeForNotifier(u), opts, newEmail); err != nil {
		return fmt.Errorf("notify %s: %v: %w", action, err, domain.ErrNotifierFailure)
	}
	return nil
}

// AddVerification stamps a freshly-created user with an unverified state and
// a new verification token pair. Intended for host signup flows; the service
// itself never creates users.
func AddVerification(u *domain.User, cfg Config) error {
	cfg = cfg.withDefaults()
	long, err := token.Long(cfg.LongTokenLen)
	if err != nil {
		return fmt.Errorf("token generation: %v: %w", err, domain.ErrInternal)
	}
	short, err := token.Short(cfg.ShortTokenLen, cfg.ShortTokenDigits)
	if err != nil {
		return fmt.Errorf("token generation: %v: %w", err, domain.ErrInternal)
	}
	expires := time.Now().Add(cfg.VerifyDelay).UnixMilli()
	u.IsVerified = false
	u.VerifyToken = &long
	u.VerifyShortToken = &short
	u.VerifyExpires = &expires
	return nil
}
