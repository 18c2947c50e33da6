package verification

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/go-verify-reset/internal/domain"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) Find(ctx context.Context, query map[string]string) ([]domain.User, error) {
	args := m.Called(ctx, query)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Error(1)
}

func (m *mockUserStore) Patch(ctx context.Context, userID string, updates map[string]interface{}) error {
	args := m.Called(ctx, userID, updates)
	return args.Error(0)
}

type mockHasher struct {
	mock.Mock
}

func (m *mockHasher) Hash(plaintext string) (string, error) {
	args := m.Called(plaintext)
	return args.String(0), args.Error(1)
}

func (m *mockHasher) Compare(plaintext, hash string) error {
	args := m.Called(plaintext, hash)
	return args.Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, action string, user *domain.User, opts domain.NotifierOptions, newEmail string) error {
	args := m.Called(ctx, action, user, opts, newEmail)
	return args.Error(0)
}

// newTestService wires the mocks and pins the clock to testNow.
func newTestService(store *mockUserStore, hasher *mockHasher, notifier *mockNotifier) *service {
	svc := NewService(ServiceDeps{
		Users:    store,
		Hasher:   hasher,
		Notifier: notifier,
	}).(*service)
	svc.now = func() time.Time { return testNow }
	return svc
}

func strp(s string) *string { return &s }

func i64p(n int64) *int64 { return &n }

func unverifiedUser() domain.User {
	return domain.User{
		UserID:           "u-1",
		Username:         "janedoe",
		Email:            "jane@example.com",
		PasswordHash:     "$2a$10$stored",
		IsVerified:       false,
		VerifyToken:      strp("long-verify-token"),
		VerifyShortToken: strp("123456"),
		VerifyExpires:    i64p(testNow.Add(time.Hour).UnixMilli()),
	}
}

func verifiedUser() domain.User {
	return domain.User{
		UserID:       "u-1",
		Username:     "janedoe",
		Email:        "jane@example.com",
		PasswordHash: "$2a$10$stored",
		IsVerified:   true,
	}
}

func userWithResetGrant() domain.User {
	u := verifiedUser()
	u.ResetToken = strp("long-reset-token")
	u.ResetShortToken = strp("654321")
	u.ResetExpires = i64p(testNow.Add(time.Hour).UnixMilli())
	return u
}
