package verification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/go-verify-reset/internal/domain"
)

func TestSendResetPwd_IssuesResetGrant(t *testing.T) {
	store := new(mockUserStore)
	notifier := new(mockNotifier)
	svc := newTestService(store, new(mockHasher), notifier)

	store.On("Find", mock.Anything, map[string]string{"email": "jane@example.com"}).
		Return([]domain.User{verifiedUser()}, nil)
	store.On("Patch", mock.Anything, "u-1", mock.MatchedBy(func(updates map[string]interface{}) bool {
		long, _ := updates["reset_token"].(string)
		short, _ := updates["reset_short_token"].(string)
		expires, _ := updates["reset_expires"].(int64)
		return long != "" && short != "" && expires == testNow.Add(2*time.Hour).UnixMilli()
	})).Return(nil)
	notifier.On("Notify", mock.Anything, domain.NotifySendResetPwd, mock.MatchedBy(func(u *domain.User) bool {
		return u.PasswordHash == "" && u.ResetToken != nil
	}), domain.NotifierOptions{}, "").Return(nil)

	safe, err := svc.SendResetPwd(context.Background(), "jane@example.com", domain.NotifierOptions{})
	require.NoError(t, err)
	assert.Equal(t, "u-1", safe.UserID)
	store.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestSendResetPwd_RejectsUnverifiedUser(t *testing.T) {
	store := new(mockUserStore)
	svc := newTestService(store, new(mockHasher), new(mockNotifier))

	store.On("Find", mock.Anything, mock.Anything).Return([]domain.User{unverifiedUser()}, nil)

	_, err := svc.SendResetPwd(context.Background(), "jane@example.com", domain.NotifierOptions{})
	assert.ErrorIs(t, err, domain.ErrNotVerified)
	store.AssertNotCalled(t, "Patch")
}

func TestSendResetPwd_UnknownEmail(t *testing.T) {
	store := new(mockUserStore)
	svc := newTestService(store, new(mockHasher), new(mockNotifier))

	store.On("Find", mock.Anything, mock.Anything).Return([]domain.User{}, nil)

	_, err := svc.SendResetPwd(context.Background(), "ghost@example.com", domain.NotifierOptions{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResetPwdLong_SetsPasswordAndRetiresGrant(t *testing.T) {
	store := new(mockUserStore)
	hasher := new(mockHasher)
	notifier := new(mockNotifier)
	svc := newTestService(store, hasher, notifier)

	store.On("Find", mock.Anything, map[string]string{"reset_token": "long-reset-token"}).
		Return([]domain.User{userWithResetGrant()}, nil)
	hasher.On("Hash", "new-secret").Return("$2a$10$new", nil)
	store.On("Patch", mock.Anything, "u-1", mock.MatchedBy(func(updates map[string]interface{}) bool {
		return updates["password_hash"] == "$2a$10$new" &&
			updates["reset_token"] == nil &&
			updates["reset_short_token"] == nil &&
			updates["reset_expires"] == nil
	})).Return(nil)
	notifier.On("Notify", mock.Anything, domain.NotifyResetPwd, mock.Anything, domain.NotifierOptions{}, "").Return(nil)

	safe, err := svc.ResetPwdLong(context.Background(), "long-reset-token", "new-secret")
	require.NoError(t, err)
	assert.Equal(t, "u-1", safe.UserID)
	store.AssertExpectations(t)
	hasher.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestResetPwdLong_ExpiredGrant(t *testing.T) {
	store := new(mockUserStore)
	svc := newTestService(store, new(mockHasher), new(mockNotifier))

	u := userWithResetGrant()
	u.ResetExpires = i64p(testNow.Add(-time.Minute).UnixMilli())
	store.On("Find", mock.Anything, mock.Anything).Return([]domain.User{u}, nil)

	_, err := svc.ResetPwdLong(context.Background(), "long-reset-token", "new-secret")
	assert.ErrorIs(t, err, domain.ErrExpired)
	store.AssertNotCalled(t, "Patch")
}

func TestResetPwdLong_MissingExpiryTreatedAsExpired(t *testing.T) {
	store := new(mockUserStore)
	svc := newTestService(store, new(mockHasher), new(mockNotifier))

	u := userWithResetGrant()
	u.ResetExpires = nil
	store.On("Find", mock.Anything, mock.Anything).Return([]domain.User{u}, nil)

	_, err := svc.ResetPwdLong(context.Background(), "long-reset-token", "new-secret")
	assert.ErrorIs(t, err, domain.ErrExpired)
}

func TestResetPwdLong_EmptyPassword(t *testing.T) {
	svc := newTestService(new(mockUserStore), new(mockHasher), new(mockNotifier))

	_, err := svc.ResetPwdLong(context.Background(), "long-reset-token", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResetPwdShort_SetsPasswordWithEmailIdentify(t *testing.T) {
	store := new(mockUserStore)
	hasher := new(mockHasher)
	notifier := new(mockNotifier)
	svc := newTestService(store, hasher, notifier)

	store.On("Find", mock.Anything, map[string]string{
		"reset_short_token": "654321",
		"email":             "jane@example.com",
	}).Return([]domain.User{userWithResetGrant()}, nil)
	hasher.On("Hash", "new-secret").Return("$2a$10$new", nil)
	store.On("Patch", mock.Anything, "u-1", mock.Anything).Return(nil)
	notifier.On("Notify", mock.Anything, domain.NotifyResetPwd, mock.Anything, domain.NotifierOptions{}, "").Return(nil)

	_, err := svc.ResetPwdShort(context.Background(), "654321", map[string]string{"email": "jane@example.com"}, "new-secret")
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestResetPwdShort_StaleStoredToken_ClearsTrio(t *testing.T) {
	store := new(mockUserStore)
	svc := newTestService(store, new(mockHasher), new(mockNotifier))

	u := userWithResetGrant()
	u.ResetShortToken = strp("000000")
	store.On("Find", mock.Anything, mock.Anything).Return([]domain.User{u}, nil)
	store.On("Patch", mock.Anything, "u-1", mock.MatchedBy(func(updates map[string]interface{}) bool {
		return len(updates) == 3 &&
			updates["reset_token"] == nil &&
			updates["reset_short_token"] == nil &&
			updates["reset_expires"] == nil
	})).Return(nil)

	_, err := svc.ResetPwdShort(context.Background(), "654321", map[string]string{"email": "jane@example.com"}, "new-secret")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
	store.AssertExpectations(t)
}

func TestCheckResetTokenValid_ValidGrant(t *testing.T) {
	store := new(mockUserStore)
	svc := newTestService(store, new(mockHasher), new(mockNotifier))

	store.On("Find", mock.Anything, map[string]string{"reset_token": "long-reset-token"}).
		Return([]domain.User{userWithResetGrant()}, nil)

	validity, err := svc.CheckResetTokenValid(context.Background(), "long-reset-token")
	require.NoError(t, err)
	assert.True(t, validity.Valid)
	// Read-only: the grant must survive the check.
	store.AssertNotCalled(t, "Patch")
}

func TestCheckResetTokenValid_ExpiredGrant(t *testing.T) {
	store := new(mockUserStore)
	svc := newTestService(store, new(mockHasher), new(mockNotifier))

	u := userWithResetGrant()
	u.ResetExpires = i64p(testNow.Add(-time.Minute).UnixMilli())
	store.On("Find", mock.Anything, mock.Anything).Return([]domain.User{u}, nil)

	_, err := svc.CheckResetTokenValid(context.Background(), "long-reset-token")
	assert.ErrorIs(t, err, domain.ErrExpired)
	store.AssertNotCalled(t, "Patch")
}
