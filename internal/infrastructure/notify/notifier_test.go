package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-verify-reset/internal/domain"
)

type fakeMailer struct {
	to, subject, body string
	err               error
}

func (f *fakeMailer) SendEmail(to, subject, body string) error {
	f.to, f.subject, f.body = to, subject, body
	return f.err
}

type fakeSMS struct {
	to, message string
	err         error
}

func (f *fakeSMS) SendSMS(_ context.Context, to, message string) error {
	f.to, f.message = to, message
	return f.err
}

func strp(s string) *string { return &s }

func TestNotify_VerifyEmailEmbedsTokens(t *testing.T) {
	mailer := &fakeMailer{}
	n := New(mailer, &fakeSMS{}, "https://app.example.com")

	u := &domain.User{
		Email:            "jane@example.com",
		VerifyToken:      strp("long-token"),
		VerifyShortToken: strp("123456"),
	}
	err := n.Notify(context.Background(), domain.NotifyResendVerifySignup, u, domain.NotifierOptions{}, "")
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", mailer.to)
	assert.Contains(t, mailer.body, "https://app.example.com/verify?token=long-token")
	assert.Contains(t, mailer.body, "123456")
}

func TestNotify_SMSTransport(t *testing.T) {
	sms := &fakeSMS{}
	n := New(&fakeMailer{}, sms, "https://app.example.com")

	u := &domain.User{
		Email:           "jane@example.com",
		Phone:           strp("+15550100"),
		ResetToken:      strp("reset-long"),
		ResetShortToken: strp("654321"),
	}
	err := n.Notify(context.Background(), domain.NotifySendResetPwd, u, domain.NotifierOptions{Transport: domain.TransportSMS}, "")
	require.NoError(t, err)

	assert.Equal(t, "+15550100", sms.to)
	assert.Contains(t, sms.message, "654321")
}

func TestNotify_SMSWithoutPhone(t *testing.T) {
	n := New(&fakeMailer{}, &fakeSMS{}, "https://app.example.com")

	u := &domain.User{Email: "jane@example.com"}
	err := n.Notify(context.Background(), domain.NotifySendResetPwd, u, domain.NotifierOptions{Transport: domain.TransportSMS}, "")
	assert.ErrorIs(t, err, domain.ErrNotifierFailure)
}

func TestNotify_EmailChangeGoesToOldAddress(t *testing.T) {
	mailer := &fakeMailer{}
	n := New(mailer, &fakeSMS{}, "https://app.example.com")

	u := &domain.User{Email: "old@example.com"}
	err := n.Notify(context.Background(), domain.NotifyEmailChange, u, domain.NotifierOptions{}, "new@example.com")
	require.NoError(t, err)

	assert.Equal(t, "old@example.com", mailer.to)
	assert.Contains(t, mailer.body, "new@example.com")
}

func TestNotify_MailerFailure(t *testing.T) {
	n := New(&fakeMailer{err: assert.AnError}, &fakeSMS{}, "https://app.example.com")

	u := &domain.User{Email: "jane@example.com"}
	err := n.Notify(context.Background(), domain.NotifyVerifySignup, u, domain.NotifierOptions{}, "")
	assert.ErrorIs(t, err, domain.ErrNotifierFailure)
}
