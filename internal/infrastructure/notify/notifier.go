package notify

import (
	"context"
	"fmt"

	"github.com/go-verify-reset/internal/domain"
	"github.com/go-verify-reset/internal/infrastructure/smtp"
	"github.com/go-verify-reset/internal/infrastructure/sns"
)

// Notifier formats per-action messages and delivers them over email or SMS,
// depending on the caller-supplied transport hint. The user snapshot it
// receives is already password-stripped but still carries the token fields,
// which the messages embed.
type Notifier struct {
	mailer  smtp.Mailer
	sms     sns.SMSSender
	baseURL string
}

func New(mailer smtp.Mailer, sms sns.SMSSender, baseURL string) *Notifier {
	return &Notifier{mailer: mailer, sms: sms, baseURL: baseURL}
}

// Notify delivers the message for action. newEmail is only set for
// emailChange and addresses the message to the old address.
func (n *Notifier) Notify(ctx context.Context, action string, user *domain.User, opts domain.NotifierOptions, newEmail string) error {
	subject, body := n.compose(action, user, newEmail)

	if opts.Transport == domain.TransportSMS {
		if user.Phone == nil || *user.Phone == "" {
			return fmt.Errorf("no phone number on account for sms notification: %w", domain.ErrNotifierFailure)
		}
		if err := n.sms.SendSMS(ctx, *user.Phone, body); err != nil {
			return fmt.Errorf("send sms for %s: %v: %w", action, err, domain.ErrNotifierFailure)
		}
		return nil
	}

	if err := n.mailer.SendEmail(user.Email, subject, body); err != nil {
		return fmt.Errorf("send email for %s: %v: %w", action, err, domain.ErrNotifierFailure)
	}
	return nil
}

func (n *Notifier) compose(action string, user *domain.User, newEmail string) (subject, body string) {
	switch action {
	case domain.NotifyResendVerifySignup:
		subject = "Verify your account"
		body = fmt.Sprintf("Confirm your account: %s/verify?token=%s\nOr enter this code: %s",
			n.baseURL, strv(user.VerifyToken), strv(user.VerifyShortToken))
	case domain.NotifyVerifySignup:
		subject = "Account verified"
		body = "Your account has been verified."
	case domain.NotifySendResetPwd:
		subject = "Password reset requested"
		body = fmt.Sprintf("Reset your password: %s/reset?token=%s\nOr enter this code: %s",
			n.baseURL, strv(user.ResetToken), strv(user.ResetShortToken))
	case domain.NotifyResetPwd:
		subject = "Password reset"
		body = "Your password has been reset."
	case domain.NotifyPasswordChange:
		subject = "Password changed"
		body = "Your password has been changed."
	case domain.NotifyEmailChange:
		subject = "Email address change"
		body = fmt.Sprintf("The email on your account is being changed to %s.", newEmail)
	default:
		subject = "Account notification"
		body = "There has been activity on your account."
	}
	return subject, body
}

func strv(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
