package domain

import "time"

// User is the record this service reads and mutates in the external store.
// Token and expiry fields are pointers: nil means the field is cleared, so a
// cleared token can never match an equality lookup. Expiries are Unix
// milliseconds.
type User struct {
	UserID           string     `json:"id" dynamodbav:"user_id"`
	Username         string     `json:"username" dynamodbav:"username"`
	Email            string     `json:"email" dynamodbav:"email"`
	Phone            *string    `json:"phone" dynamodbav:"phone"`
	PasswordHash     string     `json:"-" dynamodbav:"password_hash"`
	IsVerified       bool       `json:"isVerified" dynamodbav:"is_verified"`
	VerifyToken      *string    `json:"-" dynamodbav:"verify_token"`
	VerifyShortToken *string    `json:"-" dynamodbav:"verify_short_token"`
	VerifyExpires    *int64     `json:"-" dynamodbav:"verify_expires"`
	ResetToken       *string    `json:"-" dynamodbav:"reset_token"`
	ResetShortToken  *string    `json:"-" dynamodbav:"reset_short_token"`
	ResetExpires     *int64     `json:"-" dynamodbav:"reset_expires"`
	Enable           int        `json:"enable" dynamodbav:"enable"`
	DeletedAt        *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt        time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt        time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// SafeUser is the client view of a user: no password hash and no token or
// expiry fields.
type SafeUser struct {
	UserID     string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Phone      *string   `json:"phone"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"created"`
	UpdatedAt  time.Time `json:"updated"`
}

// Sanitize returns the client-safe view of u.
func Sanitize(u *User) *SafeUser {
	return &SafeUser{
		UserID:     u.UserID,
		Username:   u.Username,
		Email:      u.Email,
		Phone:      u.Phone,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// SanitizeForNotifier copies u with the password hash stripped. The notifier
// keeps the token fields so it can embed them in the outgoing message.
func SanitizeForNotifier(u *User) *User {
	nu := *u
	nu.PasswordHash = ""
	return &nu
}

// NotifierOptions is the caller-supplied transport hint forwarded to the
// notifier untouched.
type NotifierOptions struct {
	Transport string `json:"transport,omitempty"`
}

// Notifier transports.
const (
	TransportEmail = "email"
	TransportSMS   = "sms"
)
