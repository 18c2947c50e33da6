package domain

// Action identifies one dispatchable workflow operation. The set is closed;
// legacy names are resolved to it once, at the boundary, by NormalizeAction.
type Action string

const (
	ActionCheckUnique          Action = "checkUnique"
	ActionResendVerifySignup   Action = "resendVerifySignup"
	ActionVerifySignupLong     Action = "verifySignupLong"
	ActionVerifySignupShort    Action = "verifySignupShort"
	ActionSendResetPwd         Action = "sendResetPwd"
	ActionResetPwdLong         Action = "resetPwdLong"
	ActionResetPwdShort        Action = "resetPwdShort"
	ActionCheckResetTokenValid Action = "checkResetLongTokenValid"
	ActionPasswordChange       Action = "passwordChange"
	ActionEmailChange          Action = "emailChange"
)

// Legacy action names kept for backwards compatibility with older clients.
var actionAliases = map[string]Action{
	"unique":       ActionCheckUnique,
	"resend":       ActionResendVerifySignup,
	"resendVerify": ActionResendVerifySignup,
	"verify":       ActionVerifySignupLong,
	"forgot":       ActionSendResetPwd,
	"reset":        ActionResetPwdLong,
	"password":     ActionPasswordChange,
	"email":        ActionEmailChange,
}

var knownActions = map[Action]struct{}{
	ActionCheckUnique:          {},
	ActionResendVerifySignup:   {},
	ActionVerifySignupLong:     {},
	ActionVerifySignupShort:    {},
	ActionSendResetPwd:         {},
	ActionResetPwdLong:         {},
	ActionResetPwdShort:        {},
	ActionCheckResetTokenValid: {},
	ActionPasswordChange:       {},
	ActionEmailChange:          {},
}

// NormalizeAction resolves name, including legacy aliases, to its canonical
// Action. ok is false for unknown names.
func NormalizeAction(name string) (Action, bool) {
	if a, ok := actionAliases[name]; ok {
		return a, true
	}
	a := Action(name)
	_, ok := knownActions[a]
	return a, ok
}

// RequiresAuth reports whether the action may only be dispatched for an
// authenticated caller.
func (a Action) RequiresAuth() bool {
	return a == ActionPasswordChange || a == ActionEmailChange
}

// Notification action tags passed to the notifier. Long and short token
// variants of an operation share one tag.
const (
	NotifyResendVerifySignup = "resendVerifySignup"
	NotifyVerifySignup       = "verifySignup"
	NotifySendResetPwd       = "sendResetPwd"
	NotifyResetPwd           = "resetPwd"
	NotifyPasswordChange     = "passwordChange"
	NotifyEmailChange        = "emailChange"
)
