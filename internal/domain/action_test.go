package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAction_CanonicalNames(t *testing.T) {
	a, ok := NormalizeAction("resetPwdShort")
	assert.True(t, ok)
	assert.Equal(t, ActionResetPwdShort, a)
}

func TestNormalizeAction_LegacyAliases(t *testing.T) {
	cases := map[string]Action{
		"unique":       ActionCheckUnique,
		"resend":       ActionResendVerifySignup,
		"resendVerify": ActionResendVerifySignup,
		"verify":       ActionVerifySignupLong,
		"forgot":       ActionSendResetPwd,
		"reset":        ActionResetPwdLong,
		"password":     ActionPasswordChange,
		"email":        ActionEmailChange,
	}
	for name, want := range cases {
		a, ok := NormalizeAction(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, a, name)
	}
}

func TestNormalizeAction_UnknownName(t *testing.T) {
	_, ok := NormalizeAction("selfDestruct")
	assert.False(t, ok)
}

func TestRequiresAuth(t *testing.T) {
	assert.True(t, ActionPasswordChange.RequiresAuth())
	assert.True(t, ActionEmailChange.RequiresAuth())
	assert.False(t, ActionVerifySignupLong.RequiresAuth())
	assert.False(t, ActionCheckUnique.RequiresAuth())
}
