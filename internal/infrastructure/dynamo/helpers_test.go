package dynamo

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"email": "a@b.com"})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", ue.Expr)
	assert.Equal(t, map[string]string{"#f0": "email"}, ue.Names)
	_, ok := ue.Values[":v0"]
	assert.True(t, ok)
}

func TestBuildUpdateExpr_MultipleFields_Deterministic(t *testing.T) {
	updates := map[string]interface{}{
		"verify_token":       "abc",
		"is_verified":        false,
		"verify_short_token": "123456",
	}
	// Call twice to verify determinism.
	ue1, err := buildUpdateExpr(updates)
	require.NoError(t, err)
	ue2, err := buildUpdateExpr(updates)
	require.NoError(t, err)

	assert.Equal(t, ue1.Expr, ue2.Expr)

	// Keys must be sorted: is_verified < verify_short_token < verify_token
	assert.Equal(t, "is_verified", ue1.Names["#f0"])
	assert.Equal(t, "verify_short_token", ue1.Names["#f1"])
	assert.Equal(t, "verify_token", ue1.Names["#f2"])
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", ue1.Expr)
}

func TestBuildUpdateExpr_NilValueWritesNull(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"verify_token": nil})
	require.NoError(t, err)
	av, ok := ue.Values[":v0"]
	require.True(t, ok)
	nullVal, isNull := av.(*types.AttributeValueMemberNULL)
	require.True(t, isNull)
	assert.True(t, nullVal.Value)
}

func TestBuildUpdateExpr_EmptyMap_ReturnsError(t *testing.T) {
	_, err := buildUpdateExpr(map[string]interface{}{})
	assert.ErrorContains(t, err, "no fields to update")
}

func TestBuildFilterExpr_MultipleFields(t *testing.T) {
	fe, err := buildFilterExpr(map[string]string{
		"verify_short_token": "123456",
		"email":              "a@b.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "#q0 = :q0 AND #q1 = :q1", fe.Expr)
	assert.Equal(t, "email", fe.Names["#q0"])
	assert.Equal(t, "verify_short_token", fe.Names["#q1"])

	v, ok := fe.Values[":q0"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "a@b.com", v.Value)
}

func TestBuildFilterExpr_EmptyQuery_ReturnsError(t *testing.T) {
	_, err := buildFilterExpr(map[string]string{})
	assert.ErrorContains(t, err, "empty query")
}
