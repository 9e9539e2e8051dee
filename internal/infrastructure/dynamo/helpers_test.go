package dynamo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travel-atlas/internal/domain"
)

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"otp_code": "123456"})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", ue.Expr)
	assert.Equal(t, map[string]string{"#f0": "otp_code"}, ue.Names)
	_, ok := ue.Values[":v0"]
	assert.True(t, ok)
}

func TestBuildUpdateExpr_MultipleFields_Deterministic(t *testing.T) {
	updates := map[string]interface{}{
		"otp_expires_at": "2026-01-01T00:00:00Z",
		"email_verified": false,
		"otp_code":       "123456",
	}
	// Call twice to verify determinism.
	ue1, err := buildUpdateExpr(updates)
	require.NoError(t, err)
	ue2, err := buildUpdateExpr(updates)
	require.NoError(t, err)

	assert.Equal(t, ue1.Expr, ue2.Expr)

	// Keys must be sorted: email_verified < otp_code < otp_expires_at
	assert.Equal(t, "email_verified", ue1.Names["#f0"])
	assert.Equal(t, "otp_code", ue1.Names["#f1"])
	assert.Equal(t, "otp_expires_at", ue1.Names["#f2"])
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", ue1.Expr)
}

func TestBuildUpdateExpr_NilValuesAreRemoved(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{
		"email_verified": true,
		"otp_code":       nil,
		"otp_expires_at": nil,
	})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0 REMOVE #f1, #f2", ue.Expr)
	assert.Len(t, ue.Values, 1)
	assert.Equal(t, "otp_code", ue.Names["#f1"])
}

func TestBuildUpdateExpr_OnlyRemovals(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"otp_code": nil})
	require.NoError(t, err)
	assert.Equal(t, "REMOVE #f0", ue.Expr)
	assert.Nil(t, ue.Values)
}

func TestBuildUpdateExpr_ValuesMarshalledCorrectly(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"enable": true})
	require.NoError(t, err)
	av, ok := ue.Values[":v0"]
	require.True(t, ok)
	boolVal, isBool := av.(*types.AttributeValueMemberBOOL)
	require.True(t, isBool)
	assert.True(t, boolVal.Value)
}

func TestBuildUpdateExpr_EmptyMap_ReturnsError(t *testing.T) {
	_, err := buildUpdateExpr(map[string]interface{}{})
	assert.ErrorContains(t, err, "no fields to update")
}

func TestWithCondition_MergesNamesAndValues(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"email_verified": true})
	require.NoError(t, err)
	cond, err := ue.withCondition(map[string]interface{}{"otp_code": "654321"})
	require.NoError(t, err)

	assert.Equal(t, "#c0 = :c0", cond)
	assert.Equal(t, "otp_code", ue.Names["#c0"])
	assert.Equal(t, "email_verified", ue.Names["#f0"])
	s, ok := ue.Values[":c0"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "654321", s.Value)
}

func TestWithCondition_OnRemoveOnlyExpression(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"otp_code": nil})
	require.NoError(t, err)
	cond, err := ue.withCondition(map[string]interface{}{"email_verified": false, "account_id": "a1"})
	require.NoError(t, err)
	assert.Equal(t, "#c0 = :c0 AND #c1 = :c1", cond)
	assert.Len(t, ue.Values, 2)
}

func TestConditionFailed(t *testing.T) {
	err := conditionFailed(fmt.Errorf("op: %w", &types.ConditionalCheckFailedException{}))
	assert.True(t, errors.Is(err, domain.ErrConflict))

	other := errors.New("throttled")
	assert.Equal(t, other, conditionFailed(other))
	assert.NoError(t, conditionFailed(nil))
}
