package dynamo

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdateExpr_ReadFlag(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{fieldIsRead: true})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", ue.Expr)
	assert.Equal(t, map[string]string{"#f0": fieldIsRead}, ue.Names)

	b, ok := ue.Values[":v0"].(*types.AttributeValueMemberBOOL)
	require.True(t, ok)
	assert.True(t, b.Value)
}

func TestBuildUpdateExpr_PlaceholdersFollowSortedKeys(t *testing.T) {
	updates := map[string]interface{}{
		fieldReadAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		fieldIsRead: true,
	}
	first, err := buildUpdateExpr(updates)
	require.NoError(t, err)
	again, err := buildUpdateExpr(updates)
	require.NoError(t, err)

	assert.Equal(t, first.Expr, again.Expr)
	// is_read < read_at
	assert.Equal(t, fieldIsRead, first.Names["#f0"])
	assert.Equal(t, fieldReadAt, first.Names["#f1"])
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1", first.Expr)

	ts, ok := first.Values[":v1"].(*types.AttributeValueMemberS)
	require.True(t, ok, "time.Time marshals as an RFC3339 string")
	assert.Contains(t, ts.Value, "2024-03-01")
}

func TestBuildUpdateExpr_Empty(t *testing.T) {
	_, err := buildUpdateExpr(nil)
	assert.ErrorContains(t, err, "no fields to update")
}

func TestCompositeKey(t *testing.T) {
	key := compositeKey(fieldUserID, "u1", fieldCaseNumber, "2024-001")
	require.Len(t, key, 2)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "u1"}, key[fieldUserID])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "2024-001"}, key[fieldCaseNumber])
}

func TestIsConditionFailed(t *testing.T) {
	wrapped := fmt.Errorf("put favorite: %w", &types.ConditionalCheckFailedException{})
	assert.True(t, isConditionFailed(wrapped))
	assert.False(t, isConditionFailed(errors.New("throttled")))
}
