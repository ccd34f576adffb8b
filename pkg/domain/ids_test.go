package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "strive/pkg/domain-errors"
)

func TestParseIDInvariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseUserID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseGoalID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseCommunityID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("accepts and round-trips a valid UUID", func(t *testing.T) {
		raw := uuid.New()
		parsed, err := ParsePostID(raw.String())
		require.NoError(t, err)
		assert.Equal(t, raw.String(), parsed.String())
	})
}

func TestNewIDsAreDistinct(t *testing.T) {
	assert.NotEqual(t, NewUserID(), NewUserID())
	assert.False(t, NewCollectionID().IsNil())
}

func TestIDJSONRoundTrip(t *testing.T) {
	original := NewCommentID()

	encoded, err := json.Marshal(original)
	require.NoError(t, err)
	assert.JSONEq(t, `"`+original.String()+`"`, string(encoded))

	var decoded CommentID
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, original, decoded)
}

func TestIDJSONRejectsGarbage(t *testing.T) {
	var decoded UserID
	assert.Error(t, json.Unmarshal([]byte(`"nope"`), &decoded))
}

func FuzzParseUserID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")
	f.Add("550e8400-e29b-41d4-a716-446655440000\x00suffix")

	f.Fuzz(func(t *testing.T, input string) {
		parsed, err := ParseUserID(input)
		if err != nil {
			return
		}
		// A successfully parsed ID must round-trip through its string form.
		roundTrip, err := ParseUserID(parsed.String())
		if err != nil {
			t.Errorf("valid id failed round-trip: %v", err)
		}
		if roundTrip != parsed {
			t.Error("round-trip changed the id value")
		}
	})
}
