package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinefuse/cinefuse/pkg/models"
)

func TestSchemaValidator_ColdStartRequest(t *testing.T) {
	sv, err := NewSchemaValidator()
	require.NoError(t, err)

	t.Run("accepts a seeded request", func(t *testing.T) {
		result := sv.ValidateColdStartRequest(`{
			"ratings": [
				{"movie_id": 318, "rating": 5},
				{"movie_id": 296, "rating": 4.5}
			],
			"count": 10
		}`)
		assert.True(t, result.Valid, "errors: %v", result.Errors)
	})

	t.Run("accepts a request without seeds", func(t *testing.T) {
		result := sv.ValidateColdStartRequest(`{"count": 10}`)
		assert.True(t, result.Valid)
	})

	t.Run("rejects out-of-range ratings", func(t *testing.T) {
		result := sv.ValidateColdStartRequest(`{
			"ratings": [{"movie_id": 318, "rating": 6}],
			"count": 10
		}`)
		assert.False(t, result.Valid)
		require.NotEmpty(t, result.Errors)
		assert.Contains(t, result.Errors[0].Field, "rating")
	})

	t.Run("rejects a missing count", func(t *testing.T) {
		result := sv.ValidateColdStartRequest(`{"ratings": []}`)
		assert.False(t, result.Valid)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		result := sv.ValidateColdStartRequest(`{"count": 10, "limit": 5}`)
		assert.False(t, result.Valid)
	})

	t.Run("error envelope groups messages by field", func(t *testing.T) {
		result := sv.ValidateColdStartRequest(`{"count": 0}`)
		require.False(t, result.Valid)

		apiErr := result.ToAPIError()
		require.NotNil(t, apiErr)
		assert.Contains(t, apiErr, "error")
	})

	t.Run("valid result has no API error", func(t *testing.T) {
		result := sv.ValidateColdStartRequest(`{"count": 1}`)
		require.True(t, result.Valid)
		assert.Nil(t, result.ToAPIError())
	})
}

func TestSchemaValidator_ValidateStruct(t *testing.T) {
	sv, err := NewSchemaValidator()
	require.NoError(t, err)

	t.Run("bound request with valid tags passes", func(t *testing.T) {
		req := models.ColdStartRequest{
			Ratings: []models.InitialRating{{MovieID: 318, Rating: 4.0}},
			Count:   10,
		}
		assert.True(t, sv.ValidateStruct(&req).Valid)
	})

	t.Run("nested seed violations surface with their path", func(t *testing.T) {
		req := models.ColdStartRequest{
			Ratings: []models.InitialRating{{MovieID: 318, Rating: 0.1}},
			Count:   10,
		}
		result := sv.ValidateStruct(&req)
		require.False(t, result.Valid)
		assert.Contains(t, result.Errors[0].Field, "Rating")
	})

	t.Run("count bounds are enforced", func(t *testing.T) {
		req := models.ColdStartRequest{Count: 0}
		assert.False(t, sv.ValidateStruct(&req).Valid)
	})
}
