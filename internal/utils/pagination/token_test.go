package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	// Test case 1: Standard timestamp and id
	createdAt := time.Date(2024, 5, 15, 14, 30, 45, 123456789, time.UTC)
	token := EncodeToken(createdAt, "txn-123")
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedAt, decodedID, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, createdAt, decodedAt, "Created at time should match after decode")
	assert.Equal(t, "txn-123", decodedID, "Row id should match after decode")

	// Test case 2: Id containing the separator character
	token = EncodeToken(createdAt, "a|b|c")
	_, decodedID, err = DecodeToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "a|b|c", decodedID, "Separator inside the id must survive the round trip")

	// Test case 3: Current time values
	now := time.Now().UTC()
	nowToken := EncodeToken(now, "id")
	decodedNow, _, err := DecodeToken(nowToken)
	assert.NoError(t, err, "Decoding current time should not return an error")
	assert.True(t, now.Equal(decodedNow), "Current time should match after decode")
}

func TestDecodeTokenError(t *testing.T) {
	// Test invalid base64
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	// Test invalid format (missing separator)
	invalidToken := "MjAyMy0wNS0xNVQwMDowMDowMFo=" // Base64 encoded timestamp without separator
	_, _, err = DecodeToken(invalidToken)
	assert.Error(t, err, "Should return an error for invalid token format")
	assert.Contains(t, err.Error(), "split", "Error should mention splitting issue")

	// Test invalid timestamp
	invalidTimeToken := "bm90YWRhdGV8dHhuLTEyMw==" // Base64 encoded "notadate|txn-123"
	_, _, err = DecodeToken(invalidTimeToken)
	assert.Error(t, err, "Should return an error for invalid timestamp")
	assert.Contains(t, err.Error(), "created_at parse", "Error should mention timestamp parsing issue")
}
