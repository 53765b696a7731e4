package pagination_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/corebooks/corebooks_backend/internal/utils/pagination"
)

func TestTokenRoundtrip(t *testing.T) {
	entryDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2026, 3, 15, 14, 22, 31, 123456789, time.UTC)

	token := pagination.EncodeToken(entryDate, createdAt)
	assert.NotEmpty(t, token)

	gotDate, gotCreated, err := pagination.DecodeToken(token)
	assert.NoError(t, err)
	assert.True(t, entryDate.Equal(gotDate))
	assert.True(t, createdAt.Equal(gotCreated))
}

func TestDecodeToken_Invalid(t *testing.T) {
	_, _, err := pagination.DecodeToken("not-base64!!!")
	assert.Error(t, err)

	// Valid base64, wrong payload shape.
	_, _, err = pagination.DecodeToken("aGVsbG8=")
	assert.Error(t, err)
}
