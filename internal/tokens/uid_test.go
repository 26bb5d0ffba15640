package tokens

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeUID(t *testing.T) {
	id := uuid.New()

	uid := EncodeUID(id)
	assert.NotEmpty(t, uid)
	assert.NotContains(t, uid, "=")

	got, err := DecodeUID(uid)
	assert.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestDecodeUID_Invalid(t *testing.T) {
	_, err := DecodeUID("!!!not-base64!!!")
	assert.Error(t, err)

	// Valid base64, but not a uuid underneath
	_, err = DecodeUID("bm90LWEtdXVpZA")
	assert.Error(t, err)
}
