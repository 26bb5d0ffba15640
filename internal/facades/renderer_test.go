package facades

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResetEmailRenderer_RenderResetEmail(t *testing.T) {
	r := NewResetEmailRenderer()

	body, err := r.RenderResetEmail(ResetEmailData{
		Email:    "alice@example.com",
		Domain:   "auth.example.com",
		SiteName: "SimpleAuthentication",
		UID:      "dXNlci1pZA",
		Token:    "abc123-deadbeef",
		Protocol: "https",
	})
	assert.NoError(t, err)
	assert.Contains(t, body, "alice@example.com")
	assert.Contains(t, body, "SimpleAuthentication")
	assert.Contains(t, body, "https://auth.example.com/reset/dXNlci1pZA/abc123-deadbeef/")
}
