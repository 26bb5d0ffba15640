package jwt

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestJWT_GenerateAndGetUserID(t *testing.T) {
	j := New("test_secret")
	userID := uuid.New()
	ctx := context.Background()

	token, err := j.Generate(ctx, userID, time.Hour)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	parsedID, err := j.GetUserID(ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, userID, parsedID)
}

func TestJWT_Generate_NoExpiry(t *testing.T) {
	j := New("test_secret")
	userID := uuid.New()
	ctx := context.Background()

	// ttl=0 issues a token without exp; it must still parse as valid
	token, err := j.Generate(ctx, userID, 0)
	assert.NoError(t, err)

	parsedID, err := j.GetUserID(ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, userID, parsedID)
}

func TestJWT_GetUserID_Expired(t *testing.T) {
	j := New("test_secret")
	ctx := context.Background()

	token, err := j.Generate(ctx, uuid.New(), -time.Hour)
	assert.NoError(t, err)

	_, err = j.GetUserID(ctx, token)
	assert.Error(t, err)
}

func TestJWT_GetUserID_WrongSecret(t *testing.T) {
	ctx := context.Background()

	token, err := New("secret_a").Generate(ctx, uuid.New(), time.Hour)
	assert.NoError(t, err)

	_, err = New("secret_b").GetUserID(ctx, token)
	assert.Error(t, err)
}

func TestJWT_GetTokenFromRequest(t *testing.T) {
	j := New("test_secret")
	ctx := context.Background()

	tests := []struct {
		name      string
		header    string
		wantToken string
		wantErr   bool
	}{
		{name: "valid bearer", header: "Bearer sometoken", wantToken: "sometoken"},
		{name: "lowercase bearer", header: "bearer sometoken", wantToken: "sometoken"},
		{name: "missing header", header: "", wantErr: true},
		{name: "wrong scheme", header: "Basic abc", wantErr: true},
		{name: "too many parts", header: "Bearer a b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			token, err := j.GetTokenFromRequest(ctx, req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
			}
		})
	}
}
