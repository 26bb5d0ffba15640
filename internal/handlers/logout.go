package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mkorolev87/simple-auth/internal/logger"
)

// SessionTerminator defines the interface that the logout service must implement.
type SessionTerminator interface {
	Terminate(ctx context.Context, token string) error
}

// TokenExtractor pulls the session token out of the request, if present.
type TokenExtractor interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
}

// LogoutResponse represents a logout response
// swagger:model LogoutResponse
type LogoutResponse struct {
	// Message
	// default: Logged out.
	Message string `json:"message"`

	// Where the client should go next
	// default: /login/
	Redirect string `json:"redirect"`
}

// NewLogoutHandler returns an HTTP handler for user logout. Logout has
// no precondition: a request without a session, or with an already
// terminated one, succeeds the same way.
// @Summary User logout
// @Description Terminates the current session unconditionally and points the client at the login page
// @Tags auth
// @Produce json
// @Success 200 {object} handlers.LogoutResponse "Session terminated"
// @Router /logout/ [post]
func NewLogoutHandler(svc SessionTerminator, extractor TokenExtractor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		// A missing or malformed token means there is nothing to
		// terminate; logout still succeeds.
		token, err := extractor.GetTokenFromRequest(ctx, r)
		if err != nil {
			token = ""
		}

		if err := svc.Terminate(ctx, token); err != nil {
			logger.Log.Errorw("failed to terminate session", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(LogoutResponse{
				Message: "Internal server error",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(LogoutResponse{
			Message:  "Logged out.",
			Redirect: "/login/",
		})
	}
}
