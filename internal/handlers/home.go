package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mkorolev87/simple-auth/internal/logger"
	"github.com/mkorolev87/simple-auth/internal/middlewares"
	"github.com/mkorolev87/simple-auth/internal/models"
)

// HomeResponse represents the authenticated user's profile
// swagger:model HomeResponse
type HomeResponse struct {
	// The authenticated user record
	User *models.UserDB `json:"user"`
}

// HomeErrorResponse represents an error response for the home endpoint
// swagger:model HomeErrorResponse
type HomeErrorResponse struct {
	// Error message
	Error string `json:"error"`
}

// NewHomeHandler returns the home endpoint. It runs behind the auth
// middleware and returns the session's user record.
// @Summary Home
// @Description Returns the authenticated user's profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.HomeResponse
// @Failure 401 {object} handlers.HomeErrorResponse "No authenticated session"
// @Router / [get]
func NewHomeHandler(users UserGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.GetUserIDFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(HomeErrorResponse{
				Error: "authentication required",
			})
			return
		}

		user, err := users.GetByID(r.Context(), userID)
		if err != nil {
			logger.Log.Errorw("failed to load user", "user_id", userID, "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(HomeErrorResponse{
				Error: "Internal server error",
			})
			return
		}
		if user == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(HomeErrorResponse{
				Error: "authentication required",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(HomeResponse{
			User: user,
		})
	}
}
