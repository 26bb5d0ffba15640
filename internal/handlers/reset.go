package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mkorolev87/simple-auth/internal/logger"
	"github.com/mkorolev87/simple-auth/internal/models"
	"github.com/mkorolev87/simple-auth/internal/services"
	"github.com/mkorolev87/simple-auth/internal/tokens"
)

// ResetRequester defines the interface that the password-reset service must implement.
type ResetRequester interface {
	RequestReset(ctx context.Context, email string) error
}

// UserGetter looks up a user record by id.
type UserGetter interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
}

// ResetTokenChecker verifies a reset token against a user record.
type ResetTokenChecker interface {
	Check(user *models.UserDB, token string) bool
}

// PasswordResetRequest represents the JSON body for a reset request
// swagger:model PasswordResetRequest
type PasswordResetRequest struct {
	// Email of the account to reset
	// required: true
	// default: alice@example.com
	Email string `json:"email"`
}

// PasswordResetResponse represents a successful reset-request response
// swagger:model PasswordResetResponse
type PasswordResetResponse struct {
	// Message
	// default: Password reset email has been sent.
	Message string `json:"message"`

	// Where the client should go next
	// default: /password-reset/done/
	Redirect string `json:"redirect"`
}

// PasswordResetErrorResponse represents an error response for a reset request
// swagger:model PasswordResetErrorResponse
type PasswordResetErrorResponse struct {
	// Error message
	// default: No such user associated with the email provided.
	Error string `json:"error"`
}

// ResetConfirmResponse reports whether a reset link is usable
// swagger:model ResetConfirmResponse
type ResetConfirmResponse struct {
	// Whether the link's uid and token verify
	Valid bool `json:"valid"`

	// Message
	Message string `json:"message,omitempty"`

	// Error message, when the link is not usable
	Error string `json:"error,omitempty"`
}

// NewPasswordResetHandler returns an HTTP handler for reset requests.
// @Summary Request a password reset
// @Description Validates the email, looks up the account and dispatches a reset email. Unknown accounts get a distinct error message.
// @Tags auth
// @Accept json
// @Produce json
// @Param passwordResetRequest body handlers.PasswordResetRequest true "Reset Request"
// @Success 200 {object} handlers.PasswordResetResponse "Reset email dispatched"
// @Failure 400 {object} handlers.PasswordResetErrorResponse "Invalid form, unknown account or bad mail header"
// @Router /password-reset/ [post]
func NewPasswordResetHandler(svc ResetRequester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PasswordResetRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(PasswordResetErrorResponse{
				Error: "invalid request body",
			})
			return
		}

		if err := svc.RequestReset(r.Context(), req.Email); err != nil {
			switch {
			case errors.Is(err, services.ErrFormInvalid):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(PasswordResetErrorResponse{
					Error: "Error validating form.",
				})
			case errors.Is(err, services.ErrNoSuchUser):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(PasswordResetErrorResponse{
					Error: "No such user associated with the email provided.",
				})
			case errors.Is(err, services.ErrInvalidMailHeader):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(PasswordResetErrorResponse{
					Error: "Invalid header found.",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(PasswordResetErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(PasswordResetResponse{
			Message:  "Password reset email has been sent.",
			Redirect: "/password-reset/done/",
		})
	}
}

// NewPasswordResetDoneHandler returns the static confirmation display.
// @Summary Reset-request confirmation
// @Tags auth
// @Produce json
// @Success 200 {object} handlers.PasswordResetResponse
// @Router /password-reset/done/ [get]
func NewPasswordResetDoneHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(PasswordResetResponse{
			Message: "We have emailed you instructions for setting your password. You should receive them shortly.",
		})
	}
}

// NewResetConfirmHandler returns the reset-link entry point. It reports
// whether the link's uid and token verify; setting the new password
// happens elsewhere.
// @Summary Reset link entry point
// @Tags auth
// @Produce json
// @Param uid path string true "URL-safe base64 user id"
// @Param token path string true "Reset token"
// @Success 200 {object} handlers.ResetConfirmResponse "Link is usable"
// @Failure 400 {object} handlers.ResetConfirmResponse "Link is invalid or expired"
// @Router /reset/{uid}/{token}/ [get]
func NewResetConfirmHandler(users UserGetter, checker ResetTokenChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := chi.URLParam(r, "uid")
		token := chi.URLParam(r, "token")

		userID, err := tokens.DecodeUID(uid)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ResetConfirmResponse{
				Valid: false,
				Error: "The reset link is invalid or has expired.",
			})
			return
		}

		user, err := users.GetByID(r.Context(), userID)
		if err != nil {
			logger.Log.Errorw("failed to look up user for reset link", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ResetConfirmResponse{
				Valid: false,
				Error: "Internal server error",
			})
			return
		}

		if user == nil || !checker.Check(user, token) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ResetConfirmResponse{
				Valid: false,
				Error: "The reset link is invalid or has expired.",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ResetConfirmResponse{
			Valid:   true,
			Message: "Please enter your new password.",
		})
	}
}
