package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mkorolev87/simple-auth/internal/logger"
	"github.com/mkorolev87/simple-auth/internal/models"
)

// TokenIssuer signs session tokens. A zero ttl must yield a token with
// no server-side deadline.
type TokenIssuer interface {
	Generate(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error)
}

// SessionWriter stores and removes server-side session records.
type SessionWriter interface {
	Save(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}

// SessionService establishes and terminates sessions.
type SessionService struct {
	issuer TokenIssuer
	store  SessionWriter
}

// NewSessionService creates a new SessionService instance.
func NewSessionService(issuer TokenIssuer, store SessionWriter) *SessionService {
	return &SessionService{
		issuer: issuer,
		store:  store,
	}
}

// Establish creates a session for an authenticated user. remember=true
// keeps it for 14 days; otherwise it ends with the client's browsing
// context (ExpiresIn 0, no TTL on the record).
func (svc *SessionService) Establish(ctx context.Context, user *models.UserDB, remember bool) (*models.Session, error) {
	expiresIn := models.SessionExpiryBrowser
	if remember {
		expiresIn = models.SessionExpiryRemember
	}
	ttl := time.Duration(expiresIn) * time.Second

	token, err := svc.issuer.Generate(ctx, user.UserID, ttl)
	if err != nil {
		logger.Log.Errorw("failed to generate session token", "user_id", user.UserID, "err", err)
		return nil, err
	}

	if err := svc.store.Save(ctx, token, user.UserID, ttl); err != nil {
		logger.Log.Errorw("failed to store session", "user_id", user.UserID, "err", err)
		return nil, err
	}

	return &models.Session{
		Token:     token,
		UserID:    user.UserID,
		ExpiresIn: expiresIn,
	}, nil
}

// Terminate invalidates the session immediately. Terminating a session
// that no longer exists is not an error.
func (svc *SessionService) Terminate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := svc.store.Delete(ctx, token); err != nil {
		logger.Log.Errorw("failed to delete session", "err", err)
		return err
	}

	return nil
}
