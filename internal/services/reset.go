package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/mkorolev87/simple-auth/internal/facades"
	"github.com/mkorolev87/simple-auth/internal/logger"
	"github.com/mkorolev87/simple-auth/internal/models"
	"github.com/mkorolev87/simple-auth/internal/tokens"
)

// Error variables
var (
	ErrFormInvalid       = errors.New("error validating form")
	ErrNoSuchUser        = errors.New("no such user associated with the email provided")
	ErrInvalidMailHeader = errors.New("invalid header found")
)

// resetEmailSubject is the subject line of every reset email.
const resetEmailSubject = "Password Reset Requested"

// UserFilterer queries user records by email.
type UserFilterer interface {
	FilterByEmail(ctx context.Context, email string) ([]models.UserDB, error)
}

// ResetTokenMaker produces single-use reset tokens bound to a user.
type ResetTokenMaker interface {
	Make(user *models.UserDB) string
}

// EmailRenderer renders the reset-email document.
type EmailRenderer interface {
	RenderResetEmail(data facades.ResetEmailData) (string, error)
}

// Mailer delivers mail through the transport.
type Mailer interface {
	Send(ctx context.Context, subject, body, from string, to []string) error
}

// SiteConfig is the environment-level context baked into reset links.
type SiteConfig struct {
	FromAddress string // Sender address for outgoing mail
	SiteName    string // Site display name
	Domain      string // Domain used in reset links
	Protocol    string // http or https
}

// PasswordResetService handles reset-request dispatch. Verification and
// consumption of the token happen elsewhere; this flow only issues it.
type PasswordResetService struct {
	users       UserFilterer
	tokens      ResetTokenMaker
	renderer    EmailRenderer
	mailer      Mailer
	kafkaWriter KafkaWriter
	site        SiteConfig
}

// NewPasswordResetService creates a new PasswordResetService instance.
// kafkaWriter may be nil, in which case no events are published.
func NewPasswordResetService(
	users UserFilterer,
	tokenMaker ResetTokenMaker,
	renderer EmailRenderer,
	mailer Mailer,
	kafkaWriter KafkaWriter,
	site SiteConfig,
) *PasswordResetService {
	return &PasswordResetService{
		users:       users,
		tokens:      tokenMaker,
		renderer:    renderer,
		mailer:      mailer,
		kafkaWriter: kafkaWriter,
		site:        site,
	}
}

// RequestReset validates the email, looks up matching user records and
// dispatches a reset email to the first match. On success the flow is
// done regardless of inbox delivery; the transport handoff is the only
// confirmation. No retry on transient transport failure.
func (svc *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		logger.Log.Errorw("reset form invalid", "email", email, "err", err)
		return ErrFormInvalid
	}

	users, err := svc.users.FilterByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to query users for reset", "err", err)
		return err
	}
	if len(users) == 0 {
		// Distinct error, so the response discloses account existence.
		logger.Log.Errorw("no user for reset request", "email", email)
		return ErrNoSuchUser
	}

	// Only the first matching record gets an email.
	for i := range users {
		user := &users[i]

		data := facades.ResetEmailData{
			Email:    user.Email,
			Domain:   svc.site.Domain,
			SiteName: svc.site.SiteName,
			UID:      tokens.EncodeUID(user.UserID),
			Token:    svc.tokens.Make(user),
			Protocol: svc.site.Protocol,
		}

		body, err := svc.renderer.RenderResetEmail(data)
		if err != nil {
			logger.Log.Errorw("failed to render reset email", "err", err)
			return err
		}

		if err := svc.mailer.Send(ctx, resetEmailSubject, body, svc.site.FromAddress, []string{user.Email}); err != nil {
			if errors.Is(err, facades.ErrBadHeader) {
				logger.Log.Errorw("bad mail header", "err", err)
				return fmt.Errorf("%w: %v", ErrInvalidMailHeader, err)
			}
			logger.Log.Errorw("failed to dispatch reset email", "err", err)
			return err
		}

		publishAuthEvent(ctx, svc.kafkaWriter, models.EventPasswordResetRequested, user)

		return nil
	}

	return ErrNoSuchUser
}
