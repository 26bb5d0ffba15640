package facades

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/mkorolev87/simple-auth/internal/logger"
)

// ErrBadHeader is returned when a header value would be malformed on the
// wire (newline injection or an unparsable address).
var ErrBadHeader = errors.New("invalid header found")

// SMTPMailer delivers mail through an SMTP server. It validates headers
// before handing the message to the transport; everything past the
// handoff is fire-and-forget.
type SMTPMailer struct {
	client *mail.Client
}

// NewSMTPMailer creates a mailer for the given SMTP server. An empty
// username disables authentication.
func NewSMTPMailer(host string, port int, username, password string) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(port),
	}
	if username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(username),
			mail.WithPassword(password),
		)
	}

	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, err
	}

	return &SMTPMailer{client: client}, nil
}

// Send delivers a plain-text message. It fails with ErrBadHeader on
// malformed header values and otherwise reports only transport-level
// handoff errors, not inbox delivery.
func (m *SMTPMailer) Send(ctx context.Context, subject, body, from string, to []string) error {
	if err := checkHeaders(append([]string{subject, from}, to...)...); err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	if err := msg.To(to...); err != nil {
		return fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		logger.Log.Errorw("failed to send mail", "to", to, "error", err)
		return err
	}

	logger.Log.Infow("mail dispatched", "subject", subject, "to", to)
	return nil
}

// checkHeaders rejects values that would break out of their header line.
func checkHeaders(values ...string) error {
	for _, v := range values {
		if strings.ContainsAny(v, "\r\n") {
			return fmt.Errorf("%w: header value contains newline", ErrBadHeader)
		}
	}
	return nil
}
