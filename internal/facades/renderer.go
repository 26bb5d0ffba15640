package facades

import (
	"strings"
	"text/template"
)

// ResetEmailData is the context rendered into the password-reset email.
type ResetEmailData struct {
	Email    string // Recipient address
	Domain   string // Site domain used in the reset link
	SiteName string // Display name of the site
	UID      string // URL-safe base64 user identifier
	Token    string // Single-use reset token
	Protocol string // http or https
}

const resetEmailTemplate = `You're receiving this email because you requested a password reset for your user account ({{.Email}}) at {{.SiteName}}.

Please go to the following page and choose a new password:

{{.Protocol}}://{{.Domain}}/reset/{{.UID}}/{{.Token}}/

If you didn't request this, you can safely ignore this email.

The {{.SiteName}} team
`

// ResetEmailRenderer renders the password-reset email document.
type ResetEmailRenderer struct {
	tmpl *template.Template
}

// NewResetEmailRenderer creates a renderer with the built-in template.
func NewResetEmailRenderer() *ResetEmailRenderer {
	return &ResetEmailRenderer{
		tmpl: template.Must(template.New("reset-email").Parse(resetEmailTemplate)),
	}
}

// RenderResetEmail produces the email body for the given context.
func (r *ResetEmailRenderer) RenderResetEmail(data ResetEmailData) (string, error) {
	var sb strings.Builder
	if err := r.tmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
