package tokens

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/mkorolev87/simple-auth/internal/models"
)

// Generator produces single-use password-reset tokens. A token is a
// deterministic function of the user's id, password hash and date_joined,
// so nothing is persisted: changing the password (or touching the record)
// invalidates every outstanding token for that user.
type Generator struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// New creates a Generator with the given signing secret and token lifetime.
func New(secret string, maxAge time.Duration) *Generator {
	return &Generator{
		secret: []byte(secret),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Make returns a reset token for the user, valid until the generator's
// max age elapses or the user record changes.
func (g *Generator) Make(user *models.UserDB) string {
	ts := strconv.FormatInt(g.now().Unix(), 36)
	return ts + "-" + g.sign(user, ts)
}

// Check reports whether token is a currently valid reset token for user.
func (g *Generator) Check(user *models.UserDB, token string) bool {
	ts, sig, ok := strings.Cut(token, "-")
	if !ok || ts == "" || sig == "" {
		return false
	}

	issued, err := strconv.ParseInt(ts, 36, 64)
	if err != nil {
		return false
	}

	if !hmac.Equal([]byte(sig), []byte(g.sign(user, ts))) {
		return false
	}

	age := g.now().Unix() - issued
	return age >= 0 && age <= int64(g.maxAge.Seconds())
}

// sign binds the timestamp to the user's mutable state. date_joined is
// refreshed on every save, so any write to the record rotates the token.
func (g *Generator) sign(user *models.UserDB, ts string) string {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(ts))
	mac.Write([]byte(":"))
	mac.Write([]byte(user.UserID.String()))
	mac.Write([]byte(":"))
	mac.Write([]byte(user.PasswordHash))
	mac.Write([]byte(":"))
	mac.Write([]byte(user.DateJoined.UTC().Format(time.RFC3339Nano)))

	return hex.EncodeToString(mac.Sum(nil))[:20]
}
