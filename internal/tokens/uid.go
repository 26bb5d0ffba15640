package tokens

import (
	"encoding/base64"

	"github.com/google/uuid"
)

// EncodeUID renders a user identifier in the URL-safe base64 form
// carried by reset links.
func EncodeUID(userID uuid.UUID) string {
	return base64.RawURLEncoding.EncodeToString([]byte(userID.String()))
}

// DecodeUID reverses EncodeUID.
func DecodeUID(uid string) (uuid.UUID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(string(raw))
}
