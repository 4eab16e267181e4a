package clients

import (
	"strings"
	"time"
)

// UnknownName is the sentinel stored for clients who have not told us
// their name yet.
const UnknownName = "Nome não informado"

// Client is a person identified by their phone number.
type Client struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nome"`
	Number    string    `json:"numero"`
	CreatedAt time.Time `json:"criado_em"`
}

// HasName reports whether the client has provided a real name.
func (c *Client) HasName() bool {
	return c.Name != "" && c.Name != UnknownName
}

// NormalizeContact strips everything but digits from a raw contact
// string. The result is the canonical caller identity.
func NormalizeContact(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return digits.String()
}
