package auth

import (
	"github.com/golang-jwt/jwt/v5"

	appAuth "github.com/rcarvalho-pb/debt_payment-go/internal/application/auth"
)

// Claims follows the Keycloak access token layout so local and Keycloak
// tokens are read the same way.
type Claims struct {
	jwt.RegisteredClaims
	PreferredUsername string      `json:"preferred_username,omitempty"`
	RealmAccess       RealmAccess `json:"realm_access"`
}

type RealmAccess struct {
	Roles []string `json:"roles"`
}

func (c *Claims) principal() *appAuth.Principal {
	p := &appAuth.Principal{
		Subject: c.PreferredUsername,
		Roles:   c.RealmAccess.Roles,
	}
	if p.Subject == "" {
		p.Subject = c.Subject
	}
	if c.ExpiresAt != nil {
		p.ExpiresAt = c.ExpiresAt.Time
	}
	return p
}
