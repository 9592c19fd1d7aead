package auth

import (
	"time"

	"golang.org/x/oauth2"
)

// expirySkew widens the staleness check so a token about to lapse
// mid-request already counts as stale.
const expirySkew = time.Minute

// Credential is the persisted form of an OAuth2 token.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Stale reports whether the access token is expired or within the expiry
// skew of expiring.
func (c *Credential) Stale(now time.Time) bool {
	return !c.ExpiresAt.After(now.Add(expirySkew))
}

func fromToken(token *oauth2.Token) *Credential {
	return &Credential{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}
}
