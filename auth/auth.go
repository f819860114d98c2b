package auth

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// PasswordCred holds credentials for the gateway's resource-owner password
// flow and caches the resulting bearer token until it expires.
type PasswordCred struct {
	conf     oauth2.Config
	username string
	password string
	token    *oauth2.Token
}

// NewPasswordCred creates a credential holder from the configuration. No
// network call happens until a token is first needed.
func NewPasswordCred(conf Conf) *PasswordCred {
	return &PasswordCred{
		conf:     conf.toOauth2Config(),
		username: conf.Username,
		password: conf.Password,
	}
}

// GetToken retrieves a valid access token, requesting a new one from the
// token endpoint when the cached token is missing or expired.
func (c *PasswordCred) GetToken(ctx context.Context) (string, error) {
	if c.token != nil && c.token.Valid() {
		return c.token.AccessToken, nil
	}
	if err := c.getToken(ctx); err != nil {
		return "", err
	}
	return c.token.AccessToken, nil
}

func (c *PasswordCred) getToken(ctx context.Context) error {
	tok, err := c.conf.PasswordCredentialsToken(ctx, c.username, c.password)
	if err != nil {
		return fmt.Errorf("failed to get token: %w", err)
	}
	c.token = tok
	return nil
}

// ForceRefresh discards the cached token and requests a new one.
func (c *PasswordCred) ForceRefresh(ctx context.Context) (string, error) {
	if err := c.getToken(ctx); err != nil {
		return "", err
	}
	return c.token.AccessToken, nil
}

// SetAuthHeader sets the bearer token on the outgoing request, fetching a
// token first when needed.
func (c *PasswordCred) SetAuthHeader(r *http.Request) error {
	if c.token != nil && c.token.Valid() {
		c.token.SetAuthHeader(r)
		return nil
	}
	if err := c.getToken(r.Context()); err != nil {
		return err
	}
	c.token.SetAuthHeader(r)
	return nil
}
