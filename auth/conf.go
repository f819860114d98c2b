package auth

import "golang.org/x/oauth2"

// Conf represents the configuration needed for authentication against the
// roster gateway's token endpoint.
type Conf struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TokenURL string `json:"token_url"`
}

func (c *Conf) toOauth2Config() oauth2.Config {
	return oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}
