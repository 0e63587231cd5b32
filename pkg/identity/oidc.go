package identity

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/oauth2"
)

// SSOAuthenticator handles the optional hospital single sign-on flow. It is
// only constructed when OIDC configuration is present.
type SSOAuthenticator struct {
	config *oauth2.Config
	issuer string
}

func NewSSOAuthenticator(issuer, clientID, clientSecret, redirectURL string) (*SSOAuthenticator, error) {
	if issuer == "" || clientID == "" {
		return nil, fmt.Errorf("OIDC configuration incomplete")
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:  fmt.Sprintf("%s/authorize", issuer),
			TokenURL: fmt.Sprintf("%s/token", issuer),
		},
		Scopes: []string{"openid", "profile", "email"},
	}

	return &SSOAuthenticator{
		config: config,
		issuer: issuer,
	}, nil
}

func (a *SSOAuthenticator) AuthCodeURL(state string) string {
	return a.config.AuthCodeURL(state)
}

type SSOProfile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Exchange trades the auth code for a token and fetches the user profile
// from the issuer's userinfo endpoint.
func (a *SSOAuthenticator) Exchange(ctx context.Context, code string) (SSOProfile, error) {
	token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return SSOProfile{}, fmt.Errorf("code exchange failed: %w", err)
	}

	client := a.config.Client(ctx, token)
	resp, err := client.Get(fmt.Sprintf("%s/userinfo", a.issuer))
	if err != nil {
		return SSOProfile{}, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return SSOProfile{}, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var profile SSOProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return SSOProfile{}, err
	}
	if profile.Email == "" {
		return SSOProfile{}, fmt.Errorf("userinfo missing email")
	}
	return profile, nil
}
