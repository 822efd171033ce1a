// Package oauth runs the Google authorization-code flow and turns the
// resulting userinfo into an identity.Profile.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rcornejom06/authcore/internal/common"
	"github.com/rcornejom06/authcore/internal/server/identity"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleUserInfoURL is the OpenID userinfo endpoint.
const GoogleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// StateBytes is the entropy of the anti-forgery state value.
const StateBytes = 16

// ErrExchange is returned when the provider rejects the code or the profile
// fetch fails.
var ErrExchange = errors.New("oauth exchange failed")

// GoogleProvider holds the client registration. Endpoint and UserInfoURL can be
// pointed at a test server.
type GoogleProvider struct {
	config      oauth2.Config
	UserInfoURL string
	// HTTPClient is used for the token exchange and userinfo call when set.
	HTTPClient *http.Client
}

func NewGoogleProvider(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
		UserInfoURL: GoogleUserInfoURL,
	}
}

// SetEndpoint overrides the authorization and token URLs.
func (g *GoogleProvider) SetEndpoint(ep oauth2.Endpoint) {
	g.config.Endpoint = ep
}

// NewState returns a random state value for one authorization round trip.
func NewState() (string, error) {
	s, err := common.MakeRandHexString(StateBytes)
	if err != nil {
		return "", fmt.Errorf("oauth state: %w: %w", common.ErrInternal, err)
	}
	return s, nil
}

// AuthCodeURL is where the browser is sent to consent.
func (g *GoogleProvider) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

type googleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// Exchange trades an authorization code for the user's profile.
func (g *GoogleProvider) Exchange(ctx context.Context, code string) (identity.Profile, error) {
	if code == "" {
		return identity.Profile{}, common.ErrMissingFields
	}
	if g.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, g.HTTPClient)
	}

	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return identity.Profile{}, fmt.Errorf("%w: code exchange: %w", ErrExchange, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.UserInfoURL, nil)
	if err != nil {
		return identity.Profile{}, fmt.Errorf("%w: userinfo request: %w", ErrExchange, err)
	}
	resp, err := g.config.Client(ctx, token).Do(req)
	if err != nil {
		return identity.Profile{}, fmt.Errorf("%w: userinfo: %w", ErrExchange, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return identity.Profile{}, fmt.Errorf("%w: userinfo status %d", ErrExchange, resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&info); err != nil {
		return identity.Profile{}, fmt.Errorf("%w: decode userinfo: %w", ErrExchange, err)
	}

	return identity.Profile{
		ExternalID:    info.Sub,
		Email:         info.Email,
		EmailVerified: info.EmailVerified,
		DisplayName:   info.Name,
	}, nil
}
