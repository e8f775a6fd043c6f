package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/authsystem/internal/helpers"
	"github.com/joshua-takyi/authsystem/internal/services"
	"golang.org/x/oauth2"
)

const (
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"

	oauthStateCookie = "oauth_state"
	oauthStateMaxAge = 300
)

const (
	googleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
	facebookUserInfoURL = "https://graph.facebook.com/me?fields=id,name"
)

// OAuthRedirect starts the provider flow: random state in a short-lived
// cookie, then a redirect to the provider's consent screen.
func OAuthRedirect(oauthCfg *oauth2.Config, provider string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if oauthCfg == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"message": fmt.Sprintf("%s OAuth is not configured", provider),
			})
			return
		}

		state := uuid.New().String()
		c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/", "", c.Request.TLS != nil, true)
		c.Redirect(http.StatusTemporaryRedirect, oauthCfg.AuthCodeURL(state))
	}
}

// OAuthCallback completes the flow: state check, code exchange, profile
// fetch, local account resolution, then a redirect back to the frontend
// with either a session token or an error code. Failures never surface
// internals to the browser.
func OAuthCallback(oauthCfg *oauth2.Config, oa *services.OAuthService, tokens *helpers.TokenIssuer, frontendURL, provider string) gin.HandlerFunc {
	return func(c *gin.Context) {
		fail := func(code string) {
			c.Redirect(http.StatusTemporaryRedirect, fmt.Sprintf("%s/login?error=%s", frontendURL, code))
		}

		if oauthCfg == nil {
			fail("provider_unavailable")
			return
		}
		if c.Query("error") != "" {
			fail("oauth_failed")
			return
		}

		state, err := c.Cookie(oauthStateCookie)
		if err != nil || state == "" || c.Query("state") != state {
			fail("state_mismatch")
			return
		}
		c.SetCookie(oauthStateCookie, "", -1, "/", "", c.Request.TLS != nil, true)

		ctx := c.Request.Context()
		providerToken, err := oauthCfg.Exchange(ctx, c.Query("code"))
		if err != nil {
			fail("oauth_failed")
			return
		}

		profile, err := fetchProfile(ctx, oauthCfg.Client(ctx, providerToken), provider)
		if err != nil {
			fail("oauth_failed")
			return
		}

		user, err := oa.Resolve(ctx, *profile)
		if err != nil {
			fail("oauth_failed")
			return
		}

		token, _, err := tokens.Issue(user, false)
		if err != nil {
			fail("oauth_failed")
			return
		}

		c.Redirect(http.StatusTemporaryRedirect, fmt.Sprintf("%s/welcome?token=%s", frontendURL, token))
	}
}

// fetchProfile normalizes the provider's userinfo payload. Facebook is
// queried without the email scope, so its profiles carry no email and the
// linker falls back to a placeholder address.
func fetchProfile(ctx context.Context, client *http.Client, provider string) (*services.Profile, error) {
	switch provider {
	case ProviderGoogle:
		var info struct {
			ID            string `json:"id"`
			Email         string `json:"email"`
			VerifiedEmail bool   `json:"verified_email"`
			Name          string `json:"name"`
		}
		if err := getJSON(ctx, client, googleUserInfoURL, &info); err != nil {
			return nil, err
		}
		profile := &services.Profile{
			Provider:   ProviderGoogle,
			ExternalID: info.ID,
			Name:       info.Name,
		}
		if info.VerifiedEmail {
			profile.Email = info.Email
		}
		return profile, nil

	case ProviderFacebook:
		var info struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		if err := getJSON(ctx, client, facebookUserInfoURL, &info); err != nil {
			return nil, err
		}
		return &services.Profile{
			Provider:   ProviderFacebook,
			ExternalID: info.ID,
			Name:       info.Name,
		}, nil
	}
	return nil, fmt.Errorf("unknown provider %q", provider)
}

func getJSON(ctx context.Context, client *http.Client, url string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("userinfo request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("userinfo request returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
