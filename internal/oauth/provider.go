// Package oauth implements the bridge between an external identity provider
// (Google, GitHub) and local user accounts.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"github.com/nayeem-dv/socialdeck/backend/internal/models"
)

const maxUsernameLength = 30

// Profile is the normalized identity a provider returns.
type Profile struct {
	ID        string
	Email     string
	Login     string // provider handle, empty for Google
	FirstName string
	LastName  string
	Picture   string
	Bio       string
}

// Provider wraps an oauth2 config together with the profile endpoint and
// avatar host allow-list for one identity provider.
type Provider struct {
	Name       string
	Config     *oauth2.Config
	photoHosts []string
}

// NewGoogle builds the Google provider. redirectURL must be the absolute
// callback URL registered with the provider.
func NewGoogle(clientID, clientSecret, redirectURL string) *Provider {
	return &Provider{
		Name: models.ProviderGoogle,
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
		photoHosts: []string{"googleusercontent.com"},
	}
}

// NewGitHub builds the GitHub provider.
func NewGitHub(clientID, clientSecret, redirectURL string) *Provider {
	return &Provider{
		Name: models.ProviderGitHub,
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		photoHosts: []string{"githubusercontent.com", "github.com"},
	}
}

// AuthCodeURL returns the provider redirect URL for a login attempt.
func (p *Provider) AuthCodeURL(state string) string {
	return p.Config.AuthCodeURL(state)
}

// Exchange trades the callback code for a provider token.
func (p *Provider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return p.Config.Exchange(ctx, code)
}

// FetchProfile retrieves and normalizes the provider's user profile.
func (p *Provider) FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	client := p.Config.Client(ctx, token)
	switch p.Name {
	case models.ProviderGoogle:
		return fetchGoogleProfile(client)
	case models.ProviderGitHub:
		return fetchGitHubProfile(client)
	default:
		return nil, fmt.Errorf("unknown provider: %s", p.Name)
	}
}

// SanitizePicture returns the avatar URL only if its host matches the
// provider's allow-list, otherwise an empty string.
func (p *Provider) SanitizePicture(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	for _, host := range p.photoHosts {
		if strings.Contains(u.Host, host) {
			return rawURL
		}
	}
	return ""
}

func fetchGoogleProfile(client *http.Client) (*Profile, error) {
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Google profile: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Google userinfo returned status %d", resp.StatusCode)
	}

	var info struct {
		ID         string `json:"id"`
		Email      string `json:"email"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
		Picture    string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode Google profile: %w", err)
	}

	return &Profile{
		ID:        info.ID,
		Email:     info.Email,
		FirstName: info.GivenName,
		LastName:  info.FamilyName,
		Picture:   info.Picture,
	}, nil
}

func fetchGitHubProfile(client *http.Client) (*Profile, error) {
	resp, err := client.Get("https://api.github.com/user")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch GitHub profile: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub user endpoint returned status %d", resp.StatusCode)
	}

	var info struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
		Bio       string `json:"bio"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode GitHub profile: %w", err)
	}

	first, last := splitName(info.Name)
	profile := &Profile{
		ID:        strconv.FormatInt(info.ID, 10),
		Email:     info.Email,
		Login:     info.Login,
		FirstName: first,
		LastName:  last,
		Picture:   info.AvatarURL,
		Bio:       info.Bio,
	}

	// GitHub omits the email from /user when it is private.
	if profile.Email == "" {
		email, err := fetchGitHubPrimaryEmail(client)
		if err != nil {
			return nil, err
		}
		profile.Email = email
	}

	return profile, nil
}

func fetchGitHubPrimaryEmail(client *http.Client) (string, error) {
	resp, err := client.Get("https://api.github.com/user/emails")
	if err != nil {
		return "", fmt.Errorf("failed to fetch GitHub emails: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GitHub emails endpoint returned status %d", resp.StatusCode)
	}

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&emails); err != nil {
		return "", fmt.Errorf("failed to decode GitHub emails: %w", err)
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email, nil
		}
	}
	return "", fmt.Errorf("no verified email on GitHub account")
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// DeriveUsername synthesizes a local username for a new OAuth account from
// the provider handle or the email local-part, plus a timestamp suffix,
// truncated to the 30-character username limit.
func DeriveUsername(profile *Profile, now time.Time) string {
	base := profile.Login
	if base == "" {
		if at := strings.Index(profile.Email, "@"); at > 0 {
			base = profile.Email[:at]
		}
	}
	base = sanitizeUsername(base)
	if base == "" {
		base = "user"
	}

	suffix := strconv.FormatInt(now.Unix(), 10)
	if len(base)+len(suffix) > maxUsernameLength {
		base = base[:maxUsernameLength-len(suffix)]
	}
	return base + suffix
}

func sanitizeUsername(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
