package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nayeem-dv/socialdeck/backend/internal/apperrors"
	"github.com/nayeem-dv/socialdeck/backend/internal/auth"
	"github.com/nayeem-dv/socialdeck/backend/internal/models"
	"github.com/nayeem-dv/socialdeck/backend/internal/oauth"
	"github.com/nayeem-dv/socialdeck/backend/internal/repositories"
)

const (
	stateCookieName = "oauth_state"
	stateCookieTTL  = 10 * time.Minute
)

// OAuthHandler bridges Google/GitHub identities to local accounts. Tokens
// are returned in a same-origin JSON payload plus an httpOnly refresh
// cookie; they are never embedded in a redirect URL.
type OAuthHandler struct {
	userRepository repositories.UserRepository
	tokens         *auth.TokenService
	providers      map[string]*oauth.Provider
}

// NewOAuthHandler creates a new OAuthHandler
func NewOAuthHandler(userRepo repositories.UserRepository, tokens *auth.TokenService, providers ...*oauth.Provider) *OAuthHandler {
	byName := make(map[string]*oauth.Provider, len(providers))
	for _, p := range providers {
		byName[p.Name] = p
	}
	return &OAuthHandler{
		userRepository: userRepo,
		tokens:         tokens,
		providers:      byName,
	}
}

// RegisterOAuthRoutes registers the provider login and callback routes
func (h *OAuthHandler) RegisterOAuthRoutes(g *echo.Group) {
	g.GET("/google", h.Begin(models.ProviderGoogle))
	g.GET("/google/callback", h.Callback(models.ProviderGoogle))
	g.GET("/github", h.Begin(models.ProviderGitHub))
	g.GET("/github/callback", h.Callback(models.ProviderGitHub))
}

// Begin starts a login attempt: a state nonce goes into a short-lived
// cookie and the client is redirected to the provider.
func (h *OAuthHandler) Begin(providerName string) echo.HandlerFunc {
	return func(c echo.Context) error {
		provider, ok := h.providers[providerName]
		if !ok {
			return apperrors.NotFound("Unknown OAuth provider")
		}

		state := uuid.NewString()
		c.SetCookie(&http.Cookie{
			Name:     stateCookieName,
			Value:    state,
			Path:     "/api/auth",
			HttpOnly: true,
			Secure:   c.Scheme() == "https",
			SameSite: http.SameSiteLaxMode,
			Expires:  time.Now().Add(stateCookieTTL),
		})

		return c.Redirect(http.StatusTemporaryRedirect, provider.AuthCodeURL(state))
	}
}

// Callback completes a login attempt: state check, code exchange, profile
// fetch, then match-or-create against local accounts.
func (h *OAuthHandler) Callback(providerName string) echo.HandlerFunc {
	return func(c echo.Context) error {
		provider, ok := h.providers[providerName]
		if !ok {
			return apperrors.NotFound("Unknown OAuth provider")
		}

		// Provider-reported failure (denied consent, provider error)
		if errParam := c.QueryParam("error"); errParam != "" {
			return apperrors.Unauthorized("OAuth authorization failed: " + errParam)
		}

		stateCookie, err := c.Cookie(stateCookieName)
		if err != nil || stateCookie.Value == "" || stateCookie.Value != c.QueryParam("state") {
			return apperrors.Unauthorized("Invalid OAuth state")
		}

		code := c.QueryParam("code")
		if code == "" {
			return apperrors.Unauthorized("Missing authorization code")
		}

		ctx := c.Request().Context()

		token, err := provider.Exchange(ctx, code)
		if err != nil {
			return apperrors.Unauthorized("Failed to exchange authorization code")
		}

		profile, err := provider.FetchProfile(ctx, token)
		if err != nil {
			return apperrors.Internal(err)
		}
		if profile.Email == "" {
			return apperrors.Unauthorized("Provider did not supply an email address")
		}

		user, err := h.resolveUser(c, provider, profile)
		if err != nil {
			return err
		}

		if err := h.userRepository.TouchLastLogin(ctx, user.ID.Hex()); err != nil {
			return apperrors.Internal(err)
		}

		accessToken, refreshToken, err := h.tokens.GenerateTokenPair(user)
		if err != nil {
			return apperrors.Internal(err)
		}

		return respondWithTokens(c, http.StatusOK, "OAuth login successful", user, accessToken, refreshToken)
	}
}

// resolveUser matches the provider identity to a local account by
// (provider, oauthId), then by email with backfill, else creates one.
func (h *OAuthHandler) resolveUser(c echo.Context, provider *oauth.Provider, profile *oauth.Profile) (*models.User, error) {
	ctx := c.Request().Context()

	user, err := h.userRepository.GetUserByOAuth(ctx, provider.Name, profile.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	user, err = h.userRepository.GetUserByEmail(ctx, profile.Email)
	if err == nil {
		// Existing local account: backfill the OAuth linkage if missing.
		if user.OAuthProvider == "" {
			user.OAuthProvider = provider.Name
			user.OAuthID = profile.ID
			if err := h.userRepository.UpdateUser(ctx, user); err != nil {
				return nil, err
			}
		}
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	// First login from this identity: synthesize a local account with no
	// password.
	newUser := &models.User{
		Username:       oauth.DeriveUsername(profile, time.Now()),
		Email:          profile.Email,
		FirstName:      profile.FirstName,
		LastName:       profile.LastName,
		ProfilePicture: provider.SanitizePicture(profile.Picture),
		Bio:            profile.Bio,
		OAuthProvider:  provider.Name,
		OAuthID:        profile.ID,
		IsActive:       true,
	}
	if err := h.userRepository.CreateUser(ctx, newUser); err != nil {
		return nil, err
	}
	return newUser, nil
}
