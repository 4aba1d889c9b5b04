package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nayeem-dv/socialdeck/backend/internal/apperrors"
	"github.com/nayeem-dv/socialdeck/backend/internal/auth"
	"github.com/nayeem-dv/socialdeck/backend/internal/models"
	"github.com/nayeem-dv/socialdeck/backend/internal/repositories"
	"github.com/nayeem-dv/socialdeck/backend/pkg/config"
	"github.com/nayeem-dv/socialdeck/backend/validators"
)

// listAll is a first-page listing wide enough to see every seeded post.
func listAll() repositories.PostListOptions {
	return repositories.PostListOptions{Page: 1, Limit: 100}
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validators.NewValidator()
	return e
}

func testConfig() *config.Config {
	return &config.Config{
		Env:        "test",
		BcryptCost: bcrypt.MinCost,
	}
}

func newTokenService() *auth.TokenService {
	return auth.NewTokenService("test-access-secret", "test-refresh-secret", time.Hour, 24*time.Hour)
}

// newJSONContext builds an echo context with an optional JSON body.
func newJSONContext(e *echo.Echo, method, path string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// seedUser inserts an active user with the given plaintext password hashed.
func seedUser(t *testing.T, repo *fakeUserRepo, username, email, password string) *models.User {
	t.Helper()
	user := &models.User{
		Username:  username,
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		IsActive:  true,
	}
	if password != "" {
		hash, err := auth.HashPassword(password, bcrypt.MinCost)
		require.NoError(t, err)
		user.Password = hash
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

// appStatus asserts err is an AppError and returns its HTTP status.
func appStatus(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Status
}

// appMessage asserts err is an AppError and returns its message.
func appMessage(t *testing.T, err error) string {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Message
}

// decodeBody unmarshals a recorded JSON response into a generic map.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// dataField digs data.<key> out of a decoded success envelope.
func dataField(t *testing.T, body map[string]interface{}, key string) interface{} {
	t.Helper()
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object")
	return data[key]
}
