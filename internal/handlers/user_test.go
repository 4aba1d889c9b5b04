package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nayeem-dv/socialdeck/backend/internal/handlers"
)

func TestGetUserPublicProfile(t *testing.T) {
	e := newTestEcho()
	users := newFakeUserRepo()
	h := handlers.NewUserHandler(users)
	user := seedUser(t, users, "alice42", "alice@example.com", "Str0ngPass")

	c, rec := newJSONContext(e, http.MethodGet, "/api/users/x", nil)
	c.SetParamNames("id")
	c.SetParamValues(user.ID.Hex())
	require.NoError(t, h.GetUser(c))

	body := decodeBody(t, rec)
	profile := dataField(t, body, "user").(map[string]interface{})
	assert.Equal(t, "alice42", profile["username"])

	// Public profiles never expose contact or linkage details.
	_, hasEmail := profile["email"]
	assert.False(t, hasEmail)
	_, hasProvider := profile["oauthProvider"]
	assert.False(t, hasProvider)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestGetUserNotFound(t *testing.T) {
	e := newTestEcho()
	h := handlers.NewUserHandler(newFakeUserRepo())

	c, _ := newJSONContext(e, http.MethodGet, "/api/users/x", nil)
	c.SetParamNames("id")
	c.SetParamValues(primitive.NewObjectID().Hex())

	assert.Equal(t, http.StatusNotFound, appStatus(t, h.GetUser(c)))
}

func TestGetProfileReturnsOwnAccount(t *testing.T) {
	e := newTestEcho()
	users := newFakeUserRepo()
	h := handlers.NewUserHandler(users)
	user := seedUser(t, users, "alice42", "alice@example.com", "Str0ngPass")

	c, rec := newJSONContext(e, http.MethodGet, "/api/users/profile", nil)
	c.Set("user", user)
	require.NoError(t, h.GetProfile(c))

	body := decodeBody(t, rec)
	profile := dataField(t, body, "user").(map[string]interface{})
	// The owner sees their own email, never the password hash.
	assert.Equal(t, "alice@example.com", profile["email"])
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestUpdateUserMergesFields(t *testing.T) {
	e := newTestEcho()
	users := newFakeUserRepo()
	h := handlers.NewUserHandler(users)
	user := seedUser(t, users, "alice42", "alice@example.com", "Str0ngPass")

	c, rec := newJSONContext(e, http.MethodPut, "/api/users/x", map[string]string{
		"bio":       "gopher at large",
		"firstName": "Alicia",
	})
	c.SetParamNames("id")
	c.SetParamValues(user.ID.Hex())
	c.Set("user", user)
	require.NoError(t, h.UpdateUser(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	stored, err := users.GetUserByID(context.Background(), user.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "gopher at large", stored.Bio)
	assert.Equal(t, "Alicia", stored.FirstName)
	// Untouched fields survive the merge.
	assert.Equal(t, "User", stored.LastName)
}

func TestUpdateUserOwnerOnly(t *testing.T) {
	e := newTestEcho()
	users := newFakeUserRepo()
	h := handlers.NewUserHandler(users)
	alice := seedUser(t, users, "alice42", "alice@example.com", "Str0ngPass")
	mallory := seedUser(t, users, "mallory", "mallory@example.com", "Str0ngPass")

	c, _ := newJSONContext(e, http.MethodPut, "/api/users/x", map[string]string{
		"bio": "pwned",
	})
	c.SetParamNames("id")
	c.SetParamValues(alice.ID.Hex())
	c.Set("user", mallory)

	assert.Equal(t, http.StatusForbidden, appStatus(t, h.UpdateUser(c)))
}

func TestDeleteUserSoftDeletes(t *testing.T) {
	e := newTestEcho()
	users := newFakeUserRepo()
	h := handlers.NewUserHandler(users)
	user := seedUser(t, users, "alice42", "alice@example.com", "Str0ngPass")

	c, rec := newJSONContext(e, http.MethodDelete, "/api/users/x", nil)
	c.SetParamNames("id")
	c.SetParamValues(user.ID.Hex())
	c.Set("user", user)
	require.NoError(t, h.DeleteUser(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// The account is gone from every active-only lookup.
	_, err := users.GetUserByID(context.Background(), user.ID.Hex())
	assert.Error(t, err)
	_, err = users.GetUserByEmail(context.Background(), "alice@example.com")
	assert.Error(t, err)

	// And the public profile route reports 404.
	c, _ = newJSONContext(e, http.MethodGet, "/api/users/x", nil)
	c.SetParamNames("id")
	c.SetParamValues(user.ID.Hex())
	assert.Equal(t, http.StatusNotFound, appStatus(t, h.GetUser(c)))
}

func TestDeleteUserOwnerOnly(t *testing.T) {
	e := newTestEcho()
	users := newFakeUserRepo()
	h := handlers.NewUserHandler(users)
	alice := seedUser(t, users, "alice42", "alice@example.com", "Str0ngPass")
	mallory := seedUser(t, users, "mallory", "mallory@example.com", "Str0ngPass")

	c, _ := newJSONContext(e, http.MethodDelete, "/api/users/x", nil)
	c.SetParamNames("id")
	c.SetParamValues(alice.ID.Hex())
	c.Set("user", mallory)

	assert.Equal(t, http.StatusForbidden, appStatus(t, h.DeleteUser(c)))
}
