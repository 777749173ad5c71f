package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"apartment-chores-go/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(config.AuthConfig{
		URL:     url,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	})
}

func TestSignInSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/token", r.URL.Path)
		require.Equal(t, "password", r.URL.Query().Get("grant_type"))
		require.Equal(t, "test-key", r.Header.Get("apikey"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "xander@example.com", body["email"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "token-123",
			"user": map[string]interface{}{
				"id":            "user-1",
				"email":         "xander@example.com",
				"user_metadata": map[string]string{"display_name": "Xander"},
			},
		})
	}))
	defer server.Close()

	session, err := newTestClient(server.URL).SignIn(context.Background(), "xander@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "token-123", session.AccessToken)
	assert.Equal(t, "user-1", session.Account.ID)
	assert.Equal(t, "Xander", session.Account.DisplayName)
}

func TestSignInInvalidCredentialsSurfacesProviderMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error_code":        "invalid_credentials",
			"error_description": "Invalid login credentials",
		})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).SignIn(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)

	authErr, ok := err.(*AuthError)
	require.True(t, ok, "expected *AuthError, got %T", err)
	assert.Equal(t, http.StatusBadRequest, authErr.Status)
	assert.Equal(t, "invalid_credentials", authErr.Code)
	assert.Equal(t, "Invalid login credentials", authErr.Message)
}

func TestSignUpSendsDisplayName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/signup", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		data, _ := body["data"].(map[string]interface{})
		assert.Equal(t, "Spencer", data["display_name"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":            "user-2",
			"email":         "spencer@example.com",
			"user_metadata": map[string]string{"display_name": "Spencer"},
		})
	}))
	defer server.Close()

	account, err := newTestClient(server.URL).SignUp(context.Background(), "spencer@example.com", "hunter2", "Spencer")
	require.NoError(t, err)
	assert.Equal(t, "user-2", account.ID)
	assert.Equal(t, "Spencer", account.DisplayName)
}

func TestSignOutSendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	require.NoError(t, newTestClient(server.URL).SignOut(context.Background(), "token-123"))
	assert.Equal(t, "Bearer token-123", gotAuth)
}

func TestClientNotConfigured(t *testing.T) {
	client := NewClient(config.AuthConfig{})
	_, err := client.SignIn(context.Background(), "a@b.c", "pw")
	assert.Error(t, err)
}
