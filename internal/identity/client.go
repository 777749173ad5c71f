package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"apartment-chores-go/internal/config"
)

// Client talks to the hosted auth provider. The provider owns credentials
// and user ids; this service only consumes the resulting identity.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

type Account struct {
	ID          string
	Email       string
	DisplayName string
}

type Session struct {
	AccessToken string
	Account     Account
}

// AuthError carries the provider's message verbatim so the UI can show it.
type AuthError struct {
	Status  int
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("auth: %s (%s)", e.Message, e.Code)
	}
	return "auth: " + e.Message
}

func NewClient(cfg config.AuthConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type userPayload struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
}

type sessionPayload struct {
	AccessToken string      `json:"access_token"`
	User        userPayload `json:"user"`
}

func (c *Client) SignUp(ctx context.Context, email, password, displayName string) (*Account, error) {
	body := map[string]interface{}{
		"email":    email,
		"password": password,
		"data":     map[string]string{"display_name": displayName},
	}

	var payload userPayload
	if err := c.post(ctx, "/auth/v1/signup", "", body, &payload); err != nil {
		return nil, err
	}

	account := accountFromPayload(payload)
	return &account, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var payload sessionPayload
	if err := c.post(ctx, "/auth/v1/token?grant_type=password", "", body, &payload); err != nil {
		return nil, err
	}

	return &Session{
		AccessToken: payload.AccessToken,
		Account:     accountFromPayload(payload.User),
	}, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.post(ctx, "/auth/v1/logout", accessToken, nil, nil)
}

func (c *Client) ResetPassword(ctx context.Context, email string) error {
	return c.post(ctx, "/auth/v1/recover", "", map[string]string{"email": email}, nil)
}

func (c *Client) post(ctx context.Context, path, accessToken string, body, out interface{}) error {
	if c.baseURL == "" || c.apiKey == "" {
		return fmt.Errorf("auth provider not configured")
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return parseAuthError(resp)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func parseAuthError(resp *http.Response) error {
	var payload struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorCode        string `json:"error_code"`
		ErrorDescription string `json:"error_description"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)

	message := firstNonEmpty(payload.Msg, payload.Message, payload.ErrorDescription, resp.Status)
	return &AuthError{
		Status:  resp.StatusCode,
		Code:    payload.ErrorCode,
		Message: message,
	}
}

func accountFromPayload(payload userPayload) Account {
	return Account{
		ID:          payload.ID,
		Email:       payload.Email,
		DisplayName: stringFromMap(payload.UserMetadata, "display_name"),
	}
}

func stringFromMap(values map[string]interface{}, key string) string {
	if values == nil {
		return ""
	}
	value, ok := values[key]
	if !ok {
		return ""
	}
	parsed, ok := value.(string)
	if !ok {
		return ""
	}
	return parsed
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
