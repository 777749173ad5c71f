package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"apartment-chores-go/internal/config"
	"apartment-chores-go/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
)

// Auth verifies provider-issued bearer tokens. With a JWT secret configured
// tokens are checked locally (HS256); otherwise each request round-trips to
// the provider's user endpoint. Either way the user document is ensured
// before the handler runs.
type Auth struct {
	baseURL   string
	apiKey    string
	jwtSecret string
	client    *http.Client
	users     UserEnsurer
	log       logger.Logger
	skipAuth  bool
	mockUser  User
}

type contextKey int

const (
	userIDKey contextKey = iota
	userKey
)

type User struct {
	ID    string
	Email string
	Name  string
}

type UserEnsurer interface {
	EnsureUser(ctx context.Context, userID, email, displayName string) error
}

func NewAuth(cfg config.AuthConfig, users UserEnsurer, log logger.Logger) *Auth {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &Auth{
		baseURL:   strings.TrimRight(cfg.URL, "/"),
		apiKey:    cfg.APIKey,
		jwtSecret: cfg.JWTSecret,
		client:    &http.Client{Timeout: timeout},
		users:     users,
		log:       log,
		skipAuth:  cfg.SkipAuth,
		mockUser: User{
			ID:    strings.TrimSpace(cfg.MockUserID),
			Email: strings.TrimSpace(cfg.MockUserEmail),
			Name:  strings.TrimSpace(cfg.MockUserName),
		},
	}
}

func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			if a.mockUser.ID == "" {
				writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth mock user id not configured")
				return
			}
			a.serveAs(next, w, r, a.mockUser)
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		var user User
		var err error
		if a.jwtSecret != "" {
			user, err = a.verifyJWT(token)
		} else {
			user, err = a.fetchUser(r.Context(), token)
		}
		if err != nil {
			a.log.BusinessError("auth: token rejected", err)
			unauthorized(w)
			return
		}

		a.serveAs(next, w, r, user)
	})
}

func (a *Auth) serveAs(next http.Handler, w http.ResponseWriter, r *http.Request, user User) {
	if a.users != nil {
		if err := a.users.EnsureUser(r.Context(), user.ID, user.Email, user.Name); err != nil {
			a.log.InternalError("auth: ensure user failed", err, "user_id", user.ID)
		}
	}
	next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
}

// verifyJWT checks the provider's HS256 access token locally.
func (a *Auth) verifyJWT(tokenString string) (User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(a.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return User{}, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return User{}, fmt.Errorf("invalid claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return User{}, fmt.Errorf("token missing sub")
	}
	email, _ := claims["email"].(string)

	var name string
	if metadata, ok := claims["user_metadata"].(map[string]interface{}); ok {
		name = firstNonEmpty(stringFromMap(metadata, "display_name"), stringFromMap(metadata, "name"))
	}

	return User{ID: sub, Email: email, Name: name}, nil
}

// fetchUser asks the provider to resolve the token.
func (a *Auth) fetchUser(ctx context.Context, token string) (User, error) {
	if a.baseURL == "" || a.apiKey == "" {
		return User{}, fmt.Errorf("auth provider not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return User{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return User{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return User{}, fmt.Errorf("provider rejected token: %s", resp.Status)
	}

	var payload struct {
		ID           string                 `json:"id"`
		Sub          string                 `json:"sub"`
		Email        string                 `json:"email"`
		UserMetadata map[string]interface{} `json:"user_metadata"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return User{}, err
	}

	userID := firstNonEmpty(payload.ID, payload.Sub)
	if userID == "" {
		return User{}, fmt.Errorf("provider response missing user id")
	}

	return User{
		ID:    userID,
		Email: payload.Email,
		Name:  firstNonEmpty(stringFromMap(payload.UserMetadata, "display_name"), stringFromMap(payload.UserMetadata, "name")),
	}, nil
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func WithUser(ctx context.Context, user User) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, userIDKey, user.ID)
}

func UserFromContext(ctx context.Context) (User, bool) {
	value := ctx.Value(userKey)
	user, ok := value.(User)
	if !ok || user.ID == "" {
		return User{}, false
	}
	return user, true
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(userIDKey)
	userID, ok := value.(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
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

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
