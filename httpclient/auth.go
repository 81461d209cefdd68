package httpclient

import (
	"encoding/base64"
	"net/http"
)

// AuthType identifies the authentication method.
type AuthType int

const (
	// AuthNone disables authentication.
	AuthNone AuthType = iota
	// AuthBearer uses Bearer token authentication.
	AuthBearer
	// AuthBasic uses HTTP Basic authentication.
	AuthBasic
	// AuthAPIKey sends an API key in a header.
	AuthAPIKey
	// AuthCustom uses a custom authentication function.
	AuthCustom
)

const defaultAPIKeyHeader = "X-API-Key"

// AuthConfig configures request authentication.
type AuthConfig struct {
	// Type is the authentication method.
	Type AuthType
	// Token is the bearer token (AuthBearer).
	Token string
	// Username and Password are the basic auth credentials (AuthBasic).
	Username string
	Password string
	// Key is the API key value and Name the header carrying it (AuthAPIKey).
	Key  string
	Name string
	// Apply modifies the outgoing request (AuthCustom).
	Apply func(*http.Request)
}

// BearerAuth creates a bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// BasicAuth creates a basic auth config.
func BasicAuth(username, password string) *AuthConfig {
	return &AuthConfig{Type: AuthBasic, Username: username, Password: password}
}

// APIKeyAuth creates an API key auth config sent in X-API-Key, or in
// headerName when one is given.
func APIKeyAuth(key string, headerName ...string) *AuthConfig {
	name := defaultAPIKeyHeader
	if len(headerName) > 0 && headerName[0] != "" {
		name = headerName[0]
	}
	return &AuthConfig{Type: AuthAPIKey, Key: key, Name: name}
}

// CustomAuth creates a custom auth config with a request modifier function.
func CustomAuth(fn func(*http.Request)) *AuthConfig {
	return &AuthConfig{Type: AuthCustom, Apply: fn}
}

// Header returns the header entries the auth contributes. AuthCustom and
// AuthNone contribute none.
func (a *AuthConfig) Header() map[string]string {
	if a == nil {
		return nil
	}
	switch a.Type {
	case AuthBearer:
		return map[string]string{"Authorization": "Bearer " + a.Token}
	case AuthBasic:
		creds := base64.StdEncoding.EncodeToString([]byte(a.Username + ":" + a.Password))
		return map[string]string{"Authorization": "Basic " + creds}
	case AuthAPIKey:
		name := a.Name
		if name == "" {
			name = defaultAPIKeyHeader
		}
		return map[string]string{name: a.Key}
	default:
		return nil
	}
}

// apply applies authentication to an HTTP request.
func (a *AuthConfig) apply(req *http.Request) {
	if a == nil {
		return
	}
	if a.Type == AuthCustom {
		if a.Apply != nil {
			a.Apply(req)
		}
		return
	}
	for k, v := range a.Header() {
		req.Header.Set(k, v)
	}
}
