package rest

import "github.com/kbukum/restkit/httpclient"

// BasicAuthHeader returns the Authorization header for HTTP Basic auth,
// ready for WithHeaders or Config.DefaultHeaders.
func BasicAuthHeader(username, password string) map[string]string {
	return httpclient.BasicAuth(username, password).Header()
}

// BearerAuthHeader returns the Authorization header carrying a bearer token.
func BearerAuthHeader(token string) map[string]string {
	return httpclient.BearerAuth(token).Header()
}
