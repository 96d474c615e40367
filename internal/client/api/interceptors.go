package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/iudanet/sportconnect/internal/client/storage"
)

const defaultUserAgent = "scgn-client/1.0"

// RequestInterceptor mutates an outgoing request before it is sent.
// Returning an error aborts the request.
type RequestInterceptor func(req *http.Request) error

// BearerInterceptor attaches the stored access token as a bearer credential.
// A missing token is not an error: the request goes out unauthenticated.
// An Authorization header that is already set wins.
func BearerInterceptor(tokens TokenStore) RequestInterceptor {
	return func(req *http.Request) error {
		if req.Header.Get("Authorization") != "" {
			return nil
		}
		if token := tokens.Get(storage.TokenAccess); token != "" {
			setBearer(req, token)
		}
		return nil
	}
}

// RequestIDInterceptor tags each request with a random X-Request-ID.
func RequestIDInterceptor() RequestInterceptor {
	return func(req *http.Request) error {
		if req.Header.Get("X-Request-ID") == "" {
			req.Header.Set("X-Request-ID", uuid.NewString())
		}
		return nil
	}
}

// UserAgentInterceptor sets the User-Agent header.
func UserAgentInterceptor(ua string) RequestInterceptor {
	return func(req *http.Request) error {
		req.Header.Set("User-Agent", ua)
		return nil
	}
}

func setBearer(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
}
