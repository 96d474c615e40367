// Package apitest runs an in-process fake of the SportConnect GN REST API for tests.
//
// It implements the endpoints the client consumes (auth/token/, auth/token/refresh/,
// auth/register/, users/me/) with HS256 JWT access tokens and opaque refresh tokens,
// and exposes knobs to expire tokens, reject or hold refreshes, and inspect traffic.
package apitest
