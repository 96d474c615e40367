package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestErrorMessage проверяет извлечение сообщения из ответа сервера
func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "detail",
			err:  newResponseError(400, []byte(`{"detail":"Invalid credentials"}`)),
			want: "Invalid credentials (HTTP 400)",
		},
		{
			name: "message key",
			err:  newResponseError(503, []byte(`{"message":"Maintenance"}`)),
			want: "Maintenance (HTTP 503)",
		},
		{
			name: "non field errors",
			err:  newResponseError(400, []byte(`{"non_field_errors":["Passwords do not match.","Try again."]}`)),
			want: "Passwords do not match., Try again. (HTTP 400)",
		},
		{
			name: "single field",
			err:  newResponseError(400, []byte(`{"username":["already exists"]}`)),
			want: "username: already exists",
		},
		{
			name: "several fields sorted",
			err:  newResponseError(400, []byte(`{"username":["already exists"],"email":["Enter a valid email address.","Too long."]}`)),
			want: "email: Enter a valid email address., Too long.; username: already exists",
		},
		{
			name: "nested field",
			err:  newResponseError(400, []byte(`{"profile":{"ville":["required"]}}`)),
			want: "profile.ville: required",
		},
		{
			name: "empty body",
			err:  newResponseError(500, nil),
			want: "request refused (HTTP 500)",
		},
		{
			name: "html body",
			err:  newResponseError(502, []byte(`<html>Bad Gateway</html>`)),
			want: "request refused (HTTP 502)",
		},
		{
			name: "wrapped",
			err:  fmt.Errorf("get profile failed: %w", newResponseError(404, []byte(`{"detail":"Not found."}`))),
			want: "Not found. (HTTP 404)",
		},
		{
			name: "no response",
			err:  &NetworkError{Method: "GET", URL: "http://localhost:8000/api/users/me/", Err: errors.New("connection refused")},
			want: "cannot reach API: connection refused",
		},
		{
			name: "auth error keeps original response",
			err: &AuthError{
				Response: newResponseError(401, []byte(`{"detail":"Token expired"}`)),
				Cause:    ErrMissingRefreshToken,
			},
			want: "Token expired (HTTP 401)",
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: "boom",
		},
		{
			name: "nil",
			err:  nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err))
		})
	}
}

// TestErrorMessage_DetailContainsStatus проверяет наличие статуса и текста в сообщении
func TestErrorMessage_DetailContainsStatus(t *testing.T) {
	msg := ErrorMessage(newResponseError(400, []byte(`{"detail":"Invalid credentials"}`)))
	assert.Contains(t, msg, "400")
	assert.Contains(t, msg, "Invalid credentials")
}

// TestResponseError_FieldErrors проверяет разбор ошибок полей
func TestResponseError_FieldErrors(t *testing.T) {
	e := newResponseError(400, []byte(`{"detail":"x","password":["too short"],"age":[3]}`))

	fields := e.FieldErrors()
	assert.Equal(t, map[string]string{"password": "too short", "age": "3"}, fields)
	assert.Equal(t, "server error (400): x (HTTP 400)", e.Error())
}

// TestAuthError проверяет сопоставление AuthError с ErrUnauthorized
func TestAuthError(t *testing.T) {
	resp := newResponseError(401, []byte(`{"detail":"expired"}`))
	err := fmt.Errorf("get profile failed: %w", &AuthError{Response: resp, Cause: ErrMissingRefreshToken})

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, err, ErrMissingRefreshToken)

	var respErr *ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Same(t, resp, respErr)
	assert.Contains(t, err.Error(), "refresh: missing refresh token")
}

// TestNetworkError_Timeout проверяет распознавание таймаута
func TestNetworkError_Timeout(t *testing.T) {
	timeout := &NetworkError{Err: &net.DNSError{IsTimeout: true}}
	assert.True(t, timeout.Timeout())

	refused := &NetworkError{Err: errors.New("connection refused")}
	assert.False(t, refused.Timeout())

	assert.ErrorIs(t, &NetworkError{Err: context.DeadlineExceeded}, context.DeadlineExceeded)
}
