package apitest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func getMe(t *testing.T, s *Server, access string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, s.BaseURL()+"users/me/", nil)
	require.NoError(t, err)
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// TestServer_TokenLifecycle проверяет выдачу, отзыв и обновление токенов
func TestServer_TokenLifecycle(t *testing.T) {
	s := New(t)
	s.AddUser("awa", "s3cret-pass")

	resp := postJSON(t, s.BaseURL()+"auth/token/", map[string]string{"username": "awa", "password": "s3cret-pass"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pair struct{ Access, Refresh string }
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pair))

	assert.Equal(t, http.StatusOK, getMe(t, s, pair.Access).StatusCode)

	s.ExpireAccessTokens()
	assert.Equal(t, http.StatusUnauthorized, getMe(t, s, pair.Access).StatusCode)
	assert.Equal(t, 1, s.Rejected())

	resp = postJSON(t, s.BaseURL()+"auth/token/refresh/", map[string]string{"refresh": pair.Refresh})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var refreshed struct{ Access string }
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&refreshed))
	assert.Equal(t, http.StatusOK, getMe(t, s, refreshed.Access).StatusCode)
	assert.Equal(t, 1, s.RefreshCalls())

	s.RejectRefresh(true)
	resp = postJSON(t, s.BaseURL()+"auth/token/refresh/", map[string]string{"refresh": pair.Refresh})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	assert.Len(t, s.Requests("/api/users/me/"), 3)
	assert.Len(t, s.Requests(""), 6)
}

// TestServer_Register проверяет ошибки полей при регистрации
func TestServer_Register(t *testing.T) {
	s := New(t)
	s.AddUser("awa", "s3cret-pass")

	resp := postJSON(t, s.BaseURL()+"auth/register/", map[string]string{
		"username":         "awa",
		"password":         "short",
		"password_confirm": "other",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var fields map[string][]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fields))
	assert.Equal(t, []string{"A user with that username already exists."}, fields["username"])
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "password_confirm")
}
