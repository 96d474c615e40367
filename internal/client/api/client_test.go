package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/sportconnect/internal/apitest"
	"github.com/iudanet/sportconnect/internal/client/storage"
	"github.com/iudanet/sportconnect/pkg/api"
)

const (
	mePath      = "/api/users/me/"
	tokenPath   = "/api/auth/token/"
	refreshPath = "/api/auth/token/refresh/"
)

// newSession поднимает fake API с пользователем и выдаёт ему токены
func newSession(t *testing.T) (*apitest.Server, *memTokens, *Client) {
	t.Helper()

	srv := apitest.New(t)
	srv.AddUser("awa", "s3cret-pass")
	access, refresh := srv.IssueTokens(t, "awa")

	tokens := newMemTokens(access, refresh)
	return srv, tokens, NewClient(srv.BaseURL(), tokens)
}

// TestNewClient проверяет создание нового клиента
func TestNewClient(t *testing.T) {
	client := NewClient("", newMemTokens("", ""))

	assert.Equal(t, DefaultBaseURL, client.BaseURL())
	assert.Equal(t, "http://localhost:8000/api/", client.BaseURL())
	assert.Equal(t, 15*time.Second, client.httpClient.Timeout)
	assert.NotNil(t, client.Refresher())
}

// TestNewClient_Options проверяет нормализацию URL и опции
func TestNewClient_Options(t *testing.T) {
	client := NewClient("http://api.example.test/api", newMemTokens("", ""), WithTimeout(3*time.Second))

	assert.Equal(t, "http://api.example.test/api/", client.BaseURL())
	assert.Equal(t, 3*time.Second, client.httpClient.Timeout)

	for _, path := range []string{PathMe, "/users/me/", "http://api.example.test/api/users/me/"} {
		resolved, err := client.resolve(path)
		require.NoError(t, err)
		assert.Equal(t, "http://api.example.test/api/users/me/", resolved)
	}
	for _, path := range []string{
		"https://other.test/x",
		"//other.test/x",
		"http://api.example.test/admin/",
		"https://api.example.test/api/users/me/",
	} {
		_, err := client.resolve(path)
		assert.ErrorIs(t, err, ErrForeignURL, path)
	}
}

// foreignHost поднимает сервер на другом имени хоста и запоминает пришедший Authorization
func foreignHost(t *testing.T) (baseURL string, hits *atomic.Int64, gotAuth *atomic.Value) {
	t.Helper()
	hits = &atomic.Int64{}
	gotAuth = &atomic.Value{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		gotAuth.Store(r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(server.Close)
	// 127.0.0.1 и localhost — разные хосты для политики редиректов
	return strings.Replace(server.URL, "127.0.0.1", "localhost", 1), hits, gotAuth
}

// TestClient_RedirectDropsBearer проверяет, что токен не уходит на другой хост при редиректе
func TestClient_RedirectDropsBearer(t *testing.T) {
	foreign, hits, gotAuth := foreignHost(t)

	var apiAuth atomic.Value
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiAuth.Store(r.Header.Get("Authorization"))
		http.Redirect(w, r, foreign+"/landing", http.StatusFound)
	}))
	defer apiServer.Close()

	client := NewClient(apiServer.URL+"/api/", newMemTokens("secret-access", "secret-refresh"))
	var out map[string]any
	require.NoError(t, client.Do(context.Background(), http.MethodGet, "activities/", nil, &out))

	assert.Equal(t, "Bearer secret-access", apiAuth.Load())
	assert.Equal(t, int64(1), hits.Load())
	assert.Empty(t, gotAuth.Load())
}

// TestClient_AbsoluteForeignURL проверяет отказ от запроса на адрес вне API
func TestClient_AbsoluteForeignURL(t *testing.T) {
	srv, _, client := newSession(t)
	foreign, hits, _ := foreignHost(t)

	err := client.Do(context.Background(), http.MethodGet, foreign+"/x", nil, nil)
	assert.ErrorIs(t, err, ErrForeignURL)
	assert.Zero(t, hits.Load())

	// Абсолютный URL внутри API допустим
	var user api.User
	require.NoError(t, client.Do(context.Background(), http.MethodGet, srv.BaseURL()+"users/me/", nil, &user))
	assert.Equal(t, "awa", user.Username)
}

// TestClient_AttachesBearer проверяет, что access токен прикрепляется к запросу
func TestClient_AttachesBearer(t *testing.T) {
	srv, tokens, client := newSession(t)

	user, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "awa", user.Username)

	reqs := srv.Requests(mePath)
	require.Len(t, reqs, 1)
	assert.Equal(t, "Bearer "+tokens.Get(storage.TokenAccess), reqs[0].Authorization)
	assert.NotEmpty(t, reqs[0].RequestID)
	assert.Zero(t, srv.RefreshCalls())
}

// TestClient_NoTokenNoHeader проверяет, что без токена заголовок не выставляется
func TestClient_NoTokenNoHeader(t *testing.T) {
	var gotAuth atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, newMemTokens("", ""))

	var out map[string]any
	require.NoError(t, client.Do(context.Background(), http.MethodGet, "activities/", nil, &out))
	assert.Equal(t, "", gotAuth.Load())
	assert.Equal(t, true, out["ok"])
}

// TestClient_Interceptors проверяет пользовательские интерсепторы
func TestClient_Interceptors(t *testing.T) {
	var gotLang, gotUA atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLang.Store(r.Header.Get("Accept-Language"))
		gotUA.Store(r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, newMemTokens("", ""), WithInterceptors(func(req *http.Request) error {
		req.Header.Set("Accept-Language", "fr")
		return nil
	}))

	require.NoError(t, client.Do(context.Background(), http.MethodDelete, "x/", nil, nil))
	assert.Equal(t, "fr", gotLang.Load())
	assert.Equal(t, defaultUserAgent, gotUA.Load())

	failing := NewClient(server.URL, newMemTokens("", ""), WithInterceptors(func(req *http.Request) error {
		return errors.New("offline mode")
	}))
	err := failing.Do(context.Background(), http.MethodGet, "x/", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offline mode")
}

// TestClient_ObtainToken проверяет вход по логину и паролю
func TestClient_ObtainToken(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("awa", "s3cret-pass")
	tokens := newMemTokens("stale-access", "")
	client := NewClient(srv.BaseURL(), tokens)

	resp, err := client.ObtainToken(context.Background(), "awa", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Access)
	assert.NotEmpty(t, resp.Refresh)

	// Эндпоинты учётных данных уходят без bearer
	reqs := srv.Requests(tokenPath)
	require.Len(t, reqs, 1)
	assert.Empty(t, reqs[0].Authorization)
}

// TestClient_ObtainToken_BadCredentials проверяет, что 401 при входе не запускает обновление
func TestClient_ObtainToken_BadCredentials(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("awa", "s3cret-pass")
	tokens := newMemTokens("", "refresh-1")
	client := NewClient(srv.BaseURL(), tokens)

	_, err := client.ObtainToken(context.Background(), "awa", "wrong")
	require.Error(t, err)

	var respErr *ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusUnauthorized, respErr.StatusCode)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "No active account found with the given credentials (HTTP 401)", ErrorMessage(err))

	assert.Zero(t, srv.RefreshCalls())
	assert.Equal(t, "refresh-1", tokens.Get(storage.TokenRefresh))
	assert.Zero(t, tokens.clearCount())
}

// TestClient_Register проверяет регистрацию и ошибки полей
func TestClient_Register(t *testing.T) {
	srv := apitest.New(t)
	client := NewClient(srv.BaseURL(), newMemTokens("", ""))

	form := api.RegisterRequest{
		FirstName:       "Awa",
		LastName:        "Diallo",
		Username:        "awa",
		Password:        "s3cret-pass",
		PasswordConfirm: "s3cret-pass",
	}
	user, err := client.Register(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, "awa", user.Username)
	assert.Equal(t, "Awa Diallo", user.DisplayName())

	_, err = client.Register(context.Background(), form)
	require.Error(t, err)
	assert.Equal(t, "username: A user with that username already exists.", ErrorMessage(err))
}

// TestClient_RefreshAndRetry проверяет прозрачное обновление токена при 401
func TestClient_RefreshAndRetry(t *testing.T) {
	srv, tokens, client := newSession(t)
	oldAccess := tokens.Get(storage.TokenAccess)
	srv.ExpireAccessTokens()

	user, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "awa", user.Username)

	assert.Equal(t, 1, srv.RefreshCalls())
	newAccess := tokens.Get(storage.TokenAccess)
	assert.NotEqual(t, oldAccess, newAccess)

	reqs := srv.Requests(mePath)
	require.Len(t, reqs, 2)
	assert.Equal(t, "Bearer "+oldAccess, reqs[0].Authorization)
	assert.Equal(t, "Bearer "+newAccess, reqs[1].Authorization)

	// Обновление уходит без bearer
	refreshReqs := srv.Requests(refreshPath)
	require.Len(t, refreshReqs, 1)
	assert.Empty(t, refreshReqs[0].Authorization)
}

// TestClient_RefreshFailureClearsCredentials проверяет очистку токенов при отказе обновления
func TestClient_RefreshFailureClearsCredentials(t *testing.T) {
	srv, tokens, client := newSession(t)
	srv.ExpireAccessTokens()
	srv.RejectRefresh(true)

	_, err := client.Me(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	require.NotNil(t, authErr.Cause)
	assert.Equal(t, http.StatusUnauthorized, authErr.Response.StatusCode)

	// Пользователь видит исходную ошибку запроса, а не ошибку обновления
	assert.Equal(t, "Given token not valid for any token type (HTTP 401)", ErrorMessage(err))

	assert.Equal(t, 1, srv.RefreshCalls())
	assert.Empty(t, tokens.Get(storage.TokenAccess))
	assert.Empty(t, tokens.Get(storage.TokenRefresh))
	assert.Equal(t, 1, tokens.clearCount())
	assert.Len(t, srv.Requests(mePath), 1)
}

// TestClient_NoInfiniteRetry проверяет, что повторный 401 не вызывает нового обновления
func TestClient_NoInfiniteRetry(t *testing.T) {
	var meCalls, refreshCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/users/me/":
			meCalls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Given token not valid for any token type"}`))
		case "/api/auth/token/refresh/":
			refreshCalls.Add(1)
			_, _ = w.Write([]byte(`{"access":"fresh-but-useless"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	tokens := newMemTokens("access-1", "refresh-1")
	client := NewClient(server.URL+"/api/", tokens)

	_, err := client.Me(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Nil(t, authErr.Cause)

	assert.Equal(t, int32(2), meCalls.Load())
	assert.Equal(t, int32(1), refreshCalls.Load())
	assert.Empty(t, tokens.Get(storage.TokenAccess))
	assert.Empty(t, tokens.Get(storage.TokenRefresh))
}

// TestClient_MissingRefreshToken проверяет 401 без refresh токена
func TestClient_MissingRefreshToken(t *testing.T) {
	srv, tokens, _ := newSession(t)
	tokens.refresh = ""
	client := NewClient(srv.BaseURL(), tokens)
	srv.ExpireAccessTokens()

	_, err := client.Me(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, err, ErrMissingRefreshToken)
	assert.Zero(t, srv.RefreshCalls())
	assert.Empty(t, tokens.Get(storage.TokenAccess))
}

// TestClient_ConcurrentUnauthorized проверяет, что N одновременных 401 дают один refresh
func TestClient_ConcurrentUnauthorized(t *testing.T) {
	const n = 8

	srv, tokens, client := newSession(t)
	srv.ExpireAccessTokens()
	release := srv.HoldRefresh()
	defer release()

	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.Me(context.Background())
		}(i)
	}

	// Все запросы получили 401 и ждут одно и то же обновление
	require.Eventually(t, func() bool { return client.Refresher().waiting() == n }, 2*time.Second, time.Millisecond)
	release()
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 1, srv.RefreshCalls())
	assert.Len(t, srv.Requests(mePath), 2*n)
	assert.False(t, client.Refresher().Pending())

	access := tokens.Get(storage.TokenAccess)
	for _, r := range srv.Requests(mePath)[n:] {
		assert.Equal(t, "Bearer "+access, r.Authorization)
	}
}

// TestClient_CancelDuringRefresh проверяет, что отмена вызова не стирает сессию
func TestClient_CancelDuringRefresh(t *testing.T) {
	srv, tokens, client := newSession(t)
	srv.ExpireAccessTokens()
	release := srv.HoldRefresh()
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := client.Me(ctx)
		done <- err
	}()

	require.Eventually(t, func() bool { return client.Refresher().waiting() == 1 }, 2*time.Second, time.Millisecond)
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	assert.Zero(t, tokens.clearCount())

	release()
	require.Eventually(t, func() bool { return !client.Refresher().Pending() }, 2*time.Second, time.Millisecond)
	assert.NotEmpty(t, tokens.Get(storage.TokenAccess))
}

// TestClient_UpdateAndDeleteMe проверяет PATCH и DELETE профиля
func TestClient_UpdateAndDeleteMe(t *testing.T) {
	srv, _, client := newSession(t)

	city := "Conakry"
	level := api.LevelAdvanced
	user, err := client.UpdateMe(context.Background(), api.ProfileUpdate{City: &city, Level: &level})
	require.NoError(t, err)
	assert.Equal(t, "Conakry", user.City)
	assert.Equal(t, api.LevelAdvanced, user.Level)

	require.NoError(t, client.DeleteMe(context.Background()))
	_, ok := srv.User("awa")
	assert.False(t, ok)
}

// TestClient_NetworkError проверяет ошибку при недоступном API
func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	tokens := newMemTokens("access-1", "refresh-1")
	client := NewClient(url, tokens)

	_, err := client.Me(context.Background())
	require.Error(t, err)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.MethodGet, netErr.Method)
	assert.True(t, strings.HasPrefix(ErrorMessage(err), "cannot reach API"))
	// Сетевая ошибка не трогает учётные данные
	assert.Equal(t, "access-1", tokens.Get(storage.TokenAccess))
}

// TestClient_Timeout проверяет таймаут запроса
func TestClient_Timeout(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(block)

	client := NewClient(server.URL, newMemTokens("", ""), WithTimeout(50*time.Millisecond))

	err := client.Do(context.Background(), http.MethodGet, "slow/", nil, nil)
	require.Error(t, err)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
	assert.Equal(t, "cannot reach API: request timed out", ErrorMessage(err))
}
