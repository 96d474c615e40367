package api

// TokenRequest представляет запрос на выдачу пары токенов (auth/token/)
type TokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse представляет пару токенов, выданную сервером
type TokenResponse struct {
	Access  string `json:"access"`  // короткоживущий access token
	Refresh string `json:"refresh"` // долгоживущий refresh token
}

// RefreshRequest представляет запрос на обновление access token (auth/token/refresh/)
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshResponse содержит новый access token.
// Refresh заполняется только если сервер ротирует refresh token.
type RefreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// RegisterRequest представляет запрос на регистрацию (auth/register/)
type RegisterRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Username        string `json:"username"`
	Email           string `json:"email,omitempty"` // email необязателен
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}
