package apitest

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// accessClaims представляет JWT claims access токена
type accessClaims struct {
	Username string `json:"username"`
	// Epoch позволяет разом инвалидировать все выданные access токены
	Epoch int `json:"epoch"`
	jwt.RegisteredClaims
}

// jwtConfig содержит конфигурацию для JWT
type jwtConfig struct {
	secret    []byte
	accessTTL time.Duration
}

// generateAccessToken создает новый JWT access token
func generateAccessToken(cfg jwtConfig, userID, username string, epoch int) (string, error) {
	now := time.Now()

	claims := accessClaims{
		Username: username,
		Epoch:    epoch,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "apitest",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(cfg.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// validateAccessToken валидирует и парсит JWT access token
func validateAccessToken(cfg jwtConfig, tokenString string) (*accessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(token *jwt.Token) (any, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return cfg.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*accessClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// generateRefreshToken создает новый random refresh token
func generateRefreshToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(tokenBytes), nil
}
