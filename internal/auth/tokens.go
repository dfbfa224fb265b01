package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims — JWT claims токена доступа.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenProvider выпускает и проверяет JWT токены (HS256).
type TokenProvider struct {
	secret []byte
	expiry time.Duration
	issuer string
}

// NewTokenProvider создаёт TokenProvider с общим секретом.
func NewTokenProvider(secret []byte, expiry time.Duration) (*TokenProvider, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret is required")
	}
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}

	return &TokenProvider{
		secret: secret,
		expiry: expiry,
		issuer: "publica",
	}, nil
}

// Issue выпускает токен для пользователя.
func (p *TokenProvider) Issue(userID uuid.UUID, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(p.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    p.issuer,
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate проверяет подпись и срок токена, возвращает ID пользователя.
func (p *TokenProvider) Validate(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		// Метод подписи фиксирован: защита от подмены alg
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return uuid.Nil, errors.New("invalid token claims")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse subject: %w", err)
	}
	return userID, nil
}
