package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const TokenTTL = time.Hour

var (
	ErrTokenMissing = errors.New("token missing")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is shared by the credential and the lookup functions; changing it
// breaks tokens already handed out.
type Claims struct {
	TenantID string `json:"tenant_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret []byte, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock returns a copy that mints and checks tokens against now.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	cp := *m
	cp.now = now
	return &cp
}

func (m *TokenManager) GenerateJWT(tenantID, username string) (string, error) {
	const op = "auth.GenerateJWT"

	claims := &Claims{
		TenantID: tenantID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(m.now().Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// ParseJWT verifies signature and expiry. Failures are reported as
// ErrTokenMissing, ErrTokenExpired or ErrTokenInvalid.
func (m *TokenManager) ParseJWT(tokenStr string) (*Claims, error) {
	const op = "auth.ParseJWT"

	if tokenStr == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrTokenMissing)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}
		return nil, fmt.Errorf("%s: %w: %v", op, ErrTokenInvalid, err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrTokenInvalid)
	}

	return claims, nil
}
