package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"campuscrafter.id/academy/internal/entity"
	"campuscrafter.id/academy/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload: registered claims plus the identity tuple.
type Claims struct {
	Email string      `json:"email"`
	Role  entity.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager mints and verifies HS256 bearer tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "campuscrafter",
		now:    time.Now,
	}
}

// Issue signs a token for identity and returns it with its unix expiry.
func (m *TokenManager) Issue(identity entity.Identity) (string, int64, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)

	claims := Claims{
		Email: identity.Email,
		Role:  identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(identity.ID), 10),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", 0, fmt.Errorf("sign token: %w", err)
	}

	return signed, expiresAt.Unix(), nil
}

// Verify checks signature and expiry and returns the embedded identity.
func (m *TokenManager) Verify(tokenString string) (entity.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return entity.Identity{}, fmt.Errorf("token expired: %w", apperror.ErrUnauthorized)
		}
		return entity.Identity{}, fmt.Errorf("invalid token: %w", apperror.ErrUnauthorized)
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return entity.Identity{}, fmt.Errorf("invalid token subject: %w", apperror.ErrUnauthorized)
	}
	if !claims.Role.Valid() {
		return entity.Identity{}, fmt.Errorf("invalid token role: %w", apperror.ErrUnauthorized)
	}

	return entity.Identity{ID: uint(id), Email: claims.Email, Role: claims.Role}, nil
}
