// Package token issues and verifies the signed credentials used by the API.
//
// Access and refresh tokens share the same encoding and signing key and
// differ only in lifetime. There is no server-side token registry: a token
// stays valid until it expires, so "logout" is a client-side concern.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind selects which lifetime a token is issued with.
type Kind int

const (
	KindAccess Kind = iota
	KindRefresh
)

const (
	DefaultAccessTTL  = 7 * 24 * time.Hour
	DefaultRefreshTTL = 30 * 24 * time.Hour
)

var (
	ErrExpired   = errors.New("token has expired")
	ErrMalformed = errors.New("invalid token")
)

// Claims is the payload embedded in every token.
type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and parses tokens with a single process-wide secret.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCodec builds a Codec. An empty secret is a configuration error and is
// rejected here rather than surfacing per request.
func NewCodec(secret string, accessTTL, refreshTTL time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret is required")
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &Codec{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}, nil
}

// Issue signs a token carrying the user id and role.
func (c *Codec) Issue(userID, role string, kind Kind) (string, error) {
	ttl := c.accessTTL
	if kind == KindRefresh {
		ttl = c.refreshTTL
	}

	now := time.Now().UTC()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify parses and validates a token string. It returns ErrExpired when the
// token is past its expiry and ErrMalformed on any structural or signature
// problem.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}
	if !parsed.Valid {
		return nil, ErrMalformed
	}
	return claims, nil
}
