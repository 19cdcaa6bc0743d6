// Package token signs and verifies the HS256 session tokens that carry an
// authenticated identity between requests. A Codec is bound to exactly one
// secret and one TTL; access and refresh tokens use two separate Codec
// instances so the secrets are never interchangeable.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrSignatureInvalid = errors.New("token signature invalid")
var ErrTokenExpired = errors.New("token expired")
var ErrTokenMalformed = errors.New("token malformed")

// Claims is the payload carried inside a signed session token. Subject holds
// the user id; Username the display name shown to the client.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Codec signs and verifies tokens against a single secret with a fixed TTL.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Issue signs a fresh token for the given identity. Expiry is embedded as an
// absolute timestamp computed from the wall clock at signing time.
func (c *Codec) Issue(userID, username string) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return c.sign(claims)
}

// Renew re-signs an existing claims payload with a fresh expiry. Subject,
// username and issued-at are carried over untouched.
func (c *Codec) Renew(claims *Claims) (string, error) {
	renewed := *claims
	renewed.ExpiresAt = jwt.NewNumericDate(time.Now().Add(c.ttl))
	return c.sign(renewed)
}

// Verify parses and validates a token. Verification is all-or-nothing: any
// failure yields one of ErrSignatureInvalid, ErrTokenExpired or
// ErrTokenMalformed and no claims.
func (c *Codec) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrSignatureInvalid
		default:
			return nil, ErrTokenMalformed
		}
	}
	if !tkn.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

func (c *Codec) sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}
