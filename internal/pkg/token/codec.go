package token

import (
	"errors"
	"fmt"
	"time"

	xerrors "storefront-service/internal/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// Sign produces a compact signed token carrying the payload with an
// expiry of now + lifetime. The codec is stateless: the caller supplies
// the secret and lifetime on every call, so the same function serves
// access and refresh tokens with their own secret/lifetime pairs.
func Sign(p Payload, secret []byte, lifetime time.Duration) (string, error) {
	now := time.Now()

	claims := &Claims{
		UserID:      p.UserID,
		Roles:       p.Roles,
		Permissions: p.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", p.UserID),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        ulid.Make().String(),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(secret)
}

// Verify validates the signature and expiry of a compact token and
// returns its claims. A token signed with a different secret fails with
// ErrTokenInvalid; a stale token fails with ErrTokenExpired. There is no
// lenient mode.
func Verify(raw string, secret []byte) (*Claims, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", xerrors.ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", xerrors.ErrTokenInvalid, err)
	}
	if !tok.Valid {
		return nil, xerrors.ErrTokenInvalid
	}

	return &claims, nil
}
