// Package auth verifies the HS256 access tokens issued by the account
// service. Tokens are minted elsewhere; IssueToken exists for tooling
// and tests.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/gophmedia/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token body: registered claims plus the caller's user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// IssueToken signs a token for userID that expires after ttl.
func IssueToken(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyToken checks signature and expiry and returns the token's user id.
// An expired token yields common.ErrTokenExpired; every other failure,
// including a token without a user id, yields common.ErrInvalidToken.
func VerifyToken(raw string, secret []byte) (string, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", common.ErrTokenExpired
	case err != nil, claims.UserID == "":
		return "", common.ErrInvalidToken
	}
	return claims.UserID, nil
}
