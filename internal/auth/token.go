package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/meridian-erp/meridian-auth/internal/shared"
)

// Claims is the wire shape of an issued token. Authorities carries the flat
// union of role names and permission names; UserID rides in a custom claim
// beside the registered subject (username).
type Claims struct {
	UserID      int64    `json:"uid"`
	Authorities []string `json:"authorities"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies signed bearer tokens. The secret and
// lifetime are fixed at startup and safe for unsynchronized concurrent reads.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenCodec constructs a codec signing with HS256.
func NewTokenCodec(secret string, ttl time.Duration, issuer string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), ttl: ttl, issuer: issuer, now: time.Now}
}

// TTL returns the configured token lifetime. Because tokens are never stored
// server-side, this is also the upper bound on how long authority changes
// take to propagate.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue serializes the principal into a signed token.
func (c *TokenCodec) Issue(p *shared.Principal) (string, error) {
	if p == nil {
		return "", errors.New("auth: principal required")
	}
	now := c.now().UTC()
	claims := Claims{
		UserID:      p.UserID,
		Authorities: p.Authorities,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Username,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature then expiry and reconstructs the principal from the
// embedded claims. No store round-trip happens here: authorities reflect the
// resolution snapshot taken at issue time. All-or-nothing — any failure
// yields a nil principal.
func (c *TokenCodec) Verify(tokenString string) (*shared.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return c.now() }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, shared.ErrTokenExpired
		}
		return nil, shared.ErrTokenInvalid
	}
	if !token.Valid {
		return nil, shared.ErrTokenInvalid
	}
	// jwt's validator skips the exp check entirely when the claim is absent;
	// a bearer token without a lifetime is malformed here.
	exp := claims.ExpiresAt
	if exp == nil {
		return nil, shared.ErrTokenInvalid
	}
	if !c.now().Before(exp.Time) {
		return nil, shared.ErrTokenExpired
	}
	return &shared.Principal{
		UserID:      claims.UserID,
		Username:    claims.Subject,
		Authorities: claims.Authorities,
	}, nil
}
