// Package token implements the stateless codec for access and refresh
// tokens. Access tokens carry {userId, email}; refresh tokens carry
// {userId, jti}. The two token families are signed with independent
// secrets so that possession of one never grants the other's privileges.
package token

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-todo-server/internal/config"
)

// AccessClaims is the payload of an access token. It is never persisted;
// the signed token itself is the only record of its existence.
type AccessClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwtlib.RegisteredClaims
}

// RefreshClaims is the payload of a refresh token. The jti is mirrored in
// the server-side ledger, which is the authoritative revocation mechanism.
type RefreshClaims struct {
	UserID string `json:"userId"`
	jwtlib.RegisteredClaims
}

// JTI returns the unique token-instance identifier.
func (c *RefreshClaims) JTI() string { return c.ID }

// Codec signs and verifies both token families. It performs no I/O.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	nowTime       func() time.Time
}

// CodecOption modifies a Codec.
type CodecOption func(*Codec)

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowTime = nowFunc
	}
}

// NewCodec builds a Codec from the process configuration.
func NewCodec(cfg config.Config, options ...CodecOption) *Codec {
	c := &Codec{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessExpiry:  cfg.AccessTokenExpiry,
		refreshExpiry: cfg.RefreshTokenExpiry,
		nowTime:       time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// SignAccessToken produces a signed, time-limited access token for the user.
func (c *Codec) SignAccessToken(userID, email string) (string, error) {
	now := c.nowTime()
	claims := AccessClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(c.accessExpiry)),
		},
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(c.accessSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// SignRefreshToken generates a fresh unpredictable jti, embeds it alongside
// the user id, and signs with the refresh secret. The bare jti is returned
// for persistence in the ledger; the token itself is never stored.
func (c *Codec) SignRefreshToken(userID string) (token string, jti string, err error) {
	jti = uuid.New().String()
	now := c.nowTime()
	claims := RefreshClaims{
		UserID: userID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(c.refreshExpiry)),
		},
	}
	token, err = jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(c.refreshSecret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return token, jti, nil
}

// VerifyAccessToken checks the signature and expiry of an access token and
// returns its claims. Malformed, forged, and expired tokens all fail;
// callers treat every failure as unauthenticated.
func (c *Codec) VerifyAccessToken(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := c.verify(tokenStr, claims, c.accessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyRefreshToken checks the signature and expiry of a refresh token and
// returns its claims. The ledger lookup is the caller's responsibility.
func (c *Codec) VerifyRefreshToken(tokenStr string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := c.verify(tokenStr, claims, c.refreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (c *Codec) verify(tokenStr string, claims jwtlib.Claims, secret []byte) error {
	parsed, err := jwtlib.ParseWithClaims(tokenStr, claims,
		func(t *jwtlib.Token) (interface{}, error) { return secret, nil },
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(c.nowTime),
	)
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}
	if !parsed.Valid {
		return fmt.Errorf("invalid token")
	}
	return nil
}

// RefreshTokenExpiry computes the absolute expiry for a ledger row issued now.
func (c *Codec) RefreshTokenExpiry() time.Time {
	return c.nowTime().Add(c.refreshExpiry)
}

// AccessTokenTTL returns the configured access token lifetime.
func (c *Codec) AccessTokenTTL() time.Duration {
	return c.accessExpiry
}
