package security

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"jobboard/api/internal/config"
	"jobboard/api/internal/ids"
)

var ErrTokenInvalid = errors.New("token invalid")

const (
	audienceAccess  = "access"
	audienceRefresh = "refresh"
)

// Identity is the part of a user embedded in every token.
type Identity struct {
	UserID string
	Name   string
	Email  string
	RoleID string
	// Permissions holds "METHOD path" keys; only access tokens carry them.
	Permissions []string
}

type Claims struct {
	UserID      string   `json:"_id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	RoleID      string   `json:"role"`
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

func (c Claims) Identity() Identity {
	return Identity{
		UserID:      c.UserID,
		Name:        c.Name,
		Email:       c.Email,
		RoleID:      c.RoleID,
		Permissions: c.Permissions,
	}
}

// TokenIssuer signs access and refresh tokens with separate HMAC secrets.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	now           func() time.Time
}

func NewTokenIssuer(cfg config.SecurityConfig) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  []byte(cfg.JWTAccessSecret),
		refreshSecret: []byte(cfg.JWTRefreshSecret),
		accessTTL:     cfg.JWTAccessTTL,
		refreshTTL:    cfg.JWTRefreshTTL,
		issuer:        cfg.Issuer,
		now:           time.Now,
	}
}

func (t *TokenIssuer) AccessTTL() time.Duration  { return t.accessTTL }
func (t *TokenIssuer) RefreshTTL() time.Duration { return t.refreshTTL }

func (t *TokenIssuer) IssueAccess(id Identity) (string, error) {
	return t.sign(id, id.Permissions, audienceAccess, t.accessTTL, t.accessSecret)
}

func (t *TokenIssuer) IssueRefresh(id Identity) (string, error) {
	return t.sign(id, nil, audienceRefresh, t.refreshTTL, t.refreshSecret)
}

func (t *TokenIssuer) VerifyAccess(token string) (*Claims, error) {
	return t.parse(token, audienceAccess, t.accessSecret)
}

func (t *TokenIssuer) VerifyRefresh(token string) (*Claims, error) {
	return t.parse(token, audienceRefresh, t.refreshSecret)
}

func (t *TokenIssuer) sign(id Identity, permissions []string, audience string, ttl time.Duration, secret []byte) (string, error) {
	now := t.now()
	claims := Claims{
		UserID:      id.UserID,
		Name:        id.Name,
		Email:       id.Email,
		RoleID:      id.RoleID,
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   id.UserID,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			// unique per token so a rotation inside the same second still yields a new value
			ID: ids.New(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

func (t *TokenIssuer) parse(tokenStr string, audience string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithAudience(audience),
		jwt.WithIssuer(t.issuer),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// HashRefreshToken is the form in which refresh tokens are stored.
func HashRefreshToken(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}
