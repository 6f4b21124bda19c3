package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/NithinKS007/PDF-extractor-server/internal/config"
)

const (
	issuerName  = "pdf-extractor-server"
	typeAccess  = "access"
	typeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("tokens: invalid token")

// Payload is the identity carried inside both token kinds.
type Payload struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

type claims struct {
	Payload
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies access and refresh tokens with separate secrets.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewIssuer(cfg *config.Config) *Issuer {
	return &Issuer{
		accessSecret:  []byte(cfg.JWT.AccessSecret),
		refreshSecret: []byte(cfg.JWT.RefreshSecret),
		accessTTL:     cfg.JWT.AccessTokenTTL,
		refreshTTL:    cfg.JWT.RefreshTokenTTL,
		now:           time.Now,
	}
}

func (i *Issuer) GenerateAccessToken(p Payload) (string, error) {
	return i.sign(p, typeAccess, i.accessSecret, i.accessTTL)
}

func (i *Issuer) GenerateRefreshToken(p Payload) (string, error) {
	return i.sign(p, typeRefresh, i.refreshSecret, i.refreshTTL)
}

func (i *Issuer) VerifyAccessToken(raw string) (*Payload, error) {
	return i.verify(raw, typeAccess, i.accessSecret)
}

func (i *Issuer) VerifyRefreshToken(raw string) (*Payload, error) {
	return i.verify(raw, typeRefresh, i.refreshSecret)
}

func (i *Issuer) sign(p Payload, typ string, secret []byte, ttl time.Duration) (string, error) {
	now := i.now()
	c := claims{
		Payload: p,
		Type:    typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuerName,
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("tokens: sign %s token: %w", typ, err)
	}
	return s, nil
}

func (i *Issuer) verify(raw, typ string, secret []byte) (*Payload, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuerName),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.Type != typ || c.UserID == "" {
		return nil, fmt.Errorf("%w: unexpected token type %q", ErrInvalidToken, c.Type)
	}
	p := c.Payload
	return &p, nil
}
