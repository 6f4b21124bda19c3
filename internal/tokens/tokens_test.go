package tokens

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NithinKS007/PDF-extractor-server/internal/config"
)

func newTestIssuer() *Issuer {
	cfg := &config.Config{}
	cfg.JWT.AccessSecret = "access-secret-32-bytes-long-enough-x"
	cfg.JWT.RefreshSecret = "refresh-secret-32-bytes-long-enough"
	cfg.JWT.AccessTokenTTL = 15 * time.Minute
	cfg.JWT.RefreshTokenTTL = 7 * 24 * time.Hour
	return NewIssuer(cfg)
}

var alice = Payload{UserID: "cq1v2ab3c4d5e6f7g8h9", Email: "alice@example.com"}

func TestAccessTokenRoundTrip(t *testing.T) {
	iss := newTestIssuer()

	tok, err := iss.GenerateAccessToken(alice)
	require.NoError(t, err)

	got, err := iss.VerifyAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, alice, *got)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	iss := newTestIssuer()

	tok, err := iss.GenerateRefreshToken(alice)
	require.NoError(t, err)

	got, err := iss.VerifyRefreshToken(tok)
	require.NoError(t, err)
	assert.Equal(t, alice.UserID, got.UserID)
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	iss := newTestIssuer()

	access, err := iss.GenerateAccessToken(alice)
	require.NoError(t, err)
	refresh, err := iss.GenerateRefreshToken(alice)
	require.NoError(t, err)

	_, err = iss.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = iss.VerifyAccessToken(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredTokenRejected(t *testing.T) {
	iss := newTestIssuer()
	issued := time.Now().Add(-time.Hour)
	iss.now = func() time.Time { return issued }

	tok, err := iss.GenerateAccessToken(alice)
	require.NoError(t, err)

	iss.now = time.Now
	_, err = iss.VerifyAccessToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestWrongSecretRejected(t *testing.T) {
	tok, err := newTestIssuer().GenerateAccessToken(alice)
	require.NoError(t, err)

	other := newTestIssuer()
	other.accessSecret = []byte("different-secret-xxxxxxxxxxxxxxxxxx")
	_, err = other.VerifyAccessToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMalformedRejected(t *testing.T) {
	_, err := newTestIssuer().VerifyAccessToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func seg(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

func TestAlgNoneRejected(t *testing.T) {
	tok := seg(`{"alg":"none","typ":"JWT"}`) + "." +
		seg(`{"userId":"u","typ":"access","iss":"pdf-extractor-server","exp":9999999999}`) + "."
	_, err := newTestIssuer().VerifyAccessToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTamperedPayloadRejected(t *testing.T) {
	iss := newTestIssuer()
	tok, err := iss.GenerateAccessToken(alice)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	body, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	parts[1] = seg(strings.Replace(string(body), alice.UserID, "attacker", 1))

	_, err = iss.VerifyAccessToken(strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestForeignIssuerRejected(t *testing.T) {
	iss := newTestIssuer()
	c := claims{
		Payload: alice,
		Type:    typeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(iss.accessSecret)
	require.NoError(t, err)

	_, err = iss.VerifyAccessToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
