package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAudience = "emoji-dashboard"

func init() {
	gin.SetMode(gin.TestMode)
}

// generateTestKey returns an RSA key pair with the public half PEM encoded
func generateTestKey(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return key, string(publicPEM)
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func setupTestGate(t *testing.T, cfg AuthConfig) *gate {
	t.Helper()
	g, err := newGate(cfg)
	require.NoError(t, err)
	return g
}

func TestGate_APIKey(t *testing.T) {
	g := setupTestGate(t, AuthConfig{APIKeys: []string{"", "secret-1", "secret-2"}})

	tests := []struct {
		name    string
		header  string
		success bool
	}{
		{name: "first key", header: "ApiKey secret-1", success: true},
		{name: "second key", header: "ApiKey secret-2", success: true},
		{name: "scheme is case insensitive", header: "apikey secret-1", success: true},
		{name: "wrong key", header: "ApiKey secret-3", success: false},
		{name: "prefix of key", header: "ApiKey secret", success: false},
		{name: "empty key", header: "ApiKey ", success: false},
		{name: "missing header", header: "", success: false},
		{name: "no credentials", header: "ApiKey", success: false},
		{name: "unsupported scheme", header: "Basic c2VjcmV0", success: false},
		{name: "bearer without verifier", header: "Bearer abc.def.ghi", success: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller, err := g.authenticate(tt.header)
			if tt.success {
				require.NoError(t, err)
				assert.Equal(t, Caller{Scheme: SchemeAPIKey}, caller)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestGate_NoKeysConfigured(t *testing.T) {
	g := setupTestGate(t, AuthConfig{APIKeys: []string{""}})

	_, err := g.authenticate("ApiKey anything")
	assert.ErrorIs(t, err, errNoAPIKeys)
}

func TestGate_BearerToken(t *testing.T) {
	key, publicPEM := generateTestKey(t)
	otherKey, _ := generateTestKey(t)
	g := setupTestGate(t, AuthConfig{JWTPublicKey: publicPEM, JWTAudience: testAudience})
	now := time.Now()

	valid := signToken(t, key, jwt.RegisteredClaims{
		Subject:   "ops-bot",
		Audience:  jwt.ClaimStrings{testAudience},
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})
	caller, err := g.authenticate("Bearer " + valid)
	require.NoError(t, err)
	assert.Equal(t, Caller{Scheme: SchemeBearer, Subject: "ops-bot"}, caller)

	t.Run("expired", func(t *testing.T) {
		expired := signToken(t, key, jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{testAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		})
		_, err := g.authenticate("Bearer " + expired)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("signed by another key", func(t *testing.T) {
		foreign := signToken(t, otherKey, jwt.RegisteredClaims{Audience: jwt.ClaimStrings{testAudience}})
		_, err := g.authenticate("Bearer " + foreign)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("issued for another audience", func(t *testing.T) {
		other := signToken(t, key, jwt.RegisteredClaims{Audience: jwt.ClaimStrings{"billing"}})
		_, err := g.authenticate("Bearer " + other)
		assert.ErrorIs(t, err, errWrongAudience)
	})

	t.Run("missing audience", func(t *testing.T) {
		bare := signToken(t, key, jwt.RegisteredClaims{Subject: "ops-bot"})
		_, err := g.authenticate("Bearer " + bare)
		require.Error(t, err)
		assert.NotErrorIs(t, err, errWrongAudience)
	})

	t.Run("hmac token", func(t *testing.T) {
		hmac, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Audience: jwt.ClaimStrings{testAudience}}).
			SignedString([]byte("shared"))
		require.NoError(t, err)
		_, err = g.authenticate("Bearer " + hmac)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := g.authenticate("Bearer not-a-token")
		assert.Error(t, err)
	})
}

func TestNewGate_InvalidPublicKey(t *testing.T) {
	g, err := newGate(AuthConfig{APIKeys: []string{"secret"}, JWTPublicKey: "not pem"})
	require.Error(t, err)

	// Shared secrets still work, bearer tokens do not
	_, err = g.authenticate("ApiKey secret")
	assert.NoError(t, err)
	_, err = g.authenticate("Bearer abc.def.ghi")
	assert.ErrorIs(t, err, errBearerDisabled)
}

func TestAuthMiddleware(t *testing.T) {
	key, publicPEM := generateTestKey(t)
	router := gin.New()
	router.GET("/protected", Auth(AuthConfig{
		APIKeys:      []string{"secret"},
		JWTPublicKey: publicPEM,
		JWTAudience:  testAudience,
	}), func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		require.True(t, ok)
		c.String(http.StatusOK, "%s:%s", caller.Scheme, caller.Subject)
	})

	do := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := do("ApiKey secret")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "apikey:", w.Body.String())

	token := signToken(t, key, jwt.RegisteredClaims{Subject: "ops-bot", Audience: jwt.ClaimStrings{testAudience}})
	w = do("Bearer " + token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bearer:ops-bot", w.Body.String())

	w = do("")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"unauthorized"`)

	other := signToken(t, key, jwt.RegisteredClaims{Subject: "ops-bot", Audience: jwt.ClaimStrings{"billing"}})
	w = do("Bearer " + other)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"forbidden"`)
}

func TestParseRSAPublicKey(t *testing.T) {
	key, publicPEM := generateTestKey(t)

	parsed, err := parseRSAPublicKey(publicPEM)
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey.N, parsed.N)

	pkcs1 := pem.EncodeToMemory(&pem.Block{Type: "RSA PUBLIC KEY", Bytes: x509.MarshalPKCS1PublicKey(&key.PublicKey)})
	parsed, err = parseRSAPublicKey(string(pkcs1))
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey.N, parsed.N)

	_, err = parseRSAPublicKey("not pem")
	assert.Error(t, err)
}
