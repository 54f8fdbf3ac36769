package middleware

import (
	"crypto/rsa"
	"crypto/subtle"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	apierrors "github.com/feral-file/ff-emoji-insights/internal/api/shared/errors"
	"github.com/feral-file/ff-emoji-insights/internal/logger"
)

const (
	SchemeAPIKey = "apikey"
	SchemeBearer = "bearer"

	// CallerKey is the gin context key holding the Caller that passed the gate
	CallerKey = "dashboard_caller"
)

var (
	errMissingCredentials = errors.New("missing Authorization header")
	errMalformedHeader    = errors.New("invalid Authorization header format")
	errNoAPIKeys          = errors.New("no API keys configured")
	errInvalidAPIKey      = errors.New("invalid API key")
	errBearerDisabled     = errors.New("bearer tokens are not accepted")
	errWrongAudience      = errors.New("token was not issued for this dashboard")
)

// AuthConfig configures the dashboard access gate
type AuthConfig struct {
	APIKeys      []string // shared secrets accepted as "ApiKey <secret>"
	JWTPublicKey string   // RSA public key in PEM format; bearer tokens are rejected when empty
	JWTAudience  string   // audience a bearer token must be issued for
}

// Caller identifies who passed the gate
type Caller struct {
	Scheme  string
	Subject string
}

// gate checks Authorization headers against the shared secrets and the token verifier
type gate struct {
	apiKeys   [][]byte
	publicKey *rsa.PublicKey
	parser    *jwt.Parser
}

func newGate(cfg AuthConfig) (*gate, error) {
	g := &gate{}
	for _, key := range cfg.APIKeys {
		if key != "" {
			g.apiKeys = append(g.apiKeys, []byte(key))
		}
	}

	if cfg.JWTPublicKey == "" {
		return g, nil
	}
	publicKey, err := parseRSAPublicKey(cfg.JWTPublicKey)
	if err != nil {
		return g, fmt.Errorf("failed to parse JWT public key: %w", err)
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"})}
	if cfg.JWTAudience != "" {
		opts = append(opts, jwt.WithAudience(cfg.JWTAudience))
	}
	g.publicKey = publicKey
	g.parser = jwt.NewParser(opts...)
	return g, nil
}

func (g *gate) authenticate(header string) (Caller, error) {
	if header == "" {
		return Caller{}, errMissingCredentials
	}
	scheme, credentials, ok := strings.Cut(header, " ")
	if !ok || credentials == "" {
		return Caller{}, errMalformedHeader
	}

	switch strings.ToLower(scheme) {
	case SchemeAPIKey:
		if err := g.checkAPIKey(credentials); err != nil {
			return Caller{}, err
		}
		return Caller{Scheme: SchemeAPIKey}, nil
	case SchemeBearer:
		subject, err := g.verifyToken(credentials)
		if err != nil {
			return Caller{}, err
		}
		return Caller{Scheme: SchemeBearer, Subject: subject}, nil
	default:
		return Caller{}, fmt.Errorf("unsupported authorization scheme: %s", scheme)
	}
}

// checkAPIKey compares the presented key against every configured key in constant time
func (g *gate) checkAPIKey(presented string) error {
	if len(g.apiKeys) == 0 {
		return errNoAPIKeys
	}
	matched := 0
	for _, key := range g.apiKeys {
		matched |= subtle.ConstantTimeCompare([]byte(presented), key)
	}
	if matched != 1 {
		return errInvalidAPIKey
	}
	return nil
}

func (g *gate) verifyToken(raw string) (string, error) {
	if g.parser == nil {
		return "", errBearerDisabled
	}

	claims := &jwt.RegisteredClaims{}
	_, err := g.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return g.publicKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenInvalidAudience) {
			return "", fmt.Errorf("%w: %w", errWrongAudience, err)
		}
		return "", fmt.Errorf("invalid bearer token: %w", err)
	}
	return claims.Subject, nil
}

// Auth returns a gin middleware gating routes behind a shared secret or a dashboard bearer token.
// A token that verifies but was issued for another audience is rejected with 403.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	g, err := newGate(cfg)
	if err != nil {
		logger.Error(err, zap.String("component", "auth"))
	}

	return func(c *gin.Context) {
		caller, err := g.authenticate(c.GetHeader("Authorization"))
		if err != nil {
			logger.WarnCtx(c.Request.Context(), "Authentication failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			apiErr := apierrors.NewUnauthorizedError("Authentication failed", err.Error())
			if errors.Is(err, errWrongAudience) {
				apiErr = apierrors.NewForbiddenError("Access denied", err.Error())
			}
			c.AbortWithStatusJSON(apiErr.StatusCode(), apiErr)
			return
		}

		c.Set(CallerKey, caller)
		c.Next()
	}
}

// CallerFrom returns the Caller stored by Auth
func CallerFrom(c *gin.Context) (Caller, bool) {
	value, ok := c.Get(CallerKey)
	if !ok {
		return Caller{}, false
	}
	caller, ok := value.(Caller)
	return caller, ok
}

// parseRSAPublicKey parses an RSA public key from PEM format
func parseRSAPublicKey(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing public key")
	}

	// Try parsing as PKIX (most common format)
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		// Try parsing as PKCS1 format
		return x509.ParsePKCS1PublicKey(block.Bytes)
	}

	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not an RSA key")
	}

	return rsaKey, nil
}
