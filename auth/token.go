package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSource yields the credential to attach to an outgoing request.
// Implementations are safe for concurrent use.
type TokenSource interface {
	// Token returns the current credential value.
	Token(ctx context.Context) (string, error)

	// Scheme is the Authorization scheme to pair with the token,
	// "Bearer" or "Basic".
	Scheme() string
}

// NewTokenSource builds the TokenSource for a validated Config.
func NewTokenSource(cfg Config) (TokenSource, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch c := cfg.(type) {
	case TokenConfig:
		return staticSource{token: c.Token}, nil
	case AppConfig:
		key, err := jwt.ParseRSAPrivateKeyFromPEM(c.PrivateKeyPEM)
		if err != nil {
			return nil, ErrInvalidPrivateKey
		}
		return &appSource{appID: c.AppID, key: key, now: time.Now}, nil
	case OAuthConfig:
		basic := base64.StdEncoding.EncodeToString([]byte(c.ClientID + ":" + c.ClientSecret))
		return staticSource{token: basic, scheme: "Basic"}, nil
	default:
		return nil, ErrMissingToken
	}
}

// FailingTokenSource returns err from every Token call. It keeps a
// client with invalid credential material constructable so the runtime
// validator can report the problem instead of construction failing.
func FailingTokenSource(err error) TokenSource {
	return failingSource{err: err}
}

type failingSource struct{ err error }

func (s failingSource) Token(context.Context) (string, error) { return "", s.err }

func (s failingSource) Scheme() string { return "Bearer" }

// staticSource serves a fixed credential.
type staticSource struct {
	token  string
	scheme string
}

func (s staticSource) Token(context.Context) (string, error) { return s.token, nil }

func (s staticSource) Scheme() string {
	if s.scheme != "" {
		return s.scheme
	}
	return "Bearer"
}

// appJWTLifetime is the GitHub-imposed maximum app JWT lifetime.
const appJWTLifetime = 10 * time.Minute

// appClockDrift backdates iat to tolerate clock skew between this
// host and GitHub.
const appClockDrift = time.Minute

// appSource mints short-lived RS256 JWTs for GitHub App auth. A
// minted JWT is reused until shortly before expiry.
type appSource struct {
	appID string
	key   *rsa.PrivateKey
	now   func() time.Time

	mu        sync.Mutex
	signed    string
	expiresAt time.Time
}

func (s *appSource) Token(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.signed != "" && now.Before(s.expiresAt.Add(-30*time.Second)) {
		return s.signed, nil
	}

	exp := now.Add(appJWTLifetime)
	claims := jwt.RegisteredClaims{
		Issuer:    s.appID,
		IssuedAt:  jwt.NewNumericDate(now.Add(-appClockDrift)),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.key)
	if err != nil {
		return "", err
	}

	s.signed = signed
	s.expiresAt = exp
	return signed, nil
}

func (s *appSource) Scheme() string { return "Bearer" }
