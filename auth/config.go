package auth

import (
	"strings"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
)

// Config is the authentication material for one client instance.
// Exactly one variant is active; the value is immutable after
// construction. Rotation means constructing a new validated Config,
// never mutating in place.
type Config interface {
	// Kind names the variant: "token", "app", or "oauth".
	Kind() string

	// Validate checks that the material is well-formed without
	// performing any network call.
	Validate() error

	sealed()
}

// TokenConfig authenticates with a personal access or installation
// token.
type TokenConfig struct {
	Token string
}

// Kind returns "token".
func (TokenConfig) Kind() string { return "token" }

// Validate checks the token shape.
func (c TokenConfig) Validate() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	if len(c.Token) < 20 || strings.IndexFunc(c.Token, unicode.IsSpace) >= 0 {
		return ErrMalformedToken
	}
	return nil
}

func (TokenConfig) sealed() {}

// AppConfig authenticates as a GitHub App using an RSA private key.
// With an InstallationID the minted JWT is exchanged for an
// installation token; without one the client acts as the app itself.
type AppConfig struct {
	AppID          string
	PrivateKeyPEM  []byte
	InstallationID int64
}

// Kind returns "app".
func (AppConfig) Kind() string { return "app" }

// Validate checks the app id and that the private key parses.
func (c AppConfig) Validate() error {
	if c.AppID == "" {
		return ErrMissingAppID
	}
	if _, err := jwt.ParseRSAPrivateKeyFromPEM(c.PrivateKeyPEM); err != nil {
		return ErrInvalidPrivateKey
	}
	return nil
}

func (AppConfig) sealed() {}

// OAuthConfig authenticates as an OAuth app with client credentials.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
}

// Kind returns "oauth".
func (OAuthConfig) Kind() string { return "oauth" }

// Validate checks both credentials are present.
func (c OAuthConfig) Validate() error {
	if c.ClientID == "" {
		return ErrMissingClientID
	}
	if c.ClientSecret == "" {
		return ErrMissingClientSecret
	}
	return nil
}

func (OAuthConfig) sealed() {}
