package auth

import "errors"

// Sentinel errors for authentication material validation.
var (
	ErrMissingToken        = errors.New("auth: token is empty")
	ErrMalformedToken      = errors.New("auth: token is malformed")
	ErrMissingAppID        = errors.New("auth: app id is empty")
	ErrInvalidPrivateKey   = errors.New("auth: private key does not parse")
	ErrMissingClientID     = errors.New("auth: oauth client id is empty")
	ErrMissingClientSecret = errors.New("auth: oauth client secret is empty")
)
