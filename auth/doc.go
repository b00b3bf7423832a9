// Package auth defines the authentication material and permission
// tiers for the GitHub client.
//
// A Config is one of token, GitHub App, or OAuth app credentials;
// exactly one variant is active per client and it is immutable after
// construction. App credentials mint short-lived RS256 JWTs. Tiers
// form a strict capability hierarchy (Guest through System) that
// drives Role construction.
package auth
