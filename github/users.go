package github

import (
	"context"
	"net/http"
)

// User is the subset of user fields the client exposes.
type User struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Company   string `json:"company"`
	Location  string `json:"location"`
	Bio       string `json:"bio"`
	Followers int    `json:"followers"`
	Following int    `json:"following"`
}

// UserPatch carries partial profile updates for the authenticated
// user. Nil fields are left untouched.
type UserPatch struct {
	Name     *string `json:"name,omitempty"`
	Company  *string `json:"company,omitempty"`
	Location *string `json:"location,omitempty"`
	Bio      *string `json:"bio,omitempty"`
}

// UserReader is the read-only user contract.
type UserReader interface {
	Get(ctx context.Context, login string) (*User, error)
	Authenticated(ctx context.Context) (*User, error)
	ListFollowers(ctx context.Context, login string, opts ListOptions) ([]*User, error)
}

// UserWriter covers profile mutations for the authenticated user.
type UserWriter interface {
	UpdateAuthenticated(ctx context.Context, patch *UserPatch) (*User, error)
}

// UserManager is the full user contract: the reader and writer facets
// plus the composites that span them.
type UserManager interface {
	UserReader
	UserWriter

	// EnsureBio writes the authenticated user's bio only when it
	// differs from the current value.
	EnsureBio(ctx context.Context, bio string) (*User, error)
}

// UserService implements UserManager against the API.
type UserService struct {
	client *Client
}

func (s *UserService) Get(ctx context.Context, login string) (*User, error) {
	var out User
	if err := s.client.getJSON(ctx, "/users/"+login, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserService) Authenticated(ctx context.Context) (*User, error) {
	var out User
	if err := s.client.getJSON(ctx, "/user", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserService) ListFollowers(ctx context.Context, login string, opts ListOptions) ([]*User, error) {
	var out []*User
	if err := s.client.getJSON(ctx, "/users/"+login+"/followers", opts.params(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *UserService) UpdateAuthenticated(ctx context.Context, patch *UserPatch) (*User, error) {
	var out User
	if err := s.client.doJSON(ctx, http.MethodPatch, "/user", patch, &out, "/user"); err != nil {
		return nil, err
	}
	return &out, nil
}

// EnsureBio skips the write when the profile already matches.
func (s *UserService) EnsureBio(ctx context.Context, bio string) (*User, error) {
	current, err := s.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	if current.Bio == bio {
		return current, nil
	}
	return s.UpdateAuthenticated(ctx, &UserPatch{Bio: &bio})
}

var _ UserManager = (*UserService)(nil)
