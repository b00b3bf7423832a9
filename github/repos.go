package github

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

// Repository is the subset of repository fields the client exposes.
type Repository struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	FullName      string   `json:"full_name"`
	Description   string   `json:"description"`
	Private       bool     `json:"private"`
	Archived      bool     `json:"archived"`
	Language      string   `json:"language"`
	Topics        []string `json:"topics"`
	Stargazers    int      `json:"stargazers_count"`
	Forks         int      `json:"forks_count"`
	OpenIssues    int      `json:"open_issues_count"`
	DefaultBranch string   `json:"default_branch"`
}

// NewRepository is the payload for creating a repository.
type NewRepository struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Private     bool   `json:"private"`
	AutoInit    bool   `json:"auto_init,omitempty"`
}

// RepositoryPatch carries partial repository updates. Nil fields are
// left untouched.
type RepositoryPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Private     *bool   `json:"private,omitempty"`
	Archived    *bool   `json:"archived,omitempty"`
}

// ListOptions pages list calls.
type ListOptions struct {
	Page    int
	PerPage int
}

func (o ListOptions) params() map[string]string {
	params := map[string]string{}
	if o.Page > 0 {
		params["page"] = strconv.Itoa(o.Page)
	}
	if o.PerPage > 0 {
		params["per_page"] = strconv.Itoa(o.PerPage)
	}
	return params
}

// RepositoryReader is the read-only repository contract.
type RepositoryReader interface {
	Get(ctx context.Context, owner, repo string) (*Repository, error)
	ListForOrg(ctx context.Context, org string, opts ListOptions) ([]*Repository, error)
	Search(ctx context.Context, query string, opts ListOptions) ([]*Repository, error)
}

// RepositoryWriter covers non-destructive repository mutations.
type RepositoryWriter interface {
	Create(ctx context.Context, repo *NewRepository) (*Repository, error)
	Update(ctx context.Context, owner, repo string, patch *RepositoryPatch) (*Repository, error)
}

// RepositoryAdminWriter covers destructive repository operations.
type RepositoryAdminWriter interface {
	Delete(ctx context.Context, owner, repo string) error
}

// CrossScopeWriter covers operations spanning ownership boundaries.
type CrossScopeWriter interface {
	Transfer(ctx context.Context, owner, repo, newOwner string) (*Repository, error)
}

// RepositoryManager is the full repository contract: every reader and
// writer facet plus the composites that span them.
type RepositoryManager interface {
	RepositoryReader
	RepositoryWriter
	RepositoryAdminWriter
	CrossScopeWriter

	// Archive flips the repository to archived. An already-archived
	// repository comes back as-is without a write.
	Archive(ctx context.Context, owner, repo string) (*Repository, error)
}

// RepositoryService implements RepositoryManager against the API.
type RepositoryService struct {
	client *Client
}

func repoPath(owner, repo string) string {
	return fmt.Sprintf("/repos/%s/%s", owner, repo)
}

func (s *RepositoryService) Get(ctx context.Context, owner, repo string) (*Repository, error) {
	var out Repository
	if err := s.client.getJSON(ctx, repoPath(owner, repo), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *RepositoryService) ListForOrg(ctx context.Context, org string, opts ListOptions) ([]*Repository, error) {
	var out []*Repository
	if err := s.client.getJSON(ctx, "/orgs/"+org+"/repos", opts.params(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RepositoryService) Search(ctx context.Context, query string, opts ListOptions) ([]*Repository, error) {
	params := opts.params()
	params["q"] = query
	var out struct {
		Items []*Repository `json:"items"`
	}
	if err := s.client.getJSON(ctx, "/search/repositories", params, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (s *RepositoryService) Create(ctx context.Context, repo *NewRepository) (*Repository, error) {
	var out Repository
	if err := s.client.doJSON(ctx, http.MethodPost, "/user/repos", repo, &out, "/user/repos"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *RepositoryService) Update(ctx context.Context, owner, repo string, patch *RepositoryPatch) (*Repository, error) {
	path := repoPath(owner, repo)
	var out Repository
	if err := s.client.doJSON(ctx, http.MethodPatch, path, patch, &out, path); err != nil {
		return nil, err
	}
	return &out, nil
}

// Archive reads the current state first; archiving is idempotent from
// the caller's side.
func (s *RepositoryService) Archive(ctx context.Context, owner, repo string) (*Repository, error) {
	current, err := s.Get(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	if current.Archived {
		return current, nil
	}
	archived := true
	return s.Update(ctx, owner, repo, &RepositoryPatch{Archived: &archived})
}

func (s *RepositoryService) Delete(ctx context.Context, owner, repo string) error {
	path := repoPath(owner, repo)
	return s.client.doJSON(ctx, http.MethodDelete, path, nil, nil, path)
}

func (s *RepositoryService) Transfer(ctx context.Context, owner, repo, newOwner string) (*Repository, error) {
	path := repoPath(owner, repo)
	payload := map[string]string{"new_owner": newOwner}
	var out Repository
	if err := s.client.doJSON(ctx, http.MethodPost, path+"/transfer", payload, &out, path); err != nil {
		return nil, err
	}
	return &out, nil
}

var _ RepositoryManager = (*RepositoryService)(nil)
