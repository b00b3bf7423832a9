package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/BjornMelin/contribux-sub005/gherrors"
)

// PullRequest is the subset of pull request fields the client exposes.
type PullRequest struct {
	ID        int64  `json:"id"`
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	State     string `json:"state"`
	Draft     bool   `json:"draft"`
	Merged    bool   `json:"merged"`
	Mergeable *bool  `json:"mergeable"`
	User      *User  `json:"user"`
	Head      Ref    `json:"head"`
	Base      Ref    `json:"base"`
}

// Ref is one side of a pull request.
type Ref struct {
	Label string `json:"label"`
	Ref   string `json:"ref"`
	SHA   string `json:"sha"`
}

// NewPullRequest is the payload for opening a pull request.
type NewPullRequest struct {
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
	Head  string `json:"head"`
	Base  string `json:"base"`
	Draft bool   `json:"draft,omitempty"`
}

// MergeResult reports the outcome of a merge call.
type MergeResult struct {
	SHA     string `json:"sha"`
	Merged  bool   `json:"merged"`
	Message string `json:"message"`
}

// PullRequestReader is the read-only pull request contract.
type PullRequestReader interface {
	Get(ctx context.Context, owner, repo string, number int) (*PullRequest, error)
	List(ctx context.Context, owner, repo string, opts ListOptions) ([]*PullRequest, error)
}

// PullRequestWriter covers opening pull requests.
type PullRequestWriter interface {
	Create(ctx context.Context, owner, repo string, pr *NewPullRequest) (*PullRequest, error)
}

// PullRequestMergeWriter covers landing other people's work.
type PullRequestMergeWriter interface {
	Merge(ctx context.Context, owner, repo string, number int, commitMessage string) (*MergeResult, error)
	RequestReviewers(ctx context.Context, owner, repo string, number int, reviewers []string) (*PullRequest, error)
}

// PullRequestAdminWriter covers forced state transitions.
type PullRequestAdminWriter interface {
	ForceClose(ctx context.Context, owner, repo string, number int) (*PullRequest, error)
}

// PullRequestManager is the full pull request contract: every reader
// and writer facet plus the composites that span them.
type PullRequestManager interface {
	PullRequestReader
	PullRequestWriter
	PullRequestMergeWriter
	PullRequestAdminWriter

	// MergeWhenMergeable merges only after confirming the server
	// reports the pull request open and mergeable.
	MergeWhenMergeable(ctx context.Context, owner, repo string, number int, commitMessage string) (*MergeResult, error)
}

// PullRequestService implements PullRequestManager against the API.
type PullRequestService struct {
	client *Client
}

func pullPath(owner, repo string, number int) string {
	return fmt.Sprintf("/repos/%s/%s/pulls/%d", owner, repo, number)
}

func pullsPath(owner, repo string) string {
	return fmt.Sprintf("/repos/%s/%s/pulls", owner, repo)
}

func (s *PullRequestService) Get(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	var out PullRequest
	if err := s.client.getJSON(ctx, pullPath(owner, repo, number), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PullRequestService) List(ctx context.Context, owner, repo string, opts ListOptions) ([]*PullRequest, error) {
	var out []*PullRequest
	if err := s.client.getJSON(ctx, pullsPath(owner, repo), opts.params(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PullRequestService) Create(ctx context.Context, owner, repo string, pr *NewPullRequest) (*PullRequest, error) {
	path := pullsPath(owner, repo)
	var out PullRequest
	if err := s.client.doJSON(ctx, http.MethodPost, path, pr, &out, path); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PullRequestService) Merge(ctx context.Context, owner, repo string, number int, commitMessage string) (*MergeResult, error) {
	path := pullPath(owner, repo, number)
	var payload any
	if commitMessage != "" {
		payload = map[string]string{"commit_message": commitMessage}
	}
	var out MergeResult
	if err := s.client.doJSON(ctx, http.MethodPut, path+"/merge", payload, &out, path, pullsPath(owner, repo)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PullRequestService) RequestReviewers(ctx context.Context, owner, repo string, number int, reviewers []string) (*PullRequest, error) {
	path := pullPath(owner, repo, number)
	payload := map[string][]string{"reviewers": reviewers}
	var out PullRequest
	if err := s.client.doJSON(ctx, http.MethodPost, path+"/requested_reviewers", payload, &out, path); err != nil {
		return nil, err
	}
	return &out, nil
}

// MergeWhenMergeable checks mergeability before landing the merge. An
// unknown mergeability (the server is still computing it) fails rather
// than guessing.
func (s *PullRequestService) MergeWhenMergeable(ctx context.Context, owner, repo string, number int, commitMessage string) (*MergeResult, error) {
	pr, err := s.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}
	switch {
	case pr.Merged:
		return nil, gherrors.Newf(gherrors.TagValidation, "pull request %s/%s#%d is already merged", owner, repo, number)
	case pr.Mergeable == nil:
		return nil, gherrors.Newf(gherrors.TagValidation, "mergeability of %s/%s#%d is not yet known", owner, repo, number)
	case !*pr.Mergeable:
		return nil, gherrors.Newf(gherrors.TagValidation, "pull request %s/%s#%d has conflicts", owner, repo, number)
	}
	return s.Merge(ctx, owner, repo, number, commitMessage)
}

func (s *PullRequestService) ForceClose(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	path := pullPath(owner, repo, number)
	payload := map[string]string{"state": "closed"}
	var out PullRequest
	if err := s.client.doJSON(ctx, http.MethodPatch, path, payload, &out, path, pullsPath(owner, repo)); err != nil {
		return nil, err
	}
	return &out, nil
}

var _ PullRequestManager = (*PullRequestService)(nil)
