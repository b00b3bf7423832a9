package github

import (
	"context"
	"fmt"
	"net/http"
)

// Issue is the subset of issue fields the client exposes.
type Issue struct {
	ID        int64   `json:"id"`
	Number    int     `json:"number"`
	Title     string  `json:"title"`
	Body      string  `json:"body"`
	State     string  `json:"state"`
	Locked    bool    `json:"locked"`
	Labels    []Label `json:"labels"`
	User      *User   `json:"user"`
	Assignees []*User `json:"assignees"`
	Comments  int     `json:"comments"`
}

// Label is an issue label.
type Label struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// IssueComment is one comment on an issue.
type IssueComment struct {
	ID   int64  `json:"id"`
	Body string `json:"body"`
	User *User  `json:"user"`
}

// NewIssue is the payload for opening an issue.
type NewIssue struct {
	Title  string   `json:"title"`
	Body   string   `json:"body,omitempty"`
	Labels []string `json:"labels,omitempty"`
}

// IssueReader is the read-only issue contract.
type IssueReader interface {
	Get(ctx context.Context, owner, repo string, number int) (*Issue, error)
	ListByRepo(ctx context.Context, owner, repo string, opts ListOptions) ([]*Issue, error)
	ListComments(ctx context.Context, owner, repo string, number int, opts ListOptions) ([]*IssueComment, error)
}

// IssueWriter covers creating and commenting, the operations a
// contributor performs on their own behalf.
type IssueWriter interface {
	Create(ctx context.Context, owner, repo string, issue *NewIssue) (*Issue, error)
	Comment(ctx context.Context, owner, repo string, number int, body string) (*IssueComment, error)
}

// IssueTriageWriter covers state and metadata transitions on other
// people's issues.
type IssueTriageWriter interface {
	AddLabels(ctx context.Context, owner, repo string, number int, labels []string) ([]Label, error)
	Assign(ctx context.Context, owner, repo string, number int, assignees []string) (*Issue, error)
	Close(ctx context.Context, owner, repo string, number int) (*Issue, error)
	Reopen(ctx context.Context, owner, repo string, number int) (*Issue, error)
	Lock(ctx context.Context, owner, repo string, number int, reason string) error
}

// IssueAdminWriter covers destructive issue operations.
type IssueAdminWriter interface {
	DeleteComment(ctx context.Context, owner, repo string, commentID int64) error
}

// IssueManager is the full issue contract: every reader and writer
// facet plus the composites that span them.
type IssueManager interface {
	IssueReader
	IssueWriter
	IssueTriageWriter
	IssueAdminWriter

	// CloseWithComment leaves a closing comment and then closes the
	// issue, in that order, so the comment lands while the issue is
	// still open.
	CloseWithComment(ctx context.Context, owner, repo string, number int, body string) (*Issue, error)

	// CreateAndAssign opens an issue and immediately assigns it.
	CreateAndAssign(ctx context.Context, owner, repo string, issue *NewIssue, assignees []string) (*Issue, error)
}

// IssueService implements IssueManager against the API.
type IssueService struct {
	client *Client
}

func issuePath(owner, repo string, number int) string {
	return fmt.Sprintf("/repos/%s/%s/issues/%d", owner, repo, number)
}

func issuesPath(owner, repo string) string {
	return fmt.Sprintf("/repos/%s/%s/issues", owner, repo)
}

func (s *IssueService) Get(ctx context.Context, owner, repo string, number int) (*Issue, error) {
	var out Issue
	if err := s.client.getJSON(ctx, issuePath(owner, repo, number), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *IssueService) ListByRepo(ctx context.Context, owner, repo string, opts ListOptions) ([]*Issue, error) {
	var out []*Issue
	if err := s.client.getJSON(ctx, issuesPath(owner, repo), opts.params(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *IssueService) ListComments(ctx context.Context, owner, repo string, number int, opts ListOptions) ([]*IssueComment, error) {
	var out []*IssueComment
	path := issuePath(owner, repo, number) + "/comments"
	if err := s.client.getJSON(ctx, path, opts.params(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *IssueService) Create(ctx context.Context, owner, repo string, issue *NewIssue) (*Issue, error) {
	path := issuesPath(owner, repo)
	var out Issue
	if err := s.client.doJSON(ctx, http.MethodPost, path, issue, &out, path); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *IssueService) Comment(ctx context.Context, owner, repo string, number int, body string) (*IssueComment, error) {
	path := issuePath(owner, repo, number)
	payload := map[string]string{"body": body}
	var out IssueComment
	if err := s.client.doJSON(ctx, http.MethodPost, path+"/comments", payload, &out, path); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *IssueService) AddLabels(ctx context.Context, owner, repo string, number int, labels []string) ([]Label, error) {
	path := issuePath(owner, repo, number)
	payload := map[string][]string{"labels": labels}
	var out []Label
	if err := s.client.doJSON(ctx, http.MethodPost, path+"/labels", payload, &out, path); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *IssueService) Assign(ctx context.Context, owner, repo string, number int, assignees []string) (*Issue, error) {
	path := issuePath(owner, repo, number)
	payload := map[string][]string{"assignees": assignees}
	var out Issue
	if err := s.client.doJSON(ctx, http.MethodPost, path+"/assignees", payload, &out, path); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *IssueService) setState(ctx context.Context, owner, repo string, number int, state string) (*Issue, error) {
	path := issuePath(owner, repo, number)
	payload := map[string]string{"state": state}
	var out Issue
	if err := s.client.doJSON(ctx, http.MethodPatch, path, payload, &out, path, issuesPath(owner, repo)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *IssueService) Close(ctx context.Context, owner, repo string, number int) (*Issue, error) {
	return s.setState(ctx, owner, repo, number, "closed")
}

func (s *IssueService) Reopen(ctx context.Context, owner, repo string, number int) (*Issue, error) {
	return s.setState(ctx, owner, repo, number, "open")
}

func (s *IssueService) Lock(ctx context.Context, owner, repo string, number int, reason string) error {
	path := issuePath(owner, repo, number)
	var payload any
	if reason != "" {
		payload = map[string]string{"lock_reason": reason}
	}
	return s.client.doJSON(ctx, http.MethodPut, path+"/lock", payload, nil, path)
}

// CloseWithComment posts the comment before flipping the state; a
// failed comment leaves the issue open.
func (s *IssueService) CloseWithComment(ctx context.Context, owner, repo string, number int, body string) (*Issue, error) {
	if _, err := s.Comment(ctx, owner, repo, number, body); err != nil {
		return nil, err
	}
	return s.Close(ctx, owner, repo, number)
}

// CreateAndAssign opens the issue first so a failed assignment still
// leaves the issue on record; the returned issue reflects the
// assignment.
func (s *IssueService) CreateAndAssign(ctx context.Context, owner, repo string, issue *NewIssue, assignees []string) (*Issue, error) {
	created, err := s.Create(ctx, owner, repo, issue)
	if err != nil {
		return nil, err
	}
	if len(assignees) == 0 {
		return created, nil
	}
	return s.Assign(ctx, owner, repo, created.Number, assignees)
}

func (s *IssueService) DeleteComment(ctx context.Context, owner, repo string, commentID int64) error {
	path := fmt.Sprintf("/repos/%s/%s/issues/comments/%d", owner, repo, commentID)
	return s.client.doJSON(ctx, http.MethodDelete, path, nil, nil, path)
}

var _ IssueManager = (*IssueService)(nil)
