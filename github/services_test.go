package github

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/BjornMelin/contribux-sub005/gherrors"
)

func TestIssueService_CloseWithComment(t *testing.T) {
	ft := &fakeTransport{handler: func(req *Request) (*Response, error) {
		if strings.HasSuffix(req.URL, "/comments") {
			return jsonResponse(201, `{"id":7,"body":"fixed in v2"}`, nil), nil
		}
		return jsonResponse(200, `{"id":1,"number":5,"state":"closed"}`, nil), nil
	}}
	c := newTestClient(t, ft)

	issue, err := c.Rest().Issues.CloseWithComment(context.Background(), "o", "r", 5, "fixed in v2")
	if err != nil {
		t.Fatalf("CloseWithComment() error = %v", err)
	}
	if issue.State != "closed" {
		t.Errorf("issue.State = %q, want closed", issue.State)
	}

	if ft.count() != 2 {
		t.Fatalf("transport calls = %d, want 2 (comment, then state change)", ft.count())
	}
	first := ft.call(0)
	if first.Method != http.MethodPost || !strings.HasSuffix(first.URL, "/issues/5/comments") {
		t.Errorf("first call = %s %s, want comment before close", first.Method, first.URL)
	}
	second := ft.call(1)
	if second.Method != http.MethodPatch || !strings.Contains(string(second.Body), `"state":"closed"`) {
		t.Errorf("second call = %s %s %s, want close patch", second.Method, second.URL, second.Body)
	}
}

func TestIssueService_CloseWithComment_CommentFailureLeavesOpen(t *testing.T) {
	ft := &fakeTransport{handler: func(req *Request) (*Response, error) {
		return jsonResponse(403, `{"message":"forbidden"}`, nil), nil
	}}
	c := newTestClient(t, ft)

	_, err := c.Rest().Issues.CloseWithComment(context.Background(), "o", "r", 5, "nope")
	if err == nil {
		t.Fatal("CloseWithComment() succeeded, want comment failure")
	}
	if ft.count() != 1 {
		t.Errorf("transport calls = %d, want 1 (failed comment stops the close)", ft.count())
	}
}

func TestIssueService_CreateAndAssign(t *testing.T) {
	ft := &fakeTransport{handler: func(req *Request) (*Response, error) {
		if strings.HasSuffix(req.URL, "/assignees") {
			return jsonResponse(201, `{"id":1,"number":8,"assignees":[{"login":"bjorn"}]}`, nil), nil
		}
		return jsonResponse(201, `{"id":1,"number":8}`, nil), nil
	}}
	c := newTestClient(t, ft)

	issue, err := c.Rest().Issues.CreateAndAssign(context.Background(), "o", "r",
		&NewIssue{Title: "flaky test"}, []string{"bjorn"})
	if err != nil {
		t.Fatalf("CreateAndAssign() error = %v", err)
	}
	if len(issue.Assignees) != 1 || issue.Assignees[0].Login != "bjorn" {
		t.Errorf("assignees = %+v, want bjorn", issue.Assignees)
	}
	if ft.count() != 2 {
		t.Fatalf("transport calls = %d, want 2 (create, then assign)", ft.count())
	}
	if got := ft.call(1).URL; !strings.HasSuffix(got, "/issues/8/assignees") {
		t.Errorf("assign URL = %q, want the created issue's number", got)
	}
}

func TestPullRequestService_MergeWhenMergeable(t *testing.T) {
	ft := &fakeTransport{handler: func(req *Request) (*Response, error) {
		if strings.HasSuffix(req.URL, "/merge") {
			return jsonResponse(200, `{"sha":"abc123","merged":true}`, nil), nil
		}
		return jsonResponse(200, `{"id":1,"number":7,"state":"open","mergeable":true}`, nil), nil
	}}
	c := newTestClient(t, ft)

	res, err := c.Rest().PullRequests.MergeWhenMergeable(context.Background(), "o", "r", 7, "land it")
	if err != nil {
		t.Fatalf("MergeWhenMergeable() error = %v", err)
	}
	if !res.Merged || res.SHA != "abc123" {
		t.Errorf("result = %+v", res)
	}
	if ft.count() != 2 {
		t.Errorf("transport calls = %d, want 2 (read, then merge)", ft.count())
	}
}

func TestPullRequestService_MergeWhenMergeable_Refused(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"conflicted", `{"id":1,"number":7,"state":"open","mergeable":false}`},
		{"unknown mergeability", `{"id":1,"number":7,"state":"open","mergeable":null}`},
		{"already merged", `{"id":1,"number":7,"state":"closed","merged":true,"mergeable":null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTransport{handler: func(req *Request) (*Response, error) {
				return jsonResponse(200, tt.body, nil), nil
			}}
			c := newTestClient(t, ft)

			_, err := c.Rest().PullRequests.MergeWhenMergeable(context.Background(), "o", "r", 7, "")
			if gherrors.TagOf(err) != gherrors.TagValidation {
				t.Fatalf("tag = %v, want validation", gherrors.TagOf(err))
			}
			if ft.count() != 1 {
				t.Errorf("transport calls = %d, want 1 (merge never dispatched)", ft.count())
			}
		})
	}
}

func TestRepositoryService_Archive(t *testing.T) {
	ft := &fakeTransport{handler: func(req *Request) (*Response, error) {
		if req.Method == http.MethodPatch {
			return jsonResponse(200, `{"id":1,"name":"r","archived":true}`, nil), nil
		}
		return jsonResponse(200, `{"id":1,"name":"r","archived":false}`, nil), nil
	}}
	c := newTestClient(t, ft)

	repo, err := c.Rest().Repositories.Archive(context.Background(), "o", "r")
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if !repo.Archived {
		t.Error("repo.Archived = false, want true")
	}
	if ft.count() != 2 {
		t.Fatalf("transport calls = %d, want 2 (read, then patch)", ft.count())
	}
	if got := string(ft.call(1).Body); !strings.Contains(got, `"archived":true`) {
		t.Errorf("patch body = %s", got)
	}
}

func TestRepositoryService_Archive_AlreadyArchived(t *testing.T) {
	ft := &fakeTransport{handler: func(req *Request) (*Response, error) {
		return jsonResponse(200, `{"id":1,"name":"r","archived":true}`, nil), nil
	}}
	c := newTestClient(t, ft)

	repo, err := c.Rest().Repositories.Archive(context.Background(), "o", "r")
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if !repo.Archived {
		t.Error("repo.Archived = false, want true")
	}
	if ft.count() != 1 {
		t.Errorf("transport calls = %d, want 1 (no write for an archived repo)", ft.count())
	}
}

func TestUserService_EnsureBio(t *testing.T) {
	ft := &fakeTransport{handler: func(req *Request) (*Response, error) {
		if req.Method == http.MethodPatch {
			return jsonResponse(200, `{"login":"bjorn","bio":"building contribux"}`, nil), nil
		}
		return jsonResponse(200, `{"login":"bjorn","bio":"old bio"}`, nil), nil
	}}
	c := newTestClient(t, ft)

	user, err := c.Rest().Users.EnsureBio(context.Background(), "building contribux")
	if err != nil {
		t.Fatalf("EnsureBio() error = %v", err)
	}
	if user.Bio != "building contribux" {
		t.Errorf("bio = %q", user.Bio)
	}
	if ft.count() != 2 {
		t.Errorf("transport calls = %d, want 2 (read, then patch)", ft.count())
	}
}

func TestUserService_EnsureBio_NoChangeSkipsWrite(t *testing.T) {
	ft := &fakeTransport{handler: func(req *Request) (*Response, error) {
		return jsonResponse(200, `{"login":"bjorn","bio":"building contribux"}`, nil), nil
	}}
	c := newTestClient(t, ft)

	if _, err := c.Rest().Users.EnsureBio(context.Background(), "building contribux"); err != nil {
		t.Fatalf("EnsureBio() error = %v", err)
	}
	if ft.count() != 1 {
		t.Errorf("transport calls = %d, want 1 (matching bio skips the write)", ft.count())
	}
}
