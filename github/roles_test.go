package github

import (
	"errors"
	"testing"

	"github.com/BjornMelin/contribux-sub005/auth"
)

func testRest(t *testing.T) *Rest {
	t.Helper()
	ft := &fakeTransport{handler: func(req *Request) (*Response, error) {
		return jsonResponse(200, `{}`, nil), nil
	}}
	return newTestClient(t, ft).Rest()
}

func TestNewGuestRole_ReadersOnly(t *testing.T) {
	role := NewGuestRole(testRest(t))

	if role.Repositories == nil || role.Issues == nil || role.PullRequests == nil || role.Users == nil {
		t.Error("guest role should expose every domain reader")
	}

	// The read-only surface is a property of the type: GuestRole has
	// no writer fields, so a write is unnameable rather than denied at
	// runtime.
	var _ RepositoryReader = role.Repositories
	var _ IssueReader = role.Issues
}

func TestRoleConstructors_EnforceTier(t *testing.T) {
	rest := testRest(t)

	if _, err := NewContributorRole(auth.TierGuest, rest); !errors.Is(err, ErrInsufficientTier) {
		t.Errorf("contributor from guest tier: error = %v, want ErrInsufficientTier", err)
	}
	if _, err := NewMaintainerRole(auth.TierContributor, rest); !errors.Is(err, ErrInsufficientTier) {
		t.Errorf("maintainer from contributor tier: error = %v, want ErrInsufficientTier", err)
	}
	if _, err := NewAdministratorRole(auth.TierMaintainer, rest); !errors.Is(err, ErrInsufficientTier) {
		t.Errorf("administrator from maintainer tier: error = %v, want ErrInsufficientTier", err)
	}
	if _, err := NewSystemRole(auth.TierAdministrator, rest); !errors.Is(err, ErrInsufficientTier) {
		t.Errorf("system from administrator tier: error = %v, want ErrInsufficientTier", err)
	}
}

func TestRoleConstructors_GrantStrictSupersets(t *testing.T) {
	rest := testRest(t)

	contributor, err := NewContributorRole(auth.TierContributor, rest)
	if err != nil {
		t.Fatalf("NewContributorRole() error = %v", err)
	}
	if contributor.IssueWrites == nil || contributor.PullRequestWrites == nil {
		t.Error("contributor role should expose writers")
	}
	if contributor.Issues == nil {
		t.Error("contributor role should keep the guest readers")
	}

	maintainer, err := NewMaintainerRole(auth.TierMaintainer, rest)
	if err != nil {
		t.Fatalf("NewMaintainerRole() error = %v", err)
	}
	if maintainer.IssueTriage == nil || maintainer.PullRequestMerges == nil {
		t.Error("maintainer role should expose triage writers")
	}

	admin, err := NewAdministratorRole(auth.TierAdministrator, rest)
	if err != nil {
		t.Fatalf("NewAdministratorRole() error = %v", err)
	}
	if admin.RepositoryAdmin == nil || admin.IssueAdmin == nil || admin.PullRequestAdmin == nil {
		t.Error("administrator role should expose admin writers")
	}

	system, err := NewSystemRole(auth.TierSystem, rest)
	if err != nil {
		t.Fatalf("NewSystemRole() error = %v", err)
	}
	if system.CrossScope == nil {
		t.Error("system role should expose cross-scope operations")
	}
	if system.Issues == nil || system.IssueWrites == nil || system.IssueTriage == nil {
		t.Error("system role should keep every lower tier's surface")
	}
}

func TestSystemRole_AllowsHigherTierConstruction(t *testing.T) {
	rest := testRest(t)

	// A higher tier can always construct a lower role.
	if _, err := NewContributorRole(auth.TierSystem, rest); err != nil {
		t.Errorf("contributor from system tier: error = %v", err)
	}
	if _, err := NewMaintainerRole(auth.TierAdministrator, rest); err != nil {
		t.Errorf("maintainer from administrator tier: error = %v", err)
	}
}
