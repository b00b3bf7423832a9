package github

import (
	"errors"

	"github.com/BjornMelin/contribux-sub005/auth"
)

// ErrInsufficientTier is returned when a role constructor is asked for
// more capability than the tier holds.
var ErrInsufficientTier = errors.New("github: tier does not grant the requested role")

// Roles expose only the operations a permission tier allows. The
// constructor performs the single permission check; afterwards a role
// value physically cannot name a forbidden operation, so there is no
// runtime permission checking on the call path.

// GuestRole holds read-only access to every domain.
type GuestRole struct {
	Repositories RepositoryReader
	Issues       IssueReader
	PullRequests PullRequestReader
	Users        UserReader
}

// ContributorRole adds self-scoped writes: opening issues and pull
// requests, commenting, creating repositories, editing one's profile.
type ContributorRole struct {
	GuestRole

	IssueWrites       IssueWriter
	PullRequestWrites PullRequestWriter
	RepositoryWrites  RepositoryWriter
	UserWrites        UserWriter
}

// MaintainerRole adds triage over other people's work.
type MaintainerRole struct {
	ContributorRole

	IssueTriage       IssueTriageWriter
	PullRequestMerges PullRequestMergeWriter
}

// AdministratorRole adds destructive operations.
type AdministratorRole struct {
	MaintainerRole

	IssueAdmin       IssueAdminWriter
	PullRequestAdmin PullRequestAdminWriter
	RepositoryAdmin  RepositoryAdminWriter
}

// SystemRole adds operations that cross ownership boundaries.
type SystemRole struct {
	AdministratorRole

	CrossScope CrossScopeWriter
}

// NewGuestRole builds the read-only role. Every tier can read, so no
// check is needed.
func NewGuestRole(rest *Rest) GuestRole {
	return GuestRole{
		Repositories: rest.Repositories,
		Issues:       rest.Issues,
		PullRequests: rest.PullRequests,
		Users:        rest.Users,
	}
}

// NewContributorRole builds the contributor role for tiers holding
// write capability.
func NewContributorRole(tier auth.Tier, rest *Rest) (ContributorRole, error) {
	if !tier.Allows(auth.CapWrite) {
		return ContributorRole{}, ErrInsufficientTier
	}
	return ContributorRole{
		GuestRole:         NewGuestRole(rest),
		IssueWrites:       rest.Issues,
		PullRequestWrites: rest.PullRequests,
		RepositoryWrites:  rest.Repositories,
		UserWrites:        rest.Users,
	}, nil
}

// NewMaintainerRole builds the maintainer role for tiers holding
// triage capability.
func NewMaintainerRole(tier auth.Tier, rest *Rest) (MaintainerRole, error) {
	if !tier.Allows(auth.CapTriage) {
		return MaintainerRole{}, ErrInsufficientTier
	}
	contributor, err := NewContributorRole(tier, rest)
	if err != nil {
		return MaintainerRole{}, err
	}
	return MaintainerRole{
		ContributorRole:   contributor,
		IssueTriage:       rest.Issues,
		PullRequestMerges: rest.PullRequests,
	}, nil
}

// NewAdministratorRole builds the administrator role for tiers holding
// admin capability.
func NewAdministratorRole(tier auth.Tier, rest *Rest) (AdministratorRole, error) {
	if !tier.Allows(auth.CapAdmin) {
		return AdministratorRole{}, ErrInsufficientTier
	}
	maintainer, err := NewMaintainerRole(tier, rest)
	if err != nil {
		return AdministratorRole{}, err
	}
	return AdministratorRole{
		MaintainerRole:   maintainer,
		IssueAdmin:       rest.Issues,
		PullRequestAdmin: rest.PullRequests,
		RepositoryAdmin:  rest.Repositories,
	}, nil
}

// NewSystemRole builds the cross-scope role for tiers holding
// cross-scope capability.
func NewSystemRole(tier auth.Tier, rest *Rest) (SystemRole, error) {
	if !tier.Allows(auth.CapCrossScope) {
		return SystemRole{}, ErrInsufficientTier
	}
	admin, err := NewAdministratorRole(tier, rest)
	if err != nil {
		return SystemRole{}, err
	}
	return SystemRole{
		AdministratorRole: admin,
		CrossScope:        rest.Repositories,
	}, nil
}
