package migration

import (
	"fmt"
	"time"
)

// ItemFailure records one failed item with the reason it failed.
type ItemFailure struct {
	Key   string `json:"key" yaml:"key"`
	Error string `json:"error" yaml:"error"`
}

// Association is one parent-to-user membership link, e.g. role "Admin" to
// login "a@x.com" or tenant "org_1" to login "m@acme.com".
type Association struct {
	Parent  string `json:"parent" yaml:"parent"`
	LoginID string `json:"loginId" yaml:"loginId"`
}

func (a Association) String() string {
	return fmt.Sprintf("%s -> %s", a.Parent, a.LoginID)
}

// UserReport accumulates per-user outcomes for the Users domain. Merged
// holds the loginIds that collapsed more than one source identity;
// MergedDisabled is the subset whose status was forced to disabled.
type UserReport struct {
	Found          int           `json:"found" yaml:"found"`
	Succeeded      []string      `json:"succeeded" yaml:"succeeded"`
	Failed         []ItemFailure `json:"failed" yaml:"failed"`
	Merged         []string      `json:"merged" yaml:"merged"`
	MergedDisabled []string      `json:"mergedDisabled" yaml:"mergedDisabled"`
}

// RoleReport accumulates role, permission, and role-membership outcomes.
type RoleReport struct {
	Found                int           `json:"found" yaml:"found"`
	Succeeded            []string      `json:"succeeded" yaml:"succeeded"`
	Failed               []ItemFailure `json:"failed" yaml:"failed"`
	PermissionsSucceeded []string      `json:"permissionsSucceeded" yaml:"permissionsSucceeded"`
	PermissionsFailed    []ItemFailure `json:"permissionsFailed" yaml:"permissionsFailed"`
	MembersSucceeded     []Association `json:"membersSucceeded" yaml:"membersSucceeded"`
	MembersFailed        []ItemFailure `json:"membersFailed" yaml:"membersFailed"`
}

// TenantReport accumulates tenant and tenant-membership outcomes.
type TenantReport struct {
	Found            int           `json:"found" yaml:"found"`
	Succeeded        []string      `json:"succeeded" yaml:"succeeded"`
	Failed           []ItemFailure `json:"failed" yaml:"failed"`
	MembersSucceeded []Association `json:"membersSucceeded" yaml:"membersSucceeded"`
	MembersFailed    []ItemFailure `json:"membersFailed" yaml:"membersFailed"`
}

// Preview holds the prospective write counts computed by a dry run. Nothing
// was attempted, so there are no per-item outcomes to report.
type Preview struct {
	Users            int `json:"users" yaml:"users"`
	Roles            int `json:"roles" yaml:"roles"`
	Permissions      int `json:"permissions" yaml:"permissions"`
	RoleMembers      int `json:"roleMembers" yaml:"roleMembers"`
	Tenants          int `json:"tenants" yaml:"tenants"`
	TenantMembers    int `json:"tenantMembers" yaml:"tenantMembers"`
	MergedIdentities int `json:"mergedIdentities" yaml:"mergedIdentities"`
}

// Report is the sole artifact of one migration run. It is built incrementally
// by the Migrator and read-only once Run returns.
type Report struct {
	RunID       string    `json:"runId" yaml:"runId"`
	DryRun      bool      `json:"dryRun" yaml:"dryRun"`
	StartedAt   time.Time `json:"startedAt" yaml:"startedAt"`
	CompletedAt time.Time `json:"completedAt" yaml:"completedAt"`

	Users   UserReport   `json:"users" yaml:"users"`
	Roles   RoleReport   `json:"roles" yaml:"roles"`
	Tenants TenantReport `json:"tenants" yaml:"tenants"`

	// Preview is set only for dry runs.
	Preview *Preview `json:"preview,omitempty" yaml:"preview,omitempty"`
}

// FailureCount returns the total number of failed items across all domains.
// A non-zero count maps to a non-zero process exit code.
func (r *Report) FailureCount() int {
	return len(r.Users.Failed) +
		len(r.Roles.Failed) + len(r.Roles.PermissionsFailed) + len(r.Roles.MembersFailed) +
		len(r.Tenants.Failed) + len(r.Tenants.MembersFailed)
}
