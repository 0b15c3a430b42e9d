package migration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kuhlman-labs/descope-migrator/internal/auth0"
	"github.com/kuhlman-labs/descope-migrator/internal/descope"
)

// Migrator drives one full migration run: Users, then Roles, then
// Organizations. Roles and tenants are written before their memberships, and
// the user domain runs first because memberships reference users expected to
// already exist in the target. Execution is fully synchronous; there is no
// rollback, and reruns rely on the target's upsert semantics for idempotence.
type Migrator struct {
	source *auth0.Client
	target *descope.Client
	logger *slog.Logger
	dryRun bool
}

// NewMigrator creates a migrator. In dry-run mode it performs every read but
// issues zero writes.
func NewMigrator(source *auth0.Client, target *descope.Client, dryRun bool, logger *slog.Logger) *Migrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Migrator{
		source: source,
		target: target,
		logger: logger,
		dryRun: dryRun,
	}
}

// Run executes the full pipeline and returns the run report. A per-item
// failure never aborts the run; the report carries every outcome.
func (m *Migrator) Run(ctx context.Context) *Report {
	report := &Report{
		RunID:     uuid.NewString(),
		DryRun:    m.dryRun,
		StartedAt: time.Now().UTC(),
	}
	if m.dryRun {
		report.Preview = &Preview{}
	}

	m.logger.Info("Starting migration run", "run_id", report.RunID, "dry_run", m.dryRun)

	m.migrateUsers(ctx, report)
	m.migrateRoles(ctx, report)
	m.migrateOrganizations(ctx, report)

	report.CompletedAt = time.Now().UTC()
	m.logger.Info("Migration run complete",
		"run_id", report.RunID,
		"duration", report.CompletedAt.Sub(report.StartedAt),
		"failures", report.FailureCount())
	return report
}

func (m *Migrator) migrateUsers(ctx context.Context, report *Report) {
	users := m.source.ListUsers(ctx)
	report.Users.Found = len(users)
	m.logger.Info("Fetched users", "count", len(users))

	for _, user := range users {
		drafts, err := ResolveUser(user)
		if err != nil {
			m.logger.Warn("Failed to resolve user", "user", userKey(user), "error", err)
			report.Users.Failed = append(report.Users.Failed, ItemFailure{
				Key:   userKey(user),
				Error: err.Error(),
			})
			continue
		}

		if m.dryRun {
			report.Preview.Users += len(drafts)
			for _, draft := range drafts {
				if draft.Merged() {
					report.Preview.MergedIdentities += draft.Identities - 1
				}
			}
			continue
		}

		for _, draft := range drafts {
			m.writeUser(ctx, draft, report)
		}
	}
}

// writeUser upserts one draft and then applies its status. Status is applied
// only after a successful upsert.
func (m *Migrator) writeUser(ctx context.Context, draft UserDraft, report *Report) {
	if err := m.target.UpsertUser(ctx, draft.Request()); err != nil {
		report.Users.Failed = append(report.Users.Failed, ItemFailure{
			Key:   draft.LoginID,
			Error: err.Error(),
		})
		return
	}
	if err := m.target.SetUserStatus(ctx, draft.LoginID, draft.Status); err != nil {
		report.Users.Failed = append(report.Users.Failed, ItemFailure{
			Key:   draft.LoginID,
			Error: fmt.Sprintf("status update: %s", err),
		})
		return
	}

	report.Users.Succeeded = append(report.Users.Succeeded, draft.LoginID)
	if draft.Merged() {
		report.Users.Merged = append(report.Users.Merged, draft.LoginID)
		if draft.Status == descope.StatusDisabled {
			report.Users.MergedDisabled = append(report.Users.MergedDisabled, draft.LoginID)
		}
	}
}

func (m *Migrator) migrateRoles(ctx context.Context, report *Report) {
	roles := m.source.ListRoles(ctx)
	report.Roles.Found = len(roles)
	m.logger.Info("Fetched roles", "count", len(roles))

	for _, role := range roles {
		permissions := m.source.ListRolePermissions(ctx, role.ID)

		if m.dryRun {
			members := m.source.ListRoleMembers(ctx, role.ID)
			report.Preview.Roles++
			report.Preview.Permissions += len(permissions)
			report.Preview.RoleMembers += len(members)
			continue
		}

		// The role payload carries every permission name discovered for the
		// role, including names whose own create call failed. Targets migrated
		// by earlier versions of this tool depend on that shape.
		permissionNames := make([]string, 0, len(permissions))
		for _, perm := range permissions {
			permissionNames = append(permissionNames, perm.Name)
			if err := m.target.CreatePermission(ctx, perm.Name, perm.Description); err != nil {
				report.Roles.PermissionsFailed = append(report.Roles.PermissionsFailed, ItemFailure{
					Key:   perm.Name,
					Error: err.Error(),
				})
				continue
			}
			report.Roles.PermissionsSucceeded = append(report.Roles.PermissionsSucceeded, perm.Name)
		}

		if err := m.target.CreateRole(ctx, role.Name, role.Description, permissionNames); err != nil {
			report.Roles.Failed = append(report.Roles.Failed, ItemFailure{
				Key:   role.Name,
				Error: err.Error(),
			})
			// No role to attach members to; move on to the next role.
			continue
		}
		report.Roles.Succeeded = append(report.Roles.Succeeded, role.Name)

		for _, member := range m.source.ListRoleMembers(ctx, role.ID) {
			assoc := Association{Parent: role.Name, LoginID: member.Email}
			if member.Email == "" {
				report.Roles.MembersFailed = append(report.Roles.MembersFailed, ItemFailure{
					Key:   Association{Parent: role.Name, LoginID: member.UserID}.String(),
					Error: "member has no email to use as loginId",
				})
				continue
			}
			if err := m.target.AddUserToRole(ctx, member.Email, role.Name); err != nil {
				report.Roles.MembersFailed = append(report.Roles.MembersFailed, ItemFailure{
					Key:   assoc.String(),
					Error: err.Error(),
				})
				continue
			}
			report.Roles.MembersSucceeded = append(report.Roles.MembersSucceeded, assoc)
		}
	}
}

func (m *Migrator) migrateOrganizations(ctx context.Context, report *Report) {
	orgs := m.source.ListOrganizations(ctx)
	report.Tenants.Found = len(orgs)
	m.logger.Info("Fetched organizations", "count", len(orgs))

	for _, org := range orgs {
		if m.dryRun {
			members := m.source.ListOrganizationMembers(ctx, org.ID)
			report.Preview.Tenants++
			report.Preview.TenantMembers += len(members)
			continue
		}

		if err := m.target.CreateTenant(ctx, org.ID, org.DisplayName); err != nil {
			report.Tenants.Failed = append(report.Tenants.Failed, ItemFailure{
				Key:   org.ID,
				Error: err.Error(),
			})
			continue
		}
		report.Tenants.Succeeded = append(report.Tenants.Succeeded, org.ID)

		for _, member := range m.source.ListOrganizationMembers(ctx, org.ID) {
			assoc := Association{Parent: org.ID, LoginID: member.Email}
			if member.Email == "" {
				report.Tenants.MembersFailed = append(report.Tenants.MembersFailed, ItemFailure{
					Key:   Association{Parent: org.ID, LoginID: member.UserID}.String(),
					Error: "member has no email to use as loginId",
				})
				continue
			}
			if err := m.target.AddUserToTenant(ctx, org.ID, member.Email); err != nil {
				report.Tenants.MembersFailed = append(report.Tenants.MembersFailed, ItemFailure{
					Key:   assoc.String(),
					Error: err.Error(),
				})
				continue
			}
			report.Tenants.MembersSucceeded = append(report.Tenants.MembersSucceeded, assoc)
		}
	}
}
