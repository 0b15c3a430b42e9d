package storage

import (
	"github.com/kuhlman-labs/descope-migrator/internal/migration"
	"github.com/kuhlman-labs/descope-migrator/internal/models"
)

// RunFromReport flattens a migration report into its audit rows. Dry runs
// produce a run row with counts only and no items, since nothing was written.
func RunFromReport(report *migration.Report) (*models.MigrationRun, []models.MigrationItem) {
	run := &models.MigrationRun{
		ID:          report.RunID,
		DryRun:      report.DryRun,
		StartedAt:   report.StartedAt,
		CompletedAt: report.CompletedAt,

		UsersFound:      report.Users.Found,
		UsersMigrated:   len(report.Users.Succeeded),
		UsersFailed:     len(report.Users.Failed),
		UsersMerged:     len(report.Users.Merged),
		RolesFound:      report.Roles.Found,
		RolesMigrated:   len(report.Roles.Succeeded),
		RolesFailed:     len(report.Roles.Failed),
		TenantsFound:    report.Tenants.Found,
		TenantsMigrated: len(report.Tenants.Succeeded),
		TenantsFailed:   len(report.Tenants.Failed),
	}

	if report.DryRun {
		return run, nil
	}

	var items []models.MigrationItem

	merged := make(map[string]bool, len(report.Users.Merged))
	for _, loginID := range report.Users.Merged {
		merged[loginID] = true
	}
	mergedDisabled := make(map[string]bool, len(report.Users.MergedDisabled))
	for _, loginID := range report.Users.MergedDisabled {
		mergedDisabled[loginID] = true
	}

	for _, loginID := range report.Users.Succeeded {
		status := models.ItemStatusSuccess
		switch {
		case mergedDisabled[loginID]:
			status = models.ItemStatusMergedDisabled
		case merged[loginID]:
			status = models.ItemStatusMerged
		}
		items = append(items, models.MigrationItem{
			Kind:   models.ItemKindUser,
			Key:    loginID,
			Status: status,
		})
	}
	items = appendFailures(items, models.ItemKindUser, report.Users.Failed)

	items = appendSuccesses(items, models.ItemKindPermission, report.Roles.PermissionsSucceeded)
	items = appendFailures(items, models.ItemKindPermission, report.Roles.PermissionsFailed)
	items = appendSuccesses(items, models.ItemKindRole, report.Roles.Succeeded)
	items = appendFailures(items, models.ItemKindRole, report.Roles.Failed)
	items = appendAssociations(items, models.ItemKindRoleMember, report.Roles.MembersSucceeded)
	items = appendFailures(items, models.ItemKindRoleMember, report.Roles.MembersFailed)

	items = appendSuccesses(items, models.ItemKindTenant, report.Tenants.Succeeded)
	items = appendFailures(items, models.ItemKindTenant, report.Tenants.Failed)
	items = appendAssociations(items, models.ItemKindTenantMember, report.Tenants.MembersSucceeded)
	items = appendFailures(items, models.ItemKindTenantMember, report.Tenants.MembersFailed)

	return run, items
}

func appendSuccesses(items []models.MigrationItem, kind string, keys []string) []models.MigrationItem {
	for _, key := range keys {
		items = append(items, models.MigrationItem{
			Kind:   kind,
			Key:    key,
			Status: models.ItemStatusSuccess,
		})
	}
	return items
}

func appendAssociations(items []models.MigrationItem, kind string, assocs []migration.Association) []models.MigrationItem {
	for _, assoc := range assocs {
		items = append(items, models.MigrationItem{
			Kind:   kind,
			Key:    assoc.String(),
			Status: models.ItemStatusSuccess,
		})
	}
	return items
}

func appendFailures(items []models.MigrationItem, kind string, failures []migration.ItemFailure) []models.MigrationItem {
	for _, failure := range failures {
		items = append(items, models.MigrationItem{
			Kind:   kind,
			Key:    failure.Key,
			Status: models.ItemStatusFailed,
			Error:  failure.Error,
		})
	}
	return items
}
