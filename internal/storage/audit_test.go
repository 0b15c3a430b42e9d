package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuhlman-labs/descope-migrator/internal/migration"
	"github.com/kuhlman-labs/descope-migrator/internal/models"
)

func sampleReport() *migration.Report {
	return &migration.Report{
		RunID:       "run-1",
		StartedAt:   time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		CompletedAt: time.Date(2026, 8, 1, 10, 5, 0, 0, time.UTC),
		Users: migration.UserReport{
			Found:          3,
			Succeeded:      []string{"a@x.com", "b@x.com", "c@x.com"},
			Failed:         []migration.ItemFailure{{Key: "d@x.com", Error: "boom"}},
			Merged:         []string{"b@x.com", "c@x.com"},
			MergedDisabled: []string{"c@x.com"},
		},
		Roles: migration.RoleReport{
			Found:                1,
			Succeeded:            []string{"Admin"},
			PermissionsSucceeded: []string{"read:users"},
			MembersSucceeded:     []migration.Association{{Parent: "Admin", LoginID: "a@x.com"}},
		},
		Tenants: migration.TenantReport{
			Found:     1,
			Succeeded: []string{"org_1"},
		},
	}
}

func TestRunFromReport(t *testing.T) {
	run, items := RunFromReport(sampleReport())

	assert.Equal(t, "run-1", run.ID)
	assert.False(t, run.DryRun)
	assert.Equal(t, 3, run.UsersFound)
	assert.Equal(t, 3, run.UsersMigrated)
	assert.Equal(t, 1, run.UsersFailed)
	assert.Equal(t, 2, run.UsersMerged)
	assert.Equal(t, 1, run.RolesMigrated)
	assert.Equal(t, 1, run.TenantsMigrated)

	byKey := make(map[string]models.MigrationItem, len(items))
	for _, item := range items {
		byKey[item.Kind+"/"+item.Key] = item
	}

	assert.Equal(t, models.ItemStatusSuccess, byKey["user/a@x.com"].Status)
	assert.Equal(t, models.ItemStatusMerged, byKey["user/b@x.com"].Status)
	assert.Equal(t, models.ItemStatusMergedDisabled, byKey["user/c@x.com"].Status)

	failed := byKey["user/d@x.com"]
	assert.Equal(t, models.ItemStatusFailed, failed.Status)
	assert.Equal(t, "boom", failed.Error)

	assert.Equal(t, models.ItemStatusSuccess, byKey["role/Admin"].Status)
	assert.Equal(t, models.ItemStatusSuccess, byKey["permission/read:users"].Status)
	assert.Equal(t, models.ItemStatusSuccess, byKey["role_member/Admin -> a@x.com"].Status)
	assert.Equal(t, models.ItemStatusSuccess, byKey["tenant/org_1"].Status)
}

func TestRunFromReport_DryRunHasNoItems(t *testing.T) {
	report := sampleReport()
	report.DryRun = true

	run, items := RunFromReport(report)

	require.True(t, run.DryRun)
	assert.Empty(t, items)
}
