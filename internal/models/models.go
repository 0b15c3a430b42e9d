package models

import "time"

// Item statuses recorded per migrated resource.
const (
	ItemStatusSuccess        = "success"
	ItemStatusFailed         = "failed"
	ItemStatusMerged         = "merged"
	ItemStatusMergedDisabled = "merged_disabled"
)

// Item kinds, one per target resource written during a run.
const (
	ItemKindUser         = "user"
	ItemKindRole         = "role"
	ItemKindPermission   = "permission"
	ItemKindRoleMember   = "role_member"
	ItemKindTenant       = "tenant"
	ItemKindTenantMember = "tenant_member"
)

// MigrationRun is one execution of the migration pipeline, live or dry-run.
// Counts are denormalized from the run's items for cheap listing queries.
type MigrationRun struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	DryRun      bool      `gorm:"not null" json:"dry_run"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`

	UsersFound      int `json:"users_found"`
	UsersMigrated   int `json:"users_migrated"`
	UsersFailed     int `json:"users_failed"`
	UsersMerged     int `json:"users_merged"`
	RolesFound      int `json:"roles_found"`
	RolesMigrated   int `json:"roles_migrated"`
	RolesFailed     int `json:"roles_failed"`
	TenantsFound    int `json:"tenants_found"`
	TenantsMigrated int `json:"tenants_migrated"`
	TenantsFailed   int `json:"tenants_failed"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for MigrationRun
func (MigrationRun) TableName() string {
	return "migration_runs"
}

// MigrationItem is one per-resource outcome belonging to a run. Dry runs
// record no items.
type MigrationItem struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	RunID  string `gorm:"size:36;not null;index" json:"run_id"`
	Kind   string `gorm:"size:32;not null;index" json:"kind"`
	Key    string `gorm:"size:512;not null" json:"key"`
	Status string `gorm:"size:32;not null" json:"status"`
	Error  string `json:"error,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for MigrationItem
func (MigrationItem) TableName() string {
	return "migration_items"
}

// AllModels returns every model registered for schema auto-migration.
func AllModels() []any {
	return []any{&MigrationRun{}, &MigrationItem{}}
}
