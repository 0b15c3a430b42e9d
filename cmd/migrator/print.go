package main

import (
	"fmt"
	"io"
	"time"

	"github.com/kuhlman-labs/descope-migrator/internal/migration"
)

// printReport renders the run summary section by section, one domain at a
// time, itemizing failed and merged entries.
func printReport(w io.Writer, report *migration.Report) {
	if report.DryRun {
		printPreview(w, report)
		return
	}

	fmt.Fprintln(w, "=================== User Migration =============================")
	fmt.Fprintf(w, "Users found via API: %d\n", report.Users.Found)
	fmt.Fprintf(w, "Successfully migrated %d users\n", len(report.Users.Succeeded))
	fmt.Fprintf(w, "Successfully merged %d users\n", len(report.Users.Merged))
	if len(report.Users.MergedDisabled) > 0 {
		fmt.Fprintf(w, "Users disabled because a merged account was disabled: %d\n", len(report.Users.MergedDisabled))
		for _, loginID := range report.Users.MergedDisabled {
			fmt.Fprintf(w, "  %s\n", loginID)
		}
	}
	printFailures(w, "users", report.Users.Failed)

	fmt.Fprintln(w, "=================== Role Migration =============================")
	fmt.Fprintf(w, "Roles found via API: %d\n", report.Roles.Found)
	fmt.Fprintf(w, "Successfully migrated %d roles\n", len(report.Roles.Succeeded))
	printFailures(w, "roles", report.Roles.Failed)

	fmt.Fprintln(w, "=================== Permission Migration =======================")
	fmt.Fprintf(w, "Permissions found via API: %d\n",
		len(report.Roles.PermissionsSucceeded)+len(report.Roles.PermissionsFailed))
	fmt.Fprintf(w, "Successfully migrated %d permissions\n", len(report.Roles.PermissionsSucceeded))
	printFailures(w, "permissions", report.Roles.PermissionsFailed)

	fmt.Fprintln(w, "=================== User/Role Mapping ==========================")
	fmt.Fprintf(w, "Successful role and user mappings: %d\n", len(report.Roles.MembersSucceeded))
	for _, assoc := range report.Roles.MembersSucceeded {
		fmt.Fprintf(w, "  %s\n", assoc)
	}
	printFailures(w, "role and user mappings", report.Roles.MembersFailed)

	fmt.Fprintln(w, "=================== Tenant Migration ===========================")
	fmt.Fprintf(w, "Organizations found via API: %d\n", report.Tenants.Found)
	fmt.Fprintf(w, "Successfully migrated %d tenants\n", len(report.Tenants.Succeeded))
	printFailures(w, "tenants", report.Tenants.Failed)

	fmt.Fprintln(w, "=================== User/Tenant Mapping ========================")
	fmt.Fprintf(w, "Successful tenant and user mappings: %d\n", len(report.Tenants.MembersSucceeded))
	for _, assoc := range report.Tenants.MembersSucceeded {
		fmt.Fprintf(w, "  %s\n", assoc)
	}
	printFailures(w, "tenant and user mappings", report.Tenants.MembersFailed)

	fmt.Fprintf(w, "\nRun %s completed in %s with %d failures\n",
		report.RunID, report.CompletedAt.Sub(report.StartedAt).Round(time.Millisecond), report.FailureCount())
}

func printFailures(w io.Writer, what string, failures []migration.ItemFailure) {
	if len(failures) == 0 {
		return
	}
	fmt.Fprintf(w, "Failed to migrate %d %s:\n", len(failures), what)
	for _, failure := range failures {
		fmt.Fprintf(w, "  %s: %s\n", failure.Key, failure.Error)
	}
}

func printPreview(w io.Writer, report *migration.Report) {
	fmt.Fprintln(w, "=================== Dry Run Preview ============================")
	fmt.Fprintf(w, "Users found via API: %d\n", report.Users.Found)
	fmt.Fprintf(w, "Roles found via API: %d\n", report.Roles.Found)
	fmt.Fprintf(w, "Organizations found via API: %d\n", report.Tenants.Found)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Would create %d users (%d source identities merge away)\n",
		report.Preview.Users, report.Preview.MergedIdentities)
	fmt.Fprintf(w, "Would create %d roles with %d permissions and %d role memberships\n",
		report.Preview.Roles, report.Preview.Permissions, report.Preview.RoleMembers)
	fmt.Fprintf(w, "Would create %d tenants with %d tenant memberships\n",
		report.Preview.Tenants, report.Preview.TenantMembers)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "No writes were issued. Re-run without --dry-run to migrate.")
}
