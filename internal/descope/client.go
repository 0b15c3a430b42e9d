package descope

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kuhlman-labs/descope-migrator/internal/restapi"
)

const defaultBaseURL = "https://api.descope.com"

// ClientConfig contains configuration for creating a Descope management client
type ClientConfig struct {
	ProjectID     string
	ManagementKey string
	BaseURL       string
}

// Validate checks if the configuration is valid
func (c ClientConfig) Validate() error {
	if c.ProjectID == "" {
		return fmt.Errorf("project ID is required")
	}
	if c.ManagementKey == "" {
		return fmt.Errorf("management key is required")
	}
	return nil
}

// Client writes users, roles, permissions, and tenants through the Descope
// management API. Every operation is a thin idempotent POST: 2xx is success,
// anything else is a per-item failure for the orchestrator to record.
type Client struct {
	baseURL       string
	projectID     string
	managementKey string
	rest          *restapi.Client
	logger        *slog.Logger
}

// NewClient creates a new Descope management API client
func NewClient(cfg ClientConfig, rest *restapi.Client, logger *slog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	return &Client{
		baseURL:       baseURL,
		projectID:     cfg.ProjectID,
		managementKey: cfg.ManagementKey,
		rest:          rest,
		logger:        logger,
	}, nil
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s:%s", c.projectID, c.managementKey),
		"Content-Type":  "application/json",
	}
}

// UpsertUser creates or updates a user keyed by loginId.
func (c *Client) UpsertUser(ctx context.Context, user UserRequest) error {
	return c.post(ctx, "/v1/mgmt/user/create", "upsert user", user)
}

// SetUserStatus enables or disables a user. Callers apply it only after a
// successful upsert.
func (c *Client) SetUserStatus(ctx context.Context, loginID, status string) error {
	return c.post(ctx, "/v1/mgmt/user/update/status", "set user status",
		statusRequest{LoginID: loginID, Status: status})
}

// CreatePermission creates a permission.
func (c *Client) CreatePermission(ctx context.Context, name, description string) error {
	return c.post(ctx, "/v1/mgmt/permission/create", "create permission",
		permissionRequest{Name: name, Description: description})
}

// CreateRole creates a role referencing the given permission names.
func (c *Client) CreateRole(ctx context.Context, name, description string, permissionNames []string) error {
	if permissionNames == nil {
		permissionNames = []string{}
	}
	return c.post(ctx, "/v1/mgmt/role/create", "create role",
		roleRequest{Name: name, Description: description, PermissionNames: permissionNames})
}

// CreateTenant creates a tenant, reusing the source organization ID.
func (c *Client) CreateTenant(ctx context.Context, id, name string) error {
	return c.post(ctx, "/v1/mgmt/tenant/create", "create tenant",
		tenantRequest{Name: name, ID: id})
}

// AddUserToRole grants a role to an existing user.
func (c *Client) AddUserToRole(ctx context.Context, loginID, roleName string) error {
	return c.post(ctx, "/v1/mgmt/user/update/role/add", "add user to role",
		userRolesRequest{LoginID: loginID, RoleNames: []string{roleName}})
}

// AddUserToTenant associates an existing user with a tenant.
func (c *Client) AddUserToTenant(ctx context.Context, tenantID, loginID string) error {
	return c.post(ctx, "/v1/mgmt/user/update/tenant/add", "add user to tenant",
		userTenantRequest{LoginID: loginID, TenantID: tenantID})
}

func (c *Client) post(ctx context.Context, path, operation string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", operation, err)
	}

	url := c.baseURL + path
	resp, err := c.rest.Post(ctx, url, c.headers(), body)
	if err != nil {
		c.logger.Error("Write failed", "operation", operation, "error", err)
		return err
	}
	if !resp.OK() {
		c.logger.Error("Write returned non-2xx",
			"operation", operation, "status", resp.StatusCode)
		return &restapi.APIError{
			StatusCode: resp.StatusCode,
			Method:     http.MethodPost,
			URL:        url,
			Err:        fmt.Errorf("%s failed", operation),
		}
	}

	c.logger.Debug("Write succeeded", "operation", operation)
	return nil
}
