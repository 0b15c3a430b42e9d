package auth0

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/kuhlman-labs/descope-migrator/internal/restapi"
)

// DefaultPageSize matches the Management API page size the tool has always
// used; changing it changes nothing semantically, only request counts.
const DefaultPageSize = 20

// ClientConfig contains configuration for creating an Auth0 read client
type ClientConfig struct {
	TenantID string
	Token    string
	BaseURL  string // optional; overrides the URL derived from TenantID
	PageSize int
}

// Validate checks if the configuration is valid
func (c ClientConfig) Validate() error {
	if c.TenantID == "" && c.BaseURL == "" {
		return fmt.Errorf("tenant ID or base URL is required")
	}
	if c.Token == "" {
		return fmt.Errorf("token is required")
	}
	return nil
}

// Client reads users, roles, permissions, and organizations from the Auth0
// Management API. All listings are best-effort: a failed page truncates the
// listing to what was already collected instead of aborting the run.
type Client struct {
	baseURL  string
	token    string
	pageSize int
	rest     *restapi.Client
	logger   *slog.Logger
}

// NewClient creates a new Auth0 Management API client
func NewClient(cfg ClientConfig, rest *restapi.Client, logger *slog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.us.auth0.com/api/v2", cfg.TenantID)
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &Client{
		baseURL:  baseURL,
		token:    cfg.Token,
		pageSize: pageSize,
		rest:     rest,
		logger:   logger,
	}, nil
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.token,
	}
}

// ListUsers returns all users in the tenant
func (c *Client) ListUsers(ctx context.Context) []User {
	return listAll[User](ctx, c, "/users")
}

// ListRoles returns all roles in the tenant
func (c *Client) ListRoles(ctx context.Context) []Role {
	return listAll[Role](ctx, c, "/roles")
}

// ListRoleMembers returns the users associated with a role
func (c *Client) ListRoleMembers(ctx context.Context, roleID string) []Member {
	return listAll[Member](ctx, c, "/roles/"+url.PathEscape(roleID)+"/users")
}

// ListRolePermissions returns the permissions attached to a role
func (c *Client) ListRolePermissions(ctx context.Context, roleID string) []Permission {
	return listAll[Permission](ctx, c, "/roles/"+url.PathEscape(roleID)+"/permissions")
}

// ListOrganizations returns all organizations in the tenant
func (c *Client) ListOrganizations(ctx context.Context) []Organization {
	return listAll[Organization](ctx, c, "/organizations")
}

// ListOrganizationMembers returns the members of an organization
func (c *Client) ListOrganizationMembers(ctx context.Context, orgID string) []Member {
	return listAll[Member](ctx, c, "/organizations/"+url.PathEscape(orgID)+"/members")
}

// listAll drains a paged listing endpoint into a complete slice. Pages are
// 0-based; the listing ends on the first empty page. A failed page request
// returns the partial result collected so far: partial source data is
// preferred over aborting the whole run.
func listAll[T any](ctx context.Context, c *Client, path string) []T {
	var all []T
	for page := 0; ; page++ {
		u := fmt.Sprintf("%s%s?page=%d&per_page=%d", c.baseURL, path, page, c.pageSize)

		resp, err := c.rest.Get(ctx, u, c.headers())
		if err != nil {
			c.logger.Error("Failed to fetch listing page, keeping partial result",
				"path", path, "page", page, "error", err)
			return all
		}
		if !resp.OK() {
			c.logger.Error("Listing page returned non-2xx, keeping partial result",
				"path", path, "page", page, "status", resp.StatusCode)
			return all
		}

		var items []T
		if err := json.Unmarshal(resp.Body, &items); err != nil {
			c.logger.Error("Failed to decode listing page, keeping partial result",
				"path", path, "page", page, "error", err)
			return all
		}
		if len(items) == 0 {
			return all
		}
		all = append(all, items...)
	}
}
