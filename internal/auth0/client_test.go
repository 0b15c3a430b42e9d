package auth0

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/kuhlman-labs/descope-migrator/internal/restapi"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	rest := restapi.NewClient(restapi.RetryConfig{MaxAttempts: 2, BackoffUnit: time.Millisecond}, testLogger())
	c, err := NewClient(ClientConfig{BaseURL: serverURL, Token: "test-token"}, rest, testLogger())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

// pagedUsersHandler serves total users in pages of per_page, then an empty page.
func pagedUsersHandler(t *testing.T, total int, requests *[]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		*requests = append(*requests, r.URL.String())

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

		start := page * perPage
		end := start + perPage
		if end > total {
			end = total
		}
		users := []User{}
		for i := start; i < end; i++ {
			users = append(users, User{Email: fmt.Sprintf("user%d@example.com", i)})
		}
		_ = json.NewEncoder(w).Encode(users)
	}
}

func TestListUsers_DrainsAllPages(t *testing.T) {
	var requests []string
	server := httptest.NewServer(pagedUsersHandler(t, 45, &requests))
	defer server.Close()

	c := newTestClient(t, server.URL)
	users := c.ListUsers(context.Background())

	if len(users) != 45 {
		t.Fatalf("got %d users, want 45", len(users))
	}
	// Original order preserved across page boundaries.
	for i, u := range users {
		want := fmt.Sprintf("user%d@example.com", i)
		if u.Email != want {
			t.Fatalf("users[%d].Email = %q, want %q", i, u.Email, want)
		}
	}
	// 45 items at 20 per page: pages 0, 1, 2 (5 items), then empty page 3.
	if len(requests) != 4 {
		t.Errorf("made %d requests, want 4: %v", len(requests), requests)
	}
	if requests[0] != "/users?page=0&per_page=20" {
		t.Errorf("first request = %q", requests[0])
	}
}

func TestListUsers_EmptyTenant(t *testing.T) {
	var requests []string
	server := httptest.NewServer(pagedUsersHandler(t, 0, &requests))
	defer server.Close()

	c := newTestClient(t, server.URL)
	users := c.ListUsers(context.Background())

	if len(users) != 0 {
		t.Errorf("got %d users, want 0", len(users))
	}
	// Page 0 is still requested and observed empty.
	if len(requests) != 1 {
		t.Errorf("made %d requests, want 1", len(requests))
	}
}

func TestListUsers_PageFailureTruncates(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			_ = json.NewEncoder(w).Encode([]User{{Email: "a@x.com"}, {Email: "b@x.com"}})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	users := c.ListUsers(context.Background())

	// The failed second page truncates the listing to the first page.
	if len(users) != 2 {
		t.Fatalf("got %d users, want 2 (partial result)", len(users))
	}
	if users[0].Email != "a@x.com" || users[1].Email != "b@x.com" {
		t.Errorf("unexpected partial result: %+v", users)
	}
}

func TestListRolePermissions_PathAndDecoding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/roles/rol_123/permissions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("page") == "0" {
			_, _ = w.Write([]byte(`[{"permission_name":"read:users","description":"Read users"}]`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	perms := c.ListRolePermissions(context.Background(), "rol_123")

	if len(perms) != 1 {
		t.Fatalf("got %d permissions, want 1", len(perms))
	}
	if perms[0].Name != "read:users" || perms[0].Description != "Read users" {
		t.Errorf("unexpected permission: %+v", perms[0])
	}
}

func TestListOrganizationMembers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/organizations/org_1/members" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("page") == "0" {
			_, _ = w.Write([]byte(`[{"user_id":"auth0|1","email":"m@acme.com","name":"Member"}]`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	members := c.ListOrganizationMembers(context.Background(), "org_1")

	if len(members) != 1 || members[0].Email != "m@acme.com" {
		t.Errorf("unexpected members: %+v", members)
	}
}

func TestClientConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ClientConfig
		wantErr bool
	}{
		{"tenant and token", ClientConfig{TenantID: "t", Token: "x"}, false},
		{"base url and token", ClientConfig{BaseURL: "http://localhost", Token: "x"}, false},
		{"missing token", ClientConfig{TenantID: "t"}, true},
		{"missing tenant and base url", ClientConfig{Token: "x"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewClient_DerivesTenantURL(t *testing.T) {
	rest := restapi.NewClient(restapi.DefaultRetryConfig(), testLogger())
	c, err := NewClient(ClientConfig{TenantID: "dev-acme", Token: "x"}, rest, testLogger())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	want := "https://dev-acme.us.auth0.com/api/v2"
	if c.baseURL != want {
		t.Errorf("baseURL = %q, want %q", c.baseURL, want)
	}
	if c.pageSize != DefaultPageSize {
		t.Errorf("pageSize = %d, want %d", c.pageSize, DefaultPageSize)
	}
}
