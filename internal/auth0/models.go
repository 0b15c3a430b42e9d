package auth0

// Identity is one external authentication method attached to a user.
// A user migrated from several connections carries one entry per connection.
type Identity struct {
	Connection string `json:"connection"`
	Provider   string `json:"provider"`
	UserID     string `json:"user_id"`
	IsSocial   bool   `json:"isSocial"`
}

// User is a user record as returned by the Management API user listing.
// Fetched read-only; the migration never mutates source data.
type User struct {
	Email         string     `json:"email"`
	EmailVerified bool       `json:"email_verified"`
	PhoneNumber   string     `json:"phone_number"`
	PhoneVerified bool       `json:"phone_verified"`
	Name          string     `json:"name"`
	Picture       string     `json:"picture"`
	Blocked       bool       `json:"blocked"`
	Identities    []Identity `json:"identities"`
}

type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Permission belongs to a role via the role's permission listing.
type Permission struct {
	Name        string `json:"permission_name"`
	Description string `json:"description"`
}

type Organization struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Member is a user reference from a role-member or organization-member
// listing. Associations are keyed by email, the loginId the
// username/password connection resolves to.
type Member struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}
