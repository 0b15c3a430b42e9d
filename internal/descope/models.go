package descope

// User status values accepted by the status update endpoint.
const (
	StatusEnabled  = "enabled"
	StatusDisabled = "disabled"
)

// UserRequest is the payload for the user create/update endpoint. The
// endpoint upserts by loginId, which is what makes reruns safe.
type UserRequest struct {
	LoginID          string         `json:"loginId"`
	Email            string         `json:"email,omitempty"`
	VerifiedEmail    bool           `json:"verifiedEmail,omitempty"`
	Phone            string         `json:"phone,omitempty"`
	VerifiedPhone    bool           `json:"verifiedPhone,omitempty"`
	DisplayName      string         `json:"displayName,omitempty"`
	Picture          string         `json:"picture,omitempty"`
	Invite           bool           `json:"invite"`
	Test             bool           `json:"test"`
	CustomAttributes map[string]any `json:"customAttributes,omitempty"`
}

type statusRequest struct {
	LoginID string `json:"loginId"`
	Status  string `json:"status"`
}

type permissionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type roleRequest struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	PermissionNames []string `json:"permissionNames"`
}

type tenantRequest struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type userRolesRequest struct {
	LoginID   string   `json:"loginId"`
	RoleNames []string `json:"roleNames"`
}

type userTenantRequest struct {
	LoginID  string `json:"loginId"`
	TenantID string `json:"tenantId"`
}
