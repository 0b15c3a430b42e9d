package migration

import (
	"fmt"
	"strings"

	"github.com/kuhlman-labs/descope-migrator/internal/auth0"
	"github.com/kuhlman-labs/descope-migrator/internal/descope"
)

const (
	// passwordConnectionMarker identifies username/password database
	// connections, e.g. "Username-Password-Authentication".
	passwordConnectionMarker = "Username-Password"

	smsConnection = "sms"
	smsProvider   = "sms"
)

// UserDraft is one prospective target user write, produced by resolving a
// source user's identities. Identities resolving to the same loginId collapse
// into a single draft.
type UserDraft struct {
	LoginID       string
	Email         string
	VerifiedEmail bool
	Phone         string
	VerifiedPhone bool
	DisplayName   string
	Picture       string
	Status        string
	Connection    string
	// Identities counts the source identities collapsed into this draft.
	Identities int
}

// Merged reports whether more than one source identity resolved to this
// draft's loginId.
func (d UserDraft) Merged() bool {
	return d.Identities > 1
}

// Request builds the user upsert payload for this draft.
func (d UserDraft) Request() descope.UserRequest {
	return descope.UserRequest{
		LoginID:       d.LoginID,
		Email:         d.Email,
		VerifiedEmail: d.VerifiedEmail,
		Phone:         d.Phone,
		VerifiedPhone: d.VerifiedPhone,
		DisplayName:   d.DisplayName,
		Picture:       d.Picture,
		CustomAttributes: map[string]any{
			"connection":      d.Connection,
			"freshlyMigrated": true,
		},
	}
}

// ResolveUser converts one source user into its target user drafts, one per
// identity, with identities that resolve to the same loginId merged into a
// single draft. Draft order follows identity order. An error means the whole
// user could not be resolved; callers record the user as failed and move on.
func ResolveUser(user auth0.User) ([]UserDraft, error) {
	if len(user.Identities) == 0 {
		return nil, fmt.Errorf("user %q has no identities", userKey(user))
	}

	status := descope.StatusEnabled
	if user.Blocked {
		status = descope.StatusDisabled
	}

	var order []string
	byLogin := make(map[string]*UserDraft)

	for _, identity := range user.Identities {
		loginID, err := resolveLoginID(user, identity)
		if err != nil {
			return nil, err
		}

		draft := UserDraft{
			LoginID:     loginID,
			DisplayName: user.Name,
			Picture:     user.Picture,
			Status:      status,
			Connection:  identity.Connection,
			Identities:  1,
		}
		if user.Email != "" {
			draft.Email = user.Email
			draft.VerifiedEmail = user.EmailVerified
		}
		if identity.Provider == smsProvider {
			draft.Phone = user.PhoneNumber
			draft.VerifiedPhone = user.PhoneVerified
		}

		existing, ok := byLogin[loginID]
		if !ok {
			byLogin[loginID] = &draft
			order = append(order, loginID)
			continue
		}
		mergeDraft(existing, draft)
	}

	drafts := make([]UserDraft, 0, len(order))
	for _, loginID := range order {
		drafts = append(drafts, *byLogin[loginID])
	}
	return drafts, nil
}

// resolveLoginID derives the canonical target identifier for one identity.
// Branches are evaluated in order; the first match wins.
func resolveLoginID(user auth0.User, identity auth0.Identity) (string, error) {
	switch {
	case strings.Contains(identity.Connection, passwordConnectionMarker):
		if user.Email == "" {
			return "", fmt.Errorf("identity on connection %q requires an email", identity.Connection)
		}
		return user.Email, nil

	case identity.Connection == smsConnection:
		if user.PhoneNumber == "" {
			return "", fmt.Errorf("sms identity requires a phone number")
		}
		return user.PhoneNumber, nil

	case strings.Contains(identity.Connection, "-"):
		prefix, _, _ := strings.Cut(identity.Connection, "-")
		return prefix + "-" + identity.UserID, nil

	default:
		return identity.Connection + "-" + identity.UserID, nil
	}
}

// mergeDraft folds a later identity's draft into the one already resolved for
// the same loginId. Later identities overwrite scalar fields they populate;
// fields the later identity left empty keep the earlier value. A disabled
// status from either side sticks.
func mergeDraft(dst *UserDraft, src UserDraft) {
	dst.Identities++
	dst.Connection = src.Connection

	if src.Email != "" {
		dst.Email = src.Email
		dst.VerifiedEmail = src.VerifiedEmail
	}
	if src.Phone != "" {
		dst.Phone = src.Phone
		dst.VerifiedPhone = src.VerifiedPhone
	}
	if src.DisplayName != "" {
		dst.DisplayName = src.DisplayName
	}
	if src.Picture != "" {
		dst.Picture = src.Picture
	}
	if src.Status == descope.StatusDisabled {
		dst.Status = descope.StatusDisabled
	}
}

// userKey labels a source user in reports and logs: email when present,
// otherwise the display name, otherwise the first identity's provider ID.
func userKey(user auth0.User) string {
	if user.Email != "" {
		return user.Email
	}
	if user.Name != "" {
		return user.Name
	}
	if len(user.Identities) > 0 {
		return user.Identities[0].Connection + "-" + user.Identities[0].UserID
	}
	return "(unidentified user)"
}
