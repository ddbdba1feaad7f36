package client

import (
	"context"
	"fmt"
	"net/url"

	internalhttp "github.com/bloxkit/rbx-client/internal/http"
	"github.com/bloxkit/rbx-client/pkg/roblox"
)

// UsersClient implements roblox.UsersClient. Profiles and statuses
// live on the users subdomain, the legacy username lookup on the old
// api subdomain, and the membership probe on the premium features
// subdomain.
type UsersClient struct {
	users   *internalhttp.Client
	api     *internalhttp.Client
	premium *internalhttp.Client
}

// NewUsersClient creates a UsersClient.
func NewUsersClient(users, api, premium *internalhttp.Client) *UsersClient {
	return &UsersClient{users: users, api: api, premium: premium}
}

// Get implements roblox.UsersClient.
func (c *UsersClient) Get(ctx context.Context, userID int64) (*roblox.UserProfile, error) {
	var profile roblox.UserProfile

	path := fmt.Sprintf("/v1/users/%d", userID)
	if err := c.users.Get(ctx, path, nil, &profile); err != nil {
		if roblox.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %w", roblox.ErrInvalidUser, err)
		}

		return nil, fmt.Errorf("fetching user %d: %w", userID, err)
	}

	return &profile, nil
}

// GetByUsername implements roblox.UsersClient.
func (c *UsersClient) GetByUsername(ctx context.Context, username string) (*roblox.LegacyUser, error) {
	var user roblox.LegacyUser

	query := url.Values{"username": []string{username}}
	if err := c.api.Get(ctx, "/users/get-by-username", query, &user); err != nil {
		return nil, fmt.Errorf("looking up username %q: %w", username, err)
	}

	// The legacy endpoint reports a missing user with a 200 and an
	// empty record.
	if user.ID == 0 {
		return nil, fmt.Errorf("%w: username %q", roblox.ErrInvalidUser, username)
	}

	return &user, nil
}

// Status implements roblox.UsersClient.
func (c *UsersClient) Status(ctx context.Context, userID int64) (*roblox.UserStatus, error) {
	var status roblox.UserStatus

	path := fmt.Sprintf("/v1/users/%d/status", userID)
	if err := c.users.Get(ctx, path, nil, &status); err != nil {
		return nil, fmt.Errorf("fetching status for user %d: %w", userID, err)
	}

	return &status, nil
}

// SetStatus implements roblox.UsersClient. The returned status holds
// the text the platform stored after moderation.
func (c *UsersClient) SetStatus(ctx context.Context, userID int64, status string) (*roblox.UserStatus, error) {
	var updated roblox.UserStatus

	path := fmt.Sprintf("/v1/users/%d/status", userID)
	if err := c.users.Patch(ctx, path, roblox.UserStatus{Status: status}, &updated); err != nil {
		return nil, fmt.Errorf("updating status for user %d: %w", userID, err)
	}

	return &updated, nil
}

// HasPremium implements roblox.UsersClient. The endpoint answers with
// a bare JSON boolean.
func (c *UsersClient) HasPremium(ctx context.Context, userID int64) (bool, error) {
	var hasPremium bool

	path := fmt.Sprintf("/v1/users/%d/validate-membership", userID)
	if err := c.premium.Get(ctx, path, nil, &hasPremium); err != nil {
		return false, fmt.Errorf("checking premium membership for user %d: %w", userID, err)
	}

	return hasPremium, nil
}
