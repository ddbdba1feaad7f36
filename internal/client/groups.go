package client

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	internalhttp "github.com/bloxkit/rbx-client/internal/http"
	"github.com/bloxkit/rbx-client/pkg/roblox"
)

// GroupsClient implements roblox.GroupsClient.
type GroupsClient struct {
	httpClient *internalhttp.Client
}

// NewGroupsClient creates a GroupsClient.
func NewGroupsClient(httpClient *internalhttp.Client) *GroupsClient {
	return &GroupsClient{httpClient: httpClient}
}

// Get implements roblox.GroupsClient.
func (c *GroupsClient) Get(ctx context.Context, groupID int64) (*roblox.GroupInfo, error) {
	var info roblox.GroupInfo

	path := fmt.Sprintf("/v1/groups/%d", groupID)
	if err := c.httpClient.Get(ctx, path, nil, &info); err != nil {
		if respErr, ok := roblox.AsResponseError(err); ok && respErr.StatusCode < 500 {
			return nil, fmt.Errorf("%w: %w", roblox.ErrGroupNotFound, err)
		}

		return nil, fmt.Errorf("fetching group %d: %w", groupID, err)
	}

	return &info, nil
}

// Roles implements roblox.GroupsClient. Roles are returned sorted by
// ascending rank.
func (c *GroupsClient) Roles(ctx context.Context, groupID int64) ([]roblox.RoleInfo, error) {
	var resp roblox.GroupRolesResponse

	path := fmt.Sprintf("/v1/groups/%d/roles", groupID)
	if err := c.httpClient.Get(ctx, path, nil, &resp); err != nil {
		if respErr, ok := roblox.AsResponseError(err); ok && respErr.StatusCode < 500 {
			return nil, fmt.Errorf("%w: %w", roblox.ErrGroupNotFound, err)
		}

		return nil, fmt.Errorf("fetching roles of group %d: %w", groupID, err)
	}

	roles := resp.Roles
	sort.Slice(roles, func(i, j int) bool { return roles[i].Rank < roles[j].Rank })

	return roles, nil
}

// RoleDetails implements roblox.GroupsClient.
func (c *GroupsClient) RoleDetails(ctx context.Context, roleIDs ...int64) ([]roblox.RoleDetail, error) {
	var resp roblox.RoleDetailsResponse

	query := url.Values{"ids": []string{joinIDs(roleIDs)}}
	if err := c.httpClient.Get(ctx, "/v1/roles", query, &resp); err != nil {
		return nil, fmt.Errorf("fetching role details: %w", err)
	}

	return resp.Data, nil
}

// Members implements roblox.GroupsClient.
func (c *GroupsClient) Members(ctx context.Context, groupID int64, params *roblox.QueryParams) (*roblox.Page[roblox.GroupMemberEntry], error) {
	var page roblox.Page[roblox.GroupMemberEntry]

	path := fmt.Sprintf("/v1/groups/%d/users", groupID)
	if err := c.httpClient.Get(ctx, path, params.ToValues(), &page); err != nil {
		return nil, fmt.Errorf("listing members of group %d: %w", groupID, err)
	}

	return &page, nil
}

// MembersWithRole implements roblox.GroupsClient.
func (c *GroupsClient) MembersWithRole(ctx context.Context, groupID, roleID int64, params *roblox.QueryParams) (*roblox.Page[roblox.GroupUser], error) {
	var page roblox.Page[roblox.GroupUser]

	path := fmt.Sprintf("/v1/groups/%d/roles/%d/users", groupID, roleID)
	if err := c.httpClient.Get(ctx, path, params.ToValues(), &page); err != nil {
		return nil, fmt.Errorf("listing members of group %d with role %d: %w", groupID, roleID, err)
	}

	return &page, nil
}

// UserMemberships implements roblox.GroupsClient.
func (c *GroupsClient) UserMemberships(ctx context.Context, userID int64) ([]roblox.GroupMembership, error) {
	var resp roblox.GroupMembershipsResponse

	path := fmt.Sprintf("/v1/users/%d/groups/roles", userID)
	if err := c.httpClient.Get(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("listing group memberships of user %d: %w", userID, err)
	}

	return resp.Data, nil
}
