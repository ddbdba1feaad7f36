package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/bloxkit/rbx-client/internal/constants"
	internalhttp "github.com/bloxkit/rbx-client/internal/http"
	"github.com/bloxkit/rbx-client/pkg/roblox"
)

// FriendsClient implements roblox.FriendsClient.
type FriendsClient struct {
	httpClient *internalhttp.Client
}

// NewFriendsClient creates a FriendsClient.
func NewFriendsClient(httpClient *internalhttp.Client) *FriendsClient {
	return &FriendsClient{httpClient: httpClient}
}

// mapFriendError classifies a friends API error by its platform
// error code.
func mapFriendError(err error) error {
	respErr, ok := roblox.AsResponseError(err)
	if !ok {
		return err
	}

	switch {
	case respErr.HasCode(constants.FriendErrorInvalidUser):
		return fmt.Errorf("%w: %w", roblox.ErrInvalidUser, err)
	case respErr.HasCode(constants.FriendErrorAlreadyFriends):
		return fmt.Errorf("%w: %w", roblox.ErrAlreadyFriends, err)
	case respErr.HasCode(constants.FriendErrorSelfTarget):
		return fmt.Errorf("%w: %w", roblox.ErrSelfOperation, err)
	case respErr.HasCode(constants.FriendErrorNoPendingRequest):
		return fmt.Errorf("%w: %w", roblox.ErrNoPendingRequest, err)
	case respErr.HasCode(constants.FriendErrorSenderAtLimit),
		respErr.HasCode(constants.FriendErrorTargetAtLimit):
		return fmt.Errorf("%w: %w", roblox.ErrFriendLimitExceeded, err)
	default:
		return err
	}
}

type friendListResponse struct {
	Data []roblox.FriendEntry `json:"data"`
}

// List implements roblox.FriendsClient.
func (c *FriendsClient) List(ctx context.Context, userID int64) ([]roblox.FriendEntry, error) {
	var resp friendListResponse

	path := fmt.Sprintf("/v1/users/%d/friends", userID)
	if err := c.httpClient.Get(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("listing friends of user %d: %w", userID, mapFriendError(err))
	}

	return resp.Data, nil
}

type friendshipStatusResponse struct {
	Data []roblox.FriendshipStatus `json:"data"`
}

// Statuses implements roblox.FriendsClient.
func (c *FriendsClient) Statuses(ctx context.Context, userID int64, userIDs []int64) ([]roblox.FriendshipStatus, error) {
	ids := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		ids = append(ids, strconv.FormatInt(id, 10))
	}

	var resp friendshipStatusResponse

	path := fmt.Sprintf("/v1/users/%d/friends/statuses", userID)
	query := url.Values{"userIds": []string{strings.Join(ids, ",")}}

	if err := c.httpClient.Get(ctx, path, query, &resp); err != nil {
		return nil, fmt.Errorf("checking friendship statuses for user %d: %w", userID, mapFriendError(err))
	}

	return resp.Data, nil
}

// Request implements roblox.FriendsClient.
func (c *FriendsClient) Request(ctx context.Context, userID int64) error {
	path := fmt.Sprintf("/v1/users/%d/request-friendship", userID)
	if err := c.httpClient.Post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("requesting friendship with user %d: %w", userID, mapFriendError(err))
	}

	return nil
}

// Unfriend implements roblox.FriendsClient.
func (c *FriendsClient) Unfriend(ctx context.Context, userID int64) error {
	path := fmt.Sprintf("/v1/users/%d/unfriend", userID)
	if err := c.httpClient.Post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("unfriending user %d: %w", userID, mapFriendError(err))
	}

	return nil
}

// AcceptRequest implements roblox.FriendsClient.
func (c *FriendsClient) AcceptRequest(ctx context.Context, userID int64) error {
	path := fmt.Sprintf("/v1/users/%d/accept-friend-request", userID)
	if err := c.httpClient.Post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("accepting friend request from user %d: %w", userID, mapFriendError(err))
	}

	return nil
}

// DeclineRequest implements roblox.FriendsClient.
func (c *FriendsClient) DeclineRequest(ctx context.Context, userID int64) error {
	path := fmt.Sprintf("/v1/users/%d/decline-friend-request", userID)
	if err := c.httpClient.Post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("declining friend request from user %d: %w", userID, mapFriendError(err))
	}

	return nil
}

// DeclineAllRequests implements roblox.FriendsClient.
func (c *FriendsClient) DeclineAllRequests(ctx context.Context) error {
	if err := c.httpClient.Post(ctx, "/v1/user/friend-requests/decline-all", nil, nil); err != nil {
		return fmt.Errorf("declining all friend requests: %w", mapFriendError(err))
	}

	return nil
}

// RequestCount implements roblox.FriendsClient.
func (c *FriendsClient) RequestCount(ctx context.Context) (int64, error) {
	var resp roblox.CountResponse

	if err := c.httpClient.Get(ctx, "/v1/user/friend-requests/count", nil, &resp); err != nil {
		return 0, fmt.Errorf("counting friend requests: %w", err)
	}

	return resp.Count, nil
}

// Requests implements roblox.FriendsClient.
func (c *FriendsClient) Requests(ctx context.Context, params *roblox.QueryParams) (*roblox.Page[roblox.FriendRequestInfo], error) {
	var page roblox.Page[roblox.FriendRequestInfo]

	if err := c.httpClient.Get(ctx, "/v1/my/friends/requests", params.ToValues(), &page); err != nil {
		return nil, fmt.Errorf("listing friend requests: %w", err)
	}

	return &page, nil
}

// Follow implements roblox.FriendsClient.
func (c *FriendsClient) Follow(ctx context.Context, userID int64) error {
	path := fmt.Sprintf("/v1/users/%d/follow", userID)
	if err := c.httpClient.Post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("following user %d: %w", userID, mapFriendError(err))
	}

	return nil
}

// Unfollow implements roblox.FriendsClient.
func (c *FriendsClient) Unfollow(ctx context.Context, userID int64) error {
	path := fmt.Sprintf("/v1/users/%d/unfollow", userID)
	if err := c.httpClient.Post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("unfollowing user %d: %w", userID, mapFriendError(err))
	}

	return nil
}

// Followers implements roblox.FriendsClient.
func (c *FriendsClient) Followers(ctx context.Context, userID int64, params *roblox.QueryParams) (*roblox.Page[roblox.FriendEntry], error) {
	var page roblox.Page[roblox.FriendEntry]

	path := fmt.Sprintf("/v1/users/%d/followers", userID)
	if err := c.httpClient.Get(ctx, path, params.ToValues(), &page); err != nil {
		return nil, fmt.Errorf("listing followers of user %d: %w", userID, err)
	}

	return &page, nil
}

// Followings implements roblox.FriendsClient.
func (c *FriendsClient) Followings(ctx context.Context, userID int64, params *roblox.QueryParams) (*roblox.Page[roblox.FriendEntry], error) {
	var page roblox.Page[roblox.FriendEntry]

	path := fmt.Sprintf("/v1/users/%d/followings", userID)
	if err := c.httpClient.Get(ctx, path, params.ToValues(), &page); err != nil {
		return nil, fmt.Errorf("listing followings of user %d: %w", userID, err)
	}

	return &page, nil
}

// FollowerCount implements roblox.FriendsClient.
func (c *FriendsClient) FollowerCount(ctx context.Context, userID int64) (int64, error) {
	var resp roblox.CountResponse

	path := fmt.Sprintf("/v1/users/%d/followers/count", userID)
	if err := c.httpClient.Get(ctx, path, nil, &resp); err != nil {
		return 0, fmt.Errorf("counting followers of user %d: %w", userID, err)
	}

	return resp.Count, nil
}

// FollowingCount implements roblox.FriendsClient.
func (c *FriendsClient) FollowingCount(ctx context.Context, userID int64) (int64, error) {
	var resp roblox.CountResponse

	path := fmt.Sprintf("/v1/users/%d/followings/count", userID)
	if err := c.httpClient.Get(ctx, path, nil, &resp); err != nil {
		return 0, fmt.Errorf("counting followings of user %d: %w", userID, err)
	}

	return resp.Count, nil
}
