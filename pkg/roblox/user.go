package roblox

import (
	"context"
	"fmt"
	"time"
)

func newUserRecord() *Record {
	return NewRecord(map[string]string{
		"username": "name",
		"userid":   "id",
	})
}

// User is a lazily populated view of a platform user. Construct it
// from an ID, a username, or a partial payload; missing stable fields
// are fetched from the users API on first access and remembered.
// Volatile fields (status, premium membership) hit the API every
// time.
type User struct {
	client Client
	record *Record
}

// NewUser creates a User from a partial payload. The payload must
// identify the user by ID or username.
func NewUser(client Client, data map[string]any) (*User, error) {
	user := &User{client: client, record: newUserRecord()}
	user.record.Merge(data)

	if !user.record.Has("id") && !user.record.Has("name") {
		return nil, ErrIdentification
	}

	return user, nil
}

// NewUserFromID creates a User known only by ID.
func NewUserFromID(client Client, userID int64) *User {
	user := &User{client: client, record: newUserRecord()}
	user.record.Set("id", userID)

	return user
}

// NewUserFromUsername creates a User known only by username. The ID
// is resolved on first use.
func NewUserFromUsername(client Client, username string) *User {
	user := &User{client: client, record: newUserRecord()}
	user.record.Set("name", username)

	return user
}

func userProfileData(profile *UserProfile) map[string]any {
	return map[string]any{
		"id":          profile.ID,
		"name":        profile.Name,
		"displayname": profile.DisplayName,
		"description": profile.Description,
		"created":     profile.Created,
		"isbanned":    profile.IsBanned,
	}
}

// Merge folds a payload into the user's record.
func (u *User) Merge(data map[string]any) {
	u.record.Merge(data)
}

// Populated reports whether the field is already known without a
// fetch.
func (u *User) Populated(field string) bool {
	return u.record.Has(field)
}

// ID returns the user's ID, resolving it from the username via the
// legacy lookup when unknown.
func (u *User) ID(ctx context.Context) (int64, error) {
	if id, ok := u.record.Int64("id"); ok {
		return id, nil
	}

	name, ok := u.record.String("name")
	if !ok {
		return 0, ErrIdentification
	}

	legacy, err := u.client.Users().GetByUsername(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("resolving username %q: %w", name, err)
	}

	u.record.Merge(map[string]any{
		"id":   legacy.ID,
		"name": legacy.Username,
	})

	return legacy.ID, nil
}

func (u *User) refresh(ctx context.Context) error {
	id, err := u.ID(ctx)
	if err != nil {
		return err
	}

	profile, err := u.client.Users().Get(ctx, id)
	if err != nil {
		return fmt.Errorf("fetching user %d: %w", id, err)
	}

	u.record.Merge(userProfileData(profile))

	return nil
}

func (u *User) stringField(ctx context.Context, field string) (string, error) {
	if value, ok := u.record.String(field); ok {
		return value, nil
	}

	if err := u.refresh(ctx); err != nil {
		return "", err
	}

	value, ok := u.record.String(field)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrFieldUnavailable, field)
	}

	return value, nil
}

// Username returns the user's username.
func (u *User) Username(ctx context.Context) (string, error) {
	return u.stringField(ctx, "name")
}

// DisplayName returns the user's display name.
func (u *User) DisplayName(ctx context.Context) (string, error) {
	return u.stringField(ctx, "displayname")
}

// Description returns the user's profile description.
func (u *User) Description(ctx context.Context) (string, error) {
	return u.stringField(ctx, "description")
}

// CreatedAt returns when the account was created.
func (u *User) CreatedAt(ctx context.Context) (time.Time, error) {
	if value, ok := u.record.Time("created"); ok {
		return value, nil
	}

	if err := u.refresh(ctx); err != nil {
		return time.Time{}, err
	}

	value, ok := u.record.Time("created")
	if !ok {
		return time.Time{}, fmt.Errorf("%w: created", ErrFieldUnavailable)
	}

	return value, nil
}

// IsBanned reports whether the account is banned.
func (u *User) IsBanned(ctx context.Context) (bool, error) {
	if value, ok := u.record.Bool("isbanned"); ok {
		return value, nil
	}

	if err := u.refresh(ctx); err != nil {
		return false, err
	}

	value, ok := u.record.Bool("isbanned")
	if !ok {
		return false, fmt.Errorf("%w: isbanned", ErrFieldUnavailable)
	}

	return value, nil
}

// Status returns the user's profile status text. Always fetched.
func (u *User) Status(ctx context.Context) (string, error) {
	id, err := u.ID(ctx)
	if err != nil {
		return "", err
	}

	status, err := u.client.Users().Status(ctx, id)
	if err != nil {
		return "", err
	}

	return status.Status, nil
}

// HasPremium reports whether the user has a premium membership.
// Always fetched.
func (u *User) HasPremium(ctx context.Context) (bool, error) {
	id, err := u.ID(ctx)
	if err != nil {
		return false, err
	}

	return u.client.Users().HasPremium(ctx, id)
}

// ProfileURL returns the user's profile page URL.
func (u *User) ProfileURL(ctx context.Context) (string, error) {
	id, err := u.ID(ctx)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("https://www.roblox.com/users/%d/profile", id), nil
}

func friendEntryData(entry FriendEntry) map[string]any {
	data := map[string]any{
		"id":          entry.ID,
		"name":        entry.Name,
		"displayname": entry.DisplayName,
		"isbanned":    entry.IsBanned,
	}

	if entry.Description != "" {
		data["description"] = entry.Description
	}

	if !entry.Created.IsZero() {
		data["created"] = entry.Created
	}

	return data
}

// Friends returns the user's complete friends list as lazily
// populated users.
func (u *User) Friends(ctx context.Context) ([]*User, error) {
	id, err := u.ID(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := u.client.Friends().List(ctx, id)
	if err != nil {
		return nil, err
	}

	friends := make([]*User, 0, len(entries))

	for _, entry := range entries {
		friend := NewUserFromID(u.client, entry.ID)
		friend.Merge(friendEntryData(entry))
		friends = append(friends, friend)
	}

	return friends, nil
}

// IsFriendsWith reports whether the user is friends with other.
func (u *User) IsFriendsWith(ctx context.Context, other *User) (bool, error) {
	id, err := u.ID(ctx)
	if err != nil {
		return false, err
	}

	otherID, err := other.ID(ctx)
	if err != nil {
		return false, err
	}

	statuses, err := u.client.Friends().Statuses(ctx, id, []int64{otherID})
	if err != nil {
		return false, err
	}

	for _, status := range statuses {
		if status.ID == otherID {
			return status.Status == "Friends", nil
		}
	}

	return false, nil
}

// RequestFriendship sends the user a friend request from the
// authenticated user.
func (u *User) RequestFriendship(ctx context.Context) error {
	id, err := u.ID(ctx)
	if err != nil {
		return err
	}

	return u.client.Friends().Request(ctx, id)
}

// Unfriend removes the user from the authenticated user's friends.
func (u *User) Unfriend(ctx context.Context) error {
	id, err := u.ID(ctx)
	if err != nil {
		return err
	}

	return u.client.Friends().Unfriend(ctx, id)
}

// Follow follows the user.
func (u *User) Follow(ctx context.Context) error {
	id, err := u.ID(ctx)
	if err != nil {
		return err
	}

	return u.client.Friends().Follow(ctx, id)
}

// Unfollow unfollows the user.
func (u *User) Unfollow(ctx context.Context) error {
	id, err := u.ID(ctx)
	if err != nil {
		return err
	}

	return u.client.Friends().Unfollow(ctx, id)
}

// Followers returns an iterator over the user's followers.
func (u *User) Followers(ctx context.Context) (*PageIterator[FriendEntry], error) {
	id, err := u.ID(ctx)
	if err != nil {
		return nil, err
	}

	fetch := PageFunc[FriendEntry](func(ctx context.Context, params *QueryParams) (*Page[FriendEntry], error) {
		return u.client.Friends().Followers(ctx, id, params)
	})

	return NewPageIterator[FriendEntry](fetch, "", NewQueryParams()), nil
}

// Followings returns an iterator over the users this user follows.
func (u *User) Followings(ctx context.Context) (*PageIterator[FriendEntry], error) {
	id, err := u.ID(ctx)
	if err != nil {
		return nil, err
	}

	fetch := PageFunc[FriendEntry](func(ctx context.Context, params *QueryParams) (*Page[FriendEntry], error) {
		return u.client.Friends().Followings(ctx, id, params)
	})

	return NewPageIterator[FriendEntry](fetch, "", NewQueryParams()), nil
}

// FollowerCount returns the user's follower count. Always fetched.
func (u *User) FollowerCount(ctx context.Context) (int64, error) {
	id, err := u.ID(ctx)
	if err != nil {
		return 0, err
	}

	return u.client.Friends().FollowerCount(ctx, id)
}

// FollowingCount returns how many users this user follows. Always
// fetched.
func (u *User) FollowingCount(ctx context.Context) (int64, error) {
	id, err := u.ID(ctx)
	if err != nil {
		return 0, err
	}

	return u.client.Friends().FollowingCount(ctx, id)
}

// GroupMemberships returns every group role the user holds.
func (u *User) GroupMemberships(ctx context.Context) ([]GroupMembership, error) {
	id, err := u.ID(ctx)
	if err != nil {
		return nil, err
	}

	return u.client.Groups().UserMemberships(ctx, id)
}

// InventoryByType returns an iterator over the user's inventory of
// one asset type.
func (u *User) InventoryByType(ctx context.Context, assetType AssetType) (*PageIterator[InventoryAsset], error) {
	id, err := u.ID(ctx)
	if err != nil {
		return nil, err
	}

	fetch := PageFunc[InventoryAsset](func(ctx context.Context, params *QueryParams) (*Page[InventoryAsset], error) {
		return u.client.Inventory().ByAssetType(ctx, id, assetType, params)
	})

	return NewPageIterator[InventoryAsset](fetch, "", NewQueryParams()), nil
}

// Inventory returns the user's entire visible inventory, fetching
// every page of every known asset type. Expensive; prefer
// InventoryByType when the type is known.
func (u *User) Inventory(ctx context.Context) ([]InventoryAsset, error) {
	id, err := u.ID(ctx)
	if err != nil {
		return nil, err
	}

	var items []InventoryAsset

	for _, assetType := range AllAssetTypes() {
		fetch := PageFunc[InventoryAsset](func(ctx context.Context, params *QueryParams) (*Page[InventoryAsset], error) {
			return u.client.Inventory().ByAssetType(ctx, id, assetType, params)
		})

		typed, err := FetchAllPages[InventoryAsset](ctx, fetch, "", nil, nil)
		if err != nil {
			return nil, fmt.Errorf("fetching %s inventory of user %d: %w", assetType, id, err)
		}

		items = append(items, typed...)
	}

	return items, nil
}

// OwnsAsset reports whether the user owns the asset.
func (u *User) OwnsAsset(ctx context.Context, assetID int64) (bool, error) {
	id, err := u.ID(ctx)
	if err != nil {
		return false, err
	}

	return u.client.Assets().Owned(ctx, id, assetID)
}

// ClientUser is the authenticated user, with the operations only the
// session owner can perform.
type ClientUser struct {
	*User
}

// CurrentUser returns the session owner as a lazy ClientUser.
func CurrentUser(ctx context.Context, client Client) (*ClientUser, error) {
	auth, err := client.AuthenticatedUser(ctx)
	if err != nil {
		return nil, err
	}

	return NewClientUser(client, auth), nil
}

// NewClientUser wraps an authenticated-user record in a ClientUser.
func NewClientUser(client Client, auth *AuthenticatedUser) *ClientUser {
	user := NewUserFromID(client, auth.ID)
	user.Merge(map[string]any{
		"name":        auth.Name,
		"displayname": auth.DisplayName,
	})

	return &ClientUser{User: user}
}

// SetStatus updates the profile status and returns the moderated text
// the platform stored.
func (u *ClientUser) SetStatus(ctx context.Context, status string) (string, error) {
	id, err := u.ID(ctx)
	if err != nil {
		return "", err
	}

	updated, err := u.client.Users().SetStatus(ctx, id, status)
	if err != nil {
		return "", err
	}

	return updated.Status, nil
}

// Robux returns the authenticated user's Robux balance. Always
// fetched.
func (u *ClientUser) Robux(ctx context.Context) (int64, error) {
	id, err := u.ID(ctx)
	if err != nil {
		return 0, err
	}

	balance, err := u.client.Economy().Currency(ctx, id)
	if err != nil {
		return 0, err
	}

	return balance.Robux, nil
}

// FriendRequestCount returns the number of pending friend requests.
func (u *ClientUser) FriendRequestCount(ctx context.Context) (int64, error) {
	return u.client.Friends().RequestCount(ctx)
}

// FriendRequests returns an iterator over pending friend requests.
func (u *ClientUser) FriendRequests() *PageIterator[FriendRequestInfo] {
	fetch := PageFunc[FriendRequestInfo](func(ctx context.Context, params *QueryParams) (*Page[FriendRequestInfo], error) {
		return u.client.Friends().Requests(ctx, params)
	})

	return NewPageIterator[FriendRequestInfo](fetch, "", NewQueryParams())
}

// DeclineAllFriendRequests declines every pending friend request.
func (u *ClientUser) DeclineAllFriendRequests(ctx context.Context) error {
	return u.client.Friends().DeclineAllRequests(ctx)
}

// FriendRequest is a pending friend request from another user.
type FriendRequest struct {
	*User
}

// NewFriendRequest wraps a friend request payload.
func NewFriendRequest(client Client, info FriendRequestInfo) *FriendRequest {
	user := NewUserFromID(client, info.ID)

	data := map[string]any{
		"name":        info.Name,
		"displayname": info.DisplayName,
		"isbanned":    info.IsBanned,
	}

	if info.Description != "" {
		data["description"] = info.Description
	}

	if !info.Created.IsZero() {
		data["created"] = info.Created
	}

	user.Merge(data)

	return &FriendRequest{User: user}
}

// Accept accepts the friend request.
func (r *FriendRequest) Accept(ctx context.Context) error {
	id, err := r.ID(ctx)
	if err != nil {
		return err
	}

	return r.client.Friends().AcceptRequest(ctx, id)
}

// Decline declines the friend request.
func (r *FriendRequest) Decline(ctx context.Context) error {
	id, err := r.ID(ctx)
	if err != nil {
		return err
	}

	return r.client.Friends().DeclineRequest(ctx, id)
}
