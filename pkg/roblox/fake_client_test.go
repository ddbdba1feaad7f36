package roblox_test

import (
	"context"
	"io"
	"sync"

	"github.com/bloxkit/rbx-client/pkg/roblox"
)

// fakeClient implements roblox.Client and every resource client with
// overridable hooks, counting calls per method name.
type fakeClient struct {
	mu    sync.Mutex
	calls map[string]int

	getUserFn       func(userID int64) (*roblox.UserProfile, error)
	getByUsernameFn func(username string) (*roblox.LegacyUser, error)
	statusFn        func(userID int64) (*roblox.UserStatus, error)
	setStatusFn     func(userID int64, status string) (*roblox.UserStatus, error)
	hasPremiumFn    func(userID int64) (bool, error)

	listFriendsFn    func(userID int64) ([]roblox.FriendEntry, error)
	statusesFn       func(userID int64, userIDs []int64) ([]roblox.FriendshipStatus, error)
	followersFn      func(userID int64, params *roblox.QueryParams) (*roblox.Page[roblox.FriendEntry], error)
	followingsFn     func(userID int64, params *roblox.QueryParams) (*roblox.Page[roblox.FriendEntry], error)
	followerCountFn  func(userID int64) (int64, error)
	followingCountFn func(userID int64) (int64, error)

	productInfoFn    func(assetID int64) (*roblox.ProductInfo, error)
	favoritesCountFn func(assetID int64) (int64, error)
	favoriteModelFn  func(userID, assetID int64) (*roblox.FavoriteModel, error)
	createFavoriteFn func(userID, assetID int64) error
	deleteFavoriteFn func(userID, assetID int64) error
	ownedFn          func(userID, assetID int64) (bool, error)

	detailsFn       func(universeIDs []int64) ([]roblox.GameDetail, error)
	placeDetailsFn  func(placeIDs []int64) ([]roblox.PlaceDetail, error)
	gameFavoritedFn func(universeID int64) (bool, error)
	gameFavCountFn  func(universeID int64) (int64, error)
	serversFn       func(placeID int64, serverType roblox.ServerType, params *roblox.QueryParams) (*roblox.Page[roblox.GameServer], error)

	getGroupFn        func(groupID int64) (*roblox.GroupInfo, error)
	rolesFn           func(groupID int64) ([]roblox.RoleInfo, error)
	roleDetailsFn     func(roleIDs []int64) ([]roblox.RoleDetail, error)
	membersFn         func(groupID int64, params *roblox.QueryParams) (*roblox.Page[roblox.GroupMemberEntry], error)
	userMembershipsFn func(userID int64) ([]roblox.GroupMembership, error)

	byAssetTypeFn func(userID int64, assetType roblox.AssetType, params *roblox.QueryParams) (*roblox.Page[roblox.InventoryAsset], error)

	currencyFn        func(userID int64) (*roblox.CurrencyBalance, error)
	purchaseProductFn func(productID int64, request *roblox.PurchaseRequest) (*roblox.PurchaseReceipt, error)

	authenticatedUserFn func() (*roblox.AuthenticatedUser, error)
}

func newFakeClient() *fakeClient {
	return &fakeClient{calls: make(map[string]int)}
}

func (c *fakeClient) count(method string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls[method]++
}

func (c *fakeClient) callCount(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.calls[method]
}

// Groups and Games live on child structs: their Get and
// FavoritesCount signatures clash with the users and assets ones.
func (c *fakeClient) Users() roblox.UsersClient         { return c }
func (c *fakeClient) Friends() roblox.FriendsClient     { return c }
func (c *fakeClient) Assets() roblox.AssetsClient       { return c }
func (c *fakeClient) Games() roblox.GamesClient         { return &fakeGamesClient{c} }
func (c *fakeClient) Groups() roblox.GroupsClient       { return &fakeGroupsClient{c} }
func (c *fakeClient) Inventory() roblox.InventoryClient { return c }
func (c *fakeClient) Economy() roblox.EconomyClient     { return c }

func (c *fakeClient) Login(_ context.Context, _, _ string) error { return nil }
func (c *fakeClient) Logout(_ context.Context) error             { return nil }
func (c *fakeClient) LoggedIn(_ context.Context) (bool, error)   { return false, nil }
func (c *fakeClient) SessionCookie() string                      { return "" }

func (c *fakeClient) AuthenticatedUser(_ context.Context) (*roblox.AuthenticatedUser, error) {
	c.count("AuthenticatedUser")

	if c.authenticatedUserFn != nil {
		return c.authenticatedUserFn()
	}

	return nil, roblox.ErrUnauthorized
}

func (c *fakeClient) Get(_ context.Context, userID int64) (*roblox.UserProfile, error) {
	c.count("Users.Get")

	if c.getUserFn != nil {
		return c.getUserFn(userID)
	}

	return &roblox.UserProfile{ID: userID}, nil
}

func (c *fakeClient) GetByUsername(_ context.Context, username string) (*roblox.LegacyUser, error) {
	c.count("Users.GetByUsername")

	if c.getByUsernameFn != nil {
		return c.getByUsernameFn(username)
	}

	return &roblox.LegacyUser{ID: 1, Username: username}, nil
}

func (c *fakeClient) Status(_ context.Context, userID int64) (*roblox.UserStatus, error) {
	c.count("Users.Status")

	if c.statusFn != nil {
		return c.statusFn(userID)
	}

	return &roblox.UserStatus{}, nil
}

func (c *fakeClient) SetStatus(_ context.Context, userID int64, status string) (*roblox.UserStatus, error) {
	c.count("Users.SetStatus")

	if c.setStatusFn != nil {
		return c.setStatusFn(userID, status)
	}

	return &roblox.UserStatus{Status: status}, nil
}

func (c *fakeClient) HasPremium(_ context.Context, userID int64) (bool, error) {
	c.count("Users.HasPremium")

	if c.hasPremiumFn != nil {
		return c.hasPremiumFn(userID)
	}

	return false, nil
}

func (c *fakeClient) List(_ context.Context, userID int64) ([]roblox.FriendEntry, error) {
	c.count("Friends.List")

	if c.listFriendsFn != nil {
		return c.listFriendsFn(userID)
	}

	return nil, nil
}

func (c *fakeClient) Statuses(_ context.Context, userID int64, userIDs []int64) ([]roblox.FriendshipStatus, error) {
	c.count("Friends.Statuses")

	if c.statusesFn != nil {
		return c.statusesFn(userID, userIDs)
	}

	return nil, nil
}

func (c *fakeClient) Request(_ context.Context, _ int64) error {
	c.count("Friends.Request")

	return nil
}

func (c *fakeClient) Unfriend(_ context.Context, _ int64) error {
	c.count("Friends.Unfriend")

	return nil
}

func (c *fakeClient) AcceptRequest(_ context.Context, _ int64) error {
	c.count("Friends.AcceptRequest")

	return nil
}

func (c *fakeClient) DeclineRequest(_ context.Context, _ int64) error {
	c.count("Friends.DeclineRequest")

	return nil
}

func (c *fakeClient) DeclineAllRequests(_ context.Context) error {
	c.count("Friends.DeclineAllRequests")

	return nil
}

func (c *fakeClient) RequestCount(_ context.Context) (int64, error) {
	c.count("Friends.RequestCount")

	return 0, nil
}

func (c *fakeClient) Requests(_ context.Context, _ *roblox.QueryParams) (*roblox.Page[roblox.FriendRequestInfo], error) {
	c.count("Friends.Requests")

	return &roblox.Page[roblox.FriendRequestInfo]{}, nil
}

func (c *fakeClient) Follow(_ context.Context, _ int64) error {
	c.count("Friends.Follow")

	return nil
}

func (c *fakeClient) Unfollow(_ context.Context, _ int64) error {
	c.count("Friends.Unfollow")

	return nil
}

func (c *fakeClient) Followers(_ context.Context, userID int64, params *roblox.QueryParams) (*roblox.Page[roblox.FriendEntry], error) {
	c.count("Friends.Followers")

	if c.followersFn != nil {
		return c.followersFn(userID, params)
	}

	return &roblox.Page[roblox.FriendEntry]{}, nil
}

func (c *fakeClient) Followings(_ context.Context, userID int64, params *roblox.QueryParams) (*roblox.Page[roblox.FriendEntry], error) {
	c.count("Friends.Followings")

	if c.followingsFn != nil {
		return c.followingsFn(userID, params)
	}

	return &roblox.Page[roblox.FriendEntry]{}, nil
}

func (c *fakeClient) FollowerCount(_ context.Context, userID int64) (int64, error) {
	c.count("Friends.FollowerCount")

	if c.followerCountFn != nil {
		return c.followerCountFn(userID)
	}

	return 0, nil
}

func (c *fakeClient) FollowingCount(_ context.Context, userID int64) (int64, error) {
	c.count("Friends.FollowingCount")

	if c.followingCountFn != nil {
		return c.followingCountFn(userID)
	}

	return 0, nil
}

func (c *fakeClient) ProductInfo(_ context.Context, assetID int64) (*roblox.ProductInfo, error) {
	c.count("Assets.ProductInfo")

	if c.productInfoFn != nil {
		return c.productInfoFn(assetID)
	}

	return &roblox.ProductInfo{AssetID: assetID}, nil
}

func (c *fakeClient) FavoritesCount(_ context.Context, assetID int64) (int64, error) {
	c.count("Assets.FavoritesCount")

	if c.favoritesCountFn != nil {
		return c.favoritesCountFn(assetID)
	}

	return 0, nil
}

func (c *fakeClient) FavoriteModel(_ context.Context, userID, assetID int64) (*roblox.FavoriteModel, error) {
	c.count("Assets.FavoriteModel")

	if c.favoriteModelFn != nil {
		return c.favoriteModelFn(userID, assetID)
	}

	return nil, nil //nolint:nilnil // nil model means not favorited
}

func (c *fakeClient) CreateFavorite(_ context.Context, userID, assetID int64) error {
	c.count("Assets.CreateFavorite")

	if c.createFavoriteFn != nil {
		return c.createFavoriteFn(userID, assetID)
	}

	return nil
}

func (c *fakeClient) DeleteFavorite(_ context.Context, userID, assetID int64) error {
	c.count("Assets.DeleteFavorite")

	if c.deleteFavoriteFn != nil {
		return c.deleteFavoriteFn(userID, assetID)
	}

	return nil
}

func (c *fakeClient) Owned(_ context.Context, userID, assetID int64) (bool, error) {
	c.count("Assets.Owned")

	if c.ownedFn != nil {
		return c.ownedFn(userID, assetID)
	}

	return false, nil
}

func (c *fakeClient) RemoveFromInventory(_ context.Context, _ int64) error {
	c.count("Assets.RemoveFromInventory")

	return nil
}

func (c *fakeClient) Download(_ context.Context, _ int64, _ io.Writer) error {
	c.count("Assets.Download")

	return nil
}

type fakeGamesClient struct {
	c *fakeClient
}

func (g *fakeGamesClient) Details(_ context.Context, universeIDs ...int64) ([]roblox.GameDetail, error) {
	g.c.count("Games.Details")

	if g.c.detailsFn != nil {
		return g.c.detailsFn(universeIDs)
	}

	details := make([]roblox.GameDetail, 0, len(universeIDs))
	for _, id := range universeIDs {
		details = append(details, roblox.GameDetail{ID: id})
	}

	return details, nil
}

func (g *fakeGamesClient) PlaceDetails(_ context.Context, placeIDs ...int64) ([]roblox.PlaceDetail, error) {
	g.c.count("Games.PlaceDetails")

	if g.c.placeDetailsFn != nil {
		return g.c.placeDetailsFn(placeIDs)
	}

	return nil, nil
}

func (g *fakeGamesClient) Favorited(_ context.Context, universeID int64) (bool, error) {
	g.c.count("Games.Favorited")

	if g.c.gameFavoritedFn != nil {
		return g.c.gameFavoritedFn(universeID)
	}

	return false, nil
}

func (g *fakeGamesClient) FavoritesCount(_ context.Context, universeID int64) (int64, error) {
	g.c.count("Games.FavoritesCount")

	if g.c.gameFavCountFn != nil {
		return g.c.gameFavCountFn(universeID)
	}

	return 0, nil
}

func (g *fakeGamesClient) SetFavorite(_ context.Context, _ int64, _ bool) error {
	g.c.count("Games.SetFavorite")

	return nil
}

func (g *fakeGamesClient) Servers(_ context.Context, placeID int64, serverType roblox.ServerType, params *roblox.QueryParams) (*roblox.Page[roblox.GameServer], error) {
	g.c.count("Games.Servers")

	if g.c.serversFn != nil {
		return g.c.serversFn(placeID, serverType, params)
	}

	return &roblox.Page[roblox.GameServer]{}, nil
}

type fakeGroupsClient struct {
	c *fakeClient
}

func (g *fakeGroupsClient) Get(_ context.Context, groupID int64) (*roblox.GroupInfo, error) {
	g.c.count("Groups.Get")

	if g.c.getGroupFn != nil {
		return g.c.getGroupFn(groupID)
	}

	return &roblox.GroupInfo{ID: groupID}, nil
}

func (g *fakeGroupsClient) Roles(_ context.Context, groupID int64) ([]roblox.RoleInfo, error) {
	g.c.count("Groups.Roles")

	if g.c.rolesFn != nil {
		return g.c.rolesFn(groupID)
	}

	return nil, nil
}

func (g *fakeGroupsClient) RoleDetails(_ context.Context, roleIDs ...int64) ([]roblox.RoleDetail, error) {
	g.c.count("Groups.RoleDetails")

	if g.c.roleDetailsFn != nil {
		return g.c.roleDetailsFn(roleIDs)
	}

	return nil, nil
}

func (g *fakeGroupsClient) Members(_ context.Context, groupID int64, params *roblox.QueryParams) (*roblox.Page[roblox.GroupMemberEntry], error) {
	g.c.count("Groups.Members")

	if g.c.membersFn != nil {
		return g.c.membersFn(groupID, params)
	}

	return &roblox.Page[roblox.GroupMemberEntry]{}, nil
}

func (g *fakeGroupsClient) MembersWithRole(_ context.Context, _, _ int64, _ *roblox.QueryParams) (*roblox.Page[roblox.GroupUser], error) {
	g.c.count("Groups.MembersWithRole")

	return &roblox.Page[roblox.GroupUser]{}, nil
}

func (g *fakeGroupsClient) UserMemberships(_ context.Context, userID int64) ([]roblox.GroupMembership, error) {
	g.c.count("Groups.UserMemberships")

	if g.c.userMembershipsFn != nil {
		return g.c.userMembershipsFn(userID)
	}

	return nil, nil
}

func (c *fakeClient) ByAssetType(_ context.Context, userID int64, assetType roblox.AssetType, params *roblox.QueryParams) (*roblox.Page[roblox.InventoryAsset], error) {
	c.count("Inventory.ByAssetType")

	if c.byAssetTypeFn != nil {
		return c.byAssetTypeFn(userID, assetType, params)
	}

	return &roblox.Page[roblox.InventoryAsset]{}, nil
}

func (c *fakeClient) Currency(_ context.Context, userID int64) (*roblox.CurrencyBalance, error) {
	c.count("Economy.Currency")

	if c.currencyFn != nil {
		return c.currencyFn(userID)
	}

	return &roblox.CurrencyBalance{}, nil
}

func (c *fakeClient) PurchaseProduct(_ context.Context, productID int64, request *roblox.PurchaseRequest) (*roblox.PurchaseReceipt, error) {
	c.count("Economy.PurchaseProduct")

	if c.purchaseProductFn != nil {
		return c.purchaseProductFn(productID, request)
	}

	return &roblox.PurchaseReceipt{}, nil
}
