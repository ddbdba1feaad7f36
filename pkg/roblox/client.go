// Package roblox provides the public interface for the Roblox web API
// client library.
package roblox

import (
	"context"
	"io"
	"time"
)

// Client is the top-level interface to the Roblox web API. Obtain one
// from the rbxclient package.
type Client interface {
	// Users returns the client for the users API.
	Users() UsersClient

	// Friends returns the client for the friends API.
	Friends() FriendsClient

	// Assets returns the client for the marketplace and catalog APIs.
	Assets() AssetsClient

	// Games returns the client for the games API.
	Games() GamesClient

	// Groups returns the client for the groups API.
	Groups() GroupsClient

	// Inventory returns the client for the inventory API.
	Inventory() InventoryClient

	// Economy returns the client for the economy API.
	Economy() EconomyClient

	// Login authenticates with a username and password and stores the
	// resulting session cookie. A captcha challenge surfaces as
	// ErrCaptcha.
	Login(ctx context.Context, username, password string) error

	// Logout invalidates the current session cookie.
	Logout(ctx context.Context) error

	// LoggedIn reports whether the session cookie authenticates.
	LoggedIn(ctx context.Context) (bool, error)

	// AuthenticatedUser returns the minimal record of the user the
	// session cookie belongs to.
	AuthenticatedUser(ctx context.Context) (*AuthenticatedUser, error)

	// SessionCookie returns the current .ROBLOSECURITY cookie, or an
	// empty string for an anonymous client.
	SessionCookie() string
}

// UsersClient accesses the users API.
type UsersClient interface {
	// Get fetches a user's profile by ID.
	Get(ctx context.Context, userID int64) (*UserProfile, error)

	// GetByUsername resolves a username to an ID via the legacy
	// lookup endpoint.
	GetByUsername(ctx context.Context, username string) (*LegacyUser, error)

	// Status fetches a user's profile status text.
	Status(ctx context.Context, userID int64) (*UserStatus, error)

	// SetStatus updates the authenticated user's status and returns
	// the moderated text the platform stored.
	SetStatus(ctx context.Context, userID int64, status string) (*UserStatus, error)

	// HasPremium reports whether the user has a premium membership.
	HasPremium(ctx context.Context, userID int64) (bool, error)
}

// FriendsClient accesses the friends API.
type FriendsClient interface {
	// List fetches a user's complete friends list.
	List(ctx context.Context, userID int64) ([]FriendEntry, error)

	// Statuses fetches the friendship relation between userID and
	// each of the given users.
	Statuses(ctx context.Context, userID int64, userIDs []int64) ([]FriendshipStatus, error)

	// Request sends a friend request to the user.
	Request(ctx context.Context, userID int64) error

	// Unfriend removes the user from the authenticated user's
	// friends.
	Unfriend(ctx context.Context, userID int64) error

	// AcceptRequest accepts a pending friend request from the user.
	AcceptRequest(ctx context.Context, userID int64) error

	// DeclineRequest declines a pending friend request from the user.
	DeclineRequest(ctx context.Context, userID int64) error

	// DeclineAllRequests declines every pending friend request.
	DeclineAllRequests(ctx context.Context) error

	// RequestCount returns the number of pending friend requests.
	RequestCount(ctx context.Context) (int64, error)

	// Requests fetches one page of pending friend requests.
	Requests(ctx context.Context, params *QueryParams) (*Page[FriendRequestInfo], error)

	// Follow follows the user.
	Follow(ctx context.Context, userID int64) error

	// Unfollow unfollows the user.
	Unfollow(ctx context.Context, userID int64) error

	// Followers fetches one page of the user's followers.
	Followers(ctx context.Context, userID int64, params *QueryParams) (*Page[FriendEntry], error)

	// Followings fetches one page of the users the user follows.
	Followings(ctx context.Context, userID int64, params *QueryParams) (*Page[FriendEntry], error)

	// FollowerCount returns the user's follower count.
	FollowerCount(ctx context.Context, userID int64) (int64, error)

	// FollowingCount returns the number of users the user follows.
	FollowingCount(ctx context.Context, userID int64) (int64, error)
}

// AssetsClient accesses the marketplace, catalog favorites, and asset
// delivery APIs.
type AssetsClient interface {
	// ProductInfo fetches marketplace info for the asset.
	ProductInfo(ctx context.Context, assetID int64) (*ProductInfo, error)

	// FavoritesCount returns the asset's favorite counter.
	FavoritesCount(ctx context.Context, assetID int64) (int64, error)

	// FavoriteModel fetches the favorite record linking the user to
	// the asset, or nil when the user has not favorited it.
	FavoriteModel(ctx context.Context, userID, assetID int64) (*FavoriteModel, error)

	// CreateFavorite favorites the asset on behalf of the user.
	CreateFavorite(ctx context.Context, userID, assetID int64) error

	// DeleteFavorite removes the user's favorite of the asset.
	DeleteFavorite(ctx context.Context, userID, assetID int64) error

	// Owned reports whether the user owns the asset.
	Owned(ctx context.Context, userID, assetID int64) (bool, error)

	// RemoveFromInventory deletes the asset from the authenticated
	// user's inventory.
	RemoveFromInventory(ctx context.Context, assetID int64) error

	// Download writes the asset's content to w.
	Download(ctx context.Context, assetID int64, w io.Writer) error
}

// GamesClient accesses the games API.
type GamesClient interface {
	// Details fetches universe details for the given universe IDs.
	Details(ctx context.Context, universeIDs ...int64) ([]GameDetail, error)

	// PlaceDetails fetches place details for the given place IDs.
	PlaceDetails(ctx context.Context, placeIDs ...int64) ([]PlaceDetail, error)

	// Favorited reports whether the authenticated user favorited the
	// universe.
	Favorited(ctx context.Context, universeID int64) (bool, error)

	// FavoritesCount returns the universe's favorite counter.
	FavoritesCount(ctx context.Context, universeID int64) (int64, error)

	// SetFavorite sets or clears the authenticated user's favorite of
	// the universe.
	SetFavorite(ctx context.Context, universeID int64, favorited bool) error

	// Servers fetches one page of running servers for the place.
	Servers(ctx context.Context, placeID int64, serverType ServerType, params *QueryParams) (*Page[GameServer], error)
}

// GroupsClient accesses the groups API.
type GroupsClient interface {
	// Get fetches a group's details.
	Get(ctx context.Context, groupID int64) (*GroupInfo, error)

	// Roles fetches the group's rank ladder, sorted by ascending
	// rank.
	Roles(ctx context.Context, groupID int64) ([]RoleInfo, error)

	// RoleDetails fetches role records by role ID across groups.
	RoleDetails(ctx context.Context, roleIDs ...int64) ([]RoleDetail, error)

	// Members fetches one page of group members.
	Members(ctx context.Context, groupID int64, params *QueryParams) (*Page[GroupMemberEntry], error)

	// MembersWithRole fetches one page of members holding the role.
	MembersWithRole(ctx context.Context, groupID, roleID int64, params *QueryParams) (*Page[GroupUser], error)

	// UserMemberships fetches every group role the user holds.
	UserMemberships(ctx context.Context, userID int64) ([]GroupMembership, error)
}

// InventoryClient accesses the inventory API.
type InventoryClient interface {
	// ByAssetType fetches one page of the user's inventory of the
	// given asset type.
	ByAssetType(ctx context.Context, userID int64, assetType AssetType, params *QueryParams) (*Page[InventoryAsset], error)
}

// EconomyClient accesses the economy API.
type EconomyClient interface {
	// Currency returns the user's Robux balance. Only the
	// authenticated user's balance is visible.
	Currency(ctx context.Context, userID int64) (*CurrencyBalance, error)

	// PurchaseProduct buys a product at the expected terms. A
	// price-changed rejection surfaces as ErrPriceChanged.
	PurchaseProduct(ctx context.Context, productID int64, request *PurchaseRequest) (*PurchaseReceipt, error)
}

// Logger is the interface for structured logging throughout the
// library.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Endpoints holds the base URL of each API subdomain. Zero-value
// fields fall back to the production defaults; tests point them at
// local servers.
type Endpoints struct {
	Web           string
	API           string
	Auth          string
	Users         string
	Friends       string
	Premium       string
	Inventory     string
	Catalog       string
	Games         string
	Economy       string
	Groups        string
	AssetDelivery string
}

// DefaultEndpoints returns the production API endpoints.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Web:           "https://www.roblox.com",
		API:           "https://api.roblox.com",
		Auth:          "https://auth.roblox.com",
		Users:         "https://users.roblox.com",
		Friends:       "https://friends.roblox.com",
		Premium:       "https://premiumfeatures.roblox.com",
		Inventory:     "https://inventory.roblox.com",
		Catalog:       "https://catalog.roblox.com",
		Games:         "https://games.roblox.com",
		Economy:       "https://economy.roblox.com",
		Groups:        "https://groups.roblox.com",
		AssetDelivery: "https://assetdelivery.roblox.com",
	}
}

// WithDefaults fills zero-value fields from the production defaults.
func (e Endpoints) WithDefaults() Endpoints {
	defaults := DefaultEndpoints()

	fill := func(value, fallback string) string {
		if value == "" {
			return fallback
		}

		return value
	}

	return Endpoints{
		Web:           fill(e.Web, defaults.Web),
		API:           fill(e.API, defaults.API),
		Auth:          fill(e.Auth, defaults.Auth),
		Users:         fill(e.Users, defaults.Users),
		Friends:       fill(e.Friends, defaults.Friends),
		Premium:       fill(e.Premium, defaults.Premium),
		Inventory:     fill(e.Inventory, defaults.Inventory),
		Catalog:       fill(e.Catalog, defaults.Catalog),
		Games:         fill(e.Games, defaults.Games),
		Economy:       fill(e.Economy, defaults.Economy),
		Groups:        fill(e.Groups, defaults.Groups),
		AssetDelivery: fill(e.AssetDelivery, defaults.AssetDelivery),
	}
}

// Config configures a client.
type Config struct {
	// Cookie is a .ROBLOSECURITY session cookie. Leave empty for an
	// anonymous client or when logging in with credentials.
	Cookie string

	// Username and Password authenticate via login when Cookie is
	// empty.
	Username string
	Password string

	// Endpoints overrides the API base URLs.
	Endpoints *Endpoints

	// UserAgent overrides the User-Agent header.
	UserAgent string

	// HTTPTimeout is the per-request timeout.
	HTTPTimeout time.Duration

	// RetryMax is the maximum number of transport-level retries.
	// Zero keeps the default.
	RetryMax int

	// RetryWaitMin and RetryWaitMax bound the retry backoff.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// Cache configures the response cache. Nil disables caching.
	Cache *CacheConfig

	// RequestInterceptors and ResponseInterceptors run around every
	// request.
	RequestInterceptors  []RequestInterceptor
	ResponseInterceptors []ResponseInterceptor

	// Logger receives structured log output. Nil disables logging.
	Logger Logger

	// Debug enables request/response logging on the Logger.
	Debug bool
}
