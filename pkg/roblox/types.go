package roblox

import (
	"fmt"
	"sort"
	"time"
)

// Page is the platform's cursor pagination envelope. Cursors are
// opaque; a nil or empty NextPageCursor means the last page.
type Page[T any] struct {
	PreviousPageCursor *string `json:"previousPageCursor"`
	NextPageCursor     *string `json:"nextPageCursor"`
	Data               []T     `json:"data"`
}

// HasNextPage reports whether another page exists after this one.
func (p *Page[T]) HasNextPage() bool {
	return p.NextPageCursor != nil && *p.NextPageCursor != ""
}

// SortOrder is the sort direction accepted by cursor-paged endpoints.
type SortOrder string

const (
	SortAscending  SortOrder = "Asc"
	SortDescending SortOrder = "Desc"
)

// UserProfile is the users API representation of a user.
type UserProfile struct {
	ID                     int64     `json:"id"`
	Name                   string    `json:"name"`
	DisplayName            string    `json:"displayName"`
	Description            string    `json:"description"`
	Created                time.Time `json:"created"`
	IsBanned               bool      `json:"isBanned"`
	HasVerifiedBadge       bool      `json:"hasVerifiedBadge"`
	ExternalAppDisplayName string    `json:"externalAppDisplayName,omitempty"`
}

// LegacyUser is the legacy username lookup representation.
type LegacyUser struct {
	ID       int64  `json:"Id"`
	Username string `json:"Username"`
}

// UserStatus is a user's profile status text.
type UserStatus struct {
	Status string `json:"status"`
}

// AuthenticatedUser is the minimal record returned by the
// logged-in-user probe.
type AuthenticatedUser struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// LoginRequest is the credential login payload.
type LoginRequest struct {
	CredentialType  string `json:"ctype"`
	CredentialValue string `json:"cvalue"`
	Password        string `json:"password"`
}

// FriendEntry is one user in a friends, followers, or followings
// listing.
type FriendEntry struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	DisplayName      string    `json:"displayName"`
	Description      string    `json:"description,omitempty"`
	Created          time.Time `json:"created,omitzero"`
	IsBanned         bool      `json:"isBanned"`
	IsOnline         bool      `json:"isOnline"`
	IsDeleted        bool      `json:"isDeleted"`
	HasVerifiedBadge bool      `json:"hasVerifiedBadge"`
}

// FriendshipStatus pairs a user ID with the friendship relation the
// authenticated user has with them ("Friends", "NotFriends",
// "RequestSent", "RequestReceived").
type FriendshipStatus struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// FriendRequestInfo is one incoming friend request.
type FriendRequestInfo struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName"`
	Description string    `json:"description,omitempty"`
	Created     time.Time `json:"created,omitzero"`
	IsBanned    bool      `json:"isBanned"`
}

// CountResponse is the envelope shared by the count endpoints.
type CountResponse struct {
	Count int64 `json:"count"`
}

// Creator identifies who made an asset or game.
type Creator struct {
	ID               int64  `json:"Id"`
	Name             string `json:"Name"`
	CreatorType      string `json:"CreatorType"`
	CreatorTargetID  int64  `json:"CreatorTargetId"`
	HasVerifiedBadge bool   `json:"HasVerifiedBadge"`
}

// ProductInfo is the marketplace representation of an asset. The
// endpoint predates the platform's camelCase convention, hence the
// Pascal-case JSON keys.
type ProductInfo struct {
	TargetID               int64     `json:"TargetId"`
	AssetID                int64     `json:"AssetId"`
	ProductID              int64     `json:"ProductId"`
	Name                   string    `json:"Name"`
	Description            string    `json:"Description"`
	AssetTypeID            int       `json:"AssetTypeId"`
	Creator                Creator   `json:"Creator"`
	IconImageAssetID       int64     `json:"IconImageAssetId"`
	Created                time.Time `json:"Created"`
	Updated                time.Time `json:"Updated"`
	PriceInRobux           *int64    `json:"PriceInRobux"`
	Sales                  int64     `json:"Sales"`
	IsNew                  bool      `json:"IsNew"`
	IsForSale              bool      `json:"IsForSale"`
	IsPublicDomain         bool      `json:"IsPublicDomain"`
	IsLimited              bool      `json:"IsLimited"`
	IsLimitedUnique        bool      `json:"IsLimitedUnique"`
	Remaining              *int64    `json:"Remaining"`
	MinimumMembershipLevel int       `json:"MinimumMembershipLevel"`
}

// FavoriteModel records that a user favorited an asset.
type FavoriteModel struct {
	AssetID int64     `json:"assetId"`
	UserID  int64     `json:"userId"`
	Created time.Time `json:"created"`
}

// GameCreator identifies the creator of a universe.
type GameCreator struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	HasVerifiedBadge bool   `json:"hasVerifiedBadge"`
}

// GameDetail is the games API representation of a universe.
type GameDetail struct {
	ID             int64       `json:"id"`
	RootPlaceID    int64       `json:"rootPlaceId"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	Creator        GameCreator `json:"creator"`
	Price          *int64      `json:"price"`
	Playing        int64       `json:"playing"`
	Visits         int64       `json:"visits"`
	MaxPlayers     int         `json:"maxPlayers"`
	FavoritedCount int64       `json:"favoritedCount"`
	Created        time.Time   `json:"created"`
	Updated        time.Time   `json:"updated"`
	Genre          string      `json:"genre,omitempty"`
}

// GameFavoritedResponse reports whether the authenticated user
// favorited a universe.
type GameFavoritedResponse struct {
	IsFavorited bool `json:"isFavorited"`
}

// GameFavoritesCount is a universe's favorite counter.
type GameFavoritesCount struct {
	FavoritesCount int64 `json:"favoritesCount"`
}

// GameFavoriteRequest sets or clears a universe favorite.
type GameFavoriteRequest struct {
	IsFavorited bool `json:"isFavorited"`
}

// PlaceDetail is the games API representation of a place.
type PlaceDetail struct {
	PlaceID             int64  `json:"placeId"`
	Name                string `json:"name"`
	Description         string `json:"description"`
	URL                 string `json:"url"`
	Builder             string `json:"builder"`
	BuilderID           int64  `json:"builderId"`
	IsPlayable          bool   `json:"isPlayable"`
	ReasonProhibited    string `json:"reasonProhibited,omitempty"`
	UniverseID          int64  `json:"universeId"`
	UniverseRootPlaceID int64  `json:"universeRootPlaceId"`
	Price               int64  `json:"price"`
	ImageToken          string `json:"imageToken,omitempty"`
}

// GameServer is one running server instance of a place.
type GameServer struct {
	ID          string  `json:"id"`
	MaxPlayers  int     `json:"maxPlayers"`
	Playing     int     `json:"playing"`
	FPS         float64 `json:"fps"`
	Ping        int     `json:"ping"`
	Name        string  `json:"name,omitempty"`
	VIPServerID int64   `json:"vipServerId,omitempty"`
	AccessCode  string  `json:"accessCode,omitempty"`
}

// ServerType selects which kind of place servers to list.
type ServerType string

const (
	ServerTypePublic ServerType = "Public"
	ServerTypeFriend ServerType = "Friend"
	ServerTypeVIP    ServerType = "VIP"
)

// GroupUser is the compact user record embedded in group payloads.
type GroupUser struct {
	UserID           int64  `json:"userId"`
	Username         string `json:"username"`
	DisplayName      string `json:"displayName"`
	HasVerifiedBadge bool   `json:"hasVerifiedBadge"`
}

// GroupShout is a group's current shout.
type GroupShout struct {
	Body    string    `json:"body"`
	Poster  GroupUser `json:"poster"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

// GroupInfo is the groups API representation of a group.
type GroupInfo struct {
	ID                 int64       `json:"id"`
	Name               string      `json:"name"`
	Description        string      `json:"description"`
	Owner              *GroupUser  `json:"owner"`
	Shout              *GroupShout `json:"shout"`
	MemberCount        int64       `json:"memberCount"`
	IsBuildersClubOnly bool        `json:"isBuildersClubOnly"`
	PublicEntryAllowed bool        `json:"publicEntryAllowed"`
	IsLocked           bool        `json:"isLocked"`
	HasVerifiedBadge   bool        `json:"hasVerifiedBadge"`
}

// RoleInfo is one role in a group's rank ladder.
type RoleInfo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Rank        int    `json:"rank"`
	MemberCount int64  `json:"memberCount,omitempty"`
}

// GroupRolesResponse is the roles listing envelope.
type GroupRolesResponse struct {
	GroupID int64      `json:"groupId"`
	Roles   []RoleInfo `json:"roles"`
}

// RoleDetail is the role multi-get representation, carrying the group
// the role belongs to.
type RoleDetail struct {
	GroupID     int64  `json:"groupId"`
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Rank        int    `json:"rank"`
	MemberCount int64  `json:"memberCount,omitempty"`
}

// RoleDetailsResponse is the role multi-get envelope.
type RoleDetailsResponse struct {
	Data []RoleDetail `json:"data"`
}

// GroupMemberEntry is one member in a group membership page.
type GroupMemberEntry struct {
	User GroupUser `json:"user"`
	Role RoleInfo  `json:"role"`
}

// GroupBasicInfo is the compact group record in membership listings.
type GroupBasicInfo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	MemberCount int64  `json:"memberCount"`
}

// GroupMembership pairs a group with the role a user holds in it.
type GroupMembership struct {
	Group GroupBasicInfo `json:"group"`
	Role  RoleInfo       `json:"role"`
}

// GroupMembershipsResponse is the user-group-roles envelope.
type GroupMembershipsResponse struct {
	Data []GroupMembership `json:"data"`
}

// InventoryAsset is one item in a user's inventory.
type InventoryAsset struct {
	UserAssetID  int64     `json:"userAssetId"`
	AssetID      int64     `json:"assetId"`
	AssetName    string    `json:"assetName"`
	SerialNumber *int64    `json:"serialNumber"`
	Created      time.Time `json:"created,omitzero"`
	Updated      time.Time `json:"updated,omitzero"`
}

// CurrencyBalance is the authenticated user's Robux balance.
type CurrencyBalance struct {
	Robux int64 `json:"robux"`
}

// PurchaseRequest pins the expected terms of a product purchase. The
// platform rejects the purchase if the live terms differ.
type PurchaseRequest struct {
	ExpectedCurrency int    `json:"expectedCurrency"`
	ExpectedPrice    int64  `json:"expectedPrice"`
	ExpectedSellerID *int64 `json:"expectedSellerId,omitempty"`
}

// Purchase failure reasons reported in PurchaseReceipt.Reason.
const (
	PurchaseReasonSuccess          = "Success"
	PurchaseReasonPriceChanged     = "PriceChanged"
	PurchaseReasonInvalidArguments = "InvalidArguments"
)

// PurchaseReceipt is the economy API's purchase outcome.
type PurchaseReceipt struct {
	Purchased    bool   `json:"purchased"`
	Reason       string `json:"reason"`
	ProductID    int64  `json:"productId"`
	Price        int64  `json:"price,omitempty"`
	AssetID      int64  `json:"assetId,omitempty"`
	AssetName    string `json:"assetName,omitempty"`
	ErrorMessage string `json:"errorMsg,omitempty"`
	Title        string `json:"title,omitempty"`
}

// AssetType is the platform's asset type enumeration.
type AssetType int

const (
	AssetTypeImage               AssetType = 1
	AssetTypeTShirt              AssetType = 2
	AssetTypeAudio               AssetType = 3
	AssetTypeMesh                AssetType = 4
	AssetTypeLua                 AssetType = 5
	AssetTypeHat                 AssetType = 8
	AssetTypePlace               AssetType = 9
	AssetTypeModel               AssetType = 10
	AssetTypeShirt               AssetType = 11
	AssetTypePants               AssetType = 12
	AssetTypeDecal               AssetType = 13
	AssetTypeHead                AssetType = 17
	AssetTypeFace                AssetType = 18
	AssetTypeGear                AssetType = 19
	AssetTypeBadge               AssetType = 21
	AssetTypeAnimation           AssetType = 24
	AssetTypeTorso               AssetType = 27
	AssetTypeRightArm            AssetType = 28
	AssetTypeLeftArm             AssetType = 29
	AssetTypeLeftLeg             AssetType = 30
	AssetTypeRightLeg            AssetType = 31
	AssetTypePackage             AssetType = 32
	AssetTypeGamePass            AssetType = 34
	AssetTypePlugin              AssetType = 38
	AssetTypeMeshPart            AssetType = 40
	AssetTypeHairAccessory       AssetType = 41
	AssetTypeFaceAccessory       AssetType = 42
	AssetTypeNeckAccessory       AssetType = 43
	AssetTypeShoulderAccessory   AssetType = 44
	AssetTypeFrontAccessory      AssetType = 45
	AssetTypeBackAccessory       AssetType = 46
	AssetTypeWaistAccessory      AssetType = 47
	AssetTypeClimbAnimation      AssetType = 48
	AssetTypeDeathAnimation      AssetType = 49
	AssetTypeFallAnimation       AssetType = 50
	AssetTypeIdleAnimation       AssetType = 51
	AssetTypeJumpAnimation       AssetType = 52
	AssetTypeRunAnimation        AssetType = 53
	AssetTypeSwimAnimation       AssetType = 54
	AssetTypeWalkAnimation       AssetType = 55
	AssetTypePoseAnimation       AssetType = 56
	AssetTypeEarAccessory        AssetType = 57
	AssetTypeEyeAccessory        AssetType = 58
	AssetTypeEmoteAnimation      AssetType = 61
	AssetTypeVideo               AssetType = 62
	AssetTypeTShirtAccessory     AssetType = 64
	AssetTypeShirtAccessory      AssetType = 65
	AssetTypePantsAccessory      AssetType = 66
	AssetTypeJacketAccessory     AssetType = 67
	AssetTypeSweaterAccessory    AssetType = 68
	AssetTypeShortsAccessory     AssetType = 69
	AssetTypeLeftShoeAccessory   AssetType = 70
	AssetTypeRightShoeAccessory  AssetType = 71
	AssetTypeDressSkirtAccessory AssetType = 72
)

var assetTypeNames = map[AssetType]string{
	AssetTypeImage:               "Image",
	AssetTypeTShirt:              "TShirt",
	AssetTypeAudio:               "Audio",
	AssetTypeMesh:                "Mesh",
	AssetTypeLua:                 "Lua",
	AssetTypeHat:                 "Hat",
	AssetTypePlace:               "Place",
	AssetTypeModel:               "Model",
	AssetTypeShirt:               "Shirt",
	AssetTypePants:               "Pants",
	AssetTypeDecal:               "Decal",
	AssetTypeHead:                "Head",
	AssetTypeFace:                "Face",
	AssetTypeGear:                "Gear",
	AssetTypeBadge:               "Badge",
	AssetTypeAnimation:           "Animation",
	AssetTypeTorso:               "Torso",
	AssetTypeRightArm:            "RightArm",
	AssetTypeLeftArm:             "LeftArm",
	AssetTypeLeftLeg:             "LeftLeg",
	AssetTypeRightLeg:            "RightLeg",
	AssetTypePackage:             "Package",
	AssetTypeGamePass:            "GamePass",
	AssetTypePlugin:              "Plugin",
	AssetTypeMeshPart:            "MeshPart",
	AssetTypeHairAccessory:       "HairAccessory",
	AssetTypeFaceAccessory:       "FaceAccessory",
	AssetTypeNeckAccessory:       "NeckAccessory",
	AssetTypeShoulderAccessory:   "ShoulderAccessory",
	AssetTypeFrontAccessory:      "FrontAccessory",
	AssetTypeBackAccessory:       "BackAccessory",
	AssetTypeWaistAccessory:      "WaistAccessory",
	AssetTypeClimbAnimation:      "ClimbAnimation",
	AssetTypeDeathAnimation:      "DeathAnimation",
	AssetTypeFallAnimation:       "FallAnimation",
	AssetTypeIdleAnimation:       "IdleAnimation",
	AssetTypeJumpAnimation:       "JumpAnimation",
	AssetTypeRunAnimation:        "RunAnimation",
	AssetTypeSwimAnimation:       "SwimAnimation",
	AssetTypeWalkAnimation:       "WalkAnimation",
	AssetTypePoseAnimation:       "PoseAnimation",
	AssetTypeEarAccessory:        "EarAccessory",
	AssetTypeEyeAccessory:        "EyeAccessory",
	AssetTypeEmoteAnimation:      "EmoteAnimation",
	AssetTypeVideo:               "Video",
	AssetTypeTShirtAccessory:     "TShirtAccessory",
	AssetTypeShirtAccessory:      "ShirtAccessory",
	AssetTypePantsAccessory:      "PantsAccessory",
	AssetTypeJacketAccessory:     "JacketAccessory",
	AssetTypeSweaterAccessory:    "SweaterAccessory",
	AssetTypeShortsAccessory:     "ShortsAccessory",
	AssetTypeLeftShoeAccessory:   "LeftShoeAccessory",
	AssetTypeRightShoeAccessory:  "RightShoeAccessory",
	AssetTypeDressSkirtAccessory: "DressSkirtAccessory",
}

// String returns the platform name of the asset type.
func (t AssetType) String() string {
	if name, ok := assetTypeNames[t]; ok {
		return name
	}

	return fmt.Sprintf("AssetType(%d)", int(t))
}

// Valid reports whether the asset type is a known platform type.
func (t AssetType) Valid() bool {
	_, ok := assetTypeNames[t]

	return ok
}

// AllAssetTypes returns every known asset type in ascending order.
func AllAssetTypes() []AssetType {
	types := make([]AssetType, 0, len(assetTypeNames))
	for t := range assetTypeNames {
		types = append(types, t)
	}

	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}
