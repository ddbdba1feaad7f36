package constants

// Auth API error codes.
const (
	AuthErrorInvalidCredentials = 1
	AuthErrorCaptcha            = 2
)

// Friends API error codes.
const (
	FriendErrorInvalidUser      = 1
	FriendErrorAlreadyFriends   = 5
	FriendErrorSelfTarget       = 7
	FriendErrorNoPendingRequest = 10
	FriendErrorSenderAtLimit    = 11
	FriendErrorTargetAtLimit    = 12
)

// Catalog favorites API error codes.
const (
	FavoriteErrorUnauthorized  = 0
	FavoriteErrorAssetNotFound = 5
	FavoriteErrorCaptcha       = 7
)
