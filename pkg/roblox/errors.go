package roblox

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Static errors for err113 compliance.
var (
	// ErrUnauthorized indicates the request requires authentication or
	// the session cookie is missing, expired, or rejected.
	ErrUnauthorized = errors.New("request was unauthorized")

	// ErrCaptcha indicates the platform answered with a captcha
	// challenge that the client cannot solve.
	ErrCaptcha = errors.New("request triggered a captcha challenge")

	// ErrIdentification indicates an entity was constructed without an
	// ID or a username to resolve one from.
	ErrIdentification = errors.New("unable to identify user: no id or username")

	// ErrFriendLimitExceeded indicates one side of a friend request is
	// at the platform friend limit.
	ErrFriendLimitExceeded = errors.New("friend limit exceeded")

	// ErrInvalidUser indicates the target user does not exist or
	// cannot take part in the operation.
	ErrInvalidUser = errors.New("invalid or nonexistent user")

	// ErrSelfOperation indicates an operation targeted the
	// authenticated user itself where that is not allowed.
	ErrSelfOperation = errors.New("operation cannot target the authenticated user")

	// ErrNoPendingRequest indicates there is no pending friend request
	// to accept or decline.
	ErrNoPendingRequest = errors.New("user has no pending friend request")

	// ErrAlreadyFriends indicates the users are already friends.
	ErrAlreadyFriends = errors.New("users are already friends")

	// ErrAssetNotFound indicates the asset does not exist or is not
	// accessible.
	ErrAssetNotFound = errors.New("asset does not exist")

	// ErrGameNotFound indicates the universe or place does not exist.
	ErrGameNotFound = errors.New("game does not exist")

	// ErrGroupNotFound indicates the group does not exist.
	ErrGroupNotFound = errors.New("group does not exist")

	// ErrRoleNotFound indicates no role in the group matches the
	// requested name or rank.
	ErrRoleNotFound = errors.New("role does not exist in group")

	// ErrUserNotInGroup indicates the user holds no role in the group.
	ErrUserNotInGroup = errors.New("user is not a member of the group")

	// ErrPriceChanged indicates a purchase failed because the price
	// changed between reading product info and buying.
	ErrPriceChanged = errors.New("price changed before purchase completed")

	// ErrPurchaseFailed indicates a purchase was rejected for a reason
	// other than a price change.
	ErrPurchaseFailed = errors.New("purchase failed")

	// ErrRateLimited indicates the platform throttled the request.
	ErrRateLimited = errors.New("request was rate limited")

	// ErrFieldUnavailable indicates the platform does not expose the
	// requested field for this entity.
	ErrFieldUnavailable = errors.New("field is not exposed by the platform")

	// ErrNoMoreItems indicates a page iterator is exhausted.
	ErrNoMoreItems = errors.New("no more items available")

	// ErrNilRequest indicates a nil request was passed to a client
	// method that requires one.
	ErrNilRequest = errors.New("request cannot be nil")
)

// APIError is a single error object from the platform's standard
// error envelope: {"errors": [{"code": 1, "message": "..."}]}.
type APIError struct {
	Code              int    `json:"code"`
	Message           string `json:"message"`
	UserFacingMessage string `json:"userFacingMessage,omitempty"`
	Field             string `json:"field,omitempty"`
}

// Error implements the error interface.
func (e APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("code %d: %s (field: %s)", e.Code, e.Message, e.Field)
	}

	return fmt.Sprintf("code %d: %s", e.Code, e.Message)
}

// ResponseError is returned for any non-2xx platform response. It
// preserves the HTTP status and every error object from the envelope.
type ResponseError struct {
	StatusCode int        `json:"-"`
	Errors     []APIError `json:"errors"`
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("API error: HTTP %d", e.StatusCode)
	}

	msgs := make([]string, 0, len(e.Errors))
	for _, apiErr := range e.Errors {
		msgs = append(msgs, apiErr.Error())
	}

	return fmt.Sprintf("API error: HTTP %d: %s", e.StatusCode, strings.Join(msgs, "; "))
}

// FirstError returns the first error object, if any.
func (e *ResponseError) FirstError() *APIError {
	if len(e.Errors) == 0 {
		return nil
	}

	return &e.Errors[0]
}

// HasCode reports whether any error object carries the given platform
// error code.
func (e *ResponseError) HasCode(code int) bool {
	for _, apiErr := range e.Errors {
		if apiErr.Code == code {
			return true
		}
	}

	return false
}

// AsResponseError unwraps err into a *ResponseError if one is in the
// chain.
func AsResponseError(err error) (*ResponseError, bool) {
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr, true
	}

	return nil, false
}

// IsNotFound reports whether err indicates a missing resource.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrAssetNotFound) || errors.Is(err, ErrGameNotFound) ||
		errors.Is(err, ErrGroupNotFound) || errors.Is(err, ErrRoleNotFound) ||
		errors.Is(err, ErrInvalidUser) {
		return true
	}

	if respErr, ok := AsResponseError(err); ok {
		return respErr.StatusCode == http.StatusNotFound
	}

	return false
}

// IsUnauthorized reports whether err indicates missing or rejected
// credentials.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrUnauthorized) {
		return true
	}

	if respErr, ok := AsResponseError(err); ok {
		return respErr.StatusCode == http.StatusUnauthorized
	}

	return false
}

// IsCaptcha reports whether err indicates a captcha challenge.
func IsCaptcha(err error) bool {
	return errors.Is(err, ErrCaptcha)
}

// IsRateLimited reports whether err indicates throttling.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}

	if respErr, ok := AsResponseError(err); ok {
		return respErr.StatusCode == http.StatusTooManyRequests
	}

	return false
}

// IsPriceChanged reports whether err indicates a purchase-time price
// change.
func IsPriceChanged(err error) bool {
	return errors.Is(err, ErrPriceChanged)
}
