// Package client implements the resource clients behind the public
// Client interface, one API area per file.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/bloxkit/rbx-client/internal/auth"
	"github.com/bloxkit/rbx-client/internal/constants"
	internalhttp "github.com/bloxkit/rbx-client/internal/http"
	"github.com/bloxkit/rbx-client/pkg/roblox"
)

// Client aggregates the resource clients and implements
// roblox.Client. The API is split across subdomains, so the client
// holds one HTTP core per subdomain, all sharing the same session,
// cache, and interceptor chain.
type Client struct {
	session *auth.MemorySession
	logger  roblox.Logger

	authHTTP  *internalhttp.Client
	usersHTTP *internalhttp.Client

	users     *UsersClient
	friends   *FriendsClient
	assets    *AssetsClient
	games     *GamesClient
	groups    *GroupsClient
	inventory *InventoryClient
	economy   *EconomyClient
}

// New creates a Client from configuration. The session cookie, if
// any, is taken from the config; credential login is a separate call.
func New(config *roblox.Config) (*Client, error) {
	if config == nil {
		config = &roblox.Config{}
	}

	endpoints := roblox.DefaultEndpoints()
	if config.Endpoints != nil {
		endpoints = config.Endpoints.WithDefaults()
	}

	session := auth.NewMemorySession(config.Cookie)

	var cache *roblox.CacheManager

	if config.Cache != nil {
		var err error

		cache, err = roblox.NewCacheManagerFromConfig(config.Cache)
		if err != nil {
			return nil, fmt.Errorf("building response cache: %w", err)
		}
	}

	var chain *roblox.InterceptorChain

	if len(config.RequestInterceptors) > 0 || len(config.ResponseInterceptors) > 0 {
		chain = roblox.NewInterceptorChain()

		for _, interceptor := range config.RequestInterceptors {
			chain.AddRequestInterceptor(interceptor)
		}

		for _, interceptor := range config.ResponseInterceptors {
			chain.AddResponseInterceptor(interceptor)
		}
	}

	opts := []internalhttp.Option{
		internalhttp.WithLogger(config.Logger),
		internalhttp.WithDebug(config.Debug),
	}

	if config.RetryMax > 0 || config.RetryWaitMin > 0 || config.RetryWaitMax > 0 || config.HTTPTimeout > 0 {
		opts = append(opts, internalhttp.WithRetryConfig(config.RetryMax, config.RetryWaitMin, config.RetryWaitMax, config.HTTPTimeout))
	}

	if config.UserAgent != "" {
		opts = append(opts, internalhttp.WithUserAgent(config.UserAgent))
	}

	if cache != nil {
		opts = append(opts, internalhttp.WithCacheManager(cache))
	}

	if chain != nil {
		opts = append(opts, internalhttp.WithInterceptors(chain))
	}

	httpFor := func(baseURL string) *internalhttp.Client {
		return internalhttp.NewClient(baseURL, session, opts...)
	}

	authHTTP := httpFor(endpoints.Auth)
	usersHTTP := httpFor(endpoints.Users)
	friendsHTTP := httpFor(endpoints.Friends)
	premiumHTTP := httpFor(endpoints.Premium)
	apiHTTP := httpFor(endpoints.API)
	webHTTP := httpFor(endpoints.Web)
	catalogHTTP := httpFor(endpoints.Catalog)
	inventoryHTTP := httpFor(endpoints.Inventory)
	gamesHTTP := httpFor(endpoints.Games)
	economyHTTP := httpFor(endpoints.Economy)
	groupsHTTP := httpFor(endpoints.Groups)

	// Asset downloads move more bytes than API calls, so the delivery
	// client gets a longer timeout and backoff ceiling unless the
	// config overrides them.
	deliveryOpts := opts
	if config.HTTPTimeout == 0 && config.RetryWaitMax == 0 {
		deliveryOpts = append(deliveryOpts, internalhttp.WithRetryConfig(0, 0, constants.ExtendedRetryWaitMax, constants.ExtendedHTTPTimeout))
	}

	deliveryHTTP := internalhttp.NewClient(endpoints.AssetDelivery, session, deliveryOpts...)

	client := &Client{
		session:   session,
		logger:    config.Logger,
		authHTTP:  authHTTP,
		usersHTTP: usersHTTP,
	}

	client.users = NewUsersClient(usersHTTP, apiHTTP, premiumHTTP)
	client.friends = NewFriendsClient(friendsHTTP)
	client.assets = NewAssetsClient(apiHTTP, catalogHTTP, webHTTP, deliveryHTTP)
	client.games = NewGamesClient(gamesHTTP)
	client.groups = NewGroupsClient(groupsHTTP)
	client.inventory = NewInventoryClient(inventoryHTTP)
	client.economy = NewEconomyClient(economyHTTP)

	return client, nil
}

// Users implements roblox.Client.
func (c *Client) Users() roblox.UsersClient { return c.users }

// Friends implements roblox.Client.
func (c *Client) Friends() roblox.FriendsClient { return c.friends }

// Assets implements roblox.Client.
func (c *Client) Assets() roblox.AssetsClient { return c.assets }

// Games implements roblox.Client.
func (c *Client) Games() roblox.GamesClient { return c.games }

// Groups implements roblox.Client.
func (c *Client) Groups() roblox.GroupsClient { return c.groups }

// Inventory implements roblox.Client.
func (c *Client) Inventory() roblox.InventoryClient { return c.inventory }

// Economy implements roblox.Client.
func (c *Client) Economy() roblox.EconomyClient { return c.economy }

// Login implements roblox.Client. On success the session cookie from
// the response replaces the current one.
func (c *Client) Login(ctx context.Context, username, password string) error {
	req := &internalhttp.Request{
		Method: http.MethodPost,
		Path:   "/v2/login",
		Body: roblox.LoginRequest{
			CredentialType:  "Username",
			CredentialValue: username,
			Password:        password,
		},
	}

	resp, err := c.authHTTP.Do(ctx, req)
	if err != nil {
		return mapLoginError(err)
	}

	cookie := securityCookie(resp.Headers)
	if cookie == "" {
		return fmt.Errorf("login succeeded but no session cookie was issued: %w", roblox.ErrUnauthorized)
	}

	c.session.SetCookie(cookie)

	if c.logger != nil {
		c.logger.Info("session established", map[string]interface{}{
			"username": username,
		})
	}

	return nil
}

func mapLoginError(err error) error {
	respErr, ok := roblox.AsResponseError(err)
	if !ok {
		return err
	}

	switch {
	case respErr.HasCode(constants.AuthErrorCaptcha):
		return fmt.Errorf("%w: %w", roblox.ErrCaptcha, err)
	case respErr.HasCode(constants.AuthErrorInvalidCredentials):
		return fmt.Errorf("%w: %w", roblox.ErrUnauthorized, err)
	case respErr.StatusCode == http.StatusForbidden, respErr.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", roblox.ErrUnauthorized, err)
	default:
		return err
	}
}

// securityCookie extracts the session cookie from Set-Cookie headers.
func securityCookie(headers http.Header) string {
	for _, header := range headers.Values("Set-Cookie") {
		name, rest, found := strings.Cut(header, "=")
		if !found || name != constants.SecurityCookieName {
			continue
		}

		value, _, _ := strings.Cut(rest, ";")

		return value
	}

	return ""
}

// Logout implements roblox.Client. The session is cleared even when
// the platform call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.authHTTP.Post(ctx, "/v2/logout", nil, nil)

	c.session.Clear()

	if err != nil && !roblox.IsUnauthorized(err) {
		return fmt.Errorf("logging out: %w", err)
	}

	return nil
}

// LoggedIn implements roblox.Client.
func (c *Client) LoggedIn(ctx context.Context) (bool, error) {
	_, err := c.AuthenticatedUser(ctx)
	if err != nil {
		if roblox.IsUnauthorized(err) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// SessionCookie implements roblox.Client.
func (c *Client) SessionCookie() string {
	return c.session.Cookie()
}

// AuthenticatedUser implements roblox.Client.
func (c *Client) AuthenticatedUser(ctx context.Context) (*roblox.AuthenticatedUser, error) {
	var user roblox.AuthenticatedUser

	if err := c.usersHTTP.Get(ctx, "/v1/users/authenticated", nil, &user); err != nil {
		if roblox.IsUnauthorized(err) {
			return nil, fmt.Errorf("%w: %w", roblox.ErrUnauthorized, err)
		}

		return nil, fmt.Errorf("fetching authenticated user: %w", err)
	}

	return &user, nil
}
