// Package rbxclient constructs Roblox web API clients.
//
// The zero configuration gives an anonymous client that can read
// public data. Supply a .ROBLOSECURITY cookie or credentials for the
// operations that require a session.
package rbxclient

import (
	"context"
	"fmt"

	internalclient "github.com/bloxkit/rbx-client/internal/client"
	"github.com/bloxkit/rbx-client/pkg/roblox"
)

// New creates a client from configuration. When credentials are set
// and no cookie is, the client logs in before returning.
func New(ctx context.Context, config *roblox.Config) (roblox.Client, error) {
	if config == nil {
		config = &roblox.Config{}
	}

	client, err := internalclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	if config.Cookie == "" && config.Username != "" {
		if err := client.Login(ctx, config.Username, config.Password); err != nil {
			return nil, fmt.Errorf("logging in as %q: %w", config.Username, err)
		}
	}

	return client, nil
}

// NewWithCookie creates a client authenticated with a .ROBLOSECURITY
// cookie.
func NewWithCookie(ctx context.Context, cookie string) (roblox.Client, error) {
	return New(ctx, &roblox.Config{Cookie: cookie})
}

// NewWithCredentials creates a client by logging in with a username
// and password.
func NewWithCredentials(ctx context.Context, username, password string) (roblox.Client, error) {
	return New(ctx, &roblox.Config{Username: username, Password: password})
}

// NewAnonymous creates an unauthenticated client for public data.
func NewAnonymous(ctx context.Context) (roblox.Client, error) {
	return New(ctx, &roblox.Config{})
}
