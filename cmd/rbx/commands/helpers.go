// Package commands implements the rbx CLI commands.
package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/bloxkit/rbx-client/internal/constants"
	"github.com/bloxkit/rbx-client/pkg/rbxclient"
	"github.com/bloxkit/rbx-client/pkg/roblox"
)

// Output format constants.
const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

// NotAvailable is the table placeholder for missing values.
const NotAvailable = "N/A"

// ErrNotLoggedIn is returned by commands that require a session.
var ErrNotLoggedIn = errors.New("not logged in; run 'rbx login' or set --cookie")

// CreateClient builds a client from the resolved CLI configuration.
func CreateClient(ctx context.Context) (roblox.Client, error) {
	config := &roblox.Config{
		Cookie: viper.GetString("cookie"),
		Debug:  viper.GetBool("verbose"),
	}

	client, err := rbxclient.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// CreateAuthenticatedClient builds a client and verifies the session.
func CreateAuthenticatedClient(ctx context.Context) (roblox.Client, error) {
	if viper.GetString("cookie") == "" {
		return nil, ErrNotLoggedIn
	}

	client, err := CreateClient(ctx)
	if err != nil {
		return nil, err
	}

	ok, err := client.LoggedIn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to verify session: %w", err)
	}

	if !ok {
		return nil, ErrNotLoggedIn
	}

	return client, nil
}

// renderOutput writes data as JSON or YAML per the output flag, or
// calls renderTable for the default tabular view.
func renderOutput(data interface{}, renderTable func() error) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(data)
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(os.Stdout)
		defer func() { _ = encoder.Close() }()

		return encoder.Encode(data)
	default:
		return renderTable()
	}
}

// resolveUser accepts either a numeric user ID or a username.
func resolveUser(client roblox.Client, arg string) (*roblox.User, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return roblox.NewUserFromID(client, id), nil
	}

	return roblox.NewUserFromUsername(client, arg), nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return NotAvailable
	}

	return t.Format("2006-01-02 15:04:05")
}

func formatBool(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}

func formatCount(n int64) string {
	return strconv.FormatInt(n, 10)
}

// pageLimit snaps the --limit flag to a page size the platform
// accepts.
func pageLimit(limit int) int {
	switch {
	case limit <= constants.SmallPageSize:
		return constants.SmallPageSize
	case limit <= constants.StandardPageSize:
		return constants.StandardPageSize
	default:
		return constants.DefaultPageSize
	}
}
