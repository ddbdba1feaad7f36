package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	internalhttp "github.com/bloxkit/rbx-client/internal/http"
	"github.com/bloxkit/rbx-client/pkg/roblox"
)

// GamesClient implements roblox.GamesClient.
type GamesClient struct {
	httpClient *internalhttp.Client
}

// NewGamesClient creates a GamesClient.
func NewGamesClient(httpClient *internalhttp.Client) *GamesClient {
	return &GamesClient{httpClient: httpClient}
}

func joinIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}

	return strings.Join(parts, ",")
}

type gameDetailsResponse struct {
	Data []roblox.GameDetail `json:"data"`
}

// Details implements roblox.GamesClient.
func (c *GamesClient) Details(ctx context.Context, universeIDs ...int64) ([]roblox.GameDetail, error) {
	var resp gameDetailsResponse

	query := url.Values{"universeIds": []string{joinIDs(universeIDs)}}
	if err := c.httpClient.Get(ctx, "/v1/games", query, &resp); err != nil {
		return nil, fmt.Errorf("fetching game details: %w", err)
	}

	return resp.Data, nil
}

// PlaceDetails implements roblox.GamesClient. The endpoint answers
// with a bare array and requires authentication.
func (c *GamesClient) PlaceDetails(ctx context.Context, placeIDs ...int64) ([]roblox.PlaceDetail, error) {
	var details []roblox.PlaceDetail

	query := url.Values{}
	for _, id := range placeIDs {
		query.Add("placeIds", strconv.FormatInt(id, 10))
	}

	if err := c.httpClient.Get(ctx, "/v1/games/multiget-place-details", query, &details); err != nil {
		if roblox.IsUnauthorized(err) {
			return nil, fmt.Errorf("%w: %w", roblox.ErrUnauthorized, err)
		}

		return nil, fmt.Errorf("fetching place details: %w", err)
	}

	return details, nil
}

// Favorited implements roblox.GamesClient.
func (c *GamesClient) Favorited(ctx context.Context, universeID int64) (bool, error) {
	var resp roblox.GameFavoritedResponse

	path := fmt.Sprintf("/v1/games/%d/favorites", universeID)
	if err := c.httpClient.Get(ctx, path, nil, &resp); err != nil {
		return false, fmt.Errorf("checking favorite of universe %d: %w", universeID, err)
	}

	return resp.IsFavorited, nil
}

// FavoritesCount implements roblox.GamesClient.
func (c *GamesClient) FavoritesCount(ctx context.Context, universeID int64) (int64, error) {
	var resp roblox.GameFavoritesCount

	path := fmt.Sprintf("/v1/games/%d/favorites/count", universeID)
	if err := c.httpClient.Get(ctx, path, nil, &resp); err != nil {
		return 0, fmt.Errorf("counting favorites of universe %d: %w", universeID, err)
	}

	return resp.FavoritesCount, nil
}

// SetFavorite implements roblox.GamesClient.
func (c *GamesClient) SetFavorite(ctx context.Context, universeID int64, favorited bool) error {
	path := fmt.Sprintf("/v1/games/%d/favorites", universeID)
	body := roblox.GameFavoriteRequest{IsFavorited: favorited}

	if err := c.httpClient.Post(ctx, path, body, nil); err != nil {
		return fmt.Errorf("setting favorite of universe %d: %w", universeID, err)
	}

	return nil
}

// Servers implements roblox.GamesClient.
func (c *GamesClient) Servers(ctx context.Context, placeID int64, serverType roblox.ServerType, params *roblox.QueryParams) (*roblox.Page[roblox.GameServer], error) {
	if serverType == "" {
		serverType = roblox.ServerTypePublic
	}

	var page roblox.Page[roblox.GameServer]

	path := fmt.Sprintf("/v1/games/%d/servers/%s", placeID, serverType)
	if err := c.httpClient.Get(ctx, path, params.ToValues(), &page); err != nil {
		return nil, fmt.Errorf("listing %s servers of place %d: %w", strings.ToLower(string(serverType)), placeID, err)
	}

	return &page, nil
}
