package client

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/bloxkit/rbx-client/internal/constants"
	internalhttp "github.com/bloxkit/rbx-client/internal/http"
	"github.com/bloxkit/rbx-client/pkg/roblox"
)

// AssetsClient implements roblox.AssetsClient. Product info and
// ownership live on the legacy api subdomain, favorites on the
// catalog subdomain, inventory removal on the www site, and downloads
// on the asset delivery subdomain.
type AssetsClient struct {
	api      *internalhttp.Client
	catalog  *internalhttp.Client
	web      *internalhttp.Client
	delivery *internalhttp.Client
}

// NewAssetsClient creates an AssetsClient.
func NewAssetsClient(api, catalog, web, delivery *internalhttp.Client) *AssetsClient {
	return &AssetsClient{api: api, catalog: catalog, web: web, delivery: delivery}
}

// mapFavoriteError classifies a catalog favorites error by its
// platform error code.
func mapFavoriteError(err error) error {
	respErr, ok := roblox.AsResponseError(err)
	if !ok {
		return err
	}

	switch {
	case respErr.HasCode(constants.FavoriteErrorUnauthorized):
		return fmt.Errorf("%w: %w", roblox.ErrUnauthorized, err)
	case respErr.HasCode(constants.FavoriteErrorAssetNotFound):
		return fmt.Errorf("%w: %w", roblox.ErrAssetNotFound, err)
	case respErr.HasCode(constants.FavoriteErrorCaptcha):
		return fmt.Errorf("%w: %w", roblox.ErrCaptcha, err)
	default:
		return err
	}
}

// ProductInfo implements roblox.AssetsClient.
func (c *AssetsClient) ProductInfo(ctx context.Context, assetID int64) (*roblox.ProductInfo, error) {
	var info roblox.ProductInfo

	query := url.Values{"assetId": []string{strconv.FormatInt(assetID, 10)}}
	if err := c.api.Get(ctx, "/marketplace/productinfo", query, &info); err != nil {
		if roblox.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %w", roblox.ErrAssetNotFound, err)
		}

		return nil, fmt.Errorf("fetching product info for asset %d: %w", assetID, err)
	}

	// The legacy endpoint reports a missing asset with a 200 and an
	// empty record.
	if info.AssetID == 0 {
		return nil, fmt.Errorf("%w: asset %d", roblox.ErrAssetNotFound, assetID)
	}

	return &info, nil
}

// FavoritesCount implements roblox.AssetsClient. The endpoint answers
// with a bare JSON number.
func (c *AssetsClient) FavoritesCount(ctx context.Context, assetID int64) (int64, error) {
	var count int64

	path := fmt.Sprintf("/v1/favorites/assets/%d/count", assetID)
	if err := c.catalog.Get(ctx, path, nil, &count); err != nil {
		return 0, fmt.Errorf("counting favorites of asset %d: %w", assetID, mapFavoriteError(err))
	}

	return count, nil
}

// FavoriteModel implements roblox.AssetsClient. The endpoint answers
// with JSON null when the user has not favorited the asset, which
// decodes to a nil model.
func (c *AssetsClient) FavoriteModel(ctx context.Context, userID, assetID int64) (*roblox.FavoriteModel, error) {
	var model *roblox.FavoriteModel

	path := fmt.Sprintf("/v1/favorites/users/%d/assets/%d/favorite", userID, assetID)
	if err := c.catalog.Get(ctx, path, nil, &model); err != nil {
		return nil, fmt.Errorf("fetching favorite of asset %d by user %d: %w", assetID, userID, mapFavoriteError(err))
	}

	return model, nil
}

// CreateFavorite implements roblox.AssetsClient.
func (c *AssetsClient) CreateFavorite(ctx context.Context, userID, assetID int64) error {
	path := fmt.Sprintf("/v1/favorites/users/%d/assets/%d/favorite", userID, assetID)
	if err := c.catalog.Post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("favoriting asset %d as user %d: %w", assetID, userID, mapFavoriteError(err))
	}

	return nil
}

// DeleteFavorite implements roblox.AssetsClient.
func (c *AssetsClient) DeleteFavorite(ctx context.Context, userID, assetID int64) error {
	path := fmt.Sprintf("/v1/favorites/users/%d/assets/%d/favorite", userID, assetID)
	if err := c.catalog.Delete(ctx, path, nil); err != nil {
		return fmt.Errorf("unfavoriting asset %d as user %d: %w", assetID, userID, mapFavoriteError(err))
	}

	return nil
}

// Owned implements roblox.AssetsClient. The endpoint answers with a
// bare JSON boolean.
func (c *AssetsClient) Owned(ctx context.Context, userID, assetID int64) (bool, error) {
	var owned bool

	query := url.Values{
		"userId":  []string{strconv.FormatInt(userID, 10)},
		"assetId": []string{strconv.FormatInt(assetID, 10)},
	}

	if err := c.api.Get(ctx, "/ownership/hasasset", query, &owned); err != nil {
		return false, fmt.Errorf("checking ownership of asset %d by user %d: %w", assetID, userID, err)
	}

	return owned, nil
}

type removeFromInventoryRequest struct {
	AssetID int64 `json:"assetId"`
}

// RemoveFromInventory implements roblox.AssetsClient.
func (c *AssetsClient) RemoveFromInventory(ctx context.Context, assetID int64) error {
	body := removeFromInventoryRequest{AssetID: assetID}
	if err := c.web.Post(ctx, "/asset/delete-from-inventory", body, nil); err != nil {
		return fmt.Errorf("removing asset %d from inventory: %w", assetID, err)
	}

	return nil
}

// Download implements roblox.AssetsClient. The delivery endpoint
// redirects to the CDN; the transport follows the redirect.
func (c *AssetsClient) Download(ctx context.Context, assetID int64, w io.Writer) error {
	query := url.Values{"id": []string{strconv.FormatInt(assetID, 10)}}

	body, err := c.delivery.GetRaw(ctx, "/v1/asset", query)
	if err != nil {
		if roblox.IsNotFound(err) {
			return fmt.Errorf("%w: %w", roblox.ErrAssetNotFound, err)
		}

		return fmt.Errorf("downloading asset %d: %w", assetID, err)
	}

	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("writing asset %d content: %w", assetID, err)
	}

	return nil
}
