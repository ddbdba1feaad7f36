package client

import (
	"context"
	"fmt"

	internalhttp "github.com/bloxkit/rbx-client/internal/http"
	"github.com/bloxkit/rbx-client/pkg/roblox"
)

// InventoryClient implements roblox.InventoryClient.
type InventoryClient struct {
	httpClient *internalhttp.Client
}

// NewInventoryClient creates an InventoryClient.
func NewInventoryClient(httpClient *internalhttp.Client) *InventoryClient {
	return &InventoryClient{httpClient: httpClient}
}

// ByAssetType implements roblox.InventoryClient. A hidden inventory
// answers 403, which surfaces as ErrUnauthorized.
func (c *InventoryClient) ByAssetType(ctx context.Context, userID int64, assetType roblox.AssetType, params *roblox.QueryParams) (*roblox.Page[roblox.InventoryAsset], error) {
	var page roblox.Page[roblox.InventoryAsset]

	path := fmt.Sprintf("/v2/users/%d/inventory/%d", userID, assetType)
	if err := c.httpClient.Get(ctx, path, params.ToValues(), &page); err != nil {
		if respErr, ok := roblox.AsResponseError(err); ok && respErr.StatusCode == 403 {
			return nil, fmt.Errorf("%w: inventory of user %d is hidden: %w", roblox.ErrUnauthorized, userID, err)
		}

		return nil, fmt.Errorf("listing %s inventory of user %d: %w", assetType, userID, err)
	}

	return &page, nil
}
