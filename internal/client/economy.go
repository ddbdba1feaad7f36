package client

import (
	"context"
	"fmt"

	internalhttp "github.com/bloxkit/rbx-client/internal/http"
	"github.com/bloxkit/rbx-client/pkg/roblox"
)

// EconomyClient implements roblox.EconomyClient.
type EconomyClient struct {
	httpClient *internalhttp.Client
}

// NewEconomyClient creates an EconomyClient.
func NewEconomyClient(httpClient *internalhttp.Client) *EconomyClient {
	return &EconomyClient{httpClient: httpClient}
}

// Currency implements roblox.EconomyClient. The platform only
// discloses the authenticated user's own balance.
func (c *EconomyClient) Currency(ctx context.Context, userID int64) (*roblox.CurrencyBalance, error) {
	var balance roblox.CurrencyBalance

	path := fmt.Sprintf("/v1/users/%d/currency", userID)
	if err := c.httpClient.Get(ctx, path, nil, &balance); err != nil {
		if roblox.IsUnauthorized(err) {
			return nil, fmt.Errorf("%w: %w", roblox.ErrUnauthorized, err)
		}

		if respErr, ok := roblox.AsResponseError(err); ok && respErr.StatusCode == 403 {
			return nil, fmt.Errorf("%w: balance of user %d is not visible: %w", roblox.ErrUnauthorized, userID, err)
		}

		return nil, fmt.Errorf("fetching currency of user %d: %w", userID, err)
	}

	return &balance, nil
}

// PurchaseProduct implements roblox.EconomyClient. The endpoint
// reports failures in the receipt body with a 200 status; the reason
// field drives the error mapping.
func (c *EconomyClient) PurchaseProduct(ctx context.Context, productID int64, request *roblox.PurchaseRequest) (*roblox.PurchaseReceipt, error) {
	if request == nil {
		return nil, roblox.ErrNilRequest
	}

	var receipt roblox.PurchaseReceipt

	path := fmt.Sprintf("/v1/purchases/products/%d", productID)
	if err := c.httpClient.Post(ctx, path, request, &receipt); err != nil {
		return nil, fmt.Errorf("purchasing product %d: %w", productID, err)
	}

	if receipt.Purchased {
		return &receipt, nil
	}

	switch receipt.Reason {
	case roblox.PurchaseReasonPriceChanged:
		return &receipt, fmt.Errorf("%w: product %d", roblox.ErrPriceChanged, productID)
	default:
		return &receipt, fmt.Errorf("%w: product %d: %s", roblox.ErrPurchaseFailed, productID, receipt.Reason)
	}
}
