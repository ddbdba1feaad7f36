package roblox

import (
	"context"
	"fmt"
	"io"
	"time"
)

func newAssetRecord() *Record {
	return NewRecord(map[string]string{
		"assetid":      "id",
		"priceinrobux": "price",
		"assettypeid":  "typeid",
	})
}

// Asset is a lazily populated view of a marketplace asset. Stable
// fields are fetched from product info on first access; price, sales,
// and favorite counts are volatile and hit the API every time.
type Asset struct {
	client Client
	record *Record
}

// NewAsset creates an Asset known only by ID.
func NewAsset(client Client, assetID int64) *Asset {
	asset := &Asset{client: client, record: newAssetRecord()}
	asset.record.Set("id", assetID)

	return asset
}

func productInfoData(info *ProductInfo) map[string]any {
	data := map[string]any{
		"id":              info.AssetID,
		"productid":       info.ProductID,
		"name":            info.Name,
		"description":     info.Description,
		"typeid":          info.AssetTypeID,
		"created":         info.Created,
		"updated":         info.Updated,
		"sales":           info.Sales,
		"isforsale":       info.IsForSale,
		"ispublicdomain":  info.IsPublicDomain,
		"islimited":       info.IsLimited,
		"islimitedunique": info.IsLimitedUnique,
		"creatorid":       info.Creator.CreatorTargetID,
		"creatorname":     info.Creator.Name,
		"creatortype":     info.Creator.CreatorType,
	}

	if info.PriceInRobux != nil {
		data["price"] = *info.PriceInRobux
	}

	return data
}

// Merge folds a payload into the asset's record.
func (a *Asset) Merge(data map[string]any) {
	a.record.Merge(data)
}

// Populated reports whether the field is already known without a
// fetch.
func (a *Asset) Populated(field string) bool {
	return a.record.Has(field)
}

// ID returns the asset ID.
func (a *Asset) ID() (int64, error) {
	id, ok := a.record.Int64("id")
	if !ok {
		return 0, ErrIdentification
	}

	return id, nil
}

func (a *Asset) productInfo(ctx context.Context) (*ProductInfo, error) {
	id, err := a.ID()
	if err != nil {
		return nil, err
	}

	info, err := a.client.Assets().ProductInfo(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching product info for asset %d: %w", id, err)
	}

	a.record.Merge(productInfoData(info))

	return info, nil
}

func (a *Asset) refresh(ctx context.Context) error {
	_, err := a.productInfo(ctx)

	return err
}

func (a *Asset) stringField(ctx context.Context, field string) (string, error) {
	if value, ok := a.record.String(field); ok {
		return value, nil
	}

	if err := a.refresh(ctx); err != nil {
		return "", err
	}

	value, ok := a.record.String(field)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrFieldUnavailable, field)
	}

	return value, nil
}

// Name returns the asset name.
func (a *Asset) Name(ctx context.Context) (string, error) {
	return a.stringField(ctx, "name")
}

// Description returns the asset description.
func (a *Asset) Description(ctx context.Context) (string, error) {
	return a.stringField(ctx, "description")
}

// CreatedAt returns when the asset was created.
func (a *Asset) CreatedAt(ctx context.Context) (time.Time, error) {
	if value, ok := a.record.Time("created"); ok {
		return value, nil
	}

	if err := a.refresh(ctx); err != nil {
		return time.Time{}, err
	}

	value, ok := a.record.Time("created")
	if !ok {
		return time.Time{}, fmt.Errorf("%w: created", ErrFieldUnavailable)
	}

	return value, nil
}

// UpdatedAt returns when the asset was last updated.
func (a *Asset) UpdatedAt(ctx context.Context) (time.Time, error) {
	if value, ok := a.record.Time("updated"); ok {
		return value, nil
	}

	if err := a.refresh(ctx); err != nil {
		return time.Time{}, err
	}

	value, ok := a.record.Time("updated")
	if !ok {
		return time.Time{}, fmt.Errorf("%w: updated", ErrFieldUnavailable)
	}

	return value, nil
}

// Type returns the asset type.
func (a *Asset) Type(ctx context.Context) (AssetType, error) {
	if value, ok := a.record.Int64("typeid"); ok {
		return AssetType(value), nil
	}

	if err := a.refresh(ctx); err != nil {
		return 0, err
	}

	value, ok := a.record.Int64("typeid")
	if !ok {
		return 0, fmt.Errorf("%w: typeid", ErrFieldUnavailable)
	}

	return AssetType(value), nil
}

// ProductID returns the asset's product ID, used for purchases.
func (a *Asset) ProductID(ctx context.Context) (int64, error) {
	if value, ok := a.record.Int64("productid"); ok {
		return value, nil
	}

	if err := a.refresh(ctx); err != nil {
		return 0, err
	}

	value, ok := a.record.Int64("productid")
	if !ok {
		return 0, fmt.Errorf("%w: productid", ErrFieldUnavailable)
	}

	return value, nil
}

// CreatorName returns the asset creator's name.
func (a *Asset) CreatorName(ctx context.Context) (string, error) {
	return a.stringField(ctx, "creatorname")
}

// Price returns the current price in Robux, or nil when the asset is
// offsale. Always fetched.
func (a *Asset) Price(ctx context.Context) (*int64, error) {
	info, err := a.productInfo(ctx)
	if err != nil {
		return nil, err
	}

	return info.PriceInRobux, nil
}

// Sales returns the current sales counter. Always fetched.
func (a *Asset) Sales(ctx context.Context) (int64, error) {
	info, err := a.productInfo(ctx)
	if err != nil {
		return 0, err
	}

	return info.Sales, nil
}

// ForSale reports whether the asset can currently be bought. Always
// fetched.
func (a *Asset) ForSale(ctx context.Context) (bool, error) {
	info, err := a.productInfo(ctx)
	if err != nil {
		return false, err
	}

	return info.IsForSale || info.IsPublicDomain, nil
}

// FavoritesCount returns the asset's favorite counter. Always
// fetched.
func (a *Asset) FavoritesCount(ctx context.Context) (int64, error) {
	id, err := a.ID()
	if err != nil {
		return 0, err
	}

	return a.client.Assets().FavoritesCount(ctx, id)
}

func (a *Asset) authenticatedUserID(ctx context.Context) (int64, error) {
	auth, err := a.client.AuthenticatedUser(ctx)
	if err != nil {
		return 0, err
	}

	return auth.ID, nil
}

// IsFavorited reports whether the authenticated user favorited the
// asset.
func (a *Asset) IsFavorited(ctx context.Context) (bool, error) {
	id, err := a.ID()
	if err != nil {
		return false, err
	}

	userID, err := a.authenticatedUserID(ctx)
	if err != nil {
		return false, err
	}

	model, err := a.client.Assets().FavoriteModel(ctx, userID, id)
	if err != nil {
		return false, err
	}

	return model != nil, nil
}

// Favorite favorites the asset as the authenticated user.
func (a *Asset) Favorite(ctx context.Context) error {
	id, err := a.ID()
	if err != nil {
		return err
	}

	userID, err := a.authenticatedUserID(ctx)
	if err != nil {
		return err
	}

	return a.client.Assets().CreateFavorite(ctx, userID, id)
}

// Unfavorite removes the authenticated user's favorite of the asset.
func (a *Asset) Unfavorite(ctx context.Context) error {
	id, err := a.ID()
	if err != nil {
		return err
	}

	userID, err := a.authenticatedUserID(ctx)
	if err != nil {
		return err
	}

	return a.client.Assets().DeleteFavorite(ctx, userID, id)
}

// ToggleFavorite flips the authenticated user's favorite of the asset
// and reports the new state.
func (a *Asset) ToggleFavorite(ctx context.Context) (bool, error) {
	favorited, err := a.IsFavorited(ctx)
	if err != nil {
		return false, err
	}

	if favorited {
		if err := a.Unfavorite(ctx); err != nil {
			return true, err
		}

		return false, nil
	}

	if err := a.Favorite(ctx); err != nil {
		return false, err
	}

	return true, nil
}

// Purchase buys the asset at expectedPrice. A nil expectedPrice uses
// the current price. A rejection because the live price differs
// surfaces as ErrPriceChanged.
func (a *Asset) Purchase(ctx context.Context, expectedPrice *int64) (*PurchaseReceipt, error) {
	info, err := a.productInfo(ctx)
	if err != nil {
		return nil, err
	}

	price := expectedPrice
	if price == nil {
		price = info.PriceInRobux
	}

	if price == nil {
		return nil, fmt.Errorf("%w: asset is not for sale", ErrPurchaseFailed)
	}

	sellerID := info.Creator.ID

	request := &PurchaseRequest{
		ExpectedPrice:    *price,
		ExpectedSellerID: &sellerID,
	}

	return a.client.Economy().PurchaseProduct(ctx, info.ProductID, request)
}

// RemoveFromInventory deletes the asset from the authenticated user's
// inventory.
func (a *Asset) RemoveFromInventory(ctx context.Context) error {
	id, err := a.ID()
	if err != nil {
		return err
	}

	return a.client.Assets().RemoveFromInventory(ctx, id)
}

// OwnedBy reports whether the user owns the asset.
func (a *Asset) OwnedBy(ctx context.Context, user *User) (bool, error) {
	id, err := a.ID()
	if err != nil {
		return false, err
	}

	userID, err := user.ID(ctx)
	if err != nil {
		return false, err
	}

	return a.client.Assets().Owned(ctx, userID, id)
}

// Download writes the asset's content to w.
func (a *Asset) Download(ctx context.Context, w io.Writer) error {
	id, err := a.ID()
	if err != nil {
		return err
	}

	return a.client.Assets().Download(ctx, id, w)
}
