package roblox

import (
	"context"
	"fmt"
	"time"
)

func newUniverseRecord() *Record {
	return NewRecord(map[string]string{
		"universeid": "id",
	})
}

// Universe is a lazily populated view of a game (a universe of
// places). Stable fields are fetched from game details on first
// access; visits, playing, and favorite counts are volatile and hit
// the API every time.
type Universe struct {
	client Client
	record *Record
}

// NewUniverse creates a Universe known only by ID.
func NewUniverse(client Client, universeID int64) *Universe {
	universe := &Universe{client: client, record: newUniverseRecord()}
	universe.record.Set("id", universeID)

	return universe
}

func gameDetailData(detail *GameDetail) map[string]any {
	return map[string]any{
		"id":          detail.ID,
		"rootplaceid": detail.RootPlaceID,
		"name":        detail.Name,
		"description": detail.Description,
		"created":     detail.Created,
		"updated":     detail.Updated,
		"maxplayers":  detail.MaxPlayers,
		"creatorid":   detail.Creator.ID,
		"creatorname": detail.Creator.Name,
		"creatortype": detail.Creator.Type,
	}
}

// Merge folds a payload into the universe's record.
func (g *Universe) Merge(data map[string]any) {
	g.record.Merge(data)
}

// Populated reports whether the field is already known without a
// fetch.
func (g *Universe) Populated(field string) bool {
	return g.record.Has(field)
}

// ID returns the universe ID.
func (g *Universe) ID() (int64, error) {
	id, ok := g.record.Int64("id")
	if !ok {
		return 0, ErrIdentification
	}

	return id, nil
}

func (g *Universe) detail(ctx context.Context) (*GameDetail, error) {
	id, err := g.ID()
	if err != nil {
		return nil, err
	}

	details, err := g.client.Games().Details(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching universe %d: %w", id, err)
	}

	if len(details) == 0 {
		return nil, fmt.Errorf("%w: universe %d", ErrGameNotFound, id)
	}

	g.record.Merge(gameDetailData(&details[0]))

	return &details[0], nil
}

func (g *Universe) refresh(ctx context.Context) error {
	_, err := g.detail(ctx)

	return err
}

func (g *Universe) stringField(ctx context.Context, field string) (string, error) {
	if value, ok := g.record.String(field); ok {
		return value, nil
	}

	if err := g.refresh(ctx); err != nil {
		return "", err
	}

	value, ok := g.record.String(field)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrFieldUnavailable, field)
	}

	return value, nil
}

// Name returns the game's name.
func (g *Universe) Name(ctx context.Context) (string, error) {
	return g.stringField(ctx, "name")
}

// Description returns the game's description.
func (g *Universe) Description(ctx context.Context) (string, error) {
	return g.stringField(ctx, "description")
}

// CreatorName returns the creator's name.
func (g *Universe) CreatorName(ctx context.Context) (string, error) {
	return g.stringField(ctx, "creatorname")
}

// CreatedAt returns when the game was created.
func (g *Universe) CreatedAt(ctx context.Context) (time.Time, error) {
	if value, ok := g.record.Time("created"); ok {
		return value, nil
	}

	if err := g.refresh(ctx); err != nil {
		return time.Time{}, err
	}

	value, ok := g.record.Time("created")
	if !ok {
		return time.Time{}, fmt.Errorf("%w: created", ErrFieldUnavailable)
	}

	return value, nil
}

// UpdatedAt returns when the game was last updated.
func (g *Universe) UpdatedAt(ctx context.Context) (time.Time, error) {
	if value, ok := g.record.Time("updated"); ok {
		return value, nil
	}

	if err := g.refresh(ctx); err != nil {
		return time.Time{}, err
	}

	value, ok := g.record.Time("updated")
	if !ok {
		return time.Time{}, fmt.Errorf("%w: updated", ErrFieldUnavailable)
	}

	return value, nil
}

// MaxPlayers returns the per-server player cap.
func (g *Universe) MaxPlayers(ctx context.Context) (int, error) {
	if value, ok := g.record.Int64("maxplayers"); ok {
		return int(value), nil
	}

	if err := g.refresh(ctx); err != nil {
		return 0, err
	}

	value, ok := g.record.Int64("maxplayers")
	if !ok {
		return 0, fmt.Errorf("%w: maxplayers", ErrFieldUnavailable)
	}

	return int(value), nil
}

// Visits returns the current visit counter. Always fetched.
func (g *Universe) Visits(ctx context.Context) (int64, error) {
	detail, err := g.detail(ctx)
	if err != nil {
		return 0, err
	}

	return detail.Visits, nil
}

// Playing returns the current concurrent player count. Always
// fetched.
func (g *Universe) Playing(ctx context.Context) (int64, error) {
	detail, err := g.detail(ctx)
	if err != nil {
		return 0, err
	}

	return detail.Playing, nil
}

// RootPlace returns the game's root place.
func (g *Universe) RootPlace(ctx context.Context) (*Place, error) {
	if value, ok := g.record.Int64("rootplaceid"); ok {
		return NewPlace(g.client, value), nil
	}

	if err := g.refresh(ctx); err != nil {
		return nil, err
	}

	value, ok := g.record.Int64("rootplaceid")
	if !ok {
		return nil, fmt.Errorf("%w: rootplaceid", ErrFieldUnavailable)
	}

	return NewPlace(g.client, value), nil
}

// FavoritesCount returns the game's favorite counter. Always
// fetched.
func (g *Universe) FavoritesCount(ctx context.Context) (int64, error) {
	id, err := g.ID()
	if err != nil {
		return 0, err
	}

	return g.client.Games().FavoritesCount(ctx, id)
}

// IsFavorited reports whether the authenticated user favorited the
// game. Always fetched.
func (g *Universe) IsFavorited(ctx context.Context) (bool, error) {
	id, err := g.ID()
	if err != nil {
		return false, err
	}

	return g.client.Games().Favorited(ctx, id)
}

// Favorite favorites the game as the authenticated user.
func (g *Universe) Favorite(ctx context.Context) error {
	id, err := g.ID()
	if err != nil {
		return err
	}

	return g.client.Games().SetFavorite(ctx, id, true)
}

// Unfavorite removes the authenticated user's favorite of the game.
func (g *Universe) Unfavorite(ctx context.Context) error {
	id, err := g.ID()
	if err != nil {
		return err
	}

	return g.client.Games().SetFavorite(ctx, id, false)
}

func newPlaceRecord() *Record {
	return NewRecord(map[string]string{
		"placeid": "id",
	})
}

// Place is a lazily populated view of a place. A place is also an
// asset; Asset returns the asset view sharing the same ID.
type Place struct {
	client Client
	record *Record
}

// NewPlace creates a Place known only by ID.
func NewPlace(client Client, placeID int64) *Place {
	place := &Place{client: client, record: newPlaceRecord()}
	place.record.Set("id", placeID)

	return place
}

func placeDetailData(detail *PlaceDetail) map[string]any {
	return map[string]any{
		"id":          detail.PlaceID,
		"name":        detail.Name,
		"description": detail.Description,
		"url":         detail.URL,
		"builder":     detail.Builder,
		"builderid":   detail.BuilderID,
		"isplayable":  detail.IsPlayable,
		"universeid":  detail.UniverseID,
	}
}

// Merge folds a payload into the place's record.
func (p *Place) Merge(data map[string]any) {
	p.record.Merge(data)
}

// Populated reports whether the field is already known without a
// fetch.
func (p *Place) Populated(field string) bool {
	return p.record.Has(field)
}

// ID returns the place ID.
func (p *Place) ID() (int64, error) {
	id, ok := p.record.Int64("id")
	if !ok {
		return 0, ErrIdentification
	}

	return id, nil
}

func (p *Place) refresh(ctx context.Context) error {
	id, err := p.ID()
	if err != nil {
		return err
	}

	details, err := p.client.Games().PlaceDetails(ctx, id)
	if err != nil {
		return fmt.Errorf("fetching place %d: %w", id, err)
	}

	if len(details) == 0 {
		return fmt.Errorf("%w: place %d", ErrGameNotFound, id)
	}

	p.record.Merge(placeDetailData(&details[0]))

	return nil
}

func (p *Place) stringField(ctx context.Context, field string) (string, error) {
	if value, ok := p.record.String(field); ok {
		return value, nil
	}

	if err := p.refresh(ctx); err != nil {
		return "", err
	}

	value, ok := p.record.String(field)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrFieldUnavailable, field)
	}

	return value, nil
}

// Name returns the place's name.
func (p *Place) Name(ctx context.Context) (string, error) {
	return p.stringField(ctx, "name")
}

// Description returns the place's description.
func (p *Place) Description(ctx context.Context) (string, error) {
	return p.stringField(ctx, "description")
}

// URL returns the place's page URL.
func (p *Place) URL(ctx context.Context) (string, error) {
	return p.stringField(ctx, "url")
}

// BuilderName returns the place builder's name.
func (p *Place) BuilderName(ctx context.Context) (string, error) {
	return p.stringField(ctx, "builder")
}

// IsPlayable reports whether the place is playable by the
// authenticated user.
func (p *Place) IsPlayable(ctx context.Context) (bool, error) {
	if value, ok := p.record.Bool("isplayable"); ok {
		return value, nil
	}

	if err := p.refresh(ctx); err != nil {
		return false, err
	}

	value, ok := p.record.Bool("isplayable")
	if !ok {
		return false, fmt.Errorf("%w: isplayable", ErrFieldUnavailable)
	}

	return value, nil
}

// Universe returns the universe the place belongs to.
func (p *Place) Universe(ctx context.Context) (*Universe, error) {
	if value, ok := p.record.Int64("universeid"); ok {
		return NewUniverse(p.client, value), nil
	}

	if err := p.refresh(ctx); err != nil {
		return nil, err
	}

	value, ok := p.record.Int64("universeid")
	if !ok {
		return nil, fmt.Errorf("%w: universeid", ErrFieldUnavailable)
	}

	return NewUniverse(p.client, value), nil
}

// Asset returns the asset view of the place.
func (p *Place) Asset() (*Asset, error) {
	id, err := p.ID()
	if err != nil {
		return nil, err
	}

	return NewAsset(p.client, id), nil
}

// Servers returns an iterator over the place's running servers of the
// given type.
func (p *Place) Servers(serverType ServerType) (*PageIterator[GameServer], error) {
	id, err := p.ID()
	if err != nil {
		return nil, err
	}

	fetch := PageFunc[GameServer](func(ctx context.Context, params *QueryParams) (*Page[GameServer], error) {
		return p.client.Games().Servers(ctx, id, serverType, params)
	})

	return NewPageIterator[GameServer](fetch, "", NewQueryParams()), nil
}
