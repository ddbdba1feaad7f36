package roblox_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloxkit/rbx-client/pkg/roblox"
)

func fixedGameDetail(universeID int64) roblox.GameDetail {
	return roblox.GameDetail{
		ID:          universeID,
		RootPlaceID: 1818,
		Name:        "Classic: Crossroads",
		Description: "The classic crossroads map.",
		Creator:     roblox.GameCreator{ID: 1, Name: "Roblox", Type: "User"},
		Playing:     120,
		Visits:      10_000_000,
		MaxPlayers:  8,
		Created:     time.Date(2007, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestUniverse_LazyFetch(t *testing.T) {
	t.Parallel()
	t.Run("stable fields fetch once and stick", func(t *testing.T) {
		t.Parallel()

		client := newFakeClient()
		client.detailsFn = func(universeIDs []int64) ([]roblox.GameDetail, error) {
			return []roblox.GameDetail{fixedGameDetail(universeIDs[0])}, nil
		}

		universe := roblox.NewUniverse(client, 13058)
		ctx := context.Background()

		name, err := universe.Name(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Classic: Crossroads", name)

		creator, err := universe.CreatorName(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Roblox", creator)

		maxPlayers, err := universe.MaxPlayers(ctx)
		require.NoError(t, err)
		assert.Equal(t, 8, maxPlayers)

		created, err := universe.CreatedAt(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2007, created.Year())

		assert.Equal(t, 1, client.callCount("Games.Details"))
	})

	t.Run("volatile counters fetch every time", func(t *testing.T) {
		t.Parallel()

		client := newFakeClient()
		client.detailsFn = func(universeIDs []int64) ([]roblox.GameDetail, error) {
			return []roblox.GameDetail{fixedGameDetail(universeIDs[0])}, nil
		}

		universe := roblox.NewUniverse(client, 13058)
		ctx := context.Background()

		visits, err := universe.Visits(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(10_000_000), visits)

		playing, err := universe.Playing(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(120), playing)

		assert.Equal(t, 2, client.callCount("Games.Details"))
	})

	t.Run("unknown universe is a not-found error", func(t *testing.T) {
		t.Parallel()

		client := newFakeClient()
		client.detailsFn = func(_ []int64) ([]roblox.GameDetail, error) {
			return nil, nil
		}

		universe := roblox.NewUniverse(client, 999)

		_, err := universe.Name(context.Background())
		require.ErrorIs(t, err, roblox.ErrGameNotFound)
	})
}

func TestUniverse_RootPlace(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.detailsFn = func(universeIDs []int64) ([]roblox.GameDetail, error) {
		return []roblox.GameDetail{fixedGameDetail(universeIDs[0])}, nil
	}

	universe := roblox.NewUniverse(client, 13058)

	place, err := universe.RootPlace(context.Background())
	require.NoError(t, err)

	id, err := place.ID()
	require.NoError(t, err)
	assert.Equal(t, int64(1818), id)
}

func TestUniverse_Favorites(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.gameFavoritedFn = func(_ int64) (bool, error) { return true, nil }
	client.gameFavCountFn = func(_ int64) (int64, error) { return 9000, nil }

	universe := roblox.NewUniverse(client, 13058)
	ctx := context.Background()

	favorited, err := universe.IsFavorited(ctx)
	require.NoError(t, err)
	assert.True(t, favorited)

	count, err := universe.FavoritesCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(9000), count)

	require.NoError(t, universe.Favorite(ctx))
	require.NoError(t, universe.Unfavorite(ctx))
	assert.Equal(t, 2, client.callCount("Games.SetFavorite"))
}

func TestPlace_LazyFetch(t *testing.T) {
	t.Parallel()
	t.Run("stable fields fetch once and stick", func(t *testing.T) {
		t.Parallel()

		client := newFakeClient()
		client.placeDetailsFn = func(placeIDs []int64) ([]roblox.PlaceDetail, error) {
			return []roblox.PlaceDetail{{
				PlaceID:    placeIDs[0],
				Name:       "Crossroads",
				URL:        "https://www.roblox.com/games/1818/Crossroads",
				Builder:    "Roblox",
				IsPlayable: true,
				UniverseID: 13058,
			}}, nil
		}

		place := roblox.NewPlace(client, 1818)
		ctx := context.Background()

		name, err := place.Name(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Crossroads", name)

		builder, err := place.BuilderName(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Roblox", builder)

		playable, err := place.IsPlayable(ctx)
		require.NoError(t, err)
		assert.True(t, playable)

		assert.Equal(t, 1, client.callCount("Games.PlaceDetails"))

		// The place links back to its universe without refetching.
		universe, err := place.Universe(ctx)
		require.NoError(t, err)

		universeID, err := universe.ID()
		require.NoError(t, err)
		assert.Equal(t, int64(13058), universeID)
		assert.Equal(t, 1, client.callCount("Games.PlaceDetails"))
	})

	t.Run("missing place is a not-found error", func(t *testing.T) {
		t.Parallel()

		client := newFakeClient()
		client.placeDetailsFn = func(_ []int64) ([]roblox.PlaceDetail, error) {
			return nil, nil
		}

		place := roblox.NewPlace(client, 999)

		_, err := place.Name(context.Background())
		require.ErrorIs(t, err, roblox.ErrGameNotFound)
	})
}

func TestPlace_Asset(t *testing.T) {
	t.Parallel()

	place := roblox.NewPlace(newFakeClient(), 1818)

	asset, err := place.Asset()
	require.NoError(t, err)

	id, err := asset.ID()
	require.NoError(t, err)
	assert.Equal(t, int64(1818), id)
}

func TestPlace_Servers(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.serversFn = func(placeID int64, serverType roblox.ServerType, params *roblox.QueryParams) (*roblox.Page[roblox.GameServer], error) {
		assert.Equal(t, int64(1818), placeID)
		assert.Equal(t, roblox.ServerTypePublic, serverType)

		if params.Cursor == "" {
			return &roblox.Page[roblox.GameServer]{
				NextPageCursor: cursorPtr("c2"),
				Data:           []roblox.GameServer{{ID: "a", Playing: 7}},
			}, nil
		}

		return &roblox.Page[roblox.GameServer]{Data: []roblox.GameServer{{ID: "b", Playing: 3}}}, nil
	}

	place := roblox.NewPlace(client, 1818)

	iterator, err := place.Servers(roblox.ServerTypePublic)
	require.NoError(t, err)

	servers, err := iterator.All(context.Background())
	require.NoError(t, err)
	require.Len(t, servers, 2)
	assert.Equal(t, "a", servers[0].ID)
	assert.Equal(t, "b", servers[1].ID)
}
