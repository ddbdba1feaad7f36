package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/bloxkit/rbx-client/internal/client"
	"github.com/bloxkit/rbx-client/pkg/roblox"
)

func TestGamesClient_Details(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1/games", request.URL.Path)
		assert.Equal(t, "13058,189707", request.URL.Query().Get("universeIds"))

		response := map[string]interface{}{
			"data": []roblox.GameDetail{
				{ID: 13058, RootPlaceID: 1818, Name: "Crossroads", Playing: 12, Visits: 5000000},
				{ID: 189707, RootPlaceID: 606849621, Name: "Jailbreak"},
			},
		}
		_ = json.NewEncoder(writer).Encode(response)
	}))
	defer server.Close()

	games := NewGamesClient(newTestHTTPClient(server.URL))

	details, err := games.Details(context.Background(), 13058, 189707)
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, "Crossroads", details[0].Name)
	assert.Equal(t, int64(1818), details[0].RootPlaceID)
}

func TestGamesClient_Details_UnknownUniverse(t *testing.T) {
	t.Parallel()

	// Unknown universes are silently absent from the response.
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	games := NewGamesClient(newTestHTTPClient(server.URL))

	details, err := games.Details(context.Background(), 999999999)
	require.NoError(t, err)
	assert.Empty(t, details)
}

func TestGamesClient_PlaceDetails(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1/games/multiget-place-details", request.URL.Path)
		assert.Equal(t, []string{"1818"}, request.URL.Query()["placeIds"])

		// The endpoint answers with a bare array.
		details := []roblox.PlaceDetail{
			{PlaceID: 1818, Name: "Classic: Crossroads", UniverseID: 13058, IsPlayable: true},
		}
		_ = json.NewEncoder(writer).Encode(details)
	}))
	defer server.Close()

	games := NewGamesClient(newTestHTTPClient(server.URL))

	details, err := games.PlaceDetails(context.Background(), 1818)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, int64(13058), details[0].UniverseID)
	assert.True(t, details[0].IsPlayable)
}

func TestGamesClient_PlaceDetails_Unauthorized(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
		_, _ = writer.Write([]byte(`{"errors":[{"code":0,"message":"Authorization has been denied for this request."}]}`))
	}))
	defer server.Close()

	games := NewGamesClient(newTestHTTPClient(server.URL))

	_, err := games.PlaceDetails(context.Background(), 1818)
	require.ErrorIs(t, err, roblox.ErrUnauthorized)
}

func TestGamesClient_Favorites(t *testing.T) {
	t.Parallel()
	t.Run("favorited", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v1/games/13058/favorites", request.URL.Path)

			_ = json.NewEncoder(writer).Encode(roblox.GameFavoritedResponse{IsFavorited: true})
		}))
		defer server.Close()

		games := NewGamesClient(newTestHTTPClient(server.URL))

		favorited, err := games.Favorited(context.Background(), 13058)
		require.NoError(t, err)
		assert.True(t, favorited)
	})

	t.Run("count", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v1/games/13058/favorites/count", request.URL.Path)

			_ = json.NewEncoder(writer).Encode(roblox.GameFavoritesCount{FavoritesCount: 777})
		}))
		defer server.Close()

		games := NewGamesClient(newTestHTTPClient(server.URL))

		count, err := games.FavoritesCount(context.Background(), 13058)
		require.NoError(t, err)
		assert.Equal(t, int64(777), count)
	})

	t.Run("set", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v1/games/13058/favorites", request.URL.Path)
			assert.Equal(t, "POST", request.Method)

			var body roblox.GameFavoriteRequest

			require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
			assert.True(t, body.IsFavorited)

			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		games := NewGamesClient(newTestHTTPClient(server.URL))

		require.NoError(t, games.SetFavorite(context.Background(), 13058, true))
	})
}

func TestGamesClient_Servers(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1/games/1818/servers/Public", request.URL.Path)
		assert.Equal(t, "10", request.URL.Query().Get("limit"))

		response := map[string]interface{}{
			"nextPageCursor": nil,
			"data": []roblox.GameServer{
				{ID: "server-1", MaxPlayers: 10, Playing: 7, FPS: 59.9, Ping: 80},
			},
		}
		_ = json.NewEncoder(writer).Encode(response)
	}))
	defer server.Close()

	games := NewGamesClient(newTestHTTPClient(server.URL))

	params := roblox.NewQueryParams().WithLimit(10)

	page, err := games.Servers(context.Background(), 1818, roblox.ServerTypePublic, params)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "server-1", page.Data[0].ID)
	assert.False(t, page.HasNextPage())
}

func TestGamesClient_Servers_DefaultType(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1/games/1818/servers/Public", request.URL.Path)

		_, _ = writer.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	games := NewGamesClient(newTestHTTPClient(server.URL))

	_, err := games.Servers(context.Background(), 1818, "", nil)
	require.NoError(t, err)
}
