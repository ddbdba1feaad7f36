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

func TestGroupsClient_Get(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1/groups/7", request.URL.Path)

		info := roblox.GroupInfo{
			ID:          7,
			Name:        "Official Fan Club",
			MemberCount: 12345,
			Owner:       &roblox.GroupUser{UserID: 1, Username: "Roblox"},
			Shout: &roblox.GroupShout{
				Body:   "Welcome!",
				Poster: roblox.GroupUser{UserID: 1, Username: "Roblox"},
			},
			PublicEntryAllowed: true,
		}
		_ = json.NewEncoder(writer).Encode(info)
	}))
	defer server.Close()

	groups := NewGroupsClient(newTestHTTPClient(server.URL))

	info, err := groups.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Official Fan Club", info.Name)
	require.NotNil(t, info.Owner)
	assert.Equal(t, int64(1), info.Owner.UserID)
	require.NotNil(t, info.Shout)
	assert.Equal(t, "Welcome!", info.Shout.Body)
}

func TestGroupsClient_Get_NotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusBadRequest)
		_, _ = writer.Write([]byte(`{"errors":[{"code":1,"message":"Group is invalid or does not exist."}]}`))
	}))
	defer server.Close()

	groups := NewGroupsClient(newTestHTTPClient(server.URL))

	_, err := groups.Get(context.Background(), 999999999)
	require.ErrorIs(t, err, roblox.ErrGroupNotFound)
}

func TestGroupsClient_RoleDetails(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1/roles", request.URL.Path)
		assert.Equal(t, "11,12", request.URL.Query().Get("ids"))

		resp := roblox.RoleDetailsResponse{Data: []roblox.RoleDetail{
			{GroupID: 7, ID: 11, Name: "Member", Rank: 1},
			{GroupID: 7, ID: 12, Name: "Owner", Rank: 255},
		}}
		_ = json.NewEncoder(writer).Encode(resp)
	}))
	defer server.Close()

	groups := NewGroupsClient(newTestHTTPClient(server.URL))

	details, err := groups.RoleDetails(context.Background(), 11, 12)
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, int64(7), details[0].GroupID)
	assert.Equal(t, "Owner", details[1].Name)
}

func TestGroupsClient_Roles_SortedByRank(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1/groups/7/roles", request.URL.Path)

		// The platform does not guarantee role order.
		response := roblox.GroupRolesResponse{
			GroupID: 7,
			Roles: []roblox.RoleInfo{
				{ID: 3, Name: "Owner", Rank: 255},
				{ID: 1, Name: "Guest", Rank: 0},
				{ID: 2, Name: "Member", Rank: 1},
			},
		}
		_ = json.NewEncoder(writer).Encode(response)
	}))
	defer server.Close()

	groups := NewGroupsClient(newTestHTTPClient(server.URL))

	roles, err := groups.Roles(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, roles, 3)
	assert.Equal(t, "Guest", roles[0].Name)
	assert.Equal(t, "Member", roles[1].Name)
	assert.Equal(t, "Owner", roles[2].Name)
}

func TestGroupsClient_Members(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1/groups/7/users", request.URL.Path)
		assert.Equal(t, "Desc", request.URL.Query().Get("sortOrder"))

		response := map[string]interface{}{
			"nextPageCursor": "cursor-2",
			"data": []roblox.GroupMemberEntry{
				{
					User: roblox.GroupUser{UserID: 2, Username: "builderman"},
					Role: roblox.RoleInfo{ID: 2, Name: "Member", Rank: 1},
				},
			},
		}
		_ = json.NewEncoder(writer).Encode(response)
	}))
	defer server.Close()

	groups := NewGroupsClient(newTestHTTPClient(server.URL))

	params := roblox.NewQueryParams().WithSortOrder(roblox.SortDescending)

	page, err := groups.Members(context.Background(), 7, params)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "builderman", page.Data[0].User.Username)
	assert.Equal(t, "Member", page.Data[0].Role.Name)
	assert.True(t, page.HasNextPage())
}

func TestGroupsClient_MembersWithRole(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1/groups/7/roles/2/users", request.URL.Path)

		response := map[string]interface{}{
			"data": []roblox.GroupUser{
				{UserID: 2, Username: "builderman"},
				{UserID: 3, Username: "Shedletsky"},
			},
		}
		_ = json.NewEncoder(writer).Encode(response)
	}))
	defer server.Close()

	groups := NewGroupsClient(newTestHTTPClient(server.URL))

	page, err := groups.MembersWithRole(context.Background(), 7, 2, nil)
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "Shedletsky", page.Data[1].Username)
}

func TestGroupsClient_UserMemberships(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1/users/1/groups/roles", request.URL.Path)

		response := roblox.GroupMembershipsResponse{
			Data: []roblox.GroupMembership{
				{
					Group: roblox.GroupBasicInfo{ID: 7, Name: "Official Fan Club"},
					Role:  roblox.RoleInfo{ID: 3, Name: "Owner", Rank: 255},
				},
			},
		}
		_ = json.NewEncoder(writer).Encode(response)
	}))
	defer server.Close()

	groups := NewGroupsClient(newTestHTTPClient(server.URL))

	memberships, err := groups.UserMemberships(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	assert.Equal(t, int64(7), memberships[0].Group.ID)
	assert.Equal(t, 255, memberships[0].Role.Rank)
}
