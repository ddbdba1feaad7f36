package roblox

import (
	"context"
	"fmt"
	"strings"
	"time"
)

func newGroupRecord() *Record {
	return NewRecord(map[string]string{
		"groupid": "id",
	})
}

// Group is a lazily populated view of a group. The shout is volatile
// and refetched on every access; the groups API does not expose a
// creation timestamp, so CreatedAt always fails with
// ErrFieldUnavailable.
type Group struct {
	client Client
	record *Record
}

// NewGroup creates a Group known only by ID.
func NewGroup(client Client, groupID int64) *Group {
	group := &Group{client: client, record: newGroupRecord()}
	group.record.Set("id", groupID)

	return group
}

func groupInfoData(info *GroupInfo) map[string]any {
	data := map[string]any{
		"id":                 info.ID,
		"name":               info.Name,
		"description":        info.Description,
		"membercount":        info.MemberCount,
		"publicentryallowed": info.PublicEntryAllowed,
		"islocked":           info.IsLocked,
	}

	if info.Owner != nil {
		data["owner"] = *info.Owner
	}

	return data
}

// Merge folds a payload into the group's record.
func (g *Group) Merge(data map[string]any) {
	g.record.Merge(data)
}

// Populated reports whether the field is already known without a
// fetch.
func (g *Group) Populated(field string) bool {
	return g.record.Has(field)
}

// ID returns the group ID.
func (g *Group) ID() (int64, error) {
	id, ok := g.record.Int64("id")
	if !ok {
		return 0, ErrIdentification
	}

	return id, nil
}

func (g *Group) info(ctx context.Context) (*GroupInfo, error) {
	id, err := g.ID()
	if err != nil {
		return nil, err
	}

	info, err := g.client.Groups().Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching group %d: %w", id, err)
	}

	g.record.Merge(groupInfoData(info))

	return info, nil
}

func (g *Group) refresh(ctx context.Context) error {
	_, err := g.info(ctx)

	return err
}

func (g *Group) stringField(ctx context.Context, field string) (string, error) {
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

// Name returns the group's name.
func (g *Group) Name(ctx context.Context) (string, error) {
	return g.stringField(ctx, "name")
}

// Description returns the group's description.
func (g *Group) Description(ctx context.Context) (string, error) {
	return g.stringField(ctx, "description")
}

// MemberCount returns the group's member count.
func (g *Group) MemberCount(ctx context.Context) (int64, error) {
	if value, ok := g.record.Int64("membercount"); ok {
		return value, nil
	}

	if err := g.refresh(ctx); err != nil {
		return 0, err
	}

	value, ok := g.record.Int64("membercount")
	if !ok {
		return 0, fmt.Errorf("%w: membercount", ErrFieldUnavailable)
	}

	return value, nil
}

// PublicEntryAllowed reports whether anyone can join.
func (g *Group) PublicEntryAllowed(ctx context.Context) (bool, error) {
	if value, ok := g.record.Bool("publicentryallowed"); ok {
		return value, nil
	}

	if err := g.refresh(ctx); err != nil {
		return false, err
	}

	value, ok := g.record.Bool("publicentryallowed")
	if !ok {
		return false, fmt.Errorf("%w: publicentryallowed", ErrFieldUnavailable)
	}

	return value, nil
}

// CreatedAt always fails: the groups API does not expose a creation
// timestamp.
func (g *Group) CreatedAt(context.Context) (time.Time, error) {
	return time.Time{}, fmt.Errorf("%w: group creation time", ErrFieldUnavailable)
}

// Owner returns the group's owner as a member, or nil when the group
// is ownerless.
func (g *Group) Owner(ctx context.Context) (*GroupMember, error) {
	owner, ok := g.record.Get("owner")
	if !ok {
		if err := g.refresh(ctx); err != nil {
			return nil, err
		}

		owner, ok = g.record.Get("owner")
		if !ok {
			return nil, nil
		}
	}

	groupUser, ok := owner.(GroupUser)
	if !ok {
		return nil, fmt.Errorf("%w: owner", ErrFieldUnavailable)
	}

	return g.Member(ctx, NewUserFromID(g.client, groupUser.UserID))
}

// Shout returns the group's current shout, or nil when there is none.
// Always fetched.
func (g *Group) Shout(ctx context.Context) (*Shout, error) {
	info, err := g.info(ctx)
	if err != nil {
		return nil, err
	}

	if info.Shout == nil {
		return nil, nil
	}

	return newShout(g.client, info.Shout), nil
}

// Roles returns the group's rank ladder, sorted by ascending rank.
func (g *Group) Roles(ctx context.Context) ([]*Role, error) {
	id, err := g.ID()
	if err != nil {
		return nil, err
	}

	infos, err := g.client.Groups().Roles(ctx, id)
	if err != nil {
		return nil, err
	}

	roles := make([]*Role, 0, len(infos))
	for _, info := range infos {
		roles = append(roles, newRole(g.client, g, info))
	}

	return roles, nil
}

// RoleByName returns the role with the given name, case-insensitive.
func (g *Group) RoleByName(ctx context.Context, name string) (*Role, error) {
	roles, err := g.Roles(ctx)
	if err != nil {
		return nil, err
	}

	for _, role := range roles {
		if strings.EqualFold(role.Name(), name) {
			return role, nil
		}
	}

	return nil, fmt.Errorf("%w: name %q", ErrRoleNotFound, name)
}

// RoleByRank returns the role with the given rank.
func (g *Group) RoleByRank(ctx context.Context, rank int) (*Role, error) {
	roles, err := g.Roles(ctx)
	if err != nil {
		return nil, err
	}

	for _, role := range roles {
		if role.Rank() == rank {
			return role, nil
		}
	}

	return nil, fmt.Errorf("%w: rank %d", ErrRoleNotFound, rank)
}

// Members returns an iterator over the group's members.
func (g *Group) Members() (*PageIterator[GroupMemberEntry], error) {
	id, err := g.ID()
	if err != nil {
		return nil, err
	}

	fetch := PageFunc[GroupMemberEntry](func(ctx context.Context, params *QueryParams) (*Page[GroupMemberEntry], error) {
		return g.client.Groups().Members(ctx, id, params)
	})

	return NewPageIterator[GroupMemberEntry](fetch, "", NewQueryParams()), nil
}

// Member returns the user's membership in the group, or
// ErrUserNotInGroup.
func (g *Group) Member(ctx context.Context, user *User) (*GroupMember, error) {
	id, err := g.ID()
	if err != nil {
		return nil, err
	}

	userID, err := user.ID(ctx)
	if err != nil {
		return nil, err
	}

	memberships, err := g.client.Groups().UserMemberships(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, membership := range memberships {
		if membership.Group.ID == id {
			return newGroupMember(g.client, g, user, membership.Role), nil
		}
	}

	return nil, fmt.Errorf("%w: user %d in group %d", ErrUserNotInGroup, userID, id)
}

// Role is one rung of a group's rank ladder. Roles are fully
// populated at construction.
type Role struct {
	client Client
	group  *Group
	info   RoleInfo
}

func newRole(client Client, group *Group, info RoleInfo) *Role {
	return &Role{client: client, group: group, info: info}
}

// ID returns the role ID.
func (r *Role) ID() int64 { return r.info.ID }

// Name returns the role name.
func (r *Role) Name() string { return r.info.Name }

// Rank returns the role rank, 0 (guest) through 255 (owner).
func (r *Role) Rank() int { return r.info.Rank }

// MemberCount returns how many members hold the role.
func (r *Role) MemberCount() int64 { return r.info.MemberCount }

// Group returns the group the role belongs to.
func (r *Role) Group() *Group { return r.group }

// Compare orders two roles by rank: -1 below, 0 equal, 1 above.
func (r *Role) Compare(other *Role) int {
	switch {
	case r.info.Rank < other.info.Rank:
		return -1
	case r.info.Rank > other.info.Rank:
		return 1
	default:
		return 0
	}
}

// Members returns an iterator over the members holding the role.
func (r *Role) Members() (*PageIterator[GroupUser], error) {
	groupID, err := r.group.ID()
	if err != nil {
		return nil, err
	}

	fetch := PageFunc[GroupUser](func(ctx context.Context, params *QueryParams) (*Page[GroupUser], error) {
		return r.client.Groups().MembersWithRole(ctx, groupID, r.info.ID, params)
	})

	return NewPageIterator[GroupUser](fetch, "", NewQueryParams()), nil
}

// GroupMember is a user seen through their membership in a group.
type GroupMember struct {
	*User

	group *Group
	role  *Role
}

func newGroupMember(client Client, group *Group, user *User, roleInfo RoleInfo) *GroupMember {
	return &GroupMember{
		User:  user,
		group: group,
		role:  newRole(client, group, roleInfo),
	}
}

// NewGroupMemberFromEntry builds a member from a membership page
// entry.
func NewGroupMemberFromEntry(client Client, group *Group, entry GroupMemberEntry) *GroupMember {
	user := NewUserFromID(client, entry.User.UserID)
	user.Merge(map[string]any{
		"name":        entry.User.Username,
		"displayname": entry.User.DisplayName,
	})

	return newGroupMember(client, group, user, entry.Role)
}

// Group returns the group the membership is in.
func (m *GroupMember) Group() *Group { return m.group }

// Role returns the member's role.
func (m *GroupMember) Role() *Role { return m.role }

// Rank returns the member's rank in the group.
func (m *GroupMember) Rank() int { return m.role.Rank() }

// CompareRank orders two members of the same group by rank.
func (m *GroupMember) CompareRank(other *GroupMember) int {
	return m.role.Compare(other.role)
}

// Shout is a group's current shout.
type Shout struct {
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time

	poster *User
}

func newShout(client Client, info *GroupShout) *Shout {
	poster := NewUserFromID(client, info.Poster.UserID)
	poster.Merge(map[string]any{
		"name":        info.Poster.Username,
		"displayname": info.Poster.DisplayName,
	})

	return &Shout{
		Body:      info.Body,
		CreatedAt: info.Created,
		UpdatedAt: info.Updated,
		poster:    poster,
	}
}

// Poster returns the user who posted the shout.
func (s *Shout) Poster() *User { return s.poster }
