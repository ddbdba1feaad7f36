package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/bloxkit/rbx-client/pkg/roblox"
)

// NewGroupsCommand creates the groups command group.
func NewGroupsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "groups",
		Aliases: []string{"group"},
		Short:   "Look up groups",
	}

	cmd.AddCommand(newGroupsGetCommand())
	cmd.AddCommand(newGroupsRolesCommand())
	cmd.AddCommand(newGroupsMembersCommand())

	return cmd
}

func parseGroupID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid group ID %q: %w", arg, err)
	}

	return id, nil
}

func newGroupsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get GROUP_ID",
		Short: "Show a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			groupID, err := parseGroupID(args[0])
			if err != nil {
				return err
			}

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			info, err := client.Groups().Get(ctx, groupID)
			if err != nil {
				return err
			}

			return renderOutput(info, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Field", "Value")

				_ = table.Append("ID", formatCount(info.ID))
				_ = table.Append("Name", info.Name)
				_ = table.Append("Members", formatCount(info.MemberCount))
				_ = table.Append("Public Entry", formatBool(info.PublicEntryAllowed))

				if info.Owner != nil {
					_ = table.Append("Owner", fmt.Sprintf("%s (ID %d)", info.Owner.Username, info.Owner.UserID))
				} else {
					_ = table.Append("Owner", NotAvailable)
				}

				if info.Shout != nil && info.Shout.Body != "" {
					_ = table.Append("Shout", info.Shout.Body)
				}

				if info.Description != "" {
					_ = table.Append("Description", info.Description)
				}

				return table.Render()
			})
		},
	}
}

func newGroupsRolesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "roles GROUP_ID",
		Short: "List a group's roles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			groupID, err := parseGroupID(args[0])
			if err != nil {
				return err
			}

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			group := roblox.NewGroup(client, groupID)

			roles, err := group.Roles(ctx)
			if err != nil {
				return err
			}

			type row struct {
				ID      int64  `json:"id" yaml:"id"`
				Name    string `json:"name" yaml:"name"`
				Rank    int    `json:"rank" yaml:"rank"`
				Members int64  `json:"memberCount" yaml:"memberCount"`
			}

			rows := make([]row, 0, len(roles))
			for _, role := range roles {
				rows = append(rows, row{
					ID:      role.ID(),
					Name:    role.Name(),
					Rank:    role.Rank(),
					Members: role.MemberCount(),
				})
			}

			return renderOutput(rows, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Name", "Rank", "Members")

				for _, r := range rows {
					_ = table.Append(formatCount(r.ID), r.Name, strconv.Itoa(r.Rank), formatCount(r.Members))
				}

				return table.Render()
			})
		},
	}
}

func newGroupsMembersCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "members GROUP_ID",
		Short: "List a group's members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			groupID, err := parseGroupID(args[0])
			if err != nil {
				return err
			}

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			group := roblox.NewGroup(client, groupID)

			iterator, err := group.Members()
			if err != nil {
				return err
			}

			limit = pageLimit(limit)
			entries := make([]roblox.GroupMemberEntry, 0, limit)

			for len(entries) < limit && iterator.HasNext(ctx) {
				entry, err := iterator.Next(ctx)
				if err != nil {
					return err
				}

				entries = append(entries, entry)
			}

			if err := iterator.Err(); err != nil {
				return err
			}

			return renderOutput(entries, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Username", "Role", "Rank")

				for _, entry := range entries {
					_ = table.Append(
						formatCount(entry.User.UserID),
						entry.User.Username,
						entry.Role.Name,
						strconv.Itoa(entry.Role.Rank),
					)
				}

				return table.Render()
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "maximum members to list")

	return cmd
}
