package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/bloxkit/rbx-client/pkg/roblox"
)

// NewUsersCommand creates the users command group.
func NewUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "Look up users",
	}

	cmd.AddCommand(newUsersGetCommand())
	cmd.AddCommand(newUsersStatusCommand())
	cmd.AddCommand(newUsersFriendsCommand())
	cmd.AddCommand(newUsersFollowersCommand())
	cmd.AddCommand(newUsersFollowingCommand())
	cmd.AddCommand(newUsersGroupsCommand())

	return cmd
}

func newUsersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get USER",
		Short: "Show a user's profile",
		Long:  "Show a user's profile. USER is a numeric ID or a username.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			user, err := resolveUser(client, args[0])
			if err != nil {
				return err
			}

			id, err := user.ID(ctx)
			if err != nil {
				return fmt.Errorf("failed to resolve user %q: %w", args[0], err)
			}

			profile, err := client.Users().Get(ctx, id)
			if err != nil {
				return err
			}

			profileURL, err := user.ProfileURL(ctx)
			if err != nil {
				return err
			}

			return renderOutput(profile, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Field", "Value")

				_ = table.Append("ID", formatCount(profile.ID))
				_ = table.Append("Username", profile.Name)
				_ = table.Append("Display Name", profile.DisplayName)
				_ = table.Append("Created", formatTime(profile.Created))
				_ = table.Append("Banned", formatBool(profile.IsBanned))
				_ = table.Append("Profile", profileURL)

				if profile.Description != "" {
					_ = table.Append("Description", profile.Description)
				}

				return table.Render()
			})
		},
	}
}

func newUsersStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status USER",
		Short: "Show a user's profile status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			user, err := resolveUser(client, args[0])
			if err != nil {
				return err
			}

			status, err := user.Status(ctx)
			if err != nil {
				return err
			}

			return renderOutput(map[string]string{"status": status}, func() error {
				if status == "" {
					fmt.Println("(no status)")
				} else {
					fmt.Println(status)
				}

				return nil
			})
		},
	}
}

func newUsersFriendsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "friends USER",
		Short: "List a user's friends",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			user, err := resolveUser(client, args[0])
			if err != nil {
				return err
			}

			friends, err := user.Friends(ctx)
			if err != nil {
				return err
			}

			type row struct {
				ID       int64  `json:"id" yaml:"id"`
				Username string `json:"username" yaml:"username"`
			}

			rows := make([]row, 0, len(friends))

			for _, friend := range friends {
				id, err := friend.ID(ctx)
				if err != nil {
					return err
				}

				name, err := friend.Username(ctx)
				if err != nil {
					return err
				}

				rows = append(rows, row{ID: id, Username: name})
			}

			return renderOutput(rows, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Username")

				for _, r := range rows {
					_ = table.Append(formatCount(r.ID), r.Username)
				}

				return table.Render()
			})
		},
	}
}

func newUsersFollowersCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "followers USER",
		Short: "List a user's followers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFollowList(cmd, args[0], limit, (*roblox.User).Followers)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "maximum entries to list")

	return cmd
}

func newUsersFollowingCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "following USER",
		Short: "List the users a user follows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFollowList(cmd, args[0], limit, (*roblox.User).Followings)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "maximum entries to list")

	return cmd
}

func runFollowList(cmd *cobra.Command, arg string, limit int, iterate func(*roblox.User, context.Context) (*roblox.PageIterator[roblox.FriendEntry], error)) error {
	ctx := cmd.Context()

	client, err := CreateClient(ctx)
	if err != nil {
		return err
	}

	user, err := resolveUser(client, arg)
	if err != nil {
		return err
	}

	iterator, err := iterate(user, ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve user %q: %w", arg, err)
	}

	limit = pageLimit(limit)

	entries := make([]roblox.FriendEntry, 0, limit)

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
		table.Header("ID", "Username", "Display Name")

		for _, entry := range entries {
			_ = table.Append(formatCount(entry.ID), entry.Name, entry.DisplayName)
		}

		return table.Render()
	})
}

func newUsersGroupsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "groups USER",
		Short: "List the groups a user belongs to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			user, err := resolveUser(client, args[0])
			if err != nil {
				return err
			}

			id, err := user.ID(ctx)
			if err != nil {
				return fmt.Errorf("failed to resolve user %q: %w", args[0], err)
			}

			memberships, err := client.Groups().UserMemberships(ctx, id)
			if err != nil {
				return err
			}

			return renderOutput(memberships, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Group ID", "Group", "Role", "Rank")

				for _, membership := range memberships {
					_ = table.Append(
						formatCount(membership.Group.ID),
						membership.Group.Name,
						membership.Role.Name,
						fmt.Sprintf("%d", membership.Role.Rank),
					)
				}

				return table.Render()
			})
		},
	}
}
