package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/bloxkit/rbx-client/pkg/roblox"
)

// NewGamesCommand creates the games command group.
func NewGamesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "games",
		Aliases: []string{"game"},
		Short:   "Look up games",
	}

	cmd.AddCommand(newGamesInfoCommand())
	cmd.AddCommand(newGamesPlaceCommand())
	cmd.AddCommand(newGamesServersCommand())

	return cmd
}

func newGamesInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info UNIVERSE_ID",
		Short: "Show a universe's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			universeID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid universe ID %q: %w", args[0], err)
			}

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			details, err := client.Games().Details(ctx, universeID)
			if err != nil {
				return err
			}

			if len(details) == 0 {
				return fmt.Errorf("%w: universe %d", roblox.ErrGameNotFound, universeID)
			}

			detail := details[0]

			return renderOutput(detail, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Field", "Value")

				_ = table.Append("ID", formatCount(detail.ID))
				_ = table.Append("Name", detail.Name)
				_ = table.Append("Creator", detail.Creator.Name)
				_ = table.Append("Root Place", formatCount(detail.RootPlaceID))
				_ = table.Append("Playing", formatCount(detail.Playing))
				_ = table.Append("Visits", formatCount(detail.Visits))
				_ = table.Append("Favorites", formatCount(detail.FavoritedCount))
				_ = table.Append("Max Players", strconv.Itoa(detail.MaxPlayers))
				_ = table.Append("Created", formatTime(detail.Created))
				_ = table.Append("Updated", formatTime(detail.Updated))

				return table.Render()
			})
		},
	}
}

func newGamesPlaceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "place PLACE_ID",
		Short: "Show a place's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			placeID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid place ID %q: %w", args[0], err)
			}

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			details, err := client.Games().PlaceDetails(ctx, placeID)
			if err != nil {
				return err
			}

			if len(details) == 0 {
				return fmt.Errorf("%w: place %d", roblox.ErrGameNotFound, placeID)
			}

			detail := details[0]

			return renderOutput(detail, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Field", "Value")

				_ = table.Append("Place ID", formatCount(detail.PlaceID))
				_ = table.Append("Name", detail.Name)
				_ = table.Append("Builder", detail.Builder)
				_ = table.Append("Universe", formatCount(detail.UniverseID))
				_ = table.Append("Playable", formatBool(detail.IsPlayable))
				_ = table.Append("URL", detail.URL)

				return table.Render()
			})
		},
	}
}

func newGamesServersCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "servers PLACE_ID",
		Short: "List a place's running servers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			placeID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid place ID %q: %w", args[0], err)
			}

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			params := roblox.NewQueryParams().WithLimit(pageLimit(limit))

			page, err := client.Games().Servers(ctx, placeID, roblox.ServerTypePublic, params)
			if err != nil {
				return err
			}

			return renderOutput(page.Data, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Server", "Playing", "Max", "FPS", "Ping")

				for _, server := range page.Data {
					_ = table.Append(
						server.ID,
						strconv.Itoa(server.Playing),
						strconv.Itoa(server.MaxPlayers),
						fmt.Sprintf("%.0f", server.FPS),
						strconv.Itoa(server.Ping),
					)
				}

				return table.Render()
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "maximum servers to list")

	return cmd
}
