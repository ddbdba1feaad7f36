package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewAssetsCommand creates the assets command group.
func NewAssetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "assets",
		Aliases: []string{"asset"},
		Short:   "Look up marketplace assets",
	}

	cmd.AddCommand(newAssetsInfoCommand())
	cmd.AddCommand(newAssetsFavoritesCommand())

	return cmd
}

func parseAssetID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid asset ID %q: %w", arg, err)
	}

	return id, nil
}

func newAssetsInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info ASSET_ID",
		Short: "Show an asset's product info",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			assetID, err := parseAssetID(args[0])
			if err != nil {
				return err
			}

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			info, err := client.Assets().ProductInfo(ctx, assetID)
			if err != nil {
				return err
			}

			return renderOutput(info, func() error {
				price := NotAvailable
				if info.PriceInRobux != nil {
					price = fmt.Sprintf("R$%d", *info.PriceInRobux)
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Field", "Value")

				_ = table.Append("Asset ID", formatCount(info.AssetID))
				_ = table.Append("Name", info.Name)
				_ = table.Append("Type ID", strconv.Itoa(info.AssetTypeID))
				_ = table.Append("Creator", info.Creator.Name)
				_ = table.Append("Price", price)
				_ = table.Append("Sales", formatCount(info.Sales))
				_ = table.Append("For Sale", formatBool(info.IsForSale || info.IsPublicDomain))
				_ = table.Append("Limited", formatBool(info.IsLimited || info.IsLimitedUnique))
				_ = table.Append("Created", formatTime(info.Created))
				_ = table.Append("Updated", formatTime(info.Updated))

				return table.Render()
			})
		},
	}
}

func newAssetsFavoritesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "favorites ASSET_ID",
		Short: "Show an asset's favorite count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			assetID, err := parseAssetID(args[0])
			if err != nil {
				return err
			}

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			count, err := client.Assets().FavoritesCount(ctx, assetID)
			if err != nil {
				return err
			}

			return renderOutput(map[string]int64{"favorites": count}, func() error {
				fmt.Println(count)

				return nil
			})
		},
	}
}
