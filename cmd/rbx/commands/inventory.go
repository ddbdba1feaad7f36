package commands

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/bloxkit/rbx-client/pkg/roblox"
)

// NewInventoryCommand creates the inventory command group.
func NewInventoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Inspect user inventories",
	}

	cmd.AddCommand(newInventoryListCommand())
	cmd.AddCommand(newInventoryTypesCommand())

	return cmd
}

var errUnknownAssetType = errors.New("unknown asset type")

// resolveAssetType accepts a numeric type ID or a type name such as
// "Hat" or "TShirt".
func resolveAssetType(arg string) (roblox.AssetType, error) {
	if id, err := strconv.Atoi(arg); err == nil {
		assetType := roblox.AssetType(id)
		if !assetType.Valid() {
			return 0, fmt.Errorf("%w: ID %d", errUnknownAssetType, id)
		}

		return assetType, nil
	}

	for _, assetType := range roblox.AllAssetTypes() {
		if strings.EqualFold(assetType.String(), arg) {
			return assetType, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", errUnknownAssetType, arg)
}

func newInventoryListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list USER ASSET_TYPE",
		Short: "List a user's inventory of an asset type",
		Long: `List a user's inventory of an asset type.

USER is a numeric ID or a username; ASSET_TYPE is a type name such as
Hat or a numeric type ID. Hidden inventories require a session that is
allowed to view them.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			assetType, err := resolveAssetType(args[1])
			if err != nil {
				return err
			}

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			user, err := resolveUser(client, args[0])
			if err != nil {
				return err
			}

			iterator, err := user.InventoryByType(ctx, assetType)
			if err != nil {
				return err
			}

			limit = pageLimit(limit)
			items := make([]roblox.InventoryAsset, 0, limit)

			for len(items) < limit && iterator.HasNext(ctx) {
				item, err := iterator.Next(ctx)
				if err != nil {
					return err
				}

				items = append(items, item)
			}

			if err := iterator.Err(); err != nil {
				return err
			}

			return renderOutput(items, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Asset ID", "Name", "Serial", "Acquired")

				for _, item := range items {
					serial := NotAvailable
					if item.SerialNumber != nil {
						serial = formatCount(*item.SerialNumber)
					}

					_ = table.Append(
						formatCount(item.AssetID),
						item.AssetName,
						serial,
						formatTime(item.Created),
					)
				}

				return table.Render()
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "maximum items to list")

	return cmd
}

func newInventoryTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the known asset types",
		RunE: func(cmd *cobra.Command, args []string) error {
			types := roblox.AllAssetTypes()

			type row struct {
				ID   int    `json:"id" yaml:"id"`
				Name string `json:"name" yaml:"name"`
			}

			rows := make([]row, 0, len(types))
			for _, assetType := range types {
				rows = append(rows, row{ID: int(assetType), Name: assetType.String()})
			}

			return renderOutput(rows, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Name")

				for _, r := range rows {
					_ = table.Append(strconv.Itoa(r.ID), r.Name)
				}

				return table.Render()
			})
		},
	}
}
