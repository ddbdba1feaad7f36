package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := map[string]string{
				"version":    version,
				"commit":     commit,
				"built":      date,
				"go_version": runtime.Version(),
				"platform":   runtime.GOOS + "/" + runtime.GOARCH,
			}

			return renderOutput(info, func() error {
				fmt.Printf("rbx version %s\n", version)
				fmt.Printf("  commit:  %s\n", commit)
				fmt.Printf("  built:   %s\n", date)
				fmt.Printf("  go:      %s\n", runtime.Version())
				fmt.Printf("  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)

				return nil
			})
		},
	}
}
