package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/bloxkit/rbx-client/internal/constants"
	"github.com/bloxkit/rbx-client/pkg/rbxclient"
	"github.com/bloxkit/rbx-client/pkg/roblox"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		username string
		cookie   string
		noSave   bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store the session cookie",
		Long: `Authenticate against the Roblox platform.

With --cookie the given .ROBLOSECURITY value is verified and stored.
Otherwise the command prompts for a username and password and logs in.
Captcha-gated accounts cannot log in with credentials; obtain a cookie
from a browser session and use --cookie instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if cookie != "" {
				client, err := rbxclient.NewWithCookie(ctx, cookie)
				if err != nil {
					return fmt.Errorf("failed to create client: %w", err)
				}

				user, err := client.AuthenticatedUser(ctx)
				if err != nil {
					return fmt.Errorf("cookie rejected: %w", err)
				}

				if !noSave {
					if err := saveCookie(cookie); err != nil {
						return err
					}
				}

				fmt.Printf("Logged in as %s (ID %d)\n", user.Name, user.ID)

				return nil
			}

			if username == "" {
				fmt.Print("Username: ")

				reader := bufio.NewReader(os.Stdin)

				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read username: %w", err)
				}

				username = strings.TrimSpace(line)
			}

			fmt.Print("Password: ")

			password, err := term.ReadPassword(int(syscall.Stdin))

			fmt.Println()

			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}

			client, err := rbxclient.NewWithCredentials(ctx, username, string(password))
			if err != nil {
				if roblox.IsCaptcha(err) {
					return fmt.Errorf("login requires a captcha; use --cookie with a browser session cookie: %w", err)
				}

				return err
			}

			user, err := client.AuthenticatedUser(ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch authenticated user: %w", err)
			}

			if !noSave {
				if err := saveCookie(client.SessionCookie()); err != nil {
					return err
				}
			}

			fmt.Printf("Logged in as %s (ID %d)\n", user.Name, user.ID)

			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username to log in with")
	cmd.Flags().StringVar(&cookie, "cookie", "", ".ROBLOSECURITY cookie to store instead of logging in")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not persist the cookie to the config file")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Invalidate and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if viper.GetString("cookie") != "" {
				client, err := CreateClient(ctx)
				if err != nil {
					return err
				}

				if err := client.Logout(ctx); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: remote logout failed: %v\n", err)
				}
			}

			if err := saveCookie(""); err != nil {
				return err
			}

			fmt.Println("Logged out")

			return nil
		},
	}
}

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := CreateAuthenticatedClient(ctx)
			if err != nil {
				return err
			}

			user, err := client.AuthenticatedUser(ctx)
			if err != nil {
				return err
			}

			return renderOutput(user, func() error {
				fmt.Printf("%s (ID %d)\n", user.Name, user.ID)
				if user.DisplayName != "" && user.DisplayName != user.Name {
					fmt.Printf("Display name: %s\n", user.DisplayName)
				}

				return nil
			})
		},
	}
}

// saveCookie persists the session cookie to the config file. The file
// is restricted to the owner because it holds the session secret.
func saveCookie(cookie string) error {
	viper.Set("cookie", cookie)

	path := viper.ConfigFileUsed()

	if err := viper.WriteConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to save config: %w", err)
		}

		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return fmt.Errorf("failed to locate home directory: %w", homeErr)
		}

		dir := filepath.Join(home, ".rbx")
		if err := os.MkdirAll(dir, constants.ConfigDirPerm); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		path = filepath.Join(dir, "config.yml")
		if err := viper.WriteConfigAs(path); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
	}

	if path != "" {
		if err := os.Chmod(path, constants.ConfigFilePerm); err != nil {
			return fmt.Errorf("failed to restrict config file permissions: %w", err)
		}
	}

	return nil
}
