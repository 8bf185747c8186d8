package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/api"
)

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show platform totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withClient(ctx, false, func(client *api.Client) error {
				s, err := spin(ctx, "Fetching stats...", func() (*api.Stats, error) { return client.Stats(ctx) })
				if err != nil {
					return err
				}
				printKeyValue("Spaces", StyleNumber.Render(strconv.Itoa(s.Spaces)))
				printKeyValue("Anchors", StyleNumber.Render(strconv.Itoa(s.Anchors)))
				printKeyValue("Users", StyleNumber.Render(strconv.Itoa(s.Users)))
				return nil
			})
		},
	}
}

// usersCommand creates the users command group.
func (c *CLI) usersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect platform principals",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withClient(ctx, false, func(client *api.Client) error {
				users, err := spin(ctx, "Fetching users...", func() ([]api.User, error) { return client.Users(ctx) })
				if err != nil {
					return err
				}
				rows := make([][]string, len(users))
				for i, u := range users {
					rows[i] = []string{u.PrincipalID, u.Username, orDash(u.DisplayName), orDash(u.Email), orDash(u.Role)}
				}
				printTable("users", []string{"Principal", "Username", "Name", "Email", "Role"}, rows)
				return nil
			})
		},
	})
	return cmd
}

// keysCommand creates the keys command group.
func (c *CLI) keysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage developer API keys",
	}
	cmd.AddCommand(c.keysListCommand())
	cmd.AddCommand(c.keysCreateCommand())
	cmd.AddCommand(c.keysRevokeCommand())
	return cmd
}

func (c *CLI) keysListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List API keys with their monthly usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withClient(ctx, false, func(client *api.Client) error {
				keys, err := spin(ctx, "Fetching keys...", func() ([]api.APIKey, error) { return client.Keys(ctx) })
				if err != nil {
					return err
				}
				rows := make([][]string, len(keys))
				for i, k := range keys {
					owner := "—"
					if k.Principal != nil {
						owner = orDash(k.Principal.DisplayName)
					}
					state := StyleSuccess.Render("active")
					if !k.IsActive {
						state = StyleDim.Render("revoked")
					}
					rows[i] = []string{k.ID, owner, k.Tier, usage(k), state}
				}
				printTable("keys", []string{"Key ID", "Owner", "Tier", "Usage", "State"}, rows)
				return nil
			})
		},
	}
}

func (c *CLI) keysCreateCommand() *cobra.Command {
	var tier string

	cmd := &cobra.Command{
		Use:   "create <owner-id>",
		Short: "Issue a key for a principal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withClient(ctx, false, func(client *api.Client) error {
				key, err := client.CreateKey(ctx, args[0], tier)
				if err != nil {
					return err
				}
				printSuccess("Created %s key %s", key.Tier, key.ID)
				printKeyValue("Key", StyleHighlight.Render(key.Key))
				printKeyValue("Limit", fmt.Sprintf("%d requests/month", key.LimitMonth))
				printDetail("The secret is shown once; store it now")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&tier, "tier", api.TierFree, "key tier: free, pro or enterprise")
	return cmd
}

func (c *CLI) keysRevokeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <key-id>",
		Short: "Deactivate a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withClient(ctx, false, func(client *api.Client) error {
				if err := client.RevokeKey(ctx, args[0]); err != nil {
					return err
				}
				printSuccess("Revoked key %s", args[0])
				return nil
			})
		},
	}
}

func usage(k api.APIKey) string {
	if k.LimitMonth <= 0 {
		return strconv.Itoa(k.UsageCurrentMonth)
	}
	pct := float64(k.UsageCurrentMonth) / float64(k.LimitMonth) * 100
	return fmt.Sprintf("%d / %d (%.1f%%)", k.UsageCurrentMonth, k.LimitMonth, pct)
}
