package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/api"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/errors"
)

// anchorsCommand creates the anchors command group.
func (c *CLI) anchorsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "anchors",
		Short: "Inspect and edit anchors",
	}
	cmd.AddCommand(c.anchorsListCommand())
	cmd.AddCommand(c.anchorsRegisterCommand())
	cmd.AddCommand(c.anchorsDeleteCommand())
	cmd.AddCommand(c.anchorsNearbyCommand())
	return cmd
}

func (c *CLI) anchorsListCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list <space-id>",
		Short: "List the anchors of a space",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withClient(ctx, false, func(client *api.Client) error {
				anchors, err := spin(ctx, "Fetching anchors...", func() ([]api.Anchor, error) {
					return client.AnchorsInSpace(ctx, args[0])
				})
				if err != nil {
					return err
				}
				if !all {
					anchors = activeAnchors(anchors)
				}
				printAnchors(anchors)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include deleted anchors")
	return cmd
}

func (c *CLI) anchorsRegisterCommand() *cobra.Command {
	var (
		reg           api.AnchorRegistration
		lat, lon, alt float64
	)

	cmd := &cobra.Command{
		Use:   "register <space-id>",
		Short: "Register an anchor in a space",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reg.SpaceID = args[0]
			reg.Type = strings.ToUpper(reg.Type)
			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
				reg.Lat, reg.Lon = &lat, &lon
			}
			if cmd.Flags().Changed("alt") {
				reg.Alt = &alt
			}
			return c.withClient(ctx, false, func(client *api.Client) error {
				a, err := client.RegisterAnchor(ctx, reg)
				if err != nil {
					return err
				}
				printSuccess("Registered %s anchor %s", anchorType(a.Type), a.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&reg.Type, "type", "", "anchor type: IMAGE, QR, GPS or MARKER")
	cmd.Flags().StringVar(&reg.Payload, "payload", "", "anchor payload (image name, QR content, ...)")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude")
	cmd.Flags().Float64Var(&alt, "alt", 0, "altitude")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func (c *CLI) anchorsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <anchor-id>...",
		Short: "Delete anchors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withClient(ctx, false, func(client *api.Client) error {
				failed := 0
				for _, id := range args {
					if err := client.DeleteAnchor(ctx, id); err != nil {
						printError("%s: %s", id, errors.UserMessage(err))
						failed++
						continue
					}
					printSuccess("Deleted anchor %s", id)
				}
				if failed > 0 {
					return errors.New(errors.ErrCodeAPI, "%d of %d deletes failed", failed, len(args))
				}
				return nil
			})
		},
	}
}

func (c *CLI) anchorsNearbyCommand() *cobra.Command {
	var lat, lon float64

	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "Find anchors near a coordinate",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withClient(ctx, false, func(client *api.Client) error {
				anchors, err := spin(ctx, "Searching...", func() ([]api.Anchor, error) {
					return client.Nearby(ctx, lat, lon)
				})
				if err != nil {
					return err
				}
				printAnchors(anchors)
				return nil
			})
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

func activeAnchors(list []api.Anchor) []api.Anchor {
	out := list[:0:0]
	for _, a := range list {
		if a.Status != "deleted" {
			out = append(out, a)
		}
	}
	return out
}

func printAnchors(anchors []api.Anchor) {
	rows := make([][]string, len(anchors))
	for i, a := range anchors {
		rows[i] = []string{a.ID, anchorType(a.Type), coord(a.Lat), coord(a.Lon), orDash(a.Payload), orDash(a.Status)}
	}
	printTable("anchors", []string{"Anchor ID", "Type", "Lat", "Lon", "Payload", "Status"}, rows)
}

