package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/api"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/errors"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/render"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/render/hierarchy"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/spatial"
)

// spacesCommand creates the spaces command group.
func (c *CLI) spacesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spaces",
		Short: "Inspect and edit spaces",
	}
	cmd.AddCommand(c.spacesListCommand())
	cmd.AddCommand(c.spacesTreeCommand())
	cmd.AddCommand(c.spacesCreateCommand())
	cmd.AddCommand(c.spacesUpdateCommand())
	return cmd
}

func (c *CLI) spacesListCommand() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all spaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withClient(ctx, refresh, func(client *api.Client) error {
				spaces, err := spin(ctx, "Fetching spaces...", func() ([]api.Space, error) { return client.Spaces(ctx) })
				if err != nil {
					return err
				}
				rows := make([][]string, len(spaces))
				for i, s := range spaces {
					anchors := "—"
					if s.Count != nil {
						anchors = strconv.Itoa(s.Count.Anchors)
					}
					rows[i] = []string{s.ID, s.Name, orDash(s.ParentID), coord(s.Lat), coord(s.Lon), anchors}
				}
				printTable("spaces", []string{"Space ID", "Name", "Parent", "Lat", "Lon", "Anchors"}, rows)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the response cache")
	return cmd
}

func (c *CLI) spacesTreeCommand() *cobra.Command {
	var (
		refresh  bool
		detailed bool
		output   string
		focus    string
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the space containment tree",
		Long: `Show spaces as a tree of buildings, floors and rooms.

With --output, write the tree as a diagram instead. The format follows the
file extension: .dot, .svg, .pdf or .png (PDF and PNG need rsvg-convert).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withClient(ctx, refresh, func(client *api.Client) error {
				spaces, err := spin(ctx, "Fetching spaces...", func() ([]api.Space, error) { return client.Spaces(ctx) })
				if err != nil {
					return err
				}
				h := spatial.BuildHierarchy(spaces)
				for _, cycle := range h.Cycles {
					printWarning("Parent cycle: %s", strings.Join(cycle, " → "))
				}

				if output != "" {
					return writeTreeDiagram(ctx, h, output, hierarchy.Options{Detailed: detailed, Highlight: focus})
				}
				printTree(h, focus)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the response cache")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include IDs and anchor counts in diagram labels")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write a diagram to this file")
	cmd.Flags().StringVar(&focus, "highlight", "", "space ID to highlight")
	return cmd
}

func printTree(h *spatial.Hierarchy, focus string) {
	if h.Len() == 0 {
		printInfo("No spaces")
		return
	}
	for _, e := range h.Flatten() {
		name := e.Node.Space.Name
		if e.Node.ID() == focus {
			name = StyleHighlight.Render(name)
		}
		line := strings.Repeat("  ", e.Depth) + name + " " + StyleDim.Render(e.Node.ID())
		if cnt := e.Node.Space.Count; cnt != nil && cnt.Anchors > 0 {
			line += StyleDim.Render(fmt.Sprintf(" · %d anchors", cnt.Anchors))
		}
		fmt.Println(line)
	}
}

func writeTreeDiagram(ctx context.Context, h *spatial.Hierarchy, path string, opts hierarchy.Options) error {
	dot := hierarchy.ToDOT(h, opts)
	ext := strings.ToLower(filepath.Ext(path))

	var data []byte
	if ext == ".dot" {
		data = []byte(dot)
	} else {
		svg, err := hierarchy.RenderSVG(ctx, dot)
		if err != nil {
			return err
		}
		switch ext {
		case ".svg":
			data = svg
		case ".pdf":
			data, err = render.ToPDF(ctx, svg)
		case ".png":
			data, err = render.ToPNG(ctx, svg, 2)
		default:
			return errors.New(errors.ErrCodeInvalidFormat, "unsupported diagram format %q (want .dot, .svg, .pdf or .png)", ext)
		}
		if err != nil {
			return err
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printSuccess("Wrote space tree")
	printFile(path)
	return nil
}

// spaceFlags holds the flags shared by spaces create and update.
type spaceFlags struct {
	name     string
	parent   string
	lat, lon float64
}

func (f *spaceFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "space name")
	cmd.Flags().StringVar(&f.parent, "parent", "", "parent space ID")
	cmd.Flags().Float64Var(&f.lat, "lat", 0, "origin latitude")
	cmd.Flags().Float64Var(&f.lon, "lon", 0, "origin longitude")
}

func (f *spaceFlags) input(cmd *cobra.Command) api.SpaceInput {
	in := api.SpaceInput{Name: f.name}
	if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
		lat, lon := f.lat, f.lon
		in.Lat, in.Lon = &lat, &lon
	}
	if f.parent != "" {
		parent := f.parent
		in.ParentID = &parent
	}
	return in
}

func (c *CLI) spacesCreateCommand() *cobra.Command {
	var f spaceFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a space",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withClient(ctx, false, func(client *api.Client) error {
				s, err := client.CreateSpace(ctx, f.input(cmd))
				if err != nil {
					return err
				}
				printSuccess("Created space %s", s.Name)
				printKeyValue("Space ID", s.ID)
				return nil
			})
		},
	}

	f.bind(cmd)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (c *CLI) spacesUpdateCommand() *cobra.Command {
	var f spaceFlags

	cmd := &cobra.Command{
		Use:   "update <space-id>",
		Short: "Rename, move or re-parent a space",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withClient(ctx, true, func(client *api.Client) error {
				current, err := client.Space(ctx, args[0])
				if err != nil {
					return err
				}

				in := api.SpaceInput{Name: current.Name, Lat: current.Lat, Lon: current.Lon}
				if current.ParentID != "" {
					parent := current.ParentID
					in.ParentID = &parent
				}
				changes := f.input(cmd)
				if f.name != "" {
					in.Name = changes.Name
				}
				if changes.Lat != nil {
					in.Lat, in.Lon = changes.Lat, changes.Lon
				}
				if changes.ParentID != nil {
					in.ParentID = changes.ParentID
				}

				s, err := client.UpdateSpace(ctx, args[0], in)
				if err != nil {
					return err
				}
				printSuccess("Updated space %s", s.Name)
				return nil
			})
		},
	}

	f.bind(cmd)
	return cmd
}
