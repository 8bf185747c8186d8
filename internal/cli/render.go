package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/api"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/editor"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/errors"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/render"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/render/canvas"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path (or base path for multiple outputs)
	formats  []string // output formats: "png", "svg", "pdf"
	width    int      // canvas width in pixels
	height   int      // canvas height in pixels
	zoom     float64  // viewport scale
	selected string   // anchor to draw as selected
}

// renderCommand creates the render command for canvas snapshots.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <space-id>",
		Short: "Render a space's anchor canvas to PNG, SVG or PDF",
		Long: `Render the editor canvas of a space exactly as the editor draws it:
grid, anchors colored by type, glyphs and labels.

PDF output needs rsvg-convert on PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			if opts.width <= 0 {
				opts.width = c.cfg.Editor.Width
			}
			if opts.height <= 0 {
				opts.height = c.cfg.Editor.Height
			}
			ctx := cmd.Context()
			return c.withClient(ctx, false, func(client *api.Client) error {
				s, err := c.loadSnapshot(ctx, client, args[0], opts)
				if err != nil {
					return err
				}
				return runRender(ctx, s, args[0], &opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): png (default), svg, pdf (comma-separated)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "canvas width (default from config)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "canvas height (default from config)")
	cmd.Flags().Float64Var(&opts.zoom, "zoom", 1, "viewport scale")
	cmd.Flags().StringVar(&opts.selected, "select", "", "anchor ID to draw as selected")
	return cmd
}

// loadSnapshot builds an editor state for spaceID through the same events
// an interactive session uses.
func (c *CLI) loadSnapshot(ctx context.Context, client editor.Source, spaceID string, opts renderOpts) (*editor.State, error) {
	s := editor.New(c.cfg.Viewport())
	s.Viewport.Scale = s.Viewport.Clamp(opts.zoom)

	load, ok := s.Apply(editor.SelectSpace{ID: spaceID}).(editor.LoadAnchors)
	if !ok {
		return nil, errors.New(errors.ErrCodeInternal, "no load requested for %s", spaceID)
	}
	ev := editor.Fetch(ctx, client, load)
	if ev.Err != nil {
		return nil, ev.Err
	}
	s.Apply(ev)

	if opts.selected != "" {
		s.Apply(editor.SelectAnchor{ID: opts.selected})
		if s.Selected == "" {
			return nil, errors.New(errors.ErrCodeAnchorNotFound, "anchor %s is not in space %s", opts.selected, spaceID)
		}
	}
	loggerFromContext(ctx).Infof("Loaded %d anchors from %s", len(s.Anchors), spaceID)
	return s, nil
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["png"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{"png"}
	}
	return strings.Split(s, ",")
}

var validFormats = map[string]bool{"png": true, "svg": true, "pdf": true}

func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be 'png', 'svg' or 'pdf')", f)
		}
	}
	return nil
}

// basePath derives the base output path. Without an output it is the space
// ID; a known format extension on output is stripped.
func basePath(output, spaceID string) string {
	if output == "" {
		return spaceID
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func runRender(ctx context.Context, s *editor.State, spaceID string, opts *renderOpts) error {
	prog := newProgress(loggerFromContext(ctx))
	sc := canvas.Build(s, canvas.Options{Width: opts.width, Height: opts.height})

	base := basePath(opts.output, spaceID)
	for _, format := range opts.formats {
		data, err := renderCanvas(ctx, sc, format)
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}

		path := base + "." + format
		if len(opts.formats) == 1 && opts.output != "" {
			path = opts.output
		}
		if err := writeOutput(path, data); err != nil {
			return err
		}
		printFile(path)
	}
	prog.done(fmt.Sprintf("Rendered %d anchors", len(sc.Marks)))
	return nil
}

func renderCanvas(ctx context.Context, sc canvas.Scene, format string) ([]byte, error) {
	switch format {
	case "png":
		return canvas.RenderPNG(sc)
	case "svg":
		return canvas.RenderSVG(sc), nil
	case "pdf":
		return render.ToPDF(ctx, canvas.RenderSVG(sc))
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format: %s", format)
}

// writeOutput writes data to path, or to stdout for "-".
func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
