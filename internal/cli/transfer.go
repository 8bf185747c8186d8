package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/api"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/errors"
	pkgio "github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/io"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output string
		format string
		spaces []string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export spaces and anchors to a JSON or YAML bundle",
		Long: `Export spaces and their anchors as a portable bundle.

The format follows the output file extension (.json, .yaml or .yml). Without
--output the bundle is written to stdout as JSON, or in --format.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prog := newProgress(loggerFromContext(ctx))

			return c.withClient(ctx, true, func(client *api.Client) error {
				b, err := spin(ctx, "Exporting...", func() (*pkgio.Bundle, error) {
					return pkgio.Export(ctx, client, pkgio.ExportOptions{SpaceIDs: spaces})
				})
				if err != nil {
					return err
				}

				if output == "" {
					f := pkgio.Format(format)
					if f == "" {
						f = pkgio.FormatJSON
					}
					return pkgio.Write(os.Stdout, b, f)
				}
				if err := pkgio.WriteFile(output, b); err != nil {
					return err
				}
				prog.done(fmt.Sprintf("Exported %d spaces, %d anchors", len(b.Spaces), len(b.Anchors)))
				printFile(output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "bundle file (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&format, "format", "", "stdout format: json (default) or yaml")
	cmd.Flags().StringSliceVarP(&spaces, "space", "s", nil, "space IDs to export (default all)")
	return cmd
}

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <bundle>",
		Short: "Create the spaces and anchors of a bundle",
		Long: `Import a bundle written by 'spatialdash export'. Spaces are created parents
first and receive new IDs; anchors are registered into the new spaces.

A failed space skips its descendants and their anchors; everything else is
still imported and the failures are listed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			b, err := pkgio.ReadFile(args[0])
			if err != nil {
				return err
			}
			printInfo("Bundle %s: %d spaces, %d anchors", b.Version, len(b.Spaces), len(b.Anchors))
			if len(b.Layers) > 0 {
				printDetail("%d layers are kept in the bundle only; the platform has no layer API", len(b.Layers))
			}
			if dryRun {
				printSuccess("Bundle is valid")
				return nil
			}

			prog := newProgress(logger)
			return c.withClient(ctx, true, func(client *api.Client) error {
				report, err := pkgio.Import(ctx, client, b, logger)
				if err != nil {
					return err
				}
				prog.done(fmt.Sprintf("Imported %d spaces, %d anchors", len(report.Spaces), len(report.Anchors)))
				for _, f := range report.Failed {
					printError("%s %s: %s", f.Kind, f.ID, errors.UserMessage(f.Err))
				}
				if !report.OK() {
					return errors.New(errors.ErrCodeAPI, "%d items failed to import", len(report.Failed))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the bundle without importing")
	return cmd
}
