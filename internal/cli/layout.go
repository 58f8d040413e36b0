package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dirchart/pkg/diagram"
	"github.com/matzehuels/dirchart/pkg/pipeline"
)

// layoutCommand groups commands that work on TOML layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Inspect and export diagram layouts",
		Long: `Inspect and export diagram layouts.

A layout is a TOML document holding the canvas, palette, boxes, text
annotations and connectors of a diagram. The embedded AIGovNav layout is a
good starting point for a custom one:

  dirchart layout export -o my.toml
  dirchart layout check my.toml
  dirchart render --layout my.toml`,
	}
	cmd.AddCommand(c.layoutExportCommand())
	cmd.AddCommand(c.layoutCheckCommand())
	return cmd
}

func (c *CLI) layoutExportCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the embedded layout as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				_, err := c.out.Write(diagram.DefaultTOML())
				return err
			}
			if err := pipeline.WriteArtifact(output, diagram.DefaultTOML()); err != nil {
				return err
			}
			printSuccess(c.out, "Layout written to %s", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func (c *CLI) layoutCheckCommand() *cobra.Command {
	var printLayout bool
	cmd := &cobra.Command{
		Use:   "check [layout.toml]",
		Short: "Validate a layout and report elements outside the canvas",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			d, err := loadLayout(path)
			if err != nil {
				return err
			}

			name := path
			if name == "" {
				name = "embedded"
			}
			printSuccess(c.out, "Layout %s is valid", name)

			st := d.Stats()
			w, h := d.Viewport(0).PixelSize()
			printKeyValue(c.out, "name", d.Name)
			printKeyValue(c.out, "elements", st.String())
			printKeyValue(c.out, "labels", fmt.Sprintf("%d lines", st.Lines))
			printKeyValue(c.out, "canvas", fmt.Sprintf("%g x %g units", d.Canvas.Width, d.Canvas.Height))
			printKeyValue(c.out, "output", fmt.Sprintf("%s (%dx%d px at %g dpi)", d.Output.Path, w, h, d.Output.DPI))

			for _, warn := range d.Warnings() {
				printWarning(c.out, "%s", warn)
			}

			if printLayout {
				var buf bytes.Buffer
				if err := d.Encode(&buf); err != nil {
					return err
				}
				_, err := c.out.Write(buf.Bytes())
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&printLayout, "print", false, "print the layout with defaults applied")
	return cmd
}
