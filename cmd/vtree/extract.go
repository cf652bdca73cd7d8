package main

import (
	"github.com/spf13/cobra"
	"github.com/vango-dev/vtree/pkg/reconcile"
	"github.com/vango-dev/vtree/pkg/treefile"
)

func extractCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "extract FILE",
		Short: "Render a tree and read it back from the document",
		Long: `Render FILE into a fresh document, then rebuild a tree from the live
nodes alone and print it. Attributes and text survive the trip;
handlers do not, since they live only in the renderer.

Examples:
  vtree extract page.yaml
  vtree extract --json page.yaml`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := loadTree(args[0])
			if err != nil {
				return err
			}
			s := newStage(nil)
			if err := s.render(cmd.Context(), tree); err != nil {
				return err
			}

			// A renderer with no bindings reads everything from the surface.
			extracted := reconcile.New(s.doc).Extract(s.root)

			var opts []treefile.Option
			if asJSON {
				opts = append(opts, treefile.AsJSON())
			}
			data, err := treefile.Encode(extracted, opts...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			out.Write(data)
			if len(data) > 0 && data[len(data)-1] != '\n' {
				out.Write([]byte{'\n'})
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of YAML")

	return cmd
}
