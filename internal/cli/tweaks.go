package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"card-gallery/internal/config"
	"card-gallery/internal/raster"
	"card-gallery/internal/tweak"
)

func newTweaksCmd(gf *globalFlags) *cobra.Command {
	var (
		preset string
		save   string
	)

	cmd := &cobra.Command{
		Use:   "tweaks",
		Short: "List the debug tweak controls",
		Long:  `List every tweak control with its default value, or the values after applying --preset. With --save the values are written as a TOML preset.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(gf, config.Flags{TweakFile: preset})
			if err != nil {
				return err
			}

			out, err := raster.NewRenderer(1, 1)
			if err != nil {
				return err
			}
			g, _, err := build(ctx, cfg, out)
			if err != nil {
				return err
			}
			defer g.Close()

			t := g.Tweaks()
			printControls(cmd, t)

			if save != "" {
				if err := t.SavePreset(save); err != nil {
					return err
				}
				loggerFromContext(ctx).Info("saved preset", "path", save)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "", "TOML preset to apply before listing")
	cmd.Flags().StringVar(&save, "save", "", "write the values to this TOML file")
	return cmd
}

func printControls(cmd *cobra.Command, t *tweak.Registry) {
	w := cmd.OutOrStdout()
	for _, c := range t.Controls() {
		switch c.Kind {
		case tweak.Float:
			fmt.Fprintf(w, "%-28s %10s  [%g, %g] step %g\n", c.Name(), c.Value(), c.Range.Min, c.Range.Max, c.Range.Step)
		default:
			fmt.Fprintf(w, "%-28s %10s  %s\n", c.Name(), c.Value(), c.Kind)
		}
	}
}
