package cli

import (
	"github.com/spf13/cobra"

	"card-gallery/internal/config"
	"card-gallery/internal/raster"
	"card-gallery/internal/tweak"
	"card-gallery/internal/window"
)

func newViewCmd(gf *globalFlags) *cobra.Command {
	var tweakFile string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open the interactive gallery window",
		Long: `Open the gallery in a desktop window.

Keys: h toggles the tweak panel, arrow up/down select a control, arrow
left/right adjust it (shift for ×10), enter toggles or triggers it, and s
saves the values to the tweak file. Edits to the tweak file are
picked up while the window is open.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(gf, config.Flags{TweakFile: tweakFile})
			if err != nil {
				return err
			}

			out, err := raster.NewRenderer(cfg.Width, cfg.Height)
			if err != nil {
				return err
			}
			g, _, err := build(ctx, cfg, out)
			if err != nil {
				return err
			}
			defer g.Close()

			logger := loggerFromContext(ctx)
			opts := window.Options{
				Title:      "gallery",
				PresetFile: cfg.TweakFile,
				Logger:     logger,
			}
			if cfg.TweakFile != "" {
				w, err := tweak.WatchPreset(cfg.TweakFile, logger)
				if err != nil {
					logger.Warn("preset hot reload disabled", "err", err)
				} else {
					defer w.Close()
					opts.Watcher = w
				}
			}
			return window.Run(g, out, opts)
		},
	}

	cmd.Flags().StringVar(&tweakFile, "tweaks", "", "TOML tweak preset to load and save")
	return cmd
}
