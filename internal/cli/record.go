package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"card-gallery/internal/config"
	"card-gallery/internal/record"
)

func newRecordCmd(gf *globalFlags) *cobra.Command {
	var (
		outDir      string
		tweakFile   string
		supersample int
		workers     int
		fps         int
	)

	cmd := &cobra.Command{
		Use:   "record <scenario.yaml>",
		Short: "Replay a scripted pointer session to WebP frames",
		Long: `Replay a YAML scenario headless on a fixed-step clock. Each frame is
written as frame_NNNNN.webp with a manifest.json next to them.

Example scenario:

  viewport: {width: 960, height: 640}
  fps: 30
  steps:
    - wait: 4s
    - click: {x: 480, y: 320}
    - wait: 1.5s
    - click: {x: 10, y: 10}
    - wait: 1.5s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			sc, err := record.LoadScenario(args[0])
			if err != nil {
				return err
			}
			cfg, err := loadConfig(gf, config.Flags{OutputDir: outDir, TweakFile: tweakFile, Workers: workers})
			if err != nil {
				return err
			}
			if supersample > 0 {
				cfg.Supersample = supersample
			}
			if fps > 0 {
				cfg.FPS = fps
			}

			out, err := record.NewSupersampled(cfg.Width, cfg.Height, cfg.Supersample)
			if err != nil {
				return err
			}
			g, loader, err := build(ctx, cfg, out)
			if err != nil {
				return err
			}
			defer g.Close()

			// Frames are deterministic only once every background is in.
			prog := newProgress(logger)
			if err := loader.Wait(ctx); err != nil {
				return err
			}
			loaded, total := loader.Progress()
			prog.done(fmt.Sprintf("Loaded %d/%d assets", loaded, total))

			prog = newProgress(logger)
			m, err := record.Run(ctx, g, out, sc, record.Options{
				OutputDir: cfg.OutputDir,
				FPS:       cfg.FPS,
				Workers:   cfg.Workers,
				Logger:    logger,
			})
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Recorded %d frames to %s", len(m.Frames), cfg.OutputDir))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&outDir, "output", "o", "", "output directory (default: frames)")
	f.StringVar(&tweakFile, "tweaks", "", "TOML tweak preset to apply")
	f.IntVar(&supersample, "supersample", 0, "render at N× resolution and downsample")
	f.IntVar(&workers, "workers", 0, "encoder workers (default: NumCPU)")
	f.IntVar(&fps, "fps", 0, "frame rate when the scenario sets none")
	return cmd
}
