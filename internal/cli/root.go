package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"card-gallery/internal/config"
	"card-gallery/internal/gallery"
	"card-gallery/internal/texture"
)

// globalFlags are shared by every command.
type globalFlags struct {
	verbose    bool
	configPath string
	assetDir   string
	width      int
	height     int
}

// Execute runs the gallery CLI.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var gf globalFlags

	root := &cobra.Command{
		Use:          "gallery",
		Short:        "A 3D card gallery rendered in software",
		Long:         `gallery shows three cards, each a live render of its own little scene. Move the pointer to shift the view; click a card to bring it forward.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if gf.verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&gf.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVarP(&gf.configPath, "config", "c", "", "JSON config file")
	pf.StringVar(&gf.assetDir, "assets", "", "asset directory (default: auto-detect)")
	pf.IntVar(&gf.width, "width", 0, "viewport width in client pixels")
	pf.IntVar(&gf.height, "height", 0, "viewport height in client pixels")

	root.AddCommand(newViewCmd(&gf))
	root.AddCommand(newRecordCmd(&gf))
	root.AddCommand(newTweaksCmd(&gf))
	return root
}

// loadConfig reads the config file, if any, and resolves defaults with
// flag overrides.
func loadConfig(gf *globalFlags, flags config.Flags) (config.Config, error) {
	var cfg config.Config
	if gf.configPath != "" {
		var err error
		if cfg, err = config.Load(gf.configPath); err != nil {
			return config.Config{}, err
		}
	}
	flags.AssetDir = gf.assetDir
	flags.Width = gf.width
	flags.Height = gf.height
	cfg.Resolve(flags)
	return cfg, nil
}

// build composes a gallery from cfg around r and applies the tweak
// preset when one exists.
func build(ctx context.Context, cfg config.Config, r gallery.Renderer) (*gallery.Gallery, *texture.Loader, error) {
	logger := loggerFromContext(ctx)

	opts, err := gallery.OptionsFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	loader := texture.NewLoader(texture.NewCache())
	g, err := gallery.New(opts, r, loader, logger)
	if err != nil {
		return nil, nil, err
	}

	if cfg.TweakFile != "" {
		if _, statErr := os.Stat(cfg.TweakFile); statErr == nil {
			n, err := g.Tweaks().LoadPreset(cfg.TweakFile)
			if err != nil {
				g.Close()
				return nil, nil, fmt.Errorf("tweak preset: %w", err)
			}
			logger.Debug("applied tweak preset", "path", cfg.TweakFile, "values", n)
		}
	}

	logger.Debug("gallery ready", "width", cfg.Width, "height", cfg.Height, "panels", fmt.Sprintf("%dx%d", cfg.PanelWidth, cfg.PanelHeight))
	return g, loader, nil
}
