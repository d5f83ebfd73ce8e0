package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/splashd/splashd/internal/boot"
	"github.com/splashd/splashd/internal/config"
	"github.com/splashd/splashd/internal/kms"
	"github.com/splashd/splashd/internal/logger"
	"github.com/splashd/splashd/internal/splash"
)

var (
	// Version is set during build
	Version = "0.1.0-dev"

	flagDirectory string
	flagBasename  string

	rootCmd = &cobra.Command{
		Use:   "splashd",
		Short: "splashd - DRM/KMS boot splash",
		Long: `splashd shows a static splash image on every connected display during
early boot, using the kernel's DRM/KMS interface directly. Images are raw
pixel dumps named <basename>-<width>x<height>-<format>.bin; per-output
modes can be forced via splashd_<connector>_mode variables or the
[outputs] table of the config file.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runRoot,
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)

	rootCmd.Flags().StringVarP(&flagDirectory, "directory", "d", "", "Directory holding the splash images")
	rootCmd.Flags().StringVarP(&flagBasename, "basename", "b", "", "Image file base name")
	viper.BindPFlag("directory", rootCmd.Flags().Lookup("directory"))
	viper.BindPFlag("basename", rootCmd.Flags().Lookup("basename"))

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(holdCmd)
}

func runRoot(cmd *cobra.Command, args []string) error {
	if err := config.Init(); err != nil {
		return err
	}
	cfg := config.Get()
	if cfg.LogLevel != "" {
		logger.SetLevel(cfg.LogLevel)
	}

	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}
	eng.Draw()

	if err := eng.DropMaster(); err != nil {
		logger.Errorf("failed to drop master on drm device: %v", err)
	}

	// Keep the device open so the image stays up until we are killed.
	boot.Hold()
	return nil
}

// ExecuteAsInit is the pid 1 path: no flag parsing (the kernel hands init
// arguments we must not eat), configuration from environment and config
// file only, and /sbin/init is exec'd no matter how the splash went.
func ExecuteAsInit() error {
	var holdFile *os.File

	if err := config.Init(); err != nil {
		logger.Errorf("config: %v", err)
	}
	cfg := config.Get()
	if cfg.LogLevel != "" {
		logger.SetLevel(cfg.LogLevel)
	}

	card, err := kms.Probe()
	if err != nil {
		logger.Errorf("splash skipped: %v", err)
	} else {
		eng, err := splash.New(splash.Options{
			Directory: cfg.Directory,
			Basename:  cfg.Basename,
			Device:    card,
			Overrides: config.Overrides{},
		})
		if err != nil {
			logger.Errorf("splash setup failed: %v", err)
		} else {
			eng.Draw()
			if err := eng.DropMaster(); err != nil {
				logger.Errorf("failed to drop master on drm device: %v", err)
			}
			// The holder child keeps this fd, and with it the image,
			// alive across the exec below.
			holdFile = card.File()
		}
	}

	return boot.Handoff(holdFile, os.Args[1:])
}

func newEngine(cfg *config.Config) (*splash.Engine, error) {
	return splash.New(splash.Options{
		Directory: cfg.Directory,
		Basename:  cfg.Basename,
		Overrides: config.Overrides{},
	})
}
