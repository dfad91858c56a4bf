package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"slidestack/config"
	"slidestack/ffmpeg"
	"slidestack/timeline"
	"slidestack/transport"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "slidestack",
	Short:         "slidestack - slideshow timeline engine and editor service",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initLogger(verbose || config.GetDebug())

		log.Infof("GitSHA: %s", config.GetGitSHA())
		log.Infof("BuildDate: %s", config.GetBuildDate())

		path := cfgFile
		if path == "" {
			path = config.GetConfigFile()
		}
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		cmd.SetContext(config.WithConfig(cmd.Context(), cfg))

		if err := initAll(ffmpeg.Init, timeline.Init, transport.Init); err != nil {
			return err
		}
		ffmpeg.SetBinaries(config.GetFfmpeg(), config.GetFfprobe())
		return nil
	},
}

// initAll hands the logger to each component, stopping at the first failure.
func initAll(inits ...func(*logrus.Logger) error) error {
	for _, initFn := range inits {
		if err := initFn(log); err != nil {
			return fmt.Errorf("init: %w", err)
		}
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $SLIDESTACK_CONFIG_DIR/slidestack.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sceneCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(previewCmd)
}
