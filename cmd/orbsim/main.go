package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xtding233/orbsim/internal/config"
)

var version = "dev"

func main() {
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:           "orbsim",
		Short:         "Monte Carlo orb cost simulator for gacha banners",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.Load(); err != nil {
				return err
			}
			if dir, _ := cmd.Flags().GetString("presets"); dir != "" {
				cfg.PresetDir = dir
			}
			logrus.SetLevel(cfg.Level())
			return nil
		},
	}
	rootCmd.PersistentFlags().String("presets", "", "Preset directory (overrides ORBSIM_PRESET_DIR)")

	rootCmd.AddCommand(
		simulateCmd(func() *config.Config { return cfg }),
		bannersCmd(func() *config.Config { return cfg }),
		goalsCmd(func() *config.Config { return cfg }),
		serveCmd(func() *config.Config { return cfg }),
	)

	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
