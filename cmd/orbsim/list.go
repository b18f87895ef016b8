package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xtding233/orbsim/internal/config"
	"github.com/xtding233/orbsim/internal/gacha"
	"github.com/xtding233/orbsim/internal/preset"
)

func bannersCmd(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "banners",
		Short: "List built-in and configured banners",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := preset.NewLoader(cfg().PresetDir)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCOST\t5* FOCUS\t4* FOCUS\tPATH")
			for _, name := range loader.Names() {
				b, err := loader.Banner(name)
				if err != nil {
					fmt.Fprintf(w, "%s\t(invalid: %v)\n", name, err)
					continue
				}
				path := "-"
				if b.HasPath() {
					path = fmt.Sprintf("after %d", b.Path.Threshold)
				}
				fmt.Fprintf(w, "%s\t%d %s\t%d\t%d\t%s\n",
					name, b.Cost.PerPull, b.Cost.Name, b.Five.FocusUnits(), b.Four.FocusUnits(), path)
			}
			return w.Flush()
		},
	}
}

func goalsCmd(cfg func() *config.Config) *cobra.Command {
	var banner string
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "List goal presets, optionally only those a banner can satisfy",
		RunE: func(cmd *cobra.Command, args []string) error {
			var b *gacha.BannerConfig
			if banner != "" {
				var err error
				if b, err = preset.NewLoader(cfg().PresetDir).Banner(banner); err != nil {
					return err
				}
			}
			for _, p := range gacha.GoalPresets {
				if b != nil && !p.Available(b) {
					continue
				}
				copies := ""
				if p.SingleTarget() {
					copies = " (--copies)"
				}
				fmt.Printf("%-22s %s%s\n", string(p), p, copies)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&banner, "banner", "", "Only presets reachable on this banner")
	return cmd
}
