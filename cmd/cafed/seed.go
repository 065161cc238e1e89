package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"console-cafe-backend/internal/settings"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default settings and device fleet, then exit",
	Long: `seed stores the venue settings and the configured number of devices
if the record store is empty. It never overwrites existing records.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := loadApp(ctx)
		if err != nil {
			return err
		}
		defer a.shutdown(ctx)

		set := settings.New(a.store, a.cfg.Venue, a.cfg.Server.CacheTTL, a.log)
		if err := a.seed(ctx, set); err != nil {
			return err
		}
		a.log.Info("seed complete", zap.Int("device_count", a.cfg.Venue.DeviceCount))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
