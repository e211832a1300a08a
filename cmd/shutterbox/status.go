package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/shutterbox/shutterbox/internal/syncer"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what a sync would do, without changing anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		engine := syncer.NewEngine(nil, cfg.WorkerCount())
		statuses := engine.Status(cmd.Context(), cfg.Outputs)

		failed := false
		for _, st := range statuses {
			printStatus(&st)
			if st.Err != nil {
				failed = true
			}
		}
		if failed {
			return fmt.Errorf("one or more targets failed")
		}
		return nil
	},
}

func printStatus(st *syncer.TargetStatus) {
	if st.Err != nil {
		fmt.Printf("%s %s: %v\n", red("✗"), st.OutDir, st.Err)
		return
	}

	fmt.Printf("%s %s (%s)\n", cyan("▸"), st.AlbumName, st.OutDir)
	fmt.Printf("  plan: %s to add, %s to update, %s to delete, %d unchanged\n",
		green(st.ToAdd), cyan(st.ToUpdate), red(st.ToDelete), st.Unchanged)
	fmt.Printf("  index: %d photos, %d with camera metadata, %d with coordinates, %d geocoded\n",
		st.Photos, st.WithEXIF, st.WithGPS, st.Geocoded)
	if !st.LastUpdated.IsZero() && st.Photos > 0 {
		fmt.Printf("  last synced %s\n", humanize.Time(st.LastUpdated))
	}
}
