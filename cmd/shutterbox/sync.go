package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shutterbox/shutterbox/internal/syncer"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile every configured album with local content",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")
		cmd.SilenceUsage = true

		engine := syncer.NewEngine(slog.Default(), cfg.WorkerCount())
		results := engine.Run(cmd.Context(), cfg.Outputs, force)

		fatal := false
		for _, res := range results {
			printResult(&res)
			if res.Fatal() {
				fatal = true
			}
		}
		if fatal {
			return fmt.Errorf("one or more targets failed")
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().Bool("force", false, "re-ingest every photo even if unchanged")
}

func printResult(res *syncer.Result) {
	if res.Fatal() {
		fmt.Printf("%s %s: %v\n", red("✗"), res.OutDir, res.Err)
		return
	}

	fmt.Printf("%s %s: %s added, %s updated, %s deleted, %d unchanged\n",
		green("✓"), res.OutDir,
		green(res.Added), cyan(res.Updated), red(res.Deleted), res.Unchanged)

	for _, failure := range res.Failures {
		fmt.Printf("  %s %s: %s\n", red("failed"), failure.ID, failure.Reason)
	}
}
