package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shutterbox/shutterbox/internal/config"
	"github.com/shutterbox/shutterbox/internal/utils"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFlagPath(cmd)
		force, _ := cmd.Flags().GetBool("force")

		if utils.FileExists(path) && !force {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		}

		if err := config.Default().Save(path); err != nil {
			return fmt.Errorf("write config: %w", err)
		}

		fmt.Println(green("✓"), "wrote", cyan(path))
		fmt.Println("edit the album_url, then run", cyan("shutterbox sync"))
		return nil
	},
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing config file")
}
