package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vdiff/internal/config"
)

func initCmd() *cobra.Command {
	var (
		dir   string
		toml  bool
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write vdiff.json (or vdiff.toml with --toml) with every setting at
its default value.

Examples:
  vdiff init
  vdiff init --toml --dir=deploy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := config.ConfigFileName
			if toml {
				name = config.TOMLFileName
			}
			path := filepath.Join(dir, name)

			if _, err := os.Stat(path); err == nil && !force {
				warn("%s already exists (use --force to overwrite)", path)
				return nil
			}
			if err := config.New().SaveTo(path); err != nil {
				return err
			}
			success("wrote %s", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory to write the file to")
	cmd.Flags().BoolVar(&toml, "toml", false, "Write TOML instead of JSON")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}
