package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aellingwood/linkforge/internal/scaffold"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a starter link page project",
	Long:  "Init writes a default page configuration, a settings file and a static directory.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		format, _ := cmd.Flags().GetString("format")

		created, err := scaffold.Init(dir, format)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Created %s\n", filepath.Join(dir, created.Config))
		if created.Settings != "" {
			fmt.Fprintf(out, "Created %s\n", filepath.Join(dir, created.Settings))
		}
		fmt.Fprintf(out, "Created %s/\n", filepath.Join(dir, created.Static))
		return nil
	},
}

func init() {
	initCmd.Flags().String("format", "json", "configuration format: json, yaml or toml")

	rootCmd.AddCommand(initCmd)
}
