package main

import (
	"github.com/spf13/cobra"

	"github.com/aellingwood/linkforge/internal/config"
	"github.com/aellingwood/linkforge/internal/scaffold"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration",
	Long: "Print the configuration after merging onto the defaults, repair and sanitizing. " +
		"With --raw the trusted document is printed before sanitizing.",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, nil)
		if err != nil {
			return err
		}
		res := e.open(cmd.Context()).Result()

		doc := res.Raw
		if raw, _ := cmd.Flags().GetBool("raw"); !raw {
			if doc, err = config.ToDocument(res.Config); err != nil {
				return err
			}
		}

		format, _ := cmd.Flags().GetString("format")
		data, err := scaffold.Encode(doc, format)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	configCmd.Flags().String("format", "json", "output format: json, yaml or toml")
	configCmd.Flags().Bool("raw", false, "print the trusted document before sanitizing")

	rootCmd.AddCommand(configCmd)
}
