package cmd

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/gumup/gumup/internal/app"
)

// unitDTO is the JSON shape printed by `gumup units`.
type unitDTO struct {
	Name    string   `json:"name"`
	File    string   `json:"file"`
	Require []string `json:"require,omitempty"`
}

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "List discovered units and their requirements as JSON",
	Long: `Scan the configured source directories (and manifest, if any) and print
every discovered unit with its raw requirements as a JSON array.

Examples:
  gumup units | jq '.[].name'
  gumup units | jq '.[] | select(.require != null)'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close(context.Background()) }()

		units, err := a.Units(cmd.Context())
		if err != nil {
			return err
		}

		dtos := make([]unitDTO, 0, len(units))
		for _, u := range units {
			dtos = append(dtos, unitDTO{
				Name:    u.Name,
				File:    u.FileName,
				Require: u.Dependencies,
			})
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(dtos)
	},
}

func init() {
	rootCmd.AddCommand(unitsCmd)
}
