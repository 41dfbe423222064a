package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gumup/gumup/internal/app"
)

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Print the resolved file order without writing the bundle",
	Long: `Resolve the dependency order of every discovered unit and print the
file paths one per line, in concatenation order.

Example:
  gumup order | xargs cat > bundle.js`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close(context.Background()) }()

		files, err := a.Order(cmd.Context())
		if err != nil {
			return err
		}
		for _, file := range files {
			fmt.Fprintln(cmd.OutOrStdout(), file)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(orderCmd)
}
