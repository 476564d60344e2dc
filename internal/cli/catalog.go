package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newCatalogCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the chords of the active catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := v.GetString("output_format")
			if err := checkFormat(format); err != nil {
				return err
			}

			catalog, err := loadCatalog(v)
			if err != nil {
				return err
			}
			return writeCatalog(cmd.OutOrStdout(), format, catalog.Signatures())
		},
	}
}
