package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rushteam/scentkit/core"
	"github.com/rushteam/scentkit/logging"
	"github.com/rushteam/scentkit/store/sqlstore"
)

func newImportCmd(flags *rootFlags) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a fragrance catalog (CSV or JSON) into the sqlite database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			logger := logging.New(cfg.Log)

			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			var items []*core.Item
			switch strings.ToLower(filepath.Ext(file)) {
			case ".csv":
				items, err = sqlstore.ReadItemsCSV(f)
			default:
				items, err = sqlstore.ReadItemsJSON(f)
			}
			if err != nil {
				return err
			}

			db, err := sqlstore.Open(cmd.Context(), cfg.Storage.SQLiteDSN)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.SaveItems(cmd.Context(), items); err != nil {
				return err
			}
			logger.Info().Int("fragrances", len(items)).Str("file", file).Msg("catalog imported")
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d fragrances\n", len(items))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "catalog file (.csv or .json)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
