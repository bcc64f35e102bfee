package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"MVPScreener/internal/config"
	"MVPScreener/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed [csv_file]",
	Short: "Load symbol,date,price,volume rows into the SQLite price store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cfg.Database.Driver != config.DriverSQLite || cfg.Database.URL == "" {
			return fmt.Errorf("seed requires database.driver %q with a database.url", config.DriverSQLite)
		}

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		obs, err := store.ReadCSV(f)
		if err != nil {
			return err
		}

		if err := ensureDir(cfg.Database.URL); err != nil {
			return err
		}
		st, err := store.NewSQLiteStore(cfg.Database.URL, cfg.Database.Table)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.SaveObservations(cmd.Context(), obs); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "loaded %d rows into %s\n", len(obs), cfg.Database.URL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
