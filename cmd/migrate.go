package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/proforma/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the store's tables",
	Long:  "Creates the key/value table for the configured sqlite or postgres store. Other commands run this on open; use it to provision ahead of time.",
	RunE: func(cmd *cobra.Command, args []string) error {
		kv, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer kv.Close()

		keys, err := kv.Keys(cmd.Context(), store.Key(cfg.Store.KeyPrefix, ""))
		if err != nil {
			return err
		}
		zap.L().Info("store migrated",
			zap.String("driver", cfg.Store.Driver),
			zap.Int("collections", len(keys)),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
