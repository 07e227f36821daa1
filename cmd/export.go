package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/proforma/internal/report"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the floor schedule workbook",
	Long:  "Renders floors, allocations and totals to an xlsx workbook and writes it to the configured export directory or S3 bucket.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		sink, err := initSink(ctx)
		if err != nil {
			return err
		}
		env, err := initProject(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		loc, err := report.Export(ctx, env.Project, sink, time.Now())
		if err != nil {
			return err
		}
		zap.L().Info("export complete", zap.String("location", loc))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
