package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Manage floor plate templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initProject(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		formatTemplates(os.Stdout, env.Project.Templates.List())
		return nil
	},
}

var templatesImportCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Import a YAML template library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := initProject(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return eris.Wrapf(err, "open %s", args[0])
		}
		defer f.Close()

		res, err := env.Project.ImportTemplates(ctx, f)
		if err != nil {
			return err
		}
		zap.L().Info("templates imported",
			zap.Int("added", len(res.Added)),
			zap.Int("rejected", len(res.Rejected)),
		)
		return nil
	},
}

var templatesRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a template",
	Long:  "Removes a template. Floors that reference it keep the id and fall back to their custom square footage.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initProject(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		removed, _ := env.Project.RemoveTemplate(cmd.Context(), args[0])
		if !removed {
			return eris.Errorf("template %s not found", args[0])
		}
		return nil
	},
}

func init() {
	templatesCmd.AddCommand(templatesListCmd, templatesImportCmd, templatesRemoveCmd)
	rootCmd.AddCommand(templatesCmd)
}
