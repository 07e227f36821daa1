package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/proforma/internal/unittype"
)

var (
	unitsCategoryColor string
	unitsCategoryDesc  string

	unitsAddName     string
	unitsAddCategory string
	unitsAddSize     float64
	unitsAddCount    int
)

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "Manage unit categories and unit types",
}

var unitsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List unit types with their allocation totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initProject(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		p := env.Project
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tSIZE\tTARGET\tALLOCATED\tFLOORS")
		_, _ = fmt.Fprintln(w, "--\t----\t--------\t----\t------\t---------\t------")
		for _, ut := range p.Units.UnitTypes() {
			st := p.Ledger.Stats(ut.ID)
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%v\n",
				ut.ID, ut.Name, ut.Category, sf(ut.TypicalSize), ut.Count, st.TotalAllocated, st.Floors)
		}
		return w.Flush()
	},
}

var unitsAddCategoryCmd = &cobra.Command{
	Use:   "add-category <name>",
	Short: "Add a unit category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initProject(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		if !env.Project.AddCategory(cmd.Context(), args[0], unitsCategoryColor, unitsCategoryDesc) {
			return eris.Errorf("category %q already exists or is blank", args[0])
		}
		return nil
	},
}

var unitsRemoveCategoryCmd = &cobra.Command{
	Use:   "remove-category <name>",
	Short: "Remove a category with its unit types and their allocations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initProject(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		if _, ok := env.Project.Units.Category(args[0]); !ok {
			return eris.Wrapf(unittype.ErrUnknownCategory, "%q", args[0])
		}
		removed := env.Project.RemoveCategory(cmd.Context(), args[0])
		zap.L().Info("category removed", zap.Strings("unit_types", removed))
		return nil
	},
}

var unitsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a unit type",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := initProject(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		p := env.Project
		id := p.AddUnitType(ctx)
		if id == "" {
			return eris.New("add a category first")
		}
		updates := []struct {
			field string
			value any
			set   bool
		}{
			{unittype.FieldName, unitsAddName, unitsAddName != ""},
			{unittype.FieldCategory, unitsAddCategory, unitsAddCategory != ""},
			{unittype.FieldTypicalSize, unitsAddSize, unitsAddSize > 0},
			{unittype.FieldCount, unitsAddCount, unitsAddCount > 0},
		}
		for _, u := range updates {
			if !u.set {
				continue
			}
			if err := p.UpdateUnitType(ctx, id, u.field, u.value); err != nil {
				return err
			}
		}
		fmt.Println(id)
		return nil
	},
}

var unitsSetCmd = &cobra.Command{
	Use:   "set <id> <field> <value>",
	Short: "Set one field of a unit type",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initProject(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		return env.Project.UpdateUnitType(cmd.Context(), args[0], args[1], args[2])
	},
}

var unitsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a unit type and its allocations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initProject(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		if !env.Project.RemoveUnitType(cmd.Context(), args[0]) {
			return eris.Wrapf(unittype.ErrNotFound, "id %s", args[0])
		}
		return nil
	},
}

func init() {
	unitsAddCategoryCmd.Flags().StringVar(&unitsCategoryColor, "color", "", "display color")
	unitsAddCategoryCmd.Flags().StringVar(&unitsCategoryDesc, "description", "", "description")

	f := unitsAddCmd.Flags()
	f.StringVar(&unitsAddName, "name", "", "unit type name")
	f.StringVar(&unitsAddCategory, "category", "", "category (default: first category)")
	f.Float64Var(&unitsAddSize, "size", 0, "typical size in square feet")
	f.IntVar(&unitsAddCount, "count", 0, "planning target count")

	unitsCmd.AddCommand(unitsListCmd, unitsAddCategoryCmd, unitsRemoveCategoryCmd,
		unitsAddCmd, unitsSetCmd, unitsRemoveCmd)
	rootCmd.AddCommand(unitsCmd)
}
