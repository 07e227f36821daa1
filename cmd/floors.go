package main

import (
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/proforma/internal/floor"
	"github.com/sells-group/proforma/internal/model"
)

var (
	floorsAddCount       int
	floorsAddUnderground bool
	floorsAddTemplate    string
	floorsAddPosition    string
	floorsAddAt          int
	floorsAddNumbers     []string
	floorsAddUse         string
)

var floorsCmd = &cobra.Command{
	Use:   "floors",
	Short: "Manage the building's floors",
}

var floorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show each floor's capacity and allocations",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initProject(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		p := env.Project
		if len(p.Floors.List()) == 0 {
			zap.L().Info("no floors defined, run 'floors add' to create some")
			return nil
		}
		formatSummaries(os.Stdout, p.FloorSummaries(), p.Totals())
		return nil
	},
}

var floorsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a block of floors",
	Long:  "Adds floors above or below ground. Sequential numbering continues from the existing floors at --position; --numbers assigns explicit floor numbers instead.",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := floor.AddFloorsRequest{
			Count:            floorsAddCount,
			Underground:      floorsAddUnderground,
			TemplateID:       floorsAddTemplate,
			Position:         floor.Position(floorsAddPosition),
			SpecificPosition: floorsAddAt,
			Numbering:        floor.NumberingSequential,
			PrimaryUse:       model.Use(floorsAddUse),
		}
		if len(floorsAddNumbers) > 0 {
			nums, err := parseInts(floorsAddNumbers)
			if err != nil {
				return err
			}
			req.Numbering = floor.NumberingCustom
			req.CustomNumbers = nums
			if req.Count == 0 {
				req.Count = len(nums)
			}
		}
		if cmd.Flags().Changed("at") {
			req.Position = floor.PositionSpecific
		}

		env, err := initProject(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		nums, err := env.Project.AddFloors(cmd.Context(), req)
		if err != nil {
			return eris.Wrap(err, "add floors")
		}
		zap.L().Info("floors added", zap.Ints("floors", nums))
		return nil
	},
}

var floorsSetCmd = &cobra.Command{
	Use:   "set <floor>[,<floor>...] <field> <value>",
	Short: "Set one field on one or more floors",
	Long:  "Fields: templateId, customSquareFootage, floorToFloorHeight, efficiencyFactor, corePercentage, primaryUse, secondaryUse, secondaryUsePercentage.",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		nums, err := parseInts(args[:1])
		if err != nil {
			return err
		}

		env, err := initProject(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		if len(nums) == 1 {
			return env.Project.UpdateFloor(cmd.Context(), nums[0], args[1], args[2])
		}
		return env.Project.BulkEditFloors(cmd.Context(), nums, args[1], args[2])
	},
}

var floorsApplyTemplateCmd = &cobra.Command{
	Use:   "apply-template <floor>",
	Short: "Copy the floor's template defaults onto it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return eris.Wrapf(err, "parse floor number %q", args[0])
		}
		env, err := initProject(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		return env.Project.ApplyTemplateDefaults(cmd.Context(), n)
	},
}

var floorsCopyCmd = &cobra.Command{
	Use:   "copy <source> <target>...",
	Short: "Copy a floor's settings and spaces onto other floors",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		nums, err := parseInts(args)
		if err != nil {
			return err
		}
		env, err := initProject(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		return env.Project.CopyFloor(cmd.Context(), nums[0], nums[1:])
	},
}

var floorsRemoveCmd = &cobra.Command{
	Use:   "remove <floor>...",
	Short: "Remove floors and their allocations",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nums, err := parseInts(args)
		if err != nil {
			return err
		}
		env, err := initProject(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		removed := env.Project.RemoveFloors(cmd.Context(), nums)
		zap.L().Info("floors removed", zap.Int("count", removed))
		return nil
	},
}

var floorsMoveCmd = &cobra.Command{
	Use:       "move <floor> up|down",
	Short:     "Swap a floor with its neighbour",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{string(floor.DirectionUp), string(floor.DirectionDown)},
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return eris.Wrapf(err, "parse floor number %q", args[0])
		}
		env, err := initProject(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		moved, err := env.Project.ReorderFloor(cmd.Context(), n, floor.Direction(args[1]))
		if err != nil {
			return err
		}
		if !moved {
			zap.L().Info("floor is already at the edge", zap.Int("floor", n))
		}
		return nil
	},
}

func init() {
	f := floorsAddCmd.Flags()
	f.IntVar(&floorsAddCount, "count", 1, "number of floors to add")
	f.BoolVar(&floorsAddUnderground, "underground", false, "add below-grade floors")
	f.StringVar(&floorsAddTemplate, "template", "", "template id for the new floors")
	f.StringVar(&floorsAddPosition, "position", string(floor.PositionTop), "top or bottom")
	f.IntVar(&floorsAddAt, "at", 0, "first floor number of the block")
	f.StringSliceVar(&floorsAddNumbers, "numbers", nil, "explicit floor numbers")
	f.StringVar(&floorsAddUse, "use", "", "primary use when no template is given")

	floorsCmd.AddCommand(floorsListCmd, floorsAddCmd, floorsSetCmd, floorsApplyTemplateCmd,
		floorsCopyCmd, floorsRemoveCmd, floorsMoveCmd)
	rootCmd.AddCommand(floorsCmd)
}
