package main

import (
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/proforma/internal/model"
	"github.com/sells-group/proforma/internal/project"
)

var (
	allocateForce  bool
	allocateStatus string
	allocateNotes  string
	allocateSize   float64
)

var allocateCmd = &cobra.Command{
	Use:   "allocate <unit-type-id> <floor> <count>",
	Short: "Place units on a floor",
	Long:  "Adds units of a type to a floor after checking the floor's remaining area. A shortfall is refused unless --force is given.",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		floorNum, err := strconv.Atoi(args[1])
		if err != nil {
			return eris.Wrapf(err, "parse floor number %q", args[1])
		}
		count, err := strconv.Atoi(args[2])
		if err != nil {
			return eris.Wrapf(err, "parse count %q", args[2])
		}

		env, err := initProject(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := env.Project.Allocate(cmd.Context(), project.AllocateRequest{
			UnitTypeID:    args[0],
			FloorNumber:   floorNum,
			Count:         count,
			SquareFootage: allocateSize,
			Status:        model.AllocationStatus(allocateStatus),
			Notes:         allocateNotes,
		}, allocateForce)
		if err != nil {
			return err
		}
		if !res.Committed {
			return eris.Errorf("floor %d has %s sf available, %s sf required (use --force to override)",
				floorNum, sf(res.Check.Available), sf(res.Check.Required))
		}
		if res.Forced {
			zap.L().Warn("allocation exceeds floor capacity",
				zap.Int("floor", floorNum),
				zap.Float64("available", res.Check.Available),
				zap.Float64("required", res.Check.Required),
			)
		}
		zap.L().Info("units allocated", zap.String("allocation_id", res.ID))
		return nil
	},
}

var allocationsCmd = &cobra.Command{
	Use:   "allocations",
	Short: "List unit allocations",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initProject(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		names := make(map[string]string)
		for _, ut := range env.Project.Units.UnitTypes() {
			names[ut.ID] = ut.Name
		}
		formatAllocations(os.Stdout, env.Project.Allocations(), names)
		return nil
	},
}

func init() {
	f := allocateCmd.Flags()
	f.BoolVar(&allocateForce, "force", false, "allocate even when the floor is short on area")
	f.StringVar(&allocateStatus, "status", string(model.AllocationPlanned), "planned, designed or constructed")
	f.StringVar(&allocateNotes, "notes", "", "free-form notes")
	f.Float64Var(&allocateSize, "size", 0, "per-unit square feet (default: the unit type's typical size)")
	rootCmd.AddCommand(allocateCmd, allocationsCmd)
}
