package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	suggestFloors []string
	suggestCommit bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <unit-type-id> <target-count>",
	Short: "Spread a unit type's remaining target across floors",
	Long:  "Proposes counts for floors that do not yet hold the unit type. With --commit, each proposal is written when its floor has room and skipped otherwise.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := strconv.Atoi(args[1])
		if err != nil {
			return eris.Wrapf(err, "parse target count %q", args[1])
		}
		floors, err := parseInts(suggestFloors)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		env, err := initProject(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		p := env.Project
		if _, ok := p.UnitType(args[0]); !ok {
			return eris.Errorf("unit type %s not found", args[0])
		}
		suggestions := p.Suggest(args[0], target, floors)
		if len(suggestions) == 0 {
			zap.L().Info("nothing to suggest, target already met or no candidate floors")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "FLOOR\tCOUNT")
		for _, s := range suggestions {
			_, _ = fmt.Fprintf(w, "%d\t%d\n", s.FloorNumber, s.Count)
		}
		_ = w.Flush()

		if !suggestCommit {
			return nil
		}
		res, err := p.CommitSuggestions(ctx, args[0], suggestions)
		if err != nil {
			return err
		}
		zap.L().Info("suggestions committed",
			zap.Int("committed", len(res.Committed)),
			zap.Ints("skipped_floors", res.Skipped),
		)
		return nil
	},
}

func init() {
	suggestCmd.Flags().StringSliceVar(&suggestFloors, "floors", nil, "candidate floors (default: all)")
	suggestCmd.Flags().BoolVar(&suggestCommit, "commit", false, "write the suggestions that fit")
	rootCmd.AddCommand(suggestCmd)
}
