package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"

	"github.com/sells-group/proforma/internal/model"
	"github.com/sells-group/proforma/internal/project"
)

// formatSummaries writes one row per floor, then the building totals.
func formatSummaries(out io.Writer, rows []project.FloorSummary, totals project.Totals) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "FLOOR\tUSE\tTEMPLATE\tGROSS\tNET\tALLOCATED\tAVAILABLE\tUNITS")
	_, _ = fmt.Fprintln(w, "-----\t---\t--------\t-----\t---\t---------\t---------\t-----")
	for _, s := range rows {
		use := string(s.PrimaryUse)
		if s.SecondaryUse != "" {
			use += "/" + string(s.SecondaryUse)
		}
		tpl := s.TemplateID
		if tpl == "" {
			tpl = "-"
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			s.FloorNumber, use, truncate(tpl, 12),
			sf(s.GrossArea), sf(s.NetArea), sf(s.Allocated), sf(s.Available), s.UnitCount,
		)
	}
	_, _ = fmt.Fprintf(w, "TOTAL\t\t\t%s\t%s\t%s\t\t%d\n",
		sf(totals.GrossArea), sf(totals.NetArea), sf(totals.Allocated), totals.UnitCount)
	_ = w.Flush()
}

func formatTemplates(out io.Writer, templates []model.FloorPlateTemplate) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tGROSS\tHEIGHT\tEFFICIENCY\tCORE\tUSE")
	_, _ = fmt.Fprintln(w, "--\t----\t-----\t------\t----------\t----\t---")
	for _, t := range templates {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%g%%\t%g%%\t%s\n",
			t.ID, t.Name, sf(t.GrossArea), t.FloorToFloorHeight, t.EfficiencyFactor, t.CorePercentage, t.PrimaryUse)
	}
	_ = w.Flush()
}

func formatAllocations(out io.Writer, allocs []model.UnitAllocation, names map[string]string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tFLOOR\tUNIT TYPE\tCOUNT\tSF/UNIT\tTOTAL\tSTATUS")
	_, _ = fmt.Fprintln(w, "--\t-----\t---------\t-----\t-------\t-----\t------")
	for _, a := range allocs {
		name := names[a.UnitTypeID]
		if name == "" {
			name = a.UnitTypeID
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%s\t%s\t%s\n",
			a.ID, a.FloorNumber, name, a.Count, sf(a.SquareFootage), sf(a.Area()), a.Status)
	}
	_ = w.Flush()
}

func sf(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// parseInts reads floor numbers from args or a comma separated flag value.
func parseInts(parts []string) ([]int, error) {
	var out []int
	for _, p := range parts {
		for _, f := range strings.Split(p, ",") {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			n, err := strconv.Atoi(f)
			if err != nil {
				return nil, eris.Wrapf(err, "parse floor number %q", f)
			}
			out = append(out, n)
		}
	}
	return out, nil
}
