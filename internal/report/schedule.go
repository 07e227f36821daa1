// Package report renders the building's floor schedule as an xlsx workbook
// and ships it to a sink.
package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/proforma/internal/model"
	"github.com/sells-group/proforma/internal/project"
)

// Sheet names in the exported workbook.
const (
	SheetFloors      = "Floors"
	SheetAllocations = "Allocations"
	SheetTotals      = "Totals"
)

// Source is the read side of a project the schedule needs.
type Source interface {
	FloorSummaries() []project.FloorSummary
	Totals() project.Totals
	Allocations() []model.UnitAllocation
	UnitType(id string) (model.UnitType, bool)
}

var floorHeader = []string{
	"Floor", "Underground", "Template", "Primary Use", "Secondary Use",
	"Gross SF", "Net SF", "Primary SF", "Secondary SF",
	"Space SF", "Rentable Space SF", "Allocated SF", "Available SF", "Units",
}

var allocationHeader = []string{
	"Floor", "Unit Type", "Category", "Count", "SF / Unit", "Total SF", "Status", "Notes",
}

// FloorSchedule builds the workbook.
func FloorSchedule(src Source) (*xlsx.File, error) {
	f := xlsx.NewFile()

	floors, err := f.AddSheet(SheetFloors)
	if err != nil {
		return nil, eris.Wrap(err, "report: add floors sheet")
	}
	writeHeader(floors, floorHeader)
	for _, s := range src.FloorSummaries() {
		row := floors.AddRow()
		row.AddCell().SetInt(s.FloorNumber)
		row.AddCell().SetString(yesNo(s.IsUnderground))
		row.AddCell().SetString(s.TemplateID)
		row.AddCell().SetString(string(s.PrimaryUse))
		row.AddCell().SetString(string(s.SecondaryUse))
		for _, v := range []float64{
			s.GrossArea, s.NetArea, s.Split.PrimaryArea, s.Split.SecondaryArea,
			s.Spaces.Defined, s.Spaces.Rentable, s.Allocated, s.Available,
		} {
			row.AddCell().SetFloat(v)
		}
		row.AddCell().SetInt(s.UnitCount)
	}

	allocs, err := f.AddSheet(SheetAllocations)
	if err != nil {
		return nil, eris.Wrap(err, "report: add allocations sheet")
	}
	writeHeader(allocs, allocationHeader)
	for _, a := range src.Allocations() {
		name, category := a.UnitTypeID, ""
		if ut, ok := src.UnitType(a.UnitTypeID); ok {
			if ut.Name != "" {
				name = ut.Name
			}
			category = ut.Category
		}
		row := allocs.AddRow()
		row.AddCell().SetInt(a.FloorNumber)
		row.AddCell().SetString(name)
		row.AddCell().SetString(category)
		row.AddCell().SetInt(a.Count)
		row.AddCell().SetFloat(a.SquareFootage)
		row.AddCell().SetFloat(a.Area())
		row.AddCell().SetString(string(a.Status))
		row.AddCell().SetString(a.Notes)
	}

	totals, err := f.AddSheet(SheetTotals)
	if err != nil {
		return nil, eris.Wrap(err, "report: add totals sheet")
	}
	t := src.Totals()
	for _, kv := range []struct {
		label string
		value float64
	}{
		{"Gross SF", t.GrossArea},
		{"Net SF", t.NetArea},
		{"Allocated SF", t.Allocated},
		{"Units", float64(t.UnitCount)},
		{"Target SF", t.TargetArea},
	} {
		row := totals.AddRow()
		row.AddCell().SetString(kv.label)
		row.AddCell().SetFloat(kv.value)
	}
	return f, nil
}

// Export renders the schedule and hands it to sink under a timestamped name.
func Export(ctx context.Context, src Source, sink Sink, now time.Time) (string, error) {
	f, err := FloorSchedule(src)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return "", eris.Wrap(err, "report: encode workbook")
	}

	name := fmt.Sprintf("floor-schedule-%s.xlsx", now.UTC().Format("20060102T150405Z"))
	loc, err := sink.Put(ctx, name, buf.Bytes())
	if err != nil {
		return "", err
	}
	zap.L().Info("report: exported floor schedule",
		zap.String("location", loc),
		zap.Int("bytes", buf.Len()),
	)
	return loc, nil
}

func writeHeader(sheet *xlsx.Sheet, cols []string) {
	row := sheet.AddRow()
	for _, c := range cols {
		row.AddCell().SetString(c)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
