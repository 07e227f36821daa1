package project

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/proforma/internal/allocation"
	"github.com/sells-group/proforma/internal/floor"
	"github.com/sells-group/proforma/internal/model"
	"github.com/sells-group/proforma/internal/notify"
	"github.com/sells-group/proforma/internal/store"
	"github.com/sells-group/proforma/internal/suggest"
)

type eventLog struct {
	mu     sync.Mutex
	counts map[string]int
}

func watch(bus *notify.Bus) *eventLog {
	l := &eventLog{counts: make(map[string]int)}
	for _, name := range []string{
		notify.FloorsChanged, notify.TemplatesChanged, notify.UnitTypesChanged,
		notify.UnitCategoriesChanged, notify.UnitAllocationChanged,
	} {
		bus.Subscribe(name, func(e notify.Event) {
			l.mu.Lock()
			defer l.mu.Unlock()
			l.counts[e.Name]++
		})
	}
	return l
}

func (l *eventLog) count(name string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts[name]
}

// fixture builds a project with a 10,000 sf template, floors 1..3 on it and
// one residential unit type of 1,000 sf.
func fixture(t *testing.T) (*Project, store.KV, string) {
	t.Helper()
	ctx := context.Background()
	kv := store.NewMemory()
	p := New(Options{KV: kv})

	tpl, err := p.AddTemplate(ctx, model.FloorPlateTemplate{
		Name: "Tower", GrossArea: 10000, FloorToFloorHeight: 10.5,
		EfficiencyFactor: 85, CorePercentage: 12, PrimaryUse: model.UseResidential,
	})
	require.NoError(t, err)
	_, err = p.AddFloors(ctx, floor.AddFloorsRequest{Count: 3, Position: floor.PositionTop, TemplateID: tpl.ID})
	require.NoError(t, err)

	require.True(t, p.AddCategory(ctx, "Residential", "#3b82f6", "Apartments"))
	id := p.AddUnitType(ctx)
	require.NotEmpty(t, id)
	require.NoError(t, p.UpdateUnitType(ctx, id, "name", "2BR"))
	require.NoError(t, p.UpdateUnitType(ctx, id, "typicalSize", 1000))
	return p, kv, id
}

func TestAllocate_FitsAndMerges(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p, _, ut := fixture(t)

	res, err := p.Allocate(ctx, AllocateRequest{UnitTypeID: ut, FloorNumber: 1, Count: 4}, false)
	require.NoError(t, err)
	assert.True(t, res.Committed)
	assert.False(t, res.Forced)
	assert.Equal(t, 10000.0, res.Check.Available)
	assert.Equal(t, 4000.0, res.Check.Required)

	again, err := p.Allocate(ctx, AllocateRequest{UnitTypeID: ut, FloorNumber: 1, Count: 2}, false)
	require.NoError(t, err)
	assert.Equal(t, res.ID, again.ID)

	a, _ := p.Ledger.Get(res.ID)
	assert.Equal(t, 6, a.Count)
	assert.Equal(t, 1000.0, a.SquareFootage)
	assert.Equal(t, model.AllocationPlanned, a.Status)
}

func TestAllocate_ShortfallNeedsForce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p, _, ut := fixture(t)

	res, err := p.Allocate(ctx, AllocateRequest{UnitTypeID: ut, FloorNumber: 2, Count: 11}, false)
	require.NoError(t, err)
	assert.False(t, res.Committed)
	assert.False(t, res.Check.HasEnoughSpace)
	assert.Empty(t, p.Ledger.List())

	res, err = p.Allocate(ctx, AllocateRequest{UnitTypeID: ut, FloorNumber: 2, Count: 11}, true)
	require.NoError(t, err)
	assert.True(t, res.Committed)
	assert.True(t, res.Forced)
	assert.Len(t, p.Ledger.List(), 1)
}

func TestAllocate_UnknownFloorHasNoRoom(t *testing.T) {
	t.Parallel()
	p, _, ut := fixture(t)

	res, err := p.Allocate(context.Background(), AllocateRequest{UnitTypeID: ut, FloorNumber: 40, Count: 1}, false)
	require.NoError(t, err)
	assert.False(t, res.Committed)
	assert.Equal(t, 0.0, res.Check.Available)
}

func TestAllocate_Rejects(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p, _, ut := fixture(t)

	_, err := p.Allocate(ctx, AllocateRequest{UnitTypeID: "nope", FloorNumber: 1, Count: 1}, false)
	assert.Error(t, err)
	_, err = p.Allocate(ctx, AllocateRequest{UnitTypeID: ut, FloorNumber: 1, Count: 0}, false)
	assert.Error(t, err)
	_, err = p.Allocate(ctx, AllocateRequest{UnitTypeID: ut, FloorNumber: 1, Count: 1, Status: "demolished"}, false)
	assert.Error(t, err)
}

func TestResizeAllocation_ExcludesItself(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p, _, ut := fixture(t)
	res, err := p.Allocate(ctx, AllocateRequest{UnitTypeID: ut, FloorNumber: 1, Count: 8}, false)
	require.NoError(t, err)

	grown, err := p.ResizeAllocation(ctx, res.ID, 10, false)
	require.NoError(t, err)
	assert.True(t, grown.Committed)
	assert.Equal(t, 10000.0, grown.Check.Available)

	tooBig, err := p.ResizeAllocation(ctx, res.ID, 11, false)
	require.NoError(t, err)
	assert.False(t, tooBig.Committed)
	a, _ := p.Ledger.Get(res.ID)
	assert.Equal(t, 10, a.Count)

	_, err = p.ResizeAllocation(ctx, "missing", 1, false)
	assert.Error(t, err)
}

func TestResizeAllocation_RejectsNonPositive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p, _, ut := fixture(t)
	res, err := p.Allocate(ctx, AllocateRequest{UnitTypeID: ut, FloorNumber: 1, Count: 5}, false)
	require.NoError(t, err)

	for _, count := range []int{0, -20} {
		_, err := p.ResizeAllocation(ctx, res.ID, count, false)
		assert.ErrorIs(t, err, allocation.ErrInvalidCount)
		_, err = p.ResizeAllocation(ctx, res.ID, count, true)
		assert.ErrorIs(t, err, allocation.ErrInvalidCount)
	}

	a, _ := p.Ledger.Get(res.ID)
	assert.Equal(t, 5, a.Count)
	assert.Equal(t, 5000.0, p.Ledger.AllocatedAreaByFloor(1))
}

func TestAllocate_MergeChecksExistingSize(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p, _, ut := fixture(t)

	first, err := p.Allocate(ctx, AllocateRequest{UnitTypeID: ut, FloorNumber: 1, Count: 2, SquareFootage: 4000}, false)
	require.NoError(t, err)
	require.True(t, first.Committed)

	// Two more at the unit type's 1,000 sf would fit, but the merge adds them
	// at the existing 4,000 sf.
	res, err := p.Allocate(ctx, AllocateRequest{UnitTypeID: ut, FloorNumber: 1, Count: 2}, false)
	require.NoError(t, err)
	assert.False(t, res.Committed)
	assert.False(t, res.Check.HasEnoughSpace)
	assert.Equal(t, 2000.0, res.Check.Available)
	assert.Equal(t, 8000.0, res.Check.Required)

	a, _ := p.Ledger.Get(first.ID)
	assert.Equal(t, 2, a.Count)
	assert.LessOrEqual(t, p.Ledger.AllocatedAreaByFloor(1), p.FloorArea(1))

	forced, err := p.Allocate(ctx, AllocateRequest{UnitTypeID: ut, FloorNumber: 1, Count: 2}, true)
	require.NoError(t, err)
	assert.True(t, forced.Forced)
	assert.Equal(t, first.ID, forced.ID)
}

func TestCommitSuggestions_MergeChecksExistingSize(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p, _, ut := fixture(t)

	_, err := p.Allocate(ctx, AllocateRequest{UnitTypeID: ut, FloorNumber: 1, Count: 2, SquareFootage: 4000}, false)
	require.NoError(t, err)

	res, err := p.CommitSuggestions(ctx, ut, []suggest.Suggestion{{FloorNumber: 1, Count: 2}})
	require.NoError(t, err)
	assert.Empty(t, res.Committed)
	assert.Equal(t, []int{1}, res.Skipped)
	assert.Equal(t, 8000.0, p.Ledger.AllocatedAreaByFloor(1))
}

func TestUnitTypeEditDoesNotRewriteAllocations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p, _, ut := fixture(t)
	res, err := p.Allocate(ctx, AllocateRequest{UnitTypeID: ut, FloorNumber: 1, Count: 3}, false)
	require.NoError(t, err)

	require.NoError(t, p.UpdateUnitType(ctx, ut, "typicalSize", 1500))

	a, _ := p.Ledger.Get(res.ID)
	assert.Equal(t, 1000.0, a.SquareFootage)
	assert.Equal(t, 3000.0, p.Ledger.AllocatedAreaByFloor(1))
}

func TestSuggestAndCommit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p, _, ut := fixture(t)
	_, err := p.Allocate(ctx, AllocateRequest{UnitTypeID: ut, FloorNumber: 1, Count: 2}, false)
	require.NoError(t, err)

	got := p.Suggest(ut, 20, nil)
	assert.Equal(t, []suggest.Suggestion{{FloorNumber: 2, Count: 9}, {FloorNumber: 3, Count: 9}}, got)

	// Floor 3 fills up before commit.
	other := p.AddUnitType(ctx)
	require.NoError(t, p.UpdateUnitType(ctx, other, "typicalSize", 500))
	_, err = p.Allocate(ctx, AllocateRequest{UnitTypeID: other, FloorNumber: 3, Count: 4}, false)
	require.NoError(t, err)

	res, err := p.CommitSuggestions(ctx, ut, got)
	require.NoError(t, err)
	assert.Len(t, res.Committed, 1)
	assert.Equal(t, []int{3}, res.Skipped)

	_, ok := p.Ledger.Find(ut, 3)
	assert.False(t, ok, "skipped floors are not resized")
	a, ok := p.Ledger.Find(ut, 2)
	require.True(t, ok)
	assert.Equal(t, 9, a.Count)

	_, err = p.CommitSuggestions(ctx, "missing", got)
	assert.Error(t, err)
}

func TestRemoveFloors_CascadesAndPersists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p, kv, ut := fixture(t)
	_, err := p.Allocate(ctx, AllocateRequest{UnitTypeID: ut, FloorNumber: 2, Count: 2}, false)
	require.NoError(t, err)
	_, err = p.Allocate(ctx, AllocateRequest{UnitTypeID: ut, FloorNumber: 3, Count: 2}, false)
	require.NoError(t, err)

	assert.Equal(t, 1, p.RemoveFloors(ctx, []int{2}))
	assert.Empty(t, p.Ledger.ForFloor(2))
	assert.Len(t, p.Ledger.List(), 1)

	saved := store.Load(ctx, kv, "proforma:"+CollectionUnitAllocations, []model.UnitAllocation(nil))
	require.Len(t, saved, 1)
	assert.Equal(t, 3, saved[0].FloorNumber)
}

func TestReorderFloor_AllocationsFollow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p, _, ut := fixture(t)
	res, err := p.Allocate(ctx, AllocateRequest{UnitTypeID: ut, FloorNumber: 1, Count: 2}, false)
	require.NoError(t, err)

	moved, err := p.ReorderFloor(ctx, 1, floor.DirectionUp)
	require.NoError(t, err)
	assert.True(t, moved)
	a, _ := p.Ledger.Get(res.ID)
	assert.Equal(t, 2, a.FloorNumber)

	moved, err = p.ReorderFloor(ctx, 3, floor.DirectionUp)
	require.NoError(t, err)
	assert.False(t, moved)
}

func TestRemoveCategory_CascadesAndUndo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p, _, ut := fixture(t)
	_, err := p.Allocate(ctx, AllocateRequest{UnitTypeID: ut, FloorNumber: 1, Count: 2}, false)
	require.NoError(t, err)

	removed := p.RemoveCategory(ctx, "  RESIDENTIAL ")
	assert.Equal(t, []string{ut}, removed)
	assert.Empty(t, p.Units.UnitTypes())
	assert.Empty(t, p.Ledger.List())

	assert.True(t, p.UndoRemoveCategory(ctx))
	_, ok := p.Units.Get(ut)
	assert.True(t, ok)
	assert.Empty(t, p.Ledger.List(), "allocations are not restored")
	assert.False(t, p.UndoRemoveCategory(ctx))

	assert.Nil(t, p.RemoveCategory(ctx, "office"))
}

func TestRemoveUnitType_Cascades(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p, _, ut := fixture(t)
	_, err := p.Allocate(ctx, AllocateRequest{UnitTypeID: ut, FloorNumber: 1, Count: 2}, false)
	require.NoError(t, err)

	assert.True(t, p.RemoveUnitType(ctx, ut))
	assert.Empty(t, p.Ledger.List())
	assert.False(t, p.RemoveUnitType(ctx, ut))
}

func TestRemoveTemplate_ReportsReferences(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p, _, _ := fixture(t)
	tplID := p.Templates.List()[0].ID

	removed, refs := p.RemoveTemplate(ctx, tplID)
	assert.True(t, removed)
	assert.Equal(t, []int{1, 2, 3}, refs)
	assert.Equal(t, 0.0, p.FloorArea(1), "floors fall back to zero without a custom area")

	f, _ := p.Floors.Get(1)
	assert.Equal(t, tplID, f.TemplateID)

	removed, refs = p.RemoveTemplate(ctx, tplID)
	assert.False(t, removed)
	assert.Nil(t, refs)
}

func TestApplyTemplateDefaults(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p, _, _ := fixture(t)
	require.NoError(t, p.UpdateFloor(ctx, 1, floor.FieldCustomSquareFootage, "8000"))

	require.NoError(t, p.ApplyTemplateDefaults(ctx, 1))
	f, _ := p.Floors.Get(1)
	assert.Equal(t, model.Quantity(""), f.CustomSquareFootage)
	assert.Equal(t, model.Quantity("10.5"), f.FloorToFloorHeight)
	assert.Equal(t, model.Quantity("85"), f.EfficiencyFactor)
	assert.Equal(t, model.Quantity("12"), f.CorePercentage)
	assert.Equal(t, 8500.0, p.FloorSummaries()[0].NetArea)

	_, err := p.AddFloors(ctx, floor.AddFloorsRequest{Count: 1, Underground: true, Position: floor.PositionBottom})
	require.NoError(t, err)
	assert.ErrorIs(t, p.ApplyTemplateDefaults(ctx, -1), ErrNoTemplate)
	assert.ErrorIs(t, p.ApplyTemplateDefaults(ctx, 99), floor.ErrFloorNotFound)
}

func TestApplyTemplateDefaults_RejectedLeavesFloor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p, _, _ := fixture(t)
	require.NoError(t, p.UpdateFloor(ctx, 1, floor.FieldCustomSquareFootage, "8000"))
	f, _ := p.Floors.Get(1)

	// A persisted template can carry values the catalog would now reject.
	tpl, _ := p.Templates.Get(f.TemplateID)
	tpl.EfficiencyFactor = 150
	p.Templates.Replace([]model.FloorPlateTemplate{tpl})

	assert.ErrorIs(t, p.ApplyTemplateDefaults(ctx, 1), floor.ErrInvalidValue)
	after, _ := p.Floors.Get(1)
	assert.Equal(t, f, after)
}

func TestFloorSummaries_Memoized(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p, _, ut := fixture(t)

	first := p.FloorSummaries()
	second := p.FloorSummaries()
	require.Len(t, first, 3)
	assert.Same(t, &first[0], &second[0])

	_, err := p.Allocate(ctx, AllocateRequest{UnitTypeID: ut, FloorNumber: 1, Count: 3}, false)
	require.NoError(t, err)
	third := p.FloorSummaries()
	assert.NotSame(t, &first[0], &third[0])
	assert.Equal(t, 3000.0, third[0].Allocated)
	assert.Equal(t, 7000.0, third[0].Available)
	assert.Equal(t, 3, third[0].UnitCount)

	totals := p.Totals()
	assert.Equal(t, 30000.0, totals.GrossArea)
	assert.Equal(t, 3000.0, totals.Allocated)
}

func TestOpen_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p, kv, ut := fixture(t)
	_, err := p.Allocate(ctx, AllocateRequest{UnitTypeID: ut, FloorNumber: 2, Count: 5}, false)
	require.NoError(t, err)
	_, err = p.AddSpace(ctx, 2, model.SpaceDefinition{Name: "Lobby", SquareFootage: "900"})
	require.NoError(t, err)

	reopened, err := Open(ctx, Options{KV: kv})
	require.NoError(t, err)
	assert.Equal(t, p.Templates.List(), reopened.Templates.List())
	assert.Equal(t, p.Floors.List(), reopened.Floors.List())
	assert.Equal(t, p.Units.UnitTypes(), reopened.Units.UnitTypes())
	assert.Equal(t, p.Units.Categories(), reopened.Units.Categories())
	assert.Equal(t, p.Ledger.List(), reopened.Ledger.List())
	assert.Equal(t, p.FloorSummaries(), reopened.FloorSummaries())
}

func TestOpen_WithoutStore(t *testing.T) {
	t.Parallel()
	p, err := Open(context.Background(), Options{})
	require.NoError(t, err)
	assert.Empty(t, p.Floors.List())
}

func TestEvents(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	bus := notify.New(0)
	log := watch(bus)
	p := New(Options{Bus: bus})

	_, err := p.ImportTemplates(ctx, strings.NewReader(`
templates:
  - name: Podium
    gross_area: 20000
    floor_to_floor_height: 15
    efficiency_factor: 90
    primary_use: retail
`))
	require.NoError(t, err)
	assert.Equal(t, 1, log.count(notify.TemplatesChanged))

	require.True(t, p.AddCategory(ctx, "retail", "#f59e0b", ""))
	assert.False(t, p.AddCategory(ctx, "Retail", "#000", ""))
	assert.Equal(t, 1, log.count(notify.UnitCategoriesChanged))

	_, err = p.AddFloors(ctx, floor.AddFloorsRequest{Count: 2, Position: floor.PositionTop})
	require.NoError(t, err)
	require.NoError(t, p.BulkEditFloors(ctx, []int{42}, floor.FieldCorePercentage, 10))
	assert.Equal(t, 1, log.count(notify.FloorsChanged), "no-op bulk edit is silent")

	ut := p.AddUnitType(ctx)
	_, err = p.Allocate(ctx, AllocateRequest{UnitTypeID: ut, FloorNumber: 1, Count: 1, SquareFootage: 100}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, log.count(notify.UnitTypesChanged))
	assert.Equal(t, 1, log.count(notify.UnitAllocationChanged))
}
