// Package project hosts the engine's repositories for one building: it runs
// the cross-repository cascades, persists each collection after a committed
// mutation and publishes change events.
//
// A Project is not safe for concurrent use; hosts serialize access.
package project

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/proforma/internal/allocation"
	"github.com/sells-group/proforma/internal/capacity"
	"github.com/sells-group/proforma/internal/catalog"
	"github.com/sells-group/proforma/internal/floor"
	"github.com/sells-group/proforma/internal/model"
	"github.com/sells-group/proforma/internal/notify"
	"github.com/sells-group/proforma/internal/store"
	"github.com/sells-group/proforma/internal/unittype"
)

// Collection names, joined to the key prefix to form storage keys.
const (
	CollectionTemplates       = "floorTemplates"
	CollectionFloors          = "floorConfigurations"
	CollectionUnitTypes       = "unitTypes"
	CollectionUnitCategories  = "unitCategories"
	CollectionUnitAllocations = "unitAllocations"
)

// DefaultKeyPrefix namespaces storage keys when none is configured.
const DefaultKeyPrefix = "proforma"

// Options wires a Project to its collaborators. Both KV and Bus are optional.
type Options struct {
	KV        store.KV
	KeyPrefix string
	Bus       *notify.Bus
}

// Project owns the repositories of one building.
type Project struct {
	Templates *catalog.Catalog
	Units     *unittype.Registry
	Ledger    *allocation.Ledger
	Floors    *floor.Store

	kv     store.KV
	prefix string
	bus    *notify.Bus

	summaries capacity.Memo[versions, []FloorSummary]
}

// versions fingerprints the collections a floor summary depends on.
type versions struct {
	floors, templates, ledger uint64
}

// New returns an empty project.
func New(opts Options) *Project {
	p := &Project{
		Templates: catalog.New(),
		Units:     unittype.New(),
		Ledger:    allocation.New(),
		kv:        opts.KV,
		prefix:    opts.KeyPrefix,
		bus:       opts.Bus,
	}
	if p.prefix == "" {
		p.prefix = DefaultKeyPrefix
	}
	p.Floors = floor.New(p.Templates, p.Ledger)
	return p
}

// Open returns a project populated from opts.KV. Collections load
// concurrently; a missing or unreadable collection starts empty.
func Open(ctx context.Context, opts Options) (*Project, error) {
	p := New(opts)
	if p.kv == nil {
		return p, nil
	}

	var (
		templates   []model.FloorPlateTemplate
		floors      []model.FloorConfiguration
		unitTypes   []model.UnitType
		categories  []model.Category
		allocations []model.UnitAllocation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		templates = store.Load(gctx, p.kv, p.key(CollectionTemplates), templates)
		return gctx.Err()
	})
	g.Go(func() error {
		floors = store.Load(gctx, p.kv, p.key(CollectionFloors), floors)
		return gctx.Err()
	})
	g.Go(func() error {
		unitTypes = store.Load(gctx, p.kv, p.key(CollectionUnitTypes), unitTypes)
		return gctx.Err()
	})
	g.Go(func() error {
		categories = store.Load(gctx, p.kv, p.key(CollectionUnitCategories), categories)
		return gctx.Err()
	})
	g.Go(func() error {
		allocations = store.Load(gctx, p.kv, p.key(CollectionUnitAllocations), allocations)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.Templates.Replace(templates)
	p.Floors.Replace(floors)
	p.Units.Replace(categories, unitTypes)
	p.Ledger.Replace(allocations)

	zap.L().Info("project: loaded",
		zap.Int("templates", len(templates)),
		zap.Int("floors", len(floors)),
		zap.Int("unit_types", len(unitTypes)),
		zap.Int("categories", len(categories)),
		zap.Int("allocations", len(allocations)),
	)
	return p, nil
}

func (p *Project) key(collection string) string {
	return store.Key(p.prefix, collection)
}

// The commit helpers persist one collection and announce it. Save errors are
// logged inside store.Save and never reach the caller.

func (p *Project) templatesChanged(ctx context.Context) {
	list := p.Templates.List()
	p.save(ctx, CollectionTemplates, list)
	p.publish(notify.TemplatesChanged, list)
}

func (p *Project) floorsChanged(ctx context.Context) {
	list := p.Floors.List()
	p.save(ctx, CollectionFloors, list)
	p.publish(notify.FloorsChanged, list)
}

func (p *Project) unitTypesChanged(ctx context.Context) {
	list := p.Units.UnitTypes()
	p.save(ctx, CollectionUnitTypes, list)
	p.publish(notify.UnitTypesChanged, list)
}

func (p *Project) categoriesChanged(ctx context.Context) {
	list := p.Units.Categories()
	p.save(ctx, CollectionUnitCategories, list)
	p.publish(notify.UnitCategoriesChanged, list)
}

func (p *Project) allocationsChanged(ctx context.Context) {
	list := p.Ledger.List()
	p.save(ctx, CollectionUnitAllocations, list)
	p.publish(notify.UnitAllocationChanged, list)
}

func (p *Project) save(ctx context.Context, collection string, v any) {
	if p.kv == nil {
		return
	}
	_ = store.Save(ctx, p.kv, p.key(collection), v)
}

func (p *Project) publish(event string, payload any) {
	if p.bus != nil {
		p.bus.Publish(event, payload)
	}
}
