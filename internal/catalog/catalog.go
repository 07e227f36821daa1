// Package catalog owns the floor plate templates floors can reference.
package catalog

import (
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/proforma/internal/model"
)

var (
	// ErrNotFound is returned when a template id is unknown.
	ErrNotFound = eris.New("catalog: template not found")
	// ErrDuplicateID is returned when adding a template whose id already exists.
	ErrDuplicateID = eris.New("catalog: duplicate template id")
)

// Catalog is an ordered collection of floor plate templates.
type Catalog struct {
	templates []model.FloorPlateTemplate
	version   uint64
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{}
}

// Add validates and appends a template, generating an id when blank.
// Nothing is stored when validation fails.
func (c *Catalog) Add(t model.FloorPlateTemplate) (model.FloorPlateTemplate, error) {
	if err := Validate(t); err != nil {
		return model.FloorPlateTemplate{}, err
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if c.index(t.ID) >= 0 {
		return model.FloorPlateTemplate{}, eris.Wrapf(ErrDuplicateID, "id %s", t.ID)
	}
	c.templates = append(c.templates, t)
	c.version++
	return t, nil
}

// Update validates and replaces the template with the given id. The id in t is
// ignored.
func (c *Catalog) Update(id string, t model.FloorPlateTemplate) error {
	i := c.index(id)
	if i < 0 {
		return eris.Wrapf(ErrNotFound, "id %s", id)
	}
	if err := Validate(t); err != nil {
		return err
	}
	t.ID = id
	c.templates[i] = t
	c.version++
	return nil
}

// Remove deletes a template. Floors referencing it are left alone and resolve
// to their custom area or zero; the caller decides whether to warn.
func (c *Catalog) Remove(id string) bool {
	i := c.index(id)
	if i < 0 {
		zap.L().Debug("catalog: remove unknown template", zap.String("template_id", id))
		return false
	}
	c.templates = append(c.templates[:i], c.templates[i+1:]...)
	c.version++
	return true
}

// Get returns the template with the given id.
func (c *Catalog) Get(id string) (model.FloorPlateTemplate, bool) {
	i := c.index(id)
	if i < 0 {
		return model.FloorPlateTemplate{}, false
	}
	return c.templates[i], true
}

// List returns a copy of all templates in insertion order.
func (c *Catalog) List() []model.FloorPlateTemplate {
	out := make([]model.FloorPlateTemplate, len(c.templates))
	copy(out, c.templates)
	return out
}

// Replace swaps in a previously persisted collection without validation.
func (c *Catalog) Replace(templates []model.FloorPlateTemplate) {
	c.templates = make([]model.FloorPlateTemplate, len(templates))
	copy(c.templates, templates)
	c.version++
}

// Version increments on every mutation.
func (c *Catalog) Version() uint64 {
	return c.version
}

func (c *Catalog) index(id string) int {
	for i, t := range c.templates {
		if t.ID == id {
			return i
		}
	}
	return -1
}
