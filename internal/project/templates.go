package project

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/sells-group/proforma/internal/catalog"
	"github.com/sells-group/proforma/internal/model"
)

// AddTemplate validates and stores a template.
func (p *Project) AddTemplate(ctx context.Context, t model.FloorPlateTemplate) (model.FloorPlateTemplate, error) {
	added, err := p.Templates.Add(t)
	if err != nil {
		return model.FloorPlateTemplate{}, err
	}
	p.templatesChanged(ctx)
	return added, nil
}

// UpdateTemplate replaces a template's fields after validation.
func (p *Project) UpdateTemplate(ctx context.Context, id string, t model.FloorPlateTemplate) error {
	if err := p.Templates.Update(id, t); err != nil {
		return err
	}
	p.templatesChanged(ctx)
	return nil
}

// RemoveTemplate deletes a template. Floors referencing it are left alone and
// fall back to their custom area or zero; their numbers are returned so the
// caller can warn about them.
func (p *Project) RemoveTemplate(ctx context.Context, id string) (removed bool, referencedBy []int) {
	for _, f := range p.Floors.List() {
		if f.TemplateID == id {
			referencedBy = append(referencedBy, f.FloorNumber)
		}
	}
	if !p.Templates.Remove(id) {
		return false, nil
	}
	if len(referencedBy) > 0 {
		zap.L().Warn("project: removed template still referenced by floors",
			zap.String("template_id", id),
			zap.Ints("floors", referencedBy),
		)
	}
	p.templatesChanged(ctx)
	return true, referencedBy
}

// ImportTemplates adds every valid template from a YAML library.
func (p *Project) ImportTemplates(ctx context.Context, r io.Reader) (*catalog.ImportResult, error) {
	res, err := p.Templates.Import(r)
	if err != nil {
		return nil, err
	}
	if len(res.Added) > 0 {
		p.templatesChanged(ctx)
	}
	return res, nil
}
