package catalog

import (
	"io"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/proforma/internal/model"
)

type templateFile struct {
	Templates []model.FloorPlateTemplate `yaml:"templates"`
}

// ImportResult reports which templates of a library file were added.
type ImportResult struct {
	Added    []model.FloorPlateTemplate `json:"added"`
	Rejected map[string]error           `json:"-"`
}

// LoadYAML reads a template library file and adds each valid entry.
func (c *Catalog) LoadYAML(path string) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: open template library")
	}
	defer f.Close() //nolint:errcheck
	return c.Import(f)
}

// Import decodes a YAML template library from r. Invalid entries are skipped
// and reported by name; valid ones are added.
func (c *Catalog) Import(r io.Reader) (*ImportResult, error) {
	var file templateFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, eris.Wrap(err, "catalog: decode template library")
	}

	res := &ImportResult{Rejected: make(map[string]error)}
	for _, t := range file.Templates {
		added, err := c.Add(t)
		if err != nil {
			zap.L().Warn("catalog: skipping template",
				zap.String("name", t.Name),
				zap.Error(err),
			)
			res.Rejected[t.Name] = err
			continue
		}
		res.Added = append(res.Added, added)
	}
	return res, nil
}
