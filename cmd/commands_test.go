package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/proforma/internal/project"
	"github.com/sells-group/proforma/internal/store"
)

// run executes the root command with args against the environment set up by
// useTempStore.
func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func useTempStore(t *testing.T) (dbPath, exportDir string) {
	t.Helper()
	dir := t.TempDir()
	dbPath = filepath.Join(dir, "proforma.db")
	exportDir = filepath.Join(dir, "exports")
	t.Setenv("PROFORMA_STORE_DRIVER", "sqlite")
	t.Setenv("PROFORMA_STORE_DATABASE_URL", dbPath)
	t.Setenv("PROFORMA_EXPORT_DRIVER", "fs")
	t.Setenv("PROFORMA_EXPORT_DIR", exportDir)
	t.Setenv("PROFORMA_LOG_LEVEL", "error")
	return dbPath, exportDir
}

func loadProject(t *testing.T, dbPath string) *project.Project {
	t.Helper()
	kv, err := store.NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	p, err := project.Open(context.Background(), project.Options{KV: kv})
	require.NoError(t, err)
	return p
}

func TestCommands_EndToEnd(t *testing.T) {
	dbPath, exportDir := useTempStore(t)

	lib := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(lib, []byte(`templates:
  - id: tower
    name: Tower
    gross_area: 10000
    floor_to_floor_height: 10.5
    efficiency_factor: 85
    core_percentage: 12
    primary_use: residential
`), 0o644))

	require.NoError(t, run(t, "migrate"))
	require.NoError(t, run(t, "templates", "import", lib))
	require.NoError(t, run(t, "floors", "add", "--count", "3", "--template", "tower"))
	require.NoError(t, run(t, "units", "add-category", "Residential", "--color", "#3b82f6"))
	require.NoError(t, run(t, "floors", "list"))

	p := loadProject(t, dbPath)
	assert.Equal(t, []int{1, 2, 3}, p.Floors.Numbers())
	assert.InDelta(t, 30000, p.Totals().GrossArea, 0.001)
	_, ok := p.Units.Category("residential")
	assert.True(t, ok)

	require.NoError(t, run(t, "units", "add", "--name", "2BR", "--size", "1000", "--count", "12"))
	p = loadProject(t, dbPath)
	uts := p.Units.UnitTypes()
	require.Len(t, uts, 1)
	utID := uts[0].ID
	assert.Equal(t, "2BR", uts[0].Name)
	assert.InDelta(t, 1000, uts[0].TypicalSize, 0.001)

	require.NoError(t, run(t, "allocate", utID, "1", "8"))
	// Floor 1 has 2000 sf left, so 5 more units need --force.
	require.Error(t, run(t, "allocate", utID, "1", "5"))
	require.NoError(t, run(t, "suggest", utID, "12", "--commit"))

	p = loadProject(t, dbPath)
	st := p.Ledger.Stats(utID)
	assert.Equal(t, 12, st.TotalAllocated)
	assert.Equal(t, []int{1, 2, 3}, st.Floors)

	require.NoError(t, run(t, "floors", "move", "1", "up"))
	require.NoError(t, run(t, "floors", "remove", "3"))
	require.NoError(t, run(t, "export"))

	p = loadProject(t, dbPath)
	assert.Equal(t, []int{1, 2}, p.Floors.Numbers())
	// The 8-unit allocation moved with floor 1 to floor 2.
	a, ok := p.Ledger.Find(utID, 2)
	require.True(t, ok)
	assert.Equal(t, 8, a.Count)

	entries, err := os.ReadDir(exportDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "floor-schedule-")
}

func TestCommands_Errors(t *testing.T) {
	useTempStore(t)

	assert.Error(t, run(t, "floors", "move", "x", "up"))
	assert.Error(t, run(t, "units", "add"))
	assert.Error(t, run(t, "units", "remove", "missing"))
	assert.Error(t, run(t, "templates", "remove", "missing"))
	assert.Error(t, run(t, "suggest", "missing", "3"))
}

func TestCommands_UnknownDriver(t *testing.T) {
	useTempStore(t)
	t.Setenv("PROFORMA_STORE_DRIVER", "mongo")

	err := run(t, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver")
}
