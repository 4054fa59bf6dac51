package scanner

import (
	"context"
	"os"
	"testing"

	"github.com/fenilsonani/dupescan/internal/config"
	"github.com/fenilsonani/dupescan/internal/filter"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// failOpenFs fails Open for selected paths, leaving directory listing intact
type failOpenFs struct {
	afero.Fs
	fail map[string]error
}

func (f *failOpenFs) Open(name string) (afero.File, error) {
	if err, ok := f.fail[name]; ok {
		return nil, &os.PathError{Op: "open", Path: name, Err: err}
	}
	return f.Fs.Open(name)
}

func testConfig() *config.Config {
	cfg := config.GetDefault()
	cfg.ChunkSizeKB = 1
	return cfg
}

func scanFS(t *testing.T, fsys afero.Fs, root, pattern string) *Result {
	t.Helper()

	s := New(testConfig(), nil)
	s.SetFs(fsys)
	result, err := s.Scan(context.Background(), root, filter.Parse(pattern))
	require.NoError(t, err)
	return result
}

func scanDir(t *testing.T, cfg *config.Config, root, pattern string) *Result {
	t.Helper()

	if cfg == nil {
		cfg = testConfig()
	}
	result, err := New(cfg, nil).Scan(context.Background(), root, filter.Parse(pattern))
	require.NoError(t, err)
	return result
}

func warningsOfKind(ws []*Warning, kind WarningKind) []*Warning {
	var out []*Warning
	for _, w := range ws {
		if w.Kind == kind {
			out = append(out, w)
		}
	}
	return out
}
