package scanner

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/fenilsonani/dupescan/internal/filter"
	"github.com/fenilsonani/dupescan/internal/progress"
	"github.com/fenilsonani/dupescan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Scenarios
// =============================================================================

func TestScanHelloWorld(t *testing.T) {
	f := testutil.NewFixture(t)
	x := f.CreateTextFile("a/x.txt", "hello")
	y := f.CreateTextFile("b/y.txt", "hello")
	z := f.CreateTextFile("c/z.txt", "world")

	result := scanDir(t, nil, f.RootDir, "")

	require.Len(t, result.Groups, 1)
	assert.Equal(t, []string{x, y}, result.Groups[0].Paths)
	assert.Equal(t, int64(5), result.Groups[0].Size)
	for _, g := range result.Groups {
		assert.NotContains(t, g.Paths, z)
	}
	assert.Empty(t, result.Warnings)
}

func TestScanSameSizeDistinctContent(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateRandomFile("one.bin", 100)
	f.CreateRandomFile("two.bin", 100)
	f.CreateRandomFile("three.bin", 100)

	s := New(testConfig(), nil)
	result, err := s.Scan(context.Background(), f.RootDir, filter.All())
	require.NoError(t, err)

	assert.Empty(t, result.Groups)
	assert.Equal(t, 3, result.Stats.Candidates)
	assert.Equal(t, 3, s.HashCount())
}

func TestScanEmptyRoot(t *testing.T) {
	f := testutil.NewFixture(t)

	result := scanDir(t, nil, f.RootDir, "")

	assert.Empty(t, result.Groups)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, 0, result.Stats.FilesSeen)
	assert.False(t, result.HasDuplicates())
}

func TestScanUnreadableSubdirectory(t *testing.T) {
	testutil.SkipIfRoot(t)
	testutil.SkipOnWindows(t)

	f := testutil.NewFixture(t)
	x := f.CreateTextFile("a/x.txt", "hello")
	y := f.CreateTextFile("b/y.txt", "hello")
	locked := f.CreateUnreadableDir("locked", []byte("hello"))

	result := scanDir(t, nil, f.RootDir, "")

	require.Len(t, result.Groups, 1)
	assert.Equal(t, []string{x, y}, result.Groups[0].Paths)

	traversal := warningsOfKind(result.Warnings, WarnTraversal)
	require.Len(t, traversal, 1)
	assert.Equal(t, locked, traversal[0].Path)
	assert.Equal(t, ReasonPermissionDenied, traversal[0].Reason)
}

func TestScanUnreadableFile(t *testing.T) {
	testutil.SkipIfRoot(t)
	testutil.SkipOnWindows(t)

	f := testutil.NewFixture(t)
	a := f.CreateTextFile("a.txt", "same")
	b := f.CreateTextFile("b.txt", "same")
	f.CreateNoPermissionFile("c.txt", []byte("same"))

	result := scanDir(t, nil, f.RootDir, "")

	require.Len(t, result.Groups, 1)
	assert.Equal(t, []string{a, b}, result.Groups[0].Paths)

	reads := warningsOfKind(result.Warnings, WarnFileRead)
	require.Len(t, reads, 1)
	assert.Equal(t, ReasonPermissionDenied, reads[0].Reason)
}

// =============================================================================
// Properties
// =============================================================================

func TestScanGroupsIdenticalContentRegardlessOfName(t *testing.T) {
	content := testutil.RandomBytes(4096)
	f := testutil.NewFixture(t)
	paths := f.CreateCopies(content, "photo.jpg", "backup/IMG_0001.JPG", "deep/nested/dir/copy")

	result := scanDir(t, nil, f.RootDir, "")

	require.Len(t, result.Groups, 1)
	assert.ElementsMatch(t, paths, result.Groups[0].Paths)
	assert.Equal(t, int64(2*4096), result.Groups[0].WastedBytes())
	assert.Equal(t, int64(2*4096), result.Stats.WastedBytes)
	assert.Equal(t, 3, result.Stats.DuplicateFiles)
}

func TestScanUniqueSizesAreNeverHashed(t *testing.T) {
	fsys := testutil.MemFS(t, map[string]string{
		"/data/a":     "1",
		"/data/b":     "22",
		"/data/c":     "333",
		"/data/d/one": "4444",
		"/data/e/two": "4444",
	})

	s := New(testConfig(), nil)
	s.SetFs(fsys)
	result, err := s.Scan(context.Background(), "/data", filter.All())
	require.NoError(t, err)

	assert.Equal(t, 5, result.Stats.FilesSeen)
	assert.Equal(t, 2, result.Stats.Candidates)
	assert.Equal(t, 2, s.HashCount())
	assert.Equal(t, int64(8), result.Stats.BytesHashed)
	require.Len(t, result.Groups, 1)
}

func TestScanExactNameFilter(t *testing.T) {
	fsys := testutil.MemFS(t, map[string]string{
		"/data/a/report.txt": "same",
		"/data/b/report.txt": "same",
		"/data/c/notes.txt":  "same",
		"/data/report.txt.1": "same",
	})

	result := scanFS(t, fsys, "/data", "report.txt")

	require.Len(t, result.Groups, 1)
	assert.Equal(t, []string{"/data/a/report.txt", "/data/b/report.txt"}, result.Groups[0].Paths)
	assert.Equal(t, 2, result.Stats.FilesSeen)
	assert.Equal(t, "report.txt", result.Filter)
}

func TestScanExtensionFilter(t *testing.T) {
	fsys := testutil.MemFS(t, map[string]string{
		"/data/app.log":      "line",
		"/data/old/app.log":  "line",
		"/data/server.LOG":   "line",
		"/data/notes.txt":    "line",
		"/data/log":          "line",
		"/data/catalog.logs": "line",
	})

	result := scanFS(t, fsys, "/data", "*.log")

	require.Len(t, result.Groups, 1)
	assert.Equal(t, []string{"/data/app.log", "/data/old/app.log"}, result.Groups[0].Paths)
	for _, p := range result.Groups[0].Paths {
		assert.True(t, strings.HasSuffix(p, ".log"))
	}
}

func TestScanIsIdempotent(t *testing.T) {
	fsys := testutil.MemFS(t, map[string]string{
		"/data/a":   "alpha",
		"/data/b":   "alpha",
		"/data/c":   "bravo",
		"/data/d/c": "bravo",
		"/data/d/e": "bravo",
		"/data/f":   "unique content",
	})

	first := scanFS(t, fsys, "/data", "")
	second := scanFS(t, fsys, "/data", "")

	assert.Equal(t, first.Paths(), second.Paths())
	assert.NotEqual(t, first.ID, second.ID)
}

func TestScanWorkerCountDoesNotChangeResult(t *testing.T) {
	files := map[string]string{}
	for i, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		files["/data/"+name+"/1"] = strings.Repeat("x", i%3+1)
		files["/data/"+name+"/2"] = strings.Repeat("y", i%3+1)
	}
	fsys := testutil.MemFS(t, files)

	var want [][]string
	for _, workers := range []int{1, 2, 8, 16} {
		cfg := testConfig()
		cfg.Workers = workers

		s := New(cfg, nil)
		s.SetFs(fsys)
		result, err := s.Scan(context.Background(), "/data", filter.All())
		require.NoError(t, err)

		if want == nil {
			want = result.Paths()
			continue
		}
		assert.Equal(t, want, result.Paths(), "workers=%d", workers)
	}
	require.Len(t, want, 6)
}

func TestScanGroupOrdering(t *testing.T) {
	fsys := testutil.MemFS(t, map[string]string{
		"/data/a1": "pair one",
		"/data/a2": "pair one",
		"/data/b1": "pair two!",
		"/data/b2": "pair two!",
		"/data/c1": "triple",
		"/data/c2": "triple",
		"/data/c3": "triple",
	})

	result := scanFS(t, fsys, "/data", "")

	require.Len(t, result.Groups, 3)
	assert.Equal(t, []string{"/data/c1", "/data/c2", "/data/c3"}, result.Groups[0].Paths)
	assert.Equal(t, []string{"/data/a1", "/data/a2"}, result.Groups[1].Paths)
	assert.Equal(t, []string{"/data/b1", "/data/b2"}, result.Groups[2].Paths)
}

func TestScanZeroByteFiles(t *testing.T) {
	fsys := testutil.MemFS(t, map[string]string{
		"/data/empty1": "",
		"/data/empty2": "",
		"/data/full":   "x",
	})

	result := scanFS(t, fsys, "/data", "")

	require.Len(t, result.Groups, 1)
	assert.Equal(t, int64(0), result.Groups[0].Size)
	assert.Equal(t, int64(0), result.Groups[0].WastedBytes())
}

// =============================================================================
// Errors
// =============================================================================

func TestScanRootErrors(t *testing.T) {
	f := testutil.NewFixture(t)
	file := f.CreateTextFile("plain.txt", "data")

	tests := []struct {
		name string
		root string
		want error
	}{
		{"missing", f.Path("does-not-exist"), ErrRootNotFound},
		{"not a directory", file, ErrRootNotDirectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := New(testConfig(), nil).Scan(context.Background(), tt.root, filter.All())
			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.want)

			var scanErr *ScanError
			require.ErrorAs(t, err, &scanErr)
			assert.Equal(t, tt.root, scanErr.Root)
		})
	}
}

func TestScanEmptyRootPath(t *testing.T) {
	_, err := New(testConfig(), nil).Scan(context.Background(), "  ", filter.All())

	var scanErr *ScanError
	assert.ErrorAs(t, err, &scanErr)
}

func TestScanFileVanishesBeforeHashing(t *testing.T) {
	mem := testutil.MemFS(t, map[string]string{
		"/data/a": "same",
		"/data/b": "same",
		"/data/c": "same",
	})
	fsys := &failOpenFs{Fs: mem, fail: map[string]error{"/data/b": os.ErrNotExist}}

	result := scanFS(t, fsys, "/data", "")

	require.Len(t, result.Groups, 1)
	assert.Equal(t, []string{"/data/a", "/data/c"}, result.Groups[0].Paths)

	reads := warningsOfKind(result.Warnings, WarnFileRead)
	require.Len(t, reads, 1)
	assert.Equal(t, "/data/b", reads[0].Path)
	assert.Equal(t, ReasonNotFound, reads[0].Reason)

	var readErr *ReadError
	assert.ErrorAs(t, reads[0], &readErr)
}

func TestScanCancelled(t *testing.T) {
	fsys := testutil.MemFS(t, map[string]string{"/data/a": "x", "/data/b": "x"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(testConfig(), nil)
	s.SetFs(fsys)
	_, err := s.Scan(ctx, "/data", filter.All())
	assert.True(t, errors.Is(err, context.Canceled))
}

// =============================================================================
// Configuration
// =============================================================================

func TestScanSizeLimits(t *testing.T) {
	fsys := testutil.MemFS(t, map[string]string{
		"/data/tiny1":  "ab",
		"/data/tiny2":  "ab",
		"/data/mid1":   strings.Repeat("m", 20),
		"/data/mid2":   strings.Repeat("m", 20),
		"/data/large1": strings.Repeat("l", 200),
		"/data/large2": strings.Repeat("l", 200),
	})

	cfg := testConfig()
	cfg.SizeLimits.MinFileSize = "10"
	cfg.SizeLimits.MaxFileSize = "100"

	s := New(cfg, nil)
	s.SetFs(fsys)
	result, err := s.Scan(context.Background(), "/data", filter.All())
	require.NoError(t, err)

	require.Len(t, result.Groups, 1)
	assert.Equal(t, []string{"/data/mid1", "/data/mid2"}, result.Groups[0].Paths)
}

func TestScanExcludePatterns(t *testing.T) {
	fsys := testutil.MemFS(t, map[string]string{
		"/data/src/index.js":              "module",
		"/data/node_modules/pkg/index.js": "module",
		"/data/lib/index.js":              "module",
	})

	cfg := testConfig()
	cfg.ExcludePatterns = []string{"node_*"}

	s := New(cfg, nil)
	s.SetFs(fsys)
	result, err := s.Scan(context.Background(), "/data", filter.All())
	require.NoError(t, err)

	require.Len(t, result.Groups, 1)
	assert.Equal(t, []string{"/data/lib/index.js", "/data/src/index.js"}, result.Groups[0].Paths)
}

func TestScanReportsProgress(t *testing.T) {
	fsys := testutil.MemFS(t, map[string]string{"/data/a": "x", "/data/b": "x"})

	pr := progress.NewProgressReporter()
	s := New(testConfig(), nil)
	s.SetFs(fsys)
	s.SetProgressReporter(pr)

	_, err := s.Scan(context.Background(), "/data", filter.All())
	require.NoError(t, err)

	final := pr.GetScanProgress()
	require.NotNil(t, final)
	assert.Equal(t, progress.PhaseComplete, final.Phase)
	assert.Equal(t, 2, final.FilesFound)
	assert.Equal(t, 2, final.FilesHashed)
	assert.Equal(t, 1, final.Groups)
}

func TestFindDuplicates(t *testing.T) {
	f := testutil.NewFixture(t)
	a := f.CreateTextFile("a.log", "same")
	b := f.CreateTextFile("b.log", "same")
	f.CreateTextFile("c.txt", "same")

	groups, warnings, err := FindDuplicates(f.RootDir, "*.log")
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{a, b}, groups[0].Paths)

}

func TestFindDuplicatesPathLikeFilterMatchesNothing(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateTextFile("sub/file.txt", "same")
	f.CreateTextFile("other/file.txt", "same")

	for _, pattern := range []string{"sub/file.txt", "/", ".", ".."} {
		t.Run(pattern, func(t *testing.T) {
			groups, warnings, err := FindDuplicates(f.RootDir, pattern)
			require.NoError(t, err)
			assert.Empty(t, groups)
			assert.Empty(t, warnings)
		})
	}
}

func TestScanLinkSortedBeforeItsTarget(t *testing.T) {
	testutil.SkipOnWindows(t)

	f := testutil.NewFixture(t)
	a := f.CreateTextFile("z_dir/a.txt", "same")
	b := f.CreateTextFile("b.txt", "same")
	f.CreateSymlink(f.Path("z_dir"), "a_link")

	result := scanDir(t, nil, f.RootDir, "")

	require.Len(t, result.Groups, 1)
	assert.Equal(t, []string{b, a}, result.Groups[0].Paths)
	assert.Empty(t, warningsOfKind(result.Warnings, WarnSymlinkCycle))
	assert.Len(t, warningsOfKind(result.Warnings, WarnAlreadyScanned), 1)
}
