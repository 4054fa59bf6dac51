package scanner

import (
	"context"
	"os"
	"testing"

	"github.com/fenilsonani/dupescan/internal/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bucketsFor(t *testing.T, fsys afero.Fs, paths ...string) []SizeBucket {
	t.Helper()

	entries := make([]FileEntry, 0, len(paths))
	for i, p := range paths {
		info, err := fsys.Stat(p)
		require.NoError(t, err)
		entries = append(entries, FileEntry{Path: p, Size: info.Size(), Index: i})
	}
	buckets, _ := GroupBySize(entries)
	return buckets
}

func TestResolveSplitsBucketByDigest(t *testing.T) {
	fsys := testutil.MemFS(t, map[string]string{
		"/a": "aaaa",
		"/b": "bbbb",
		"/c": "aaaa",
		"/d": "bbbb",
		"/e": "cccc",
	})
	buckets := bucketsFor(t, fsys, "/a", "/b", "/c", "/d", "/e")
	require.Len(t, buckets, 1)

	groups, warnings := NewResolver(NewHasher(fsys, 0), 4, nil).Resolve(context.Background(), buckets)

	assert.Empty(t, warnings)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"/a", "/c"}, groups[0].Paths)
	assert.Equal(t, []string{"/b", "/d"}, groups[1].Paths)
	assert.Equal(t, int64(4), groups[0].Size)
	assert.NotEqual(t, groups[0].Digest, groups[1].Digest)
}

func TestResolveExcludesUnreadableFiles(t *testing.T) {
	mem := testutil.MemFS(t, map[string]string{"/a": "same", "/b": "same"})
	buckets := bucketsFor(t, mem, "/a", "/b")
	fsys := &failOpenFs{Fs: mem, fail: map[string]error{"/b": os.ErrPermission}}

	groups, warnings := NewResolver(NewHasher(fsys, 0), 2, nil).Resolve(context.Background(), buckets)

	assert.Empty(t, groups)
	require.Len(t, warnings, 1)
	assert.Equal(t, WarnFileRead, warnings[0].Kind)
	assert.Equal(t, ReasonPermissionDenied, warnings[0].Reason)
}

func TestResolveReportsEveryJob(t *testing.T) {
	fsys := testutil.MemFS(t, map[string]string{"/a": "1", "/b": "1", "/c": "22", "/d": "22"})
	buckets := bucketsFor(t, fsys, "/a", "/b", "/c", "/d")

	r := NewResolver(NewHasher(fsys, 0), 3, nil)
	var calls []int
	r.OnHashed(func(done int, _ FileEntry) { calls = append(calls, done) })

	groups, _ := r.Resolve(context.Background(), buckets)

	assert.Len(t, groups, 2)
	assert.Equal(t, []int{1, 2, 3, 4}, calls)
}

func TestResolveCancelledSkipsHashing(t *testing.T) {
	fsys := testutil.MemFS(t, map[string]string{"/a": "1", "/b": "1"})
	buckets := bucketsFor(t, fsys, "/a", "/b")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	hasher := NewHasher(fsys, 0)
	groups, warnings := NewResolver(hasher, 2, nil).Resolve(ctx, buckets)

	assert.Empty(t, groups)
	assert.Empty(t, warnings)
	assert.Zero(t, hasher.Count())
}

func TestResolveNoBuckets(t *testing.T) {
	groups, warnings := NewResolver(NewHasher(nil, 0), 0, nil).Resolve(context.Background(), nil)

	assert.Nil(t, groups)
	assert.Nil(t, warnings)
}

func TestDefaultWorkersBounds(t *testing.T) {
	n := DefaultWorkers()
	assert.GreaterOrEqual(t, n, minWorkers)
	assert.LessOrEqual(t, n, maxWorkers)
}

func TestSortGroups(t *testing.T) {
	groups := []DuplicateGroup{
		{Paths: []string{"p", "q"}, first: 5},
		{Paths: []string{"x", "y", "z"}, first: 9},
		{Paths: []string{"m", "n"}, first: 1},
	}

	sortGroups(groups)

	assert.Equal(t, 9, groups[0].first)
	assert.Equal(t, 1, groups[1].first)
	assert.Equal(t, 5, groups[2].first)
}
