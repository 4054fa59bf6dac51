package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupBySize(t *testing.T) {
	entries := []FileEntry{
		{Path: "/a", Size: 10, Index: 0},
		{Path: "/b", Size: 0, Index: 1},
		{Path: "/c", Size: 10, Index: 2},
		{Path: "/d", Size: 7, Index: 3},
		{Path: "/e", Size: 0, Index: 4},
		{Path: "/f", Size: 10, Index: 5},
	}

	buckets, singletons := GroupBySize(entries)

	require.Len(t, buckets, 2)
	assert.Equal(t, 1, singletons)

	assert.Equal(t, int64(10), buckets[0].Size)
	assert.Equal(t, []FileEntry{entries[0], entries[2], entries[5]}, buckets[0].Files)

	assert.Equal(t, int64(0), buckets[1].Size)
	assert.Equal(t, []FileEntry{entries[1], entries[4]}, buckets[1].Files)

	assert.Equal(t, 5, CandidateCount(buckets))
}

func TestGroupBySizeAllUnique(t *testing.T) {
	buckets, singletons := GroupBySize([]FileEntry{{Size: 1}, {Size: 2}, {Size: 3}})

	assert.Empty(t, buckets)
	assert.Equal(t, 3, singletons)
	assert.Equal(t, 0, CandidateCount(buckets))
}

func TestGroupBySizeEmpty(t *testing.T) {
	buckets, singletons := GroupBySize(nil)

	assert.Empty(t, buckets)
	assert.Zero(t, singletons)
}
