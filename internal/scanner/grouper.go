package scanner

// GroupBySize partitions entries by exact byte size. Sizes seen only once are
// dropped and counted in singletons. Buckets come back in order of their first
// member's discovery, and each bucket keeps its files in discovery order.
func GroupBySize(entries []FileEntry) (buckets []SizeBucket, singletons int) {
	position := make(map[int64]int)
	var all []SizeBucket

	for _, entry := range entries {
		if i, ok := position[entry.Size]; ok {
			all[i].Files = append(all[i].Files, entry)
			continue
		}
		position[entry.Size] = len(all)
		all = append(all, SizeBucket{Size: entry.Size, Files: []FileEntry{entry}})
	}

	buckets = make([]SizeBucket, 0, len(all))
	for _, bucket := range all {
		if len(bucket.Files) < 2 {
			singletons++
			continue
		}
		buckets = append(buckets, bucket)
	}

	return buckets, singletons
}

// CandidateCount is the number of files across buckets
func CandidateCount(buckets []SizeBucket) int {
	n := 0
	for _, b := range buckets {
		n += len(b.Files)
	}
	return n
}
