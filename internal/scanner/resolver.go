package scanner

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"go.uber.org/zap"
)

const (
	minWorkers = 2
	maxWorkers = 16
)

// DefaultWorkers sizes the hashing pool from the CPU count
func DefaultWorkers() int {
	n := runtime.NumCPU()
	if n < minWorkers {
		n = minWorkers
	}
	if n > maxWorkers {
		n = maxWorkers
	}
	return n
}

// hashJob identifies one file by its position in the bucket list
type hashJob struct {
	bucket int
	slot   int
	entry  FileEntry
}

type hashResult struct {
	bucket int
	slot   int
	digest Digest
	err    error
}

// HashedFunc is called by the aggregator after every finished job
type HashedFunc func(done int, entry FileEntry)

// Resolver splits size buckets into duplicate groups by content digest
type Resolver struct {
	hasher   *Hasher
	workers  int
	logger   *zap.Logger
	onHashed HashedFunc
}

// NewResolver creates a resolver. workers <= 0 selects DefaultWorkers.
func NewResolver(hasher *Hasher, workers int, logger *zap.Logger) *Resolver {
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		hasher:  hasher,
		workers: workers,
		logger:  logger,
	}
}

// OnHashed registers a progress callback. It runs on the aggregating goroutine.
func (r *Resolver) OnHashed(fn HashedFunc) {
	r.onHashed = fn
}

// Resolve hashes every member of every bucket on a bounded worker pool and
// returns the groups of two or more files sharing a digest, ordered by member
// count descending then by first discovery. Files that cannot be read are
// left out and reported as warnings. When ctx is cancelled, remaining jobs are
// skipped and the groups found so far are returned.
func (r *Resolver) Resolve(ctx context.Context, buckets []SizeBucket) ([]DuplicateGroup, []*Warning) {
	total := CandidateCount(buckets)
	if total == 0 {
		return nil, nil
	}

	workers := r.workers
	if workers > total {
		workers = total
	}

	jobs := make(chan hashJob, workers*2)
	results := make(chan hashResult, workers*2)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go r.worker(ctx, jobs, results, &wg)
	}

	// Feed jobs
	go func() {
		defer close(jobs)
		for bi, bucket := range buckets {
			for si, entry := range bucket.Files {
				select {
				case jobs <- hashJob{bucket: bi, slot: si, entry: entry}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Single aggregator: results are stored by position, so completion
	// order does not matter.
	digests := make([][]*Digest, len(buckets))
	for i, bucket := range buckets {
		digests[i] = make([]*Digest, len(bucket.Files))
	}

	var warnings []*Warning
	done := 0
	for res := range results {
		done++
		entry := buckets[res.bucket].Files[res.slot]

		switch {
		case res.err == nil:
			d := res.digest
			digests[res.bucket][res.slot] = &d
		case ctx.Err() != nil && res.err == ctx.Err():
			// Skipped after cancellation
		default:
			warning := newWarning(WarnFileRead, entry.Path, res.err)
			warnings = append(warnings, warning)
			r.logger.Warn("hash failed",
				zap.String("path", entry.Path),
				zap.String("reason", warning.Reason.String()),
				zap.Error(res.err))
		}

		if r.onHashed != nil {
			r.onHashed(done, entry)
		}
	}

	groups := collectGroups(buckets, digests)
	sortGroups(groups)

	r.logger.Debug("resolve complete",
		zap.Int("candidates", total),
		zap.Int("groups", len(groups)),
		zap.Int("warnings", len(warnings)))

	return groups, warnings
}

func (r *Resolver) worker(ctx context.Context, jobs <-chan hashJob, results chan<- hashResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for job := range jobs {
		res := hashResult{bucket: job.bucket, slot: job.slot}

		// Check for cancellation between jobs
		if err := ctx.Err(); err != nil {
			res.err = err
		} else {
			res.digest, res.err = r.hasher.Hash(job.entry.Path)
		}

		results <- res
	}
}

// collectGroups partitions each bucket by digest, keeping discovery order
// both across and within groups
func collectGroups(buckets []SizeBucket, digests [][]*Digest) []DuplicateGroup {
	var groups []DuplicateGroup

	for bi, bucket := range buckets {
		var order []Digest
		members := make(map[Digest][]FileEntry)

		for si, entry := range bucket.Files {
			d := digests[bi][si]
			if d == nil {
				continue
			}
			if _, ok := members[*d]; !ok {
				order = append(order, *d)
			}
			members[*d] = append(members[*d], entry)
		}

		for _, d := range order {
			files := members[d]
			if len(files) < 2 {
				continue
			}
			paths := make([]string, len(files))
			for i, f := range files {
				paths[i] = f.Path
			}
			groups = append(groups, DuplicateGroup{
				Size:   bucket.Size,
				Digest: d,
				Paths:  paths,
				first:  files[0].Index,
			})
		}
	}

	return groups
}

// sortGroups orders by member count descending, then first discovery ascending
func sortGroups(groups []DuplicateGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		if len(groups[i].Paths) != len(groups[j].Paths) {
			return len(groups[i].Paths) > len(groups[j].Paths)
		}
		return groups[i].first < groups[j].first
	})
}
