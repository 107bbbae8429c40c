// Sorting and merging of order-preserving encoded keys.
// Keys are compared as raw bytes and never decoded.
package ksort

import (
	"bytes"
	"container/heap"
	"context"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Sorts keys in place by splitting them into parts runs,
// sorting the runs concurrently and merging the result.
// Returns ctx.Err() if ctx is done before the runs are sorted.
func Sort(ctx context.Context, keys [][]byte, parts int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(keys) < 2 {
		return nil
	}
	parts = max(1, min(parts, len(keys)))
	var (
		size     = (len(keys) + parts - 1) / parts
		runs     [][][]byte
		eg, ectx = errgroup.WithContext(ctx)
	)
	for i := 0; i < len(keys); i += size {
		run := keys[i:min(i+size, len(keys))]
		runs = append(runs, run)
		eg.Go(func() error {
			if err := ectx.Err(); err != nil {
				return err
			}
			slices.SortFunc(run, bytes.Compare)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	copy(keys, Merge(runs...))
	slog.DebugContext(ctx, "ksort", "n", len(keys), "runs", len(runs))
	return nil
}

type cursor struct {
	run [][]byte
	i   int
}

func (c *cursor) head() []byte { return c.run[c.i] }

type mergeHeap []*cursor

func (h mergeHeap) Len() int           { return len(h) }
func (h mergeHeap) Less(i, j int) bool { return bytes.Compare(h[i].head(), h[j].head()) < 0 }
func (h mergeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap) Push(x any)        { *h = append(*h, x.(*cursor)) }
func (h *mergeHeap) Pop() any {
	old := *h
	c := old[len(old)-1]
	*h = old[:len(old)-1]
	return c
}

// Merges runs that are each already sorted
// into a newly allocated sorted slice.
func Merge(runs ...[][]byte) [][]byte {
	var (
		n int
		h mergeHeap
	)
	for _, r := range runs {
		n += len(r)
		if len(r) > 0 {
			h = append(h, &cursor{run: r})
		}
	}
	heap.Init(&h)
	res := make([][]byte, 0, n)
	for h.Len() > 0 {
		c := h[0]
		res = append(res, c.head())
		c.i++
		if c.i == len(c.run) {
			heap.Pop(&h)
			continue
		}
		heap.Fix(&h, 0)
	}
	return res
}
