package audiomark

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ReadResult pairs a path with the outcome of opening it, for ReadAll.
type ReadResult struct {
	Path string
	File *AudioFile
	Err  error
}

// ReadAll opens every path in paths concurrently, bounded by concurrency
// (GOMAXPROCS if concurrency <= 0), and returns one ReadResult per input
// path in the same order. ReadAll never returns an error itself — a
// per-file failure is recorded in that file's ReadResult.Err — since one
// corrupt file in a batch should never abort the rest.
//
// ReadAll takes an explicit path list rather than a directory: walking a
// directory tree is an external collaborator's job, not this library's
// (spec.md §1).
//
// Example:
//
//	results, _ := audiomark.ReadAll(ctx, paths, 8)
//	for _, r := range results {
//	    if r.Err != nil {
//	        log.Printf("%s: %v", r.Path, r.Err)
//	        continue
//	    }
//	    fmt.Println(r.File.Info.Metadata.Title)
//	}
func ReadAll(ctx context.Context, paths []string, concurrency int, opts ...OpenOption) ([]ReadResult, error) {
	results := make([]ReadResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(concurrency)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				results[i] = ReadResult{Path: path, Err: ctx.Err()}
				return nil
			default:
			}
			f, err := Open(path, opts...)
			results[i] = ReadResult{Path: path, File: f, Err: err}
			return nil
		})
	}

	// g.Wait's error is always nil: every goroutine above returns nil and
	// records its own failure in results instead of aborting the group.
	_ = g.Wait()
	return results, nil
}
