package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/callboard/internal/model"
	"github.com/theirongolddev/callboard/internal/source"
)

// LoadResult holds the output of the full data loading pipeline.
type LoadResult struct {
	Calls        []model.CallRecord
	TotalFiles   int
	ParsedFiles  int
	ParseErrors  int
	FileErrors   int
	AccountCount int
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load discovers and parses every export in the data directory.
// It uses a bounded worker pool for parallel parsing.
func Load(dataDir string, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := source.ScanDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dataDir, err)
	}

	result := &LoadResult{
		TotalFiles:   len(files),
		AccountCount: source.CountAccounts(files),
	}
	if len(files) == 0 {
		return result, nil
	}

	results := parseAll(files, func(n int) {
		if progressFn != nil {
			progressFn(n, len(files))
		}
	})

	for i, pr := range results {
		if pr.Err != nil {
			log.Warn().Err(pr.Err).Str("file", files[i].Path).Msg("skipping unreadable export")
			result.FileErrors++
			continue
		}
		result.ParsedFiles++
		result.ParseErrors += pr.ParseErrors
		result.Calls = append(result.Calls, pr.Records...)
	}

	return result, nil
}

// parseAll parses files on a GOMAXPROCS-sized worker pool. Results keep the
// order of files; done receives the running count of finished files.
func parseAll(files []source.DiscoveredFile, done func(n int)) []source.ParseResult {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]source.ParseResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = source.ParseFile(files[idx])
				n := processed.Add(1)
				done(int(n))
			}
		}()
	}

	wg.Wait()
	return results
}
