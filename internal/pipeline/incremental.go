package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/callboard/internal/source"
	"github.com/theirongolddev/callboard/internal/store"
)

// CachedLoadResult extends LoadResult with cache metadata.
type CachedLoadResult struct {
	LoadResult
	CacheHits int
	Reparsed  int
	Pruned    int
}

// LoadWithCache discovers exports, diffs them against the cache, parses only
// changed files and returns the combined record set. Tracked files that have
// disappeared from disk are pruned from the cache.
func LoadWithCache(dataDir string, cache *store.Cache, progressFn ProgressFunc) (*CachedLoadResult, error) {
	files, err := source.ScanDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dataDir, err)
	}

	result := &CachedLoadResult{
		LoadResult: LoadResult{
			TotalFiles:   len(files),
			AccountCount: source.CountAccounts(files),
		},
	}

	tracked, err := cache.GetTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	// Diff: partition into changed and unchanged
	var toReparse []source.DiscoveredFile
	unchanged := make(map[string]struct{})
	onDisk := make(map[string]struct{}, len(files))

	for _, f := range files {
		onDisk[f.Path] = struct{}{}
		info, err := os.Stat(f.Path)
		if err != nil {
			continue
		}
		cached, ok := tracked[f.Path]
		if ok && cached.MtimeNs == info.ModTime().UnixNano() && cached.SizeBytes == info.Size() {
			unchanged[f.Path] = struct{}{}
		} else {
			toReparse = append(toReparse, f)
		}
	}

	for path := range tracked {
		if _, ok := onDisk[path]; ok {
			continue
		}
		if err := cache.DeleteFile(path); err != nil {
			log.Warn().Err(err).Str("file", path).Msg("pruning cache entry")
			continue
		}
		result.Pruned++
	}

	result.CacheHits = len(unchanged)
	result.Reparsed = len(toReparse)

	if len(unchanged) > 0 {
		cached, err := cache.LoadAllCalls()
		if err != nil {
			return nil, fmt.Errorf("loading cached calls: %w", err)
		}
		for _, r := range cached {
			if _, ok := unchanged[r.SourceFile]; ok {
				result.Calls = append(result.Calls, r)
			}
		}
		result.ParsedFiles += len(unchanged)
	}

	if len(toReparse) == 0 {
		return result, nil
	}

	results := parseAll(toReparse, func(n int) {
		if progressFn != nil {
			progressFn(n+result.CacheHits, result.TotalFiles)
		}
	})

	for i, pr := range results {
		path := toReparse[i].Path
		if pr.Err != nil {
			log.Warn().Err(pr.Err).Str("file", path).Msg("skipping unreadable export")
			result.FileErrors++
			continue
		}
		result.ParsedFiles++
		result.ParseErrors += pr.ParseErrors
		result.Calls = append(result.Calls, pr.Records...)

		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if err := cache.SaveFile(path, pr.Records, info.ModTime().UnixNano(), info.Size()); err != nil {
			log.Warn().Err(err).Str("file", path).Msg("caching parsed export")
		}
	}

	return result, nil
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	return filepath.Join(xdg.CacheHome, "callboard")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "calls.db")
}
