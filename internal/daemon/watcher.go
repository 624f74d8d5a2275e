package daemon

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceInterval = 500 * time.Millisecond

// watch triggers an early poll whenever an export in the data directory is
// written, created, removed or renamed. The returned func stops the watcher.
func (s *Service) watch(ctx context.Context) (func(), error) {
	if !isDir(s.cfg.DataDir) {
		return nil, fmt.Errorf("data dir %s is not a directory", s.cfg.DataDir)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// fsnotify is not recursive: watch the data dir and every subdirectory.
	err = filepath.WalkDir(s.cfg.DataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil //nolint:nilerr // skip unreadable entries
		}
		if path != s.cfg.DataDir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
	if err != nil {
		_ = watcher.Close()
		return nil, err
	}

	s.mu.Lock()
	s.watching = true
	s.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.watchLoop(ctx, watcher)
	}()

	return func() {
		_ = watcher.Close()
		wg.Wait()
		s.mu.Lock()
		s.watching = false
		s.mu.Unlock()
	}, nil
}

func (s *Service) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				// New account directories need their own watch.
				if isDir(event.Name) {
					_ = watcher.Add(event.Name)
					continue
				}
			}
			if !isExport(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			s.log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("export changed")
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceInterval, s.requestPoll)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn().Err(err).Msg("file watcher error")
		}
	}
}

func isExport(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".jsonl":
		return true
	}
	return false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
