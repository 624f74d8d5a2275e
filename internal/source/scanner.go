package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanDir walks the data directory and discovers every call-log export.
// A missing directory yields no files and no error.
func ScanDir(dataDir string) ([]DiscoveredFile, error) {
	info, err := os.Stat(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	var files []DiscoveredFile

	err = filepath.WalkDir(dataDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() {
			if path != dataDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		var format Format
		switch strings.ToLower(filepath.Ext(path)) {
		case ".jsonl":
			format = FormatJSONL
		case ".json":
			format = FormatJSON
		default:
			return nil
		}

		rel, _ := filepath.Rel(dataDir, path)
		parts := strings.Split(rel, string(filepath.Separator))

		df := DiscoveredFile{Path: path, Format: format}
		if len(parts) >= 2 {
			df.Account = parts[0]
		}
		files = append(files, df)
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

// CountAccounts returns the number of distinct accounts in a set of files.
// Top-level files count as one unnamed account.
func CountAccounts(files []DiscoveredFile) int {
	seen := make(map[string]struct{})
	for _, f := range files {
		seen[f.Account] = struct{}{}
	}
	return len(seen)
}
