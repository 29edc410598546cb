package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

type sourceFile struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

type cacheEntry struct {
	fingerprint string
	value       interface{}
}

// dirCache memoizes parsed directory contents until any file in the
// directory is added, removed, resized or touched.
type dirCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

func newDirCache() *dirCache {
	return &dirCache{entries: make(map[string]cacheEntry)}
}

// listSources returns files in dir whose extension is in exts, sorted by
// name. A missing directory is not an error.
func listSources(dir string, exts ...string) ([]sourceFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []sourceFile
	for _, entry := range entries {
		if entry.IsDir() || !hasExt(entry.Name(), exts) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, sourceFile{
			Name:    entry.Name(),
			Path:    filepath.Join(dir, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

func hasExt(name string, exts []string) bool {
	ext := filepath.Ext(name)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func fingerprint(files []sourceFile) string {
	var b strings.Builder
	for _, f := range files {
		fmt.Fprintf(&b, "%s|%d|%d;", f.Name, f.Size, f.ModTime.UnixNano())
	}
	return b.String()
}

// get returns the cached value for key if the fingerprint still matches.
func (c *dirCache) get(key, fp string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || e.fingerprint != fp {
		return nil, false
	}
	return e.value, true
}

func (c *dirCache) put(key, fp string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{fingerprint: fp, value: value}
}

func (c *dirCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
