// Package media lists the images an admin can pick for the hero and gallery.
package media

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// URLPrefix is where the images directory is served.
const URLPrefix = "/images/"

var imageExtRe = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp|svg)$`)

// IsImage reports whether name has a supported image extension.
func IsImage(name string) bool {
	return imageExtRe.MatchString(name)
}

// Catalog lists images in a directory. Until Watch is running every List
// call rescans the directory; while it runs the list is cached and refreshed
// on filesystem events.
type Catalog struct {
	dir    string
	logger *zap.SugaredLogger

	mu      sync.RWMutex
	cached  []string
	watched bool
}

func NewCatalog(dir string, logger *zap.SugaredLogger) *Catalog {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Catalog{dir: dir, logger: logger}
}

// Dir returns the directory being listed.
func (c *Catalog) Dir() string {
	return c.dir
}

// List returns the image URLs, sorted. A missing directory yields an empty list.
func (c *Catalog) List() ([]string, error) {
	c.mu.RLock()
	if c.watched {
		out := append([]string(nil), c.cached...)
		c.mu.RUnlock()
		return out, nil
	}
	c.mu.RUnlock()
	return scan(c.dir)
}

// Has reports whether name is a regular file in the images directory.
func (c *Catalog) Has(name string) bool {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return false
	}
	info, err := os.Stat(filepath.Join(c.dir, name))
	return err == nil && info.Mode().IsRegular()
}

func scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !IsImage(entry.Name()) {
			continue
		}
		files = append(files, path.Join(URLPrefix, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func (c *Catalog) refresh() {
	files, err := scan(c.dir)
	if err != nil {
		c.logger.Warnf("media: rescan %s failed: %v", c.dir, err)
		return
	}
	c.mu.Lock()
	c.cached = files
	c.mu.Unlock()
}

// Watch caches the listing and keeps it current until ctx is done. It
// returns once the watcher is installed; a missing directory is not watched.
func (c *Catalog) Watch(ctx context.Context) error {
	if _, err := os.Stat(c.dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.logger.Infof("media: images dir %s does not exist, not watching", c.dir)
			return nil
		}
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(c.dir); err != nil {
		_ = watcher.Close()
		return err
	}

	c.refresh()
	c.mu.Lock()
	c.watched = true
	c.mu.Unlock()

	go func() {
		defer func() {
			_ = watcher.Close()
			c.mu.Lock()
			c.watched = false
			c.mu.Unlock()
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					c.refresh()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				c.logger.Warnf("media: watcher error: %v", err)
			}
		}
	}()
	return nil
}
