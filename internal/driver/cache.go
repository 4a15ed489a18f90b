package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"estscope/internal/project"
	"estscope/internal/scope"
)

// Bump when CachePayload or scope.Snapshot changes shape.
const cacheSchemaVersion uint16 = 1

// CacheDirName is the directory created under the user cache root.
const CacheDirName = "estscope"

// Cache stores analysis snapshots on disk, keyed by a digest of the file
// content and the analyzer options. Safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// CachePayload is one cached analysis.
type CachePayload struct {
	Schema   uint16
	Path     string
	Content  project.Digest
	Snapshot *scope.Snapshot
}

// CacheRoot resolves $XDG_CACHE_HOME/estscope, falling back to ~/.cache.
func CacheRoot() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locate cache: %w", err)
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, CacheDirName), nil
}

// OpenCache creates the standard cache directory.
func OpenCache() (*Cache, error) {
	dir, err := CacheRoot()
	if err != nil {
		return nil, err
	}
	return OpenCacheAt(dir)
}

func OpenCacheAt(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// Key fingerprints one input under one configuration.
func Key(content []byte, cfg project.AnalyzerConfig) project.Digest {
	return project.Combine(project.DigestOf(content), project.OptionsDigest(cfg))
}

func (c *Cache) pathFor(key project.Digest) string {
	hexKey := key.String()
	// Two-level fan-out keeps directories small on large trees.
	return filepath.Join(c.dir, "snapshots", hexKey[:2], hexKey+".mp")
}

// Put writes payload atomically through a temp file and rename.
func (c *Cache) Put(key project.Digest, payload *CachePayload) error {
	if c == nil || payload == nil {
		return nil
	}
	payload.Schema = cacheSchemaVersion

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		// Already renamed on success.
		_ = os.Remove(tmp)
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// Get loads the payload for key. A missing entry or a payload written by
// another schema version is a miss, not an error.
func (c *Cache) Get(key project.Digest) (*CachePayload, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer func() {
		_ = f.Close()
	}()

	var out CachePayload
	if err := msgpack.NewDecoder(f).Decode(&out); err != nil {
		return nil, false, fmt.Errorf("decode snapshot: %w", err)
	}
	if out.Schema != cacheSchemaVersion || out.Snapshot == nil {
		return nil, false, nil
	}
	return &out, true, nil
}

// Clean removes every cached snapshot and returns how many were dropped.
func (c *Cache) Clean() (int, error) {
	if c == nil {
		return 0, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	root := filepath.Join(c.dir, "snapshots")
	count := 0
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".mp" {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if err := os.RemoveAll(root); err != nil {
		return 0, err
	}
	return count, nil
}
