// Package media fetches carousel images, keeps them in an on-disk cache and
// turns them into terminal art.
package media

import (
	"context"
	"crypto/md5"
	"fmt"
	"log/slog"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/kiosk/pkg/logging"
)

// Fetcher downloads a media path from the store.
type Fetcher interface {
	Media(ctx context.Context, path string) ([]byte, error)
}

// Cache is a read-through disk cache in front of a Fetcher. Media files are
// immutable on the store side, so entries never expire.
type Cache struct {
	d     *diskv.Diskv
	fetch Fetcher
	log   *slog.Logger
}

// NewCache stores files below dir.
func NewCache(dir string, fetch Fetcher, log *slog.Logger) *Cache {
	return &Cache{
		d: diskv.New(diskv.Options{
			BasePath:          dir,
			AdvancedTransform: keyToPath,
			InverseTransform:  pathToKey,
			CacheSizeMax:      16 * 1024 * 1024,
		}),
		fetch: fetch,
		log:   logging.Channel(log, logging.Media),
	}
}

// Key maps a media path to its cache key.
func Key(path string) string {
	sum := md5.Sum([]byte(path))
	return fmt.Sprintf("%x", sum)
}

func keyToPath(key string) *diskv.PathKey {
	if len(key) < 3 {
		return &diskv.PathKey{FileName: key}
	}
	return &diskv.PathKey{Path: []string{key[:2]}, FileName: key}
}

func pathToKey(pk *diskv.PathKey) string {
	return pk.FileName
}

// Get returns the file at path, fetching it on a miss.
func (c *Cache) Get(ctx context.Context, path string) ([]byte, error) {
	key := Key(path)
	if c.d.Has(key) {
		if data, err := c.d.Read(key); err == nil {
			return data, nil
		}
	}
	data, err := c.fetch.Media(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := c.d.Write(key, data); err != nil {
		c.log.Warn("cache write failed", "path", path, "error", err)
	}
	return data, nil
}

// Art fetches, decodes and renders path to fit cols by rows cells.
func (c *Cache) Art(ctx context.Context, path string, cols, rows int) (string, error) {
	data, err := c.Get(ctx, path)
	if err != nil {
		return "", fmt.Errorf("media: load %s: %w", path, err)
	}
	img, err := Decode(data)
	if err != nil {
		return "", fmt.Errorf("media: decode %s: %w", path, err)
	}
	return Render(img, cols, rows), nil
}

// Purge drops every cached file.
func (c *Cache) Purge() error {
	return c.d.EraseAll()
}
