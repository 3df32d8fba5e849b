// Package storage persists uploaded files — product and category
// images — behind a small disk abstraction. The local driver is always
// available; an S3-compatible driver (AWS, MinIO, R2) comes up when
// S3_BUCKET is configured, and STORAGE_DISK selects which one uploads
// land on.
package storage

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/shashiranjanraj/villageangel/config"
)

// Disk stores and serves file blobs under slash-separated paths.
type Disk interface {
	Put(ctx context.Context, path string, r io.Reader) error
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Exists(ctx context.Context, path string) (bool, error)
	Delete(ctx context.Context, path string) error

	// URL is the public address a browser can fetch path from.
	URL(path string) string
}

var (
	mu     sync.RWMutex
	disks  = map[string]Disk{}
	active string
)

// Connect boots the configured disks. Called once at startup.
func Connect() error {
	mu.Lock()
	defer mu.Unlock()

	active = config.Get("STORAGE_DISK", "local")
	disks["local"] = newLocalDisk()

	if config.Get("S3_BUCKET", "") != "" {
		d, err := newS3Disk()
		if err != nil {
			return fmt.Errorf("storage: boot s3 disk: %w", err)
		}
		disks["s3"] = d
	}

	if _, ok := disks[active]; !ok {
		return fmt.Errorf("storage: default disk %q is not configured", active)
	}
	return nil
}

// Use returns a named disk; it panics on unknown names because a
// missing disk is a boot-time misconfiguration, not a runtime state.
func Use(name string) Disk {
	mu.RLock()
	defer mu.RUnlock()

	d, ok := disks[name]
	if !ok {
		panic(fmt.Sprintf("storage: disk %q is not configured", name))
	}
	return d
}

// Register installs a custom Disk, e.g. an in-memory one for tests.
func Register(name string, d Disk) {
	mu.Lock()
	disks[name] = d
	mu.Unlock()
}

// Put writes r to path on the default disk.
func Put(ctx context.Context, path string, r io.Reader) error {
	return Use(active).Put(ctx, path, r)
}

// Get opens path on the default disk; the caller closes the reader.
func Get(ctx context.Context, path string) (io.ReadCloser, error) {
	return Use(active).Get(ctx, path)
}

// Exists reports whether path is present on the default disk.
func Exists(ctx context.Context, path string) (bool, error) {
	return Use(active).Exists(ctx, path)
}

// Delete removes path from the default disk.
func Delete(ctx context.Context, path string) error {
	return Use(active).Delete(ctx, path)
}

// URL returns the public address of path on the default disk.
func URL(path string) string {
	return Use(active).URL(path)
}
