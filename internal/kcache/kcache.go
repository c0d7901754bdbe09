// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package kcache stores compiled kernels on disk, keyed by a digest of
// everything that affects the program text.
//
// Entries are msgpack payloads compressed with xz and written through a
// temporary file renamed into place, so readers never see a partial entry.
package kcache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/ulikunitz/xz"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/gogpu/calil/il"
	"github.com/gogpu/calil/kernels"
)

// schemaVersion changes whenever Entry changes shape.
const schemaVersion uint16 = 1

// Key identifies a cache entry.
type Key [sha256.Size]byte

// String returns the hex form of the key.
func (k Key) String() string { return hex.EncodeToString(k[:]) }

// KeyFor digests the inputs of one kernel build.
func KeyFor(version, kernel string, target il.Target, dev il.DeviceInfo, p kernels.Params) Key {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%d\x00%d,%d,%d\x00%d,%d,%d",
		version, kernel, target,
		dev.MaxInputs, dev.MaxConstantBuffers, dev.MaxConstantBufferSize,
		p.TileX, p.TileY, p.Unroll)
	var k Key
	h.Sum(k[:0])
	return k
}

// Entry is one cached program.
type Entry struct {
	Schema       uint16
	Kernel       string
	Program      string
	Bindings     []il.Binding
	Registers    uint32
	Literals     uint32
	Instructions uint32
}

// Cache is a directory of entries. It is safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Open returns the cache rooted at dir, creating the directory.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// OpenDefault returns the cache under the user cache directory.
func OpenDefault(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return Open(filepath.Join(base, app))
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

func (c *Cache) pathFor(k Key) string {
	return filepath.Join(c.dir, "kernels", k.String()+".mp.xz")
}

// Put writes e under k.
func (c *Cache) Put(k Key, e *Entry) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(k)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// Already renamed on success.
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	zw, err := xz.NewWriter(f)
	if err != nil {
		f.Close()
		return err
	}
	e.Schema = schemaVersion
	if err := msgpack.NewEncoder(zw).Encode(e); err != nil {
		f.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the entry under k. A missing entry or one written by another
// schema version is a miss.
func (c *Cache) Get(k Key) (*Entry, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(k))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	zr, err := xz.NewReader(f)
	if err != nil {
		return nil, false, fmt.Errorf("kcache: %s: %w", k, err)
	}
	var e Entry
	if err := msgpack.NewDecoder(zr).Decode(&e); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("kcache: %s: %w", k, err)
	}
	if e.Schema != schemaVersion {
		return nil, false, nil
	}
	return &e, true, nil
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "kernels"))
}
