// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package kcache

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ulikunitz/xz"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/gogpu/calil/il"
	"github.com/gogpu/calil/kernels"
)

func testEntry() *Entry {
	return &Entry{
		Kernel:  "matmul",
		Program: "il_ps_2_0\nmov g[0],l0\nend\n",
		Bindings: []il.Binding{
			{Kind: il.BindingGlobal, Name: "g[]"},
			{Kind: il.BindingInput, Name: "i0", Slot: 0, Type: il.Float4},
			{Kind: il.BindingConstantBuffer, Name: "cb0", Slot: 0, Size: 1},
		},
		Registers:    25,
		Literals:     3,
		Instructions: 120,
	}
}

func testKey(kernel string) Key {
	return KeyFor("test", kernel, il.PixelShader, il.DefaultDevice(), kernels.DefaultParams())
}

func TestCache_PutGet(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	k := testKey("matmul")

	if _, hit, err := c.Get(k); err != nil || hit {
		t.Fatalf("Get on empty cache = hit %v, err %v", hit, err)
	}

	want := testEntry()
	if err := c.Put(k, want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, hit, err := c.Get(k)
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v", hit, err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Get = %+v\nwant %+v", got, want)
	}

	if _, hit, _ := c.Get(testKey("nbody")); hit {
		t.Error("Get of another key hit")
	}

	// No temporary files are left behind.
	files, err := os.ReadDir(filepath.Join(c.Dir(), "kernels"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].Name() != k.String()+".mp.xz" {
		t.Errorf("cache directory holds %v", files)
	}
}

func TestCache_Overwrite(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	k := testKey("matmul")
	first := testEntry()
	second := testEntry()
	second.Program = "il_ps_2_0\nend\n"
	for _, e := range []*Entry{first, second} {
		if err := c.Put(k, e); err != nil {
			t.Fatal(err)
		}
	}
	got, hit, err := c.Get(k)
	if err != nil || !hit || got.Program != second.Program {
		t.Errorf("Get = %+v, %v, %v", got, hit, err)
	}
}

func TestCache_SchemaMismatch(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	k := testKey("matmul")
	if err := c.Put(k, testEntry()); err != nil {
		t.Fatal(err)
	}

	// Rewrite the entry as an older schema would have.
	f, err := os.Create(c.pathFor(k))
	if err != nil {
		t.Fatal(err)
	}
	zw, err := xz.NewWriter(f)
	if err != nil {
		t.Fatal(err)
	}
	old := testEntry()
	old.Schema = schemaVersion + 1
	if err := msgpack.NewEncoder(zw).Encode(old); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(k); hit || err != nil {
		t.Errorf("Get = hit %v, err %v, want a miss", hit, err)
	}
}

func TestCache_Corrupt(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	k := testKey("matmul")
	if err := c.Put(k, testEntry()); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.pathFor(k), []byte("not an xz stream"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(k); hit || err == nil {
		t.Errorf("Get = hit %v, err %v, want an error", hit, err)
	}
}

func TestCache_Clear(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	k := testKey("matmul")
	if err := c.Put(k, testEntry()); err != nil {
		t.Fatal(err)
	}
	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(k); hit || err != nil {
		t.Errorf("Get after Clear = hit %v, err %v", hit, err)
	}
	// The cache stays usable.
	if err := c.Put(k, testEntry()); err != nil {
		t.Errorf("Put after Clear: %v", err)
	}
}

func TestCache_Nil(t *testing.T) {
	var c *Cache
	if err := c.Put(testKey("matmul"), testEntry()); err != nil {
		t.Errorf("Put = %v", err)
	}
	if e, hit, err := c.Get(testKey("matmul")); e != nil || hit || err != nil {
		t.Errorf("Get = %v, %v, %v", e, hit, err)
	}
	if err := c.Clear(); err != nil {
		t.Errorf("Clear = %v", err)
	}
}

func TestOpenDefault(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)
	c, err := OpenDefault("calilc")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(base, "calilc"); c.Dir() != want {
		t.Errorf("Dir() = %q, want %q", c.Dir(), want)
	}
	if fi, err := os.Stat(c.Dir()); err != nil || !fi.IsDir() {
		t.Errorf("cache directory not created: %v", err)
	}
}

func TestKeyFor(t *testing.T) {
	dev := il.DefaultDevice()
	p := kernels.DefaultParams()
	base := KeyFor("1", "matmul", il.PixelShader, dev, p)
	if base != KeyFor("1", "matmul", il.PixelShader, dev, p) {
		t.Fatal("KeyFor is not stable")
	}

	smallDev := dev
	smallDev.MaxInputs = 8
	unrolled := p
	unrolled.Unroll = 2

	variants := map[string]Key{
		"version": KeyFor("2", "matmul", il.PixelShader, dev, p),
		"kernel":  KeyFor("1", "nbody", il.PixelShader, dev, p),
		"target":  KeyFor("1", "matmul", il.ComputeShader, dev, p),
		"device":  KeyFor("1", "matmul", il.PixelShader, smallDev, p),
		"params":  KeyFor("1", "matmul", il.PixelShader, dev, unrolled),
	}
	for name, k := range variants {
		if k == base {
			t.Errorf("changing the %s does not change the key", name)
		}
	}
	if len(base.String()) != 64 {
		t.Errorf("String() = %q, want 64 hex digits", base)
	}
}
