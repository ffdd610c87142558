package cache

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestHash_Deterministic(t *testing.T) {
	a := Hash([]byte("1 1 0 0 0 5 -1\n"))
	b := Hash([]byte("1 1 0 0 0 5 -1\n"))
	if a != b {
		t.Errorf("Hash() not deterministic: %s != %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("Hash() length = %d, want 64", len(a))
	}
	if a == Hash([]byte("other")) {
		t.Error("Hash() collided on different inputs")
	}
}

func TestDefaultKeyer_DistinguishesInputs(t *testing.T) {
	k := NewDefaultKeyer()
	opts := RefineKeyOpts{Delta: 1, Levels: 2, Method: "linear"}

	base := k.RefineKey("hash-a", opts)
	if !strings.HasPrefix(base, "refine:") {
		t.Errorf("RefineKey() = %q, want refine: prefix", base)
	}
	if k.RefineKey("hash-b", opts) == base {
		t.Error("RefineKey() ignores the input hash")
	}

	changed := opts
	changed.Delta = 0.5
	if k.RefineKey("hash-a", changed) == base {
		t.Error("RefineKey() ignores delta")
	}

	mesh := k.MeshKey("hash-a", 8)
	if !strings.HasPrefix(mesh, "mesh:") {
		t.Errorf("MeshKey() = %q, want mesh: prefix", mesh)
	}
	if k.MeshKey("hash-a", 16) == mesh {
		t.Error("MeshKey() ignores the segment count")
	}
}

func TestScopedKeyer_Prefixes(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(nil, "tenant-a:")

	opts := RefineKeyOpts{Delta: 1, Levels: 1, Method: "linear"}
	got := scoped.RefineKey("h", opts)
	want := "tenant-a:" + inner.RefineKey("h", opts)
	if got != want {
		t.Errorf("RefineKey() = %q, want %q", got, want)
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()

	if err := c.Set(ctx, "key", []byte("data"), 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	_, ok, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if ok {
		t.Error("Get() = hit, want miss from the null cache")
	}
}

func TestFileCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}

	if _, ok, _ := c.Get(ctx, "absent"); ok {
		t.Error("Get() = hit for an absent key")
	}

	if err := c.Set(ctx, "key", []byte("payload"), 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	data, ok, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !ok || string(data) != "payload" {
		t.Errorf("Get() = (%q, %v), want (payload, true)", data, ok)
	}
}

func TestFileCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}

	if err := c.Set(ctx, "key", []byte("payload"), time.Nanosecond); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	time.Sleep(time.Millisecond)

	if _, ok, _ := c.Get(ctx, "key"); ok {
		t.Error("Get() = hit for an expired entry")
	}
}

func TestFileCache_Delete(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}

	if err := c.Set(ctx, "key", []byte("payload"), 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "key"); ok {
		t.Error("Get() = hit after Delete()")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete() on absent key = %v, want nil", err)
	}
}
