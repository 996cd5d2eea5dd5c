package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestPutGetRoundTrip(t *testing.T) {
	c := New(t.TempDir())
	key := Key{Branch: "feature", Commit: "abc123", Kind: "main_diffstat"}

	if _, ok := c.Get(key); ok {
		t.Fatalf("expected miss before put")
	}
	if err := c.Put(key, []byte(`{"added":3,"deleted":1}`), time.Hour); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	got, ok := c.Get(key)
	if !ok {
		t.Fatalf("expected hit after put")
	}
	if string(got) != `{"added":3,"deleted":1}` {
		t.Fatalf("unexpected value: %s", got)
	}
}

func TestDiskTierSurvivesNewProcess(t *testing.T) {
	dir := t.TempDir()
	key := Key{Branch: "feature", Commit: "abc123", Kind: "pr_status"}

	first := New(dir)
	if err := first.Put(key, []byte(`"open"`), time.Hour); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	// A fresh Cache has an empty memory tier and must fall through to disk.
	second := New(dir)
	got, ok := second.Get(key)
	if !ok || string(got) != `"open"` {
		t.Fatalf("expected disk hit, got ok=%v value=%s", ok, got)
	}
}

func TestHeadChangeInvalidates(t *testing.T) {
	dir := t.TempDir()
	c := New(dir)
	if err := c.Put(Key{Branch: "feature", Commit: "old", Kind: "ci_status"}, []byte(`"pass"`), time.Hour); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	// Same branch and kind, new head commit: the disk file's derived commit
	// no longer matches, so the entry is stale.
	fresh := New(dir)
	if _, ok := fresh.Get(Key{Branch: "feature", Commit: "new", Kind: "ci_status"}); ok {
		t.Fatalf("stale entry returned after head change")
	}
}

func TestExpiredEntryIsMiss(t *testing.T) {
	dir := t.TempDir()
	key := Key{Branch: "b", Commit: "c", Kind: "url_live"}
	c := New(dir)
	if err := c.Put(key, []byte(`true`), time.Millisecond); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, ok := New(dir).Get(key); ok {
		t.Fatalf("expired entry returned")
	}
}

func TestUnknownSchemaIsMiss(t *testing.T) {
	dir := t.TempDir()
	key := Key{Branch: "b", Commit: "c", Kind: "pr_status"}
	c := New(dir)
	if err := c.Put(key, []byte(`"open"`), time.Hour); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one cache file, got %v err=%v", entries, err)
	}
	path := filepath.Join(dir, entries[0].Name())
	data, _ := os.ReadFile(path)
	var entry map[string]json.RawMessage
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("cache file is not JSON: %v", err)
	}
	entry["schema"] = json.RawMessage("99")
	mutated, _ := json.Marshal(entry)
	if err := os.WriteFile(path, mutated, 0o644); err != nil {
		t.Fatalf("rewrite cache file: %v", err)
	}

	if _, ok := New(dir).Get(key); ok {
		t.Fatalf("entry with unknown schema returned")
	}
}

func TestCorruptFileIsMiss(t *testing.T) {
	dir := t.TempDir()
	key := Key{Branch: "b", Commit: "c", Kind: "url"}
	if err := os.WriteFile(filepath.Join(dir, hashString("b")+"-url.json"), []byte("not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	if _, ok := New(dir).Get(key); ok {
		t.Fatalf("corrupt entry returned")
	}
}

func TestInvalidateBranch(t *testing.T) {
	dir := t.TempDir()
	c := New(dir)
	keep := Key{Branch: "other", Commit: "c", Kind: "url"}
	drop := Key{Branch: "feature", Commit: "c", Kind: "url"}
	if err := c.Put(keep, []byte(`"a"`), time.Hour); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := c.Put(drop, []byte(`"b"`), time.Hour); err != nil {
		t.Fatalf("put: %v", err)
	}
	c.InvalidateBranch("feature")
	if _, ok := c.Get(drop); ok {
		t.Fatalf("invalidated entry still present")
	}
	if _, ok := c.Get(keep); !ok {
		t.Fatalf("unrelated branch entry lost")
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), hashString("feature")+"-") {
			t.Fatalf("disk entry for invalidated branch remains: %s", e.Name())
		}
	}
}

func TestNoDiskDirDisablesDiskTier(t *testing.T) {
	c := New("")
	key := Key{Branch: "b", Commit: "c", Kind: "url"}
	if err := c.Put(key, []byte(`"x"`), time.Hour); err != nil {
		t.Fatalf("put without disk tier: %v", err)
	}
	if _, ok := c.Get(key); !ok {
		t.Fatalf("memory tier miss")
	}
}
