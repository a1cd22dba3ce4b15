package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cstyle/internal/checkcache"
	"cstyle/internal/checker"
	"cstyle/internal/observ"
	"cstyle/internal/source"
)

const cleanSrc = `int main(void)
{
  if (x == 1) {
      foo(1, 2);
    }
  return 0;
}
`

const dirtySrc = `int main(void)
{
  if(x==1) {
      foo(1,2);
    }
  return 0;
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	opts := Options{MaxDiagnostics: 100}

	t.Run("clean file", func(t *testing.T) {
		path := writeFile(t, dir, "clean.c", cleanSrc)
		res, err := CheckFile(context.Background(), source.NewFileSet(), path, opts)
		if err != nil {
			t.Fatalf("CheckFile: %v", err)
		}
		if res.Bag.Len() != 0 {
			t.Errorf("diagnostics = %d, want 0", res.Bag.Len())
		}
	})

	t.Run("dirty file", func(t *testing.T) {
		path := writeFile(t, dir, "dirty.c", dirtySrc)
		res, err := CheckFile(context.Background(), source.NewFileSet(), path, opts)
		if err != nil {
			t.Fatalf("CheckFile: %v", err)
		}
		// if(x==1) is missing the keyword gap and both operator pads;
		// foo(1,2) has a tight comma.
		if res.Bag.Len() != 4 {
			for _, d := range res.Bag.Items() {
				t.Logf("got: %s %q", d.Code.ID(), d.Message)
			}
			t.Errorf("diagnostics = %d, want 4", res.Bag.Len())
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := CheckFile(context.Background(), source.NewFileSet(), filepath.Join(dir, "nope.c"), opts)
		if err == nil {
			t.Fatal("expected an error for a missing file")
		}
	})

	t.Run("unsupported suffix", func(t *testing.T) {
		path := writeFile(t, dir, "notes.txt", "hello\n")
		_, err := CheckFile(context.Background(), source.NewFileSet(), path, opts)
		if !errors.Is(err, checker.ErrUnsupportedFile) {
			t.Fatalf("err = %v, want ErrUnsupportedFile", err)
		}
	})

	t.Run("timer records phases", func(t *testing.T) {
		path := writeFile(t, dir, "timed.c", cleanSrc)
		timer := observ.NewTimer()
		timedOpts := opts
		timedOpts.Timer = timer
		if _, err := CheckFile(context.Background(), source.NewFileSet(), path, timedOpts); err != nil {
			t.Fatalf("CheckFile: %v", err)
		}
		report := timer.Report()
		if len(report.Phases) < 2 {
			t.Errorf("phases = %d, want at least load and check", len(report.Phases))
		}
	})
}

func TestCheckFileUsesCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := checkcache.Open("cstyle-test")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	opts := Options{MaxDiagnostics: 100, Cache: cache}

	path := writeFile(t, t.TempDir(), "dirty.c", dirtySrc)

	first, err := CheckFile(context.Background(), source.NewFileSet(), path, opts)
	if err != nil {
		t.Fatalf("first CheckFile: %v", err)
	}
	if first.Cached {
		t.Fatal("first run must not be served from cache")
	}

	second, err := CheckFile(context.Background(), source.NewFileSet(), path, opts)
	if err != nil {
		t.Fatalf("second CheckFile: %v", err)
	}
	if !second.Cached {
		t.Fatal("second run should hit the cache")
	}
	if first.Bag.Len() != second.Bag.Len() {
		t.Fatalf("cached run reported %d diagnostics, fresh run %d", second.Bag.Len(), first.Bag.Len())
	}
	for i, d := range first.Bag.Items() {
		cached := second.Bag.Items()[i]
		if d.Code != cached.Code || d.Message != cached.Message || d.Primary != cached.Primary {
			t.Errorf("diagnostic %d differs after cache round trip", i)
		}
	}
}

// The indent pass runs before the spacing passes, so this file produces its
// later-positioned finding first: foo() is over-indented (reported first, at
// a higher offset) and if( is missing the keyword gap (reported second, at a
// lower offset). Output order must not depend on production order.
const outOfOrderSrc = `int main(void)
{
  if(x == 1) {
       foo();
    }
  return 0;
}
`

func TestCheckFileCachedRunKeepsSortedOrder(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := checkcache.Open("cstyle-test")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	opts := Options{MaxDiagnostics: 100, Cache: cache}

	path := writeFile(t, t.TempDir(), "shuffled.c", outOfOrderSrc)

	fresh, err := CheckFile(context.Background(), source.NewFileSet(), path, opts)
	if err != nil {
		t.Fatalf("fresh CheckFile: %v", err)
	}
	if fresh.Bag.Len() != 2 {
		t.Fatalf("fresh diagnostics = %d, want 2", fresh.Bag.Len())
	}

	cached, err := CheckFile(context.Background(), source.NewFileSet(), path, opts)
	if err != nil {
		t.Fatalf("cached CheckFile: %v", err)
	}
	if !cached.Cached {
		t.Fatal("second run should hit the cache")
	}

	for i := 1; i < cached.Bag.Len(); i++ {
		prev, cur := cached.Bag.Items()[i-1], cached.Bag.Items()[i]
		if prev.Primary.Start > cur.Primary.Start {
			t.Errorf("cached diagnostics not in position order: %d after %d", cur.Primary.Start, prev.Primary.Start)
		}
	}
	for i, d := range fresh.Bag.Items() {
		replayed := cached.Bag.Items()[i]
		if d.Message != replayed.Message || d.Primary != replayed.Primary {
			t.Errorf("order diverges at %d: fresh %q@%d, cached %q@%d",
				i, d.Message, d.Primary.Start, replayed.Message, replayed.Primary.Start)
		}
	}
}

func TestCheckDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.c", dirtySrc)
	writeFile(t, dir, "a.c", cleanSrc)
	writeFile(t, dir, "sub/c.c", cleanSrc)
	writeFile(t, dir, "sub/defs.h", "#define X 1\n")
	writeFile(t, dir, "README.md", "not code\n")

	fileSet, results, err := CheckDir(context.Background(), dir, Options{MaxDiagnostics: 100, Jobs: 2})
	if err != nil {
		t.Fatalf("CheckDir: %v", err)
	}
	if fileSet.Len() != 4 {
		t.Errorf("loaded files = %d, want 4", fileSet.Len())
	}
	if len(results) != 4 {
		t.Fatalf("results = %d, want 4", len(results))
	}

	// Deterministic path order regardless of worker scheduling.
	for i := 1; i < len(results); i++ {
		if results[i-1].Path >= results[i].Path {
			t.Errorf("results out of order: %q before %q", results[i-1].Path, results[i].Path)
		}
	}

	total := 0
	for _, res := range results {
		total += res.Bag.Len()
		if filepath.Base(res.Path) == "b.c" && res.Bag.Len() == 0 {
			t.Error("expected diagnostics for b.c")
		}
		if filepath.Base(res.Path) != "b.c" && res.Bag.Len() != 0 {
			t.Errorf("unexpected diagnostics in %s", res.Path)
		}
	}
	if total == 0 {
		t.Error("expected some diagnostics from the dirty file")
	}
}

func TestCheckDirEmpty(t *testing.T) {
	fileSet, results, err := CheckDir(context.Background(), t.TempDir(), Options{MaxDiagnostics: 10})
	if err != nil {
		t.Fatalf("CheckDir: %v", err)
	}
	if fileSet.Len() != 0 || len(results) != 0 {
		t.Errorf("expected an empty result, got %d files, %d results", fileSet.Len(), len(results))
	}
}
