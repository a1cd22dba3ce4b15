// Package driver orchestrates the check pipeline: load files, consult the
// result cache, run the checker and collect diagnostics per file.
package driver

import (
	"context"
	"path/filepath"
	"strings"

	"cstyle/internal/checkcache"
	"cstyle/internal/checker"
	"cstyle/internal/diag"
	"cstyle/internal/observ"
	"cstyle/internal/source"
)

// Options tunes one driver invocation.
type Options struct {
	// MaxDiagnostics caps the per-file diagnostic bag.
	MaxDiagnostics int
	// Jobs limits directory-level parallelism; 0 means one per CPU.
	Jobs int
	// Cache enables result reuse when non-nil.
	Cache *checkcache.Cache
	// Timer, when set, records pipeline phases. Only honored for
	// single-file runs; directory workers time nothing.
	Timer *observ.Timer
}

// FileResult is the outcome for one checked file.
type FileResult struct {
	Path   string
	FileID source.FileID
	Bag    *diag.Bag
	Cached bool
	// Failed marks a file that could not be loaded; its bag carries the
	// I/O diagnostic and FileID is meaningless.
	Failed bool
}

// patternSetFor maps a file suffix to its pattern set name.
func patternSetFor(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

// CheckFile loads one file into the set and runs the full pipeline on it.
// Setup failures (unreadable file, unsupported suffix, broken pattern set)
// come back as errors; style findings land in the result bag.
func CheckFile(ctx context.Context, fileSet *source.FileSet, path string, opts Options) (FileResult, error) {
	timer := opts.Timer

	var phase int
	if timer != nil {
		phase = timer.Begin("load")
	}
	fileID, err := fileSet.Load(path)
	if timer != nil {
		timer.End(phase, path)
	}
	if err != nil {
		return FileResult{Path: path}, err
	}

	file := fileSet.Get(fileID)
	bag := diag.NewBag(opts.MaxDiagnostics)
	result := FileResult{Path: path, FileID: fileID, Bag: bag}

	set := patternSetFor(path)
	key := checkcache.KeyFor(file, set)

	if opts.Cache != nil {
		if timer != nil {
			phase = timer.Begin("cache")
		}
		entry, hit, cacheErr := opts.Cache.Get(key)
		if timer != nil {
			timer.End(phase, "")
		}
		// A broken cache entry falls through to a fresh check.
		if cacheErr == nil && hit {
			entry.Replay(fileID, diag.BagReporter{Bag: bag})
			bag.Sort()
			result.Cached = true
			return result, nil
		}
	}

	if timer != nil {
		phase = timer.Begin("check")
	}
	ck, err := checker.ForFile(ctx, file, diag.BagReporter{Bag: bag})
	if err != nil {
		if timer != nil {
			timer.End(phase, "setup failed")
		}
		return result, err
	}
	ck.Check()
	ck.Close()
	if timer != nil {
		timer.End(phase, "")
	}

	bag.Sort()

	if opts.Cache != nil {
		if timer != nil {
			phase = timer.Begin("store")
		}
		// Cache write failures do not fail the run.
		_ = opts.Cache.Put(key, checkcache.FromBag(set, bag))
		if timer != nil {
			timer.End(phase, "")
		}
	}

	return result, nil
}
