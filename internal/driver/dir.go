package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"cstyle/internal/checkcache"
	"cstyle/internal/checker"
	"cstyle/internal/diag"
	"cstyle/internal/source"
)

// listCheckableFiles returns the sorted list of files under dir that some
// checker accepts.
func listCheckableFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && checker.Supported(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Sorted for a deterministic result order.
	sort.Strings(files)
	return files, nil
}

// CheckDir checks every supported file under dir in parallel. Files are
// preloaded serially so the FileSet needs no locking; each worker owns its
// result slot, so the slice needs none either. Unreadable files become an
// I/O diagnostic in their slot instead of failing the whole run.
func CheckDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []FileResult, error) {
	files, err := listCheckableFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		fileID, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = fileID
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			bag := diag.NewBag(opts.MaxDiagnostics)
			results[i] = FileResult{Path: path, Bag: bag}

			if loadErr, failed := loadErrors[path]; failed {
				results[i].Failed = true
				bag.Add(&diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.IOLoadFileError,
					Message:  "failed to load file: " + loadErr.Error(),
					Primary:  source.Span{},
				})
				return nil
			}

			fileID := fileIDs[path]
			file := fileSet.Get(fileID)
			results[i].FileID = fileID

			set := patternSetFor(path)
			key := checkcache.KeyFor(file, set)
			if opts.Cache != nil {
				if entry, hit, cacheErr := opts.Cache.Get(key); cacheErr == nil && hit {
					entry.Replay(fileID, diag.BagReporter{Bag: bag})
					results[i].Cached = true
					bag.Sort()
					return nil
				}
			}

			ck, err := checker.ForFile(gctx, file, diag.BagReporter{Bag: bag})
			if err != nil {
				return err
			}
			ck.Check()
			ck.Close()

			if opts.Cache != nil {
				_ = opts.Cache.Put(key, checkcache.FromBag(set, bag))
			}

			bag.Sort()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}
