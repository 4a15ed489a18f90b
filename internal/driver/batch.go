package driver

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"estscope/internal/diag"
	"estscope/internal/source"
	"estscope/internal/trace"
)

// Result holds a whole run; Files[i] corresponds to the i-th input in
// sorted order.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// CacheHits counts results served from the snapshot cache.
func (r *Result) CacheHits() int {
	n := 0
	for i := range r.Files {
		if r.Files[i].CacheHit {
			n++
		}
	}
	return n
}

func (r *Result) HasErrors() bool {
	for i := range r.Files {
		if r.Files[i].Bag != nil && r.Files[i].Bag.HasErrors() {
			return true
		}
	}
	return false
}

// Analyze expands paths and analyzes every file, fanning out up to
// opts.Jobs workers.
func Analyze(ctx context.Context, paths []string, opts Options) (*Result, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "analyze")
	defer span.End("")

	files, err := ListInputs(paths, opts.Exclude)
	if err != nil {
		return nil, err
	}

	// FileSet is not safe for concurrent writes, so loading stays serial.
	_, loadSpan := trace.Start(ctx, trace.ScopeStage, "load")
	fileSet := source.NewFileSet()
	ids := make([]source.FileID, len(files))
	loadErrors := make(map[int]error)
	for i, path := range files {
		opts.Observer.emit(Event{Path: path, Status: FileQueued})
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[i] = err
			continue
		}
		ids[i] = id
	}
	loadSpan.End("")

	result := &Result{FileSet: fileSet, Files: make([]FileResult, len(files))}
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			// Indices are unique per goroutine; no lock needed.
			if loadErr, failed := loadErrors[i]; failed {
				bag := diag.NewBag(opts.MaxDiagnostics)
				bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load file: "+loadErr.Error()))
				result.Files[i] = FileResult{Path: path, Bag: bag}
				opts.Observer.emit(Event{Path: path, Status: FileDone, Failed: true})
				return nil
			}

			opts.Observer.emit(Event{Path: path, Status: FileStarted})
			start := time.Now()
			res, err := AnalyzeFile(gctx, fileSet, ids[i], opts)
			if err != nil {
				return err
			}
			result.Files[i] = res
			opts.Observer.emit(Event{
				Path:     path,
				Status:   FileDone,
				Elapsed:  time.Since(start),
				CacheHit: res.CacheHit,
				Failed:   res.Failed(),
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}
