package driver

import (
	"context"
	"errors"
	"fmt"

	"estscope/internal/diag"
	"estscope/internal/estree"
	"estscope/internal/jsparse"
	"estscope/internal/lint"
	"estscope/internal/observ"
	"estscope/internal/project"
	"estscope/internal/referencer"
	"estscope/internal/scope"
	"estscope/internal/source"
	"estscope/internal/trace"
)

// Options configures a driver run.
type Options struct {
	Analyzer project.AnalyzerConfig
	// Lint runs the lint rules when non-nil. Linting needs the live
	// manager, so the cache is bypassed.
	Lint *lint.Config
	// KeepTree retains the Program and Manager in each FileResult.
	KeepTree       bool
	Cache          *Cache
	Jobs           int
	MaxDiagnostics int
	// Exclude filters directory walks.
	Exclude  func(path string) bool
	Observer Observer
	// Timings attaches a per-file phase report diagnostic.
	Timings bool
}

// FileResult is the outcome for one input.
type FileResult struct {
	Path     string
	FileID   source.FileID
	Program  *estree.Node
	Manager  *scope.Manager
	Snapshot *scope.Snapshot
	Bag      *diag.Bag
	CacheHit bool
	Timing   observ.Report
}

// Summary counts the parts of a snapshot.
type Summary struct {
	Scopes     int
	Variables  int
	References int
	// Through counts references the global scope could not resolve.
	Through int
}

func (r *FileResult) Summary() Summary {
	if r == nil || r.Snapshot == nil {
		return Summary{}
	}
	s := Summary{
		Scopes:     len(r.Snapshot.Scopes),
		Variables:  len(r.Snapshot.Variables),
		References: len(r.Snapshot.References),
	}
	if len(r.Snapshot.Scopes) > 0 {
		s.Through = len(r.Snapshot.Scopes[0].Through)
	}
	return s
}

func (r *FileResult) Failed() bool {
	return r.Snapshot == nil || (r.Bag != nil && r.Bag.HasErrors())
}

// AnalyzeFile runs load-time parsing, analysis and optional lint for one
// file already present in fileSet. Problems with the input land in the
// result's Bag; the returned error is reserved for cancellation.
func AnalyzeFile(ctx context.Context, fileSet *source.FileSet, id source.FileID, opts Options) (res FileResult, err error) {
	f := fileSet.Get(id)
	if f == nil {
		return FileResult{}, fmt.Errorf("unknown file id %d", id)
	}
	res = FileResult{Path: f.Path, FileID: id, Bag: diag.NewBag(opts.MaxDiagnostics)}
	timer := observ.NewTimer()
	defer func() {
		res.Timing = timer.Report()
		if opts.Timings {
			appendTimingDiagnostic(res.Bag, timingPayload{Kind: "file", Path: f.Path, Report: res.Timing})
		}
	}()

	ctx, span := trace.Start(ctx, trace.ScopeFile, "analyze_file")
	defer func() {
		span.WithExtra("path", f.Path)
		if res.Snapshot != nil {
			span.WithCount("scopes", len(res.Snapshot.Scopes)).
				WithCount("variables", len(res.Snapshot.Variables)).
				WithCount("references", len(res.Snapshot.References))
		}
		detail := ""
		if res.CacheHit {
			detail = "cache hit"
		}
		span.End(detail)
	}()

	useCache := opts.Cache != nil && opts.Lint == nil && !opts.KeepTree
	var key project.Digest
	if useCache {
		key = Key(f.Content, opts.Analyzer)
		stop := stage(ctx, timer, "cache")
		payload, ok, err := opts.Cache.Get(key)
		stop()
		if err != nil {
			res.Bag.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.Span{File: id}, "cache read failed: "+err.Error()))
		}
		if ok {
			res.Snapshot = payload.Snapshot
			res.CacheHit = true
			return res, nil
		}
	}

	stop := stage(ctx, timer, "parse")
	program, err := parse(ctx, f, opts.Analyzer.SourceType)
	stop()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}
		res.Bag.Add(diag.NewError(parseCode(err), source.Span{File: id}, err.Error()))
		return res, nil
	}

	stop = stage(ctx, timer, "analyze")
	ropts := opts.Analyzer.Options()
	ropts.Tracer = trace.FromContext(ctx)
	m, err := referencer.Analyze(program, ropts)
	stop()
	if err != nil {
		res.Bag.Add(diag.NewError(analyzeCode(err), program.Span, err.Error()))
		return res, nil
	}
	res.Snapshot = m.Snapshot()
	if opts.KeepTree || opts.Lint != nil {
		res.Program = program
		res.Manager = m
	}

	if opts.Lint != nil {
		stop = stage(ctx, timer, "lint")
		lint.Run(m, program, *opts.Lint, diag.NewDedupReporter(diag.NewBagReporter(res.Bag)))
		stop()
		res.Bag.Sort()
	}

	if useCache {
		stop = stage(ctx, timer, "cache")
		err := opts.Cache.Put(key, &CachePayload{Path: f.Path, Content: project.DigestOf(f.Content), Snapshot: res.Snapshot})
		stop()
		if err != nil {
			res.Bag.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.Span{File: id}, "cache write failed: "+err.Error()))
		}
	}
	return res, nil
}

// stage times one step and wraps it in a trace span.
func stage(ctx context.Context, timer *observ.Timer, name string) func() {
	_, span := trace.Start(ctx, trace.ScopeStage, name)
	done := timer.Begin(name)
	return func() {
		done("")
		span.End("")
	}
}

func parseCode(err error) diag.Code {
	if errors.Is(err, jsparse.ErrUnsupported) {
		return diag.SynUnsupported
	}
	return diag.SynParseError
}

func analyzeCode(err error) diag.Code {
	switch {
	case errors.Is(err, referencer.ErrImportOutsideModule):
		return diag.SynImportInScript
	case errors.Is(err, referencer.ErrComponentSyntaxDisabled):
		return diag.SynComponentDisabled
	case errors.Is(err, referencer.ErrNotProgram):
		return diag.SynNotProgram
	default:
		return diag.SynParseError
	}
}
