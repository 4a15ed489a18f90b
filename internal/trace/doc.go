// Package trace is the structured event log of the analyzer.
//
// Events are spans (begin/end pairs) and points, tagged with a Scope that
// says how coarse they are. A Level filters scopes:
//
//   - LevelPhase: driver and stage boundaries (load, parse, analyze, lint)
//   - LevelDetail: per-file spans
//   - LevelDebug: scope nesting and closing inside the referencer
//
// Enable it from the CLI:
//
//	estscope analyze --trace=- --trace-level=detail src/
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeStage, "analyze", 0)
//	defer span.End("")
package trace
