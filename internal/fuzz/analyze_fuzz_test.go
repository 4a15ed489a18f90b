package fuzztests

import (
	"context"
	"testing"
	"time"

	"estscope/internal/estree"
	"estscope/internal/jsparse"
	"estscope/internal/referencer"
	"estscope/internal/scope"
	"estscope/internal/source"
)

const (
	maxFuzzInput = 1 << 16
	// analyzeTimeout bounds one parse plus analysis; exceeding it means a
	// loop that never terminates.
	analyzeTimeout = 5 * time.Second
)

func clamp(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}

func FuzzParseAnalyze(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte, module bool) {
		input = clamp(input)
		st := scope.SourceScript
		if module {
			st = scope.SourceModule
		}
		ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
		defer cancel()

		done := make(chan error, 1)
		go func() {
			fs := source.NewFileSet()
			id := fs.AddVirtual("fuzz.js", input)
			program, err := jsparse.New(jsparse.WithSourceType(string(st))).Parse(ctx, input, id)
			if err != nil {
				done <- nil
				return
			}
			m, err := referencer.Analyze(program, referencer.Options{
				SourceType:                        st,
				EnableExperimentalComponentSyntax: true,
			})
			if err != nil {
				done <- nil
				return
			}
			done <- m.Validate()
		}()

		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("invalid scope tree: %v\ninput: %q", err, truncateForLog(input, 200))
			}
		case <-ctx.Done():
			t.Fatalf("analysis hang: took longer than %v\ninput (%d bytes): %q",
				analyzeTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

func FuzzDecodeAnalyze(f *testing.F) {
	f.Add([]byte(`{"type":"Program","sourceType":"script","body":[]}`))
	f.Add([]byte(`{"type":"Program","sourceType":"module","range":[0,10],"body":[` +
		`{"type":"VariableDeclaration","kind":"let","declarations":[` +
		`{"type":"VariableDeclarator","id":{"type":"Identifier","name":"a"},"init":{"type":"Identifier","name":"b"}}]}]}`))
	f.Add([]byte(`{"type":"Program","body":[{"type":"ExpressionStatement","expression":` +
		`{"type":"AssignmentExpression","operator":"=","left":{"type":"Identifier","name":"x"},"right":{"type":"Literal","value":1}}}]}`))
	f.Add([]byte(`{"type":"Identifier","name":"x"}`))
	f.Add([]byte(`[`))
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input)
		program, err := estree.DecodeBytes(input, 1)
		if err != nil {
			return
		}
		m, err := referencer.Analyze(program, referencer.Options{EnableExperimentalComponentSyntax: true})
		if err != nil {
			return
		}
		if err := m.Validate(); err != nil {
			t.Fatalf("invalid scope tree: %v\ninput: %q", err, truncateForLog(input, 200))
		}
	})
}

func truncateForLog(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
