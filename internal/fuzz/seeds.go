package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10

var scriptSeeds = []string{
	"",
	"var x = 1;\nfunction f(a) { return a + y; }\n",
	"let a = 1; { let a = 2; a++; } a;",
	"for (let i = 0; i < 3; i++) { setTimeout(() => i); }",
	"try { f(); } catch ({ message }) { log(message); }",
	"with (o) { x = y; }",
	"class A extends B { #p = 1; m() { return this.#p + A; } static { A.n = 0; } }",
	"const { a, b: [c, ...d] = [], ...e } = obj;",
	"label: for (const k in o) { if (k) continue label; }",
	"(function () { 'use strict'; eval('x'); arguments; })();",
	"switch (v) { case 1: let z = v; break; default: z; }",
	"x = 1; y += x; [p, q] = [q, p];",
	"if (",
}

var moduleSeeds = []string{
	"import a, { b as c } from 'm';\nexport const d = a + c;\n",
	"import * as ns from 'm'; export default function () { return ns; }",
	"export { x as y }; var x;",
	"const el = <Foo bar={baz}><a.b /></Foo>;",
	"/** @jsx h */\nconst el = <div>{h}</div>;",
	"export default class {}",
}

// addCorpusSeeds registers snippets in each source type plus any *.js or
// *.json files under the repository testdata directory.
func addCorpusSeeds(f *testing.F) {
	for _, s := range scriptSeeds {
		f.Add([]byte(s), false)
	}
	for _, s := range moduleSeeds {
		f.Add([]byte(s), true)
	}
	addTestdataSeeds(f, ".js")
}

func addTestdataSeeds(f *testing.F, exts ...string) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		for _, ext := range exts {
			if filepath.Ext(path) != ext {
				continue
			}
			// #nosec G304 -- path comes from repository testdata walk
			src, err := os.ReadFile(path)
			if err == nil {
				f.Add(clampSeed(src), true)
			}
		}
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
