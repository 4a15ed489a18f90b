// Package fuzztests houses Go fuzz harnesses for the front of the analysis
// pipeline: source text through the tree-sitter parser and ESTree JSON
// through the decoder, each followed by scope analysis and validation.
// Inputs must never panic, hang, or produce a scope tree that fails
// Manager.Validate.
package fuzztests
