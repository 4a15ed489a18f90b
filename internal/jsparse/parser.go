// Package jsparse turns JavaScript source text into estree nodes using the
// tree-sitter JavaScript grammar. It covers the ECMAScript and JSX syntax
// the analyzer consumes; Flow annotations need an ESTree JSON producer.
package jsparse

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"estscope/internal/estree"
	"estscope/internal/source"
)

var (
	ErrFileTooLarge   = errors.New("source file too large")
	ErrInvalidContent = errors.New("source is not valid UTF-8")
	ErrSyntax         = errors.New("syntax error")
	ErrUnsupported    = errors.New("unsupported syntax")
)

// Options configures a Parser.
type Options struct {
	// MaxFileSize is the largest input accepted, in bytes.
	MaxFileSize int
	// SourceType forces "script" or "module". Empty detects modules by
	// top-level import and export statements.
	SourceType string
}

func DefaultOptions() Options {
	return Options{MaxFileSize: 10 * 1024 * 1024}
}

// Option is a functional option for New.
type Option func(*Options)

func WithMaxFileSize(size int) Option {
	return func(o *Options) {
		o.MaxFileSize = size
	}
}

func WithSourceType(st string) Option {
	return func(o *Options) {
		o.SourceType = st
	}
}

// Parser is safe for concurrent use; every Parse call owns its own
// tree-sitter parser.
type Parser struct {
	opts Options
}

func New(opts ...Option) *Parser {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Parser{opts: o}
}

// Extensions lists the file suffixes this parser reads.
func (p *Parser) Extensions() []string {
	return []string{".js", ".mjs", ".cjs", ".jsx"}
}

// Parse converts content into a Program node whose spans are byte offsets
// into content, tagged with file.
//
// Inputs:
//
//	ctx     - checked before and after the tree-sitter pass.
//	content - UTF-8 source text.
//	file    - the FileID stamped on every span.
//
// A source with tree-sitter error nodes fails with ErrSyntax; a valid
// construct the converter does not know fails with ErrUnsupported.
func (p *Parser) Parse(ctx context.Context, content []byte, file source.FileID) (*estree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("javascript parse canceled before start: %w", err)
	}
	if p.opts.MaxFileSize > 0 && len(content) > p.opts.MaxFileSize {
		return nil, ErrFileTooLarge
	}
	if !utf8.Valid(content) {
		return nil, ErrInvalidContent
	}

	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("javascript parse canceled after tree-sitter: %w", err)
	}

	root := tree.RootNode()
	if root.HasError() {
		bad := firstError(root)
		pt := bad.StartPoint()
		return nil, fmt.Errorf("%w at %d:%d", ErrSyntax, pt.Row+1, pt.Column+1)
	}

	c := &converter{src: content, file: file, sourceType: p.opts.SourceType}
	program := c.program(root)
	if len(c.errs) > 0 {
		return nil, errors.Join(c.errs...)
	}
	return program, nil
}

// firstError finds the leftmost ERROR or MISSING node under n.
func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.HasError() || child.IsMissing() {
			return firstError(child)
		}
	}
	return n
}
