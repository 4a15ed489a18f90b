// Package testkit holds assertions shared by tests of tree producers.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"estscope/internal/estree"
	"estscope/internal/source"
)

// CheckSpanInvariants verifies a converted tree against its source file:
//  1. the root span is non-empty, points at sf and lies within the content
//  2. every non-empty child span points at sf and nests inside its parent
//  3. siblings in a list do not overlap and appear in source order
func CheckSpanInvariants(root *estree.Node, sf *source.File) error {
	if root == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	if root.Span.End <= root.Span.Start {
		return fmt.Errorf("root span is empty: %v", root.Span)
	}
	if root.Span.File != sf.ID {
		return fmt.Errorf("root span points to different file id: got=%d want=%d", root.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if root.Span.End > lenContent {
		return fmt.Errorf("root span end beyond content: %d > %d", root.Span.End, lenContent)
	}
	return checkNode(root, sf.ID)
}

func checkNode(n *estree.Node, file source.FileID) error {
	for _, f := range n.Fields() {
		var kids []*estree.Node
		switch f.Kind {
		case estree.FieldNode:
			kids = []*estree.Node{f.Node}
		case estree.FieldList:
			kids = f.List
		default:
			continue
		}
		var prev *estree.Node
		for _, c := range kids {
			if c == nil || c.Span.Empty() {
				continue
			}
			if c.Span.File != file {
				return fmt.Errorf("%s.%s: span file mismatch: got=%d want=%d", n.Type, f.Key, c.Span.File, file)
			}
			if !n.Span.Contains(c.Span) {
				return fmt.Errorf("%s.%s: %s span %v is outside %v", n.Type, f.Key, c.Type, c.Span, n.Span)
			}
			if prev != nil && c.Span.Start < prev.Span.End {
				return fmt.Errorf("%s.%s: %s span %v overlaps %v", n.Type, f.Key, c.Type, c.Span, prev.Span)
			}
			prev = c
			if err := checkNode(c, file); err != nil {
				return err
			}
		}
	}
	return nil
}
