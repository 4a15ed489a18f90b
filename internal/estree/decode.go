package estree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"fortio.org/safecast"

	"estscope/internal/source"
)

// ErrNotProgram is returned when the decoded root is not a Program node.
var ErrNotProgram = errors.New("estree: root node is not a Program")

// Decode reads one ESTree JSON document. Object keys keep their order so
// that unknown node types can still be traversed in producer order. Spans
// come from "range" when present, otherwise from "start"/"end".
func Decode(r io.Reader, file source.FileID) (*Node, error) {
	dec := json.NewDecoder(r)
	d := decoder{dec: dec, file: file}
	v, err := d.value()
	if err != nil {
		return nil, fmt.Errorf("estree: %w", err)
	}
	root, ok := v.(*Node)
	if !ok || root.Type != Program {
		return nil, ErrNotProgram
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("estree: trailing data after program")
	}
	return root, nil
}

// DecodeBytes is Decode over an in-memory document.
func DecodeBytes(data []byte, file source.FileID) (*Node, error) {
	return Decode(bytes.NewReader(data), file)
}

type decoder struct {
	dec  *json.Decoder
	file source.FileID
}

type rawField struct {
	key   string
	value any
}

func (d *decoder) value() (any, error) {
	tok, err := d.dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return d.object()
		case '[':
			return d.array()
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t)
	default:
		return t, nil
	}
}

func (d *decoder) object() (any, error) {
	var fields []rawField
	for d.dec.More() {
		tok, err := d.dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is %T", tok)
		}
		v, err := d.value()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		fields = append(fields, rawField{key: key, value: v})
	}
	if _, err := d.dec.Token(); err != nil {
		return nil, err
	}

	typ := ""
	for _, f := range fields {
		if f.key == "type" {
			typ, _ = f.value.(string)
			break
		}
	}
	if typ == "" {
		m := make(map[string]any, len(fields))
		for _, f := range fields {
			m[f.key] = f.value
		}
		return m, nil
	}
	return d.node(typ, fields)
}

func (d *decoder) array() (any, error) {
	var items []any
	for d.dec.More() {
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	if _, err := d.dec.Token(); err != nil {
		return nil, err
	}
	return items, nil
}

func (d *decoder) node(typ string, fields []rawField) (*Node, error) {
	n := NewNode(typ, source.Span{File: d.file})
	var haveRange bool
	for _, f := range fields {
		switch f.key {
		case "type", "loc":
			continue
		case "range":
			start, end, err := rangeOf(f.value)
			if err != nil {
				return nil, fmt.Errorf("%s.range: %w", typ, err)
			}
			n.Span.Start, n.Span.End = start, end
			haveRange = true
			continue
		case "start", "end":
			if off, ok := offset(f.value); ok {
				if !haveRange {
					if f.key == "start" {
						n.Span.Start = off
					} else {
						n.Span.End = off
					}
				}
				continue
			}
		}
		switch v := f.value.(type) {
		case *Node:
			n.SetChild(f.key, v)
		case []any:
			if list, ok := nodeList(v); ok {
				n.SetList(f.key, list)
			} else {
				n.SetScalar(f.key, v)
			}
		default:
			n.SetScalar(f.key, v)
		}
	}
	return n, nil
}

// nodeList accepts arrays whose entries are all nodes or nulls.
func nodeList(items []any) ([]*Node, bool) {
	list := make([]*Node, 0, len(items))
	for _, it := range items {
		switch x := it.(type) {
		case *Node:
			list = append(list, x)
		case nil:
			list = append(list, nil)
		default:
			return nil, false
		}
	}
	if len(items) > 0 && allNil(list) {
		return nil, false
	}
	return list, true
}

func allNil(list []*Node) bool {
	for _, n := range list {
		if n != nil {
			return false
		}
	}
	return true
}

func rangeOf(v any) (uint32, uint32, error) {
	items, ok := v.([]any)
	if !ok || len(items) != 2 {
		return 0, 0, fmt.Errorf("want a two-element array")
	}
	start, ok1 := offset(items[0])
	end, ok2 := offset(items[1])
	if !ok1 || !ok2 || end < start {
		return 0, 0, fmt.Errorf("invalid offsets %v", items)
	}
	return start, end, nil
}

func offset(v any) (uint32, bool) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	off, err := safecast.Conv[uint32](int64(f))
	if err != nil {
		return 0, false
	}
	return off, true
}
