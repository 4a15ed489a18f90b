package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"estscope/internal/estree"
	"estscope/internal/jsparse"
	"estscope/internal/source"
)

// ErrUnknownKind is returned for an explicitly named file whose extension
// is neither ESTree JSON nor JavaScript.
var ErrUnknownKind = errors.New("unrecognized input kind")

// ListInputs expands paths into a sorted, duplicate-free file list.
// Directories are walked for known kinds; exclude may be nil.
func ListInputs(paths []string, exclude func(string) bool) ([]string, error) {
	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			if source.KindOf(root) == source.KindUnknown {
				return nil, fmt.Errorf("%s: %w", root, ErrUnknownKind)
			}
			files = append(files, root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if exclude != nil && path != root && exclude(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if name := d.Name(); path != root && (name == "node_modules" || name[0] == '.') {
					return filepath.SkipDir
				}
				return nil
			}
			if source.KindOf(path) != source.KindUnknown {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	// Deterministic order for output and cache keys.
	slices.Sort(files)
	return slices.Compact(files), nil
}

// parse turns a loaded file into an ESTree Program.
func parse(ctx context.Context, f *source.File, sourceType string) (*estree.Node, error) {
	switch f.Kind {
	case source.KindESTree:
		return estree.DecodeBytes(f.Content, f.ID)
	case source.KindScript:
		return jsparse.New(jsparse.WithSourceType(sourceType)).Parse(ctx, f.Content, f.ID)
	default:
		return nil, fmt.Errorf("%s: %w", f.Path, ErrUnknownKind)
	}
}
