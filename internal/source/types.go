package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual marks content added from memory (tests, stdin).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// FileKind tells the driver how to turn file content into a syntax tree.
type FileKind uint8

const (
	// KindUnknown files are skipped by directory walks.
	KindUnknown FileKind = iota
	// KindESTree files hold a serialized ESTree Program (JSON).
	KindESTree
	// KindScript files hold JavaScript source text.
	KindScript
)

func (k FileKind) String() string {
	switch k {
	case KindESTree:
		return "estree"
	case KindScript:
		return "script"
	default:
		return "unknown"
	}
}

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Kind    FileKind
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
