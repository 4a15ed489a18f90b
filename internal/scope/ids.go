package scope

// ScopeID addresses a scope inside its manager's arena.
type ScopeID uint32

// VariableID addresses a variable inside its manager's arena.
type VariableID uint32

// ReferenceID addresses a reference inside its manager's arena.
type ReferenceID uint32

const (
	NoScopeID     ScopeID     = 0
	NoVariableID  VariableID  = 0
	NoReferenceID ReferenceID = 0
)

func (id ScopeID) IsValid() bool { return id != NoScopeID }

func (id VariableID) IsValid() bool { return id != NoVariableID }

func (id ReferenceID) IsValid() bool { return id != NoReferenceID }
