package scope

import (
	"fmt"

	"fortio.org/safecast"
)

// arena stores records densely; index 0 is reserved so the zero handle
// means "none". Handles are the per-manager identities of scopes,
// variables and references.
type arena[T any, ID ~uint32] struct {
	what string
	data []T
}

func newArena[T any, ID ~uint32](what string, capacity uint) arena[T, ID] {
	return arena[T, ID]{what: what, data: make([]T, 1, capacity+1)}
}

// add stores v and returns its handle. Pointers from get are invalidated.
func (a *arena[T, ID]) add(v T) ID {
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("%s arena overflow: %w", a.what, err))
	}
	a.data = append(a.data, v)
	return ID(n)
}

func (a *arena[T, ID]) get(id ID) *T {
	if id == 0 || int(id) >= len(a.data) {
		return nil
	}
	return &a.data[id]
}

func (a *arena[T, ID]) len() int {
	return len(a.data) - 1
}

// ids lists every handle in allocation order.
func (a *arena[T, ID]) ids() []ID {
	out := make([]ID, 0, a.len())
	for i := 1; i < len(a.data); i++ {
		out = append(out, ID(i)) // #nosec G115 -- bounded by add
	}
	return out
}
