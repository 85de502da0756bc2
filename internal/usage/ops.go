package usage

import "strings"

// Ops is a set of write operations. Reads are implied by a record's existence
// and are never part of a set.
type Ops uint8

const (
	OpInsert Ops = 1 << iota
	OpUpdate
	OpDelete
)

// OpWrite is every write operation at once.
const OpWrite = OpInsert | OpUpdate | OpDelete

// Has reports whether every operation in o is in ops.
func (ops Ops) Has(o Ops) bool {
	return ops&o == o
}

// String renders the set as "INSERT|UPDATE", or "NONE" when empty.
func (ops Ops) String() string {
	if ops == 0 {
		return "NONE"
	}

	var parts []string
	if ops.Has(OpInsert) {
		parts = append(parts, "INSERT")
	}

	if ops.Has(OpUpdate) {
		parts = append(parts, "UPDATE")
	}

	if ops.Has(OpDelete) {
		parts = append(parts, "DELETE")
	}

	return strings.Join(parts, "|")
}
