// Package registry describes the persistence entities ("models") whose usage
// is inferred: their table names and declared associations.
//
// A Registry is immutable once built. It is loaded from a YAML document
// (LoadFile/Parse), assembled programmatically (New), or discovered from Go
// source (see analyze.Discover).
//
// Example document:
//
//	version: "1"
//	entities:
//	  - name: User
//	    table: users
//	    associations:
//	      - name: Roles
//	        kind: many-to-many
//	        target: Role
//	        through: UserRole
//	  - name: Role
//	  - name: UserRole
package registry
