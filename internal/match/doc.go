// Package match ranks known names against a misspelled one so that
// diagnostics can say "did you mean ...".
//
// Names are normalized (CamelCase split, case folded, separators dropped)
// before the edit distance is taken, so "user_roles", "UserRoles" and
// "userRoles" all compare equal.
package match
