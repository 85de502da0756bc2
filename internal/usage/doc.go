// Package usage holds the per-entity usage records produced by an analysis.
//
// A Store maps entity names to Records. A record exists only once its entity
// was seen, and existence alone implies SELECT. Write flags are monotonic:
// they are only ever switched on, never off. The Store is a plain value owned
// by one analysis; nothing in this package is global.
package usage
