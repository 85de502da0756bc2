// Package main provides the model-usage CLI.
//
// model-usage statically infers which tables a Go code base reads and writes
// through its ORM models and turns that into least-privilege grants:
//   - analyze: infer per-entity usage and write a snapshot
//   - grants: print or apply GRANT statements for a snapshot or a fresh analysis
//   - discover: derive an entity registry from model struct declarations
//   - merge: combine snapshots of several repositories
package main

func main() {
	Execute()
}
