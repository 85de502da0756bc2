// Package analyze provides the syntax-tree and type information the usage
// analysis runs over.
//
// It uses golang.org/x/tools/go/packages with AST and go/types to load a
// project into a Project: the parsed files of every package together with
// their types.Info, plus a declaration index answering "where is this named
// type declared". CheckSource builds the same Project from in-memory sources.
//
// Key types:
//   - TypeID: package import path + type name
//   - SourceFile: one parsed, type-checked file
//   - Project: the file forest and the declaration oracle
//
// Discover derives an entity registry from struct declarations.
package analyze
