// Package scan walks a loaded project and records, per registered entity,
// which CRUD operations the code performs on it.
//
// Three kinds of evidence are collected:
//
//   - a reference to an entity type through a (filtered) import makes the
//     entity read: store.Customer anywhere in a file.
//   - a direct write method called on an entity receiver: c.Save(ctx).
//   - an association mixin called on an entity receiver:
//     p.AddAssoc("Tags", tag), which writes the association target or the
//     join entity behind it.
//
// After the walk, join entities that code never names inherit the write
// flags of the association targets they link (see usage.Complete).
package scan
