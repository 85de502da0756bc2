// Package resolve maps the receiver of a method call to the registered
// entity it stands for.
//
// Strategies are tried in order and the first success wins:
//
//   - literal: the receiver names an entity type (method expressions such as
//     (*store.Customer).Save).
//   - static-type: the receiver's static type is an entity type.
//   - generic-view: the static type is a generic instance whose type
//     arguments include an entity (*store.Table[store.Customer]).
//   - heritage: the static type embeds an entity, either by name, through
//     written type arguments, or through an alias of a generic instance.
//
// Each strategy looks at most one wrapper level deep.
package resolve
